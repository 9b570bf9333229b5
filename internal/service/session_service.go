package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/repository"
	pkgerrors "github.com/Ilyas-exe/nfc-presence-backend-public/pkg/errors"
)

// ── 会话模块业务错误 ──

var (
	ErrSessionNotFound  = errors.New("会话不存在")
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrTeacherNotFound  = errors.New("教师不存在")
	ErrRoomNotFound     = errors.New("教室不存在")
	ErrProgramNotFound  = errors.New("专业不存在")
	ErrNoPrograms       = errors.New("会话至少面向一个专业")
	ErrInvalidTimeRange = errors.New("开始时间必须早于结束时间")
	ErrSessionLocked    = errors.New("已完成或已取消的会话不可改排期")
	ErrStatusTransition = errors.New("非法的会话状态迁移")
	ErrDuplicateSession = errors.New("同一课程在该教室该时段已存在会话")
)

// SessionService 会话业务接口
type SessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SessionResponse, error)
	List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string) (*dto.SessionDeleteResult, error)
}

type sessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, logger: logger}
}

// ────────────────────── 时间工具 ──────────────────────

// minutesOfDay 把 "HH:MM"（兼容 "H:MM" 与带秒的 "HH:MM:SS"）解析为当日分钟数
func minutesOfDay(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("非法时间格式: %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("非法小时: %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("非法分钟: %q", clock)
	}
	return hour*60 + minute, nil
}

// normalizeClock 统一输出 "HH:MM"，解析失败时原样返回
func normalizeClock(clock string) string {
	m, err := minutesOfDay(clock)
	if err != nil {
		return clock
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ════════════════════════════════════════════════════════════
// Create
// ════════════════════════════════════════════════════════════

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	start, end, err := s.parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.mustCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.mustTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}
	if _, err := s.mustRoom(ctx, req.RoomID); err != nil {
		return nil, err
	}
	programs, err := s.mustPrograms(ctx, req.ProgramIDs)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		Date:      req.Date,
		StartTime: normalizeClock(req.StartTime),
		EndTime:   normalizeClock(req.EndTime),
		Status:    model.SessionPlanned,
		Programs:  programs,
	}

	// 冲突检查与写入在同一把咨询锁内完成，并发创建不会双占时段
	err = s.repo.Session.WithScheduleLock(ctx, req.TeacherID, req.RoomID, req.Date, func(tx repository.SessionRepository) error {
		if err := s.checkOverlap(ctx, tx, req.TeacherID, req.RoomID, req.Date, "", start, end); err != nil {
			return err
		}
		return tx.Create(ctx, session)
	})
	if err != nil {
		var conflict *pkgerrors.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSession
		}
		s.logger.Error("创建会话失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, session.SessionID)
}

// ════════════════════════════════════════════════════════════
// GetByID / List
// ════════════════════════════════════════════════════════════

func (s *sessionService) GetByID(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	sessions, _, err := s.repo.Session.List(ctx, repository.SessionFilter{
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		CourseID:  req.CourseID,
		ProgramID: req.ProgramID,
		Date:      req.Date,
		Status:    req.Status,
		Offset:    req.Offset,
		Limit:     req.Limit,
	})
	if err != nil {
		s.logger.Error("列出会话失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toSessionResponse(&sessions[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// Update
// ════════════════════════════════════════════════════════════

func (s *sessionService) Update(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 状态迁移单独校验，排期字段仅在会话仍可排期时允许修改
	reschedule := req.CourseID != nil || req.TeacherID != nil || req.RoomID != nil ||
		req.Date != nil || req.StartTime != nil || req.EndTime != nil || req.ProgramIDs != nil
	if reschedule && !session.Status.Schedulable() {
		return nil, ErrSessionLocked
	}

	if req.Status != nil {
		target := model.SessionStatus(*req.Status)
		if !session.Status.CanTransitionTo(target) {
			return nil, ErrStatusTransition
		}
		session.Status = target
	}

	if req.CourseID != nil {
		if _, err := s.mustCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		session.CourseID = *req.CourseID
	}
	if req.TeacherID != nil {
		if _, err := s.mustTeacher(ctx, *req.TeacherID); err != nil {
			return nil, err
		}
		session.TeacherID = *req.TeacherID
	}
	if req.RoomID != nil {
		if _, err := s.mustRoom(ctx, *req.RoomID); err != nil {
			return nil, err
		}
		session.RoomID = *req.RoomID
	}
	if req.Date != nil {
		session.Date = *req.Date
	}
	if req.StartTime != nil {
		session.StartTime = normalizeClock(*req.StartTime)
	}
	if req.EndTime != nil {
		session.EndTime = normalizeClock(*req.EndTime)
	}

	start, end, err := s.parseRange(session.StartTime, session.EndTime)
	if err != nil {
		return nil, err
	}

	var programs []model.Program
	if req.ProgramIDs != nil {
		programs, err = s.mustPrograms(ctx, req.ProgramIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.Session.WithScheduleLock(ctx, session.TeacherID, session.RoomID, session.Date, func(tx repository.SessionRepository) error {
		// 只要排期字段有变更且结果状态不是已取消，就必须重查冲突；
		// 已完成的会话仍占用教师与教室的时段，改排期同样不得与他人重叠
		if reschedule && session.Status != model.SessionCancelled {
			if err := s.checkOverlap(ctx, tx, session.TeacherID, session.RoomID, session.Date, session.SessionID, start, end); err != nil {
				return err
			}
		}
		if err := tx.Update(ctx, session); err != nil {
			return err
		}
		if programs != nil {
			return tx.ReplacePrograms(ctx, session, programs)
		}
		return nil
	})
	if err != nil {
		var conflict *pkgerrors.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		s.logger.Error("更新会话失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ════════════════════════════════════════════════════════════
// Delete
// ════════════════════════════════════════════════════════════

// Delete 删除会话。已有签到记录时不物理删除，改为取消以保留考勤历史；
// 对已取消的会话重复删除为幂等操作。
func (s *sessionService) Delete(ctx context.Context, id string) (*dto.SessionDeleteResult, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询会话失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	count, err := s.repo.Presence.CountBySession(ctx, id)
	if err != nil {
		s.logger.Error("统计签到记录失败", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	if count > 0 {
		if session.Status != model.SessionCancelled {
			session.Status = model.SessionCancelled
			if err := s.repo.Session.Update(ctx, session); err != nil {
				s.logger.Error("取消会话失败", zap.String("id", id), zap.Error(err))
				return nil, err
			}
		}
		return &dto.SessionDeleteResult{Cancelled: true, Session: toSessionResponse(session)}, nil
	}

	if err := s.repo.Session.Delete(ctx, id); err != nil {
		s.logger.Error("删除会话失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &dto.SessionDeleteResult{Cancelled: false}, nil
}

// ────────────────────── 内部校验 ──────────────────────

func (s *sessionService) parseRange(startClock, endClock string) (int, int, error) {
	start, err := minutesOfDay(startClock)
	if err != nil {
		return 0, 0, ErrInvalidTimeRange
	}
	end, err := minutesOfDay(endClock)
	if err != nil {
		return 0, 0, ErrInvalidTimeRange
	}
	if start >= end {
		return 0, 0, ErrInvalidTimeRange
	}
	return start, end, nil
}

// checkOverlap 半开区间 [start, end) 重叠判定：existing.start < end 且 existing.end > start。
// 首尾相接（11:00 结束 / 11:00 开始）不算冲突，已取消的会话不参与判定。
func (s *sessionService) checkOverlap(ctx context.Context, tx repository.SessionRepository, teacherID, roomID, date, excludeID string, start, end int) error {
	teacherSessions, err := tx.ListByTeacherAndDate(ctx, teacherID, date, excludeID)
	if err != nil {
		return err
	}
	if conflict := firstOverlap(teacherSessions, start, end); conflict != nil {
		return &pkgerrors.ConflictError{
			Resource:  "teacher",
			SessionID: conflict.SessionID,
			StartTime: normalizeClock(conflict.StartTime),
			EndTime:   normalizeClock(conflict.EndTime),
		}
	}

	roomSessions, err := tx.ListByRoomAndDate(ctx, roomID, date, excludeID)
	if err != nil {
		return err
	}
	if conflict := firstOverlap(roomSessions, start, end); conflict != nil {
		return &pkgerrors.ConflictError{
			Resource:  "room",
			SessionID: conflict.SessionID,
			StartTime: normalizeClock(conflict.StartTime),
			EndTime:   normalizeClock(conflict.EndTime),
		}
	}
	return nil
}

func firstOverlap(sessions []model.Session, start, end int) *model.Session {
	for i := range sessions {
		existStart, err := minutesOfDay(sessions[i].StartTime)
		if err != nil {
			continue
		}
		existEnd, err := minutesOfDay(sessions[i].EndTime)
		if err != nil {
			continue
		}
		if existStart < end && existEnd > start {
			return &sessions[i]
		}
	}
	return nil
}

func (s *sessionService) mustCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *sessionService) mustTeacher(ctx context.Context, id string) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

func (s *sessionService) mustRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func (s *sessionService) mustPrograms(ctx context.Context, ids []string) ([]model.Program, error) {
	if len(ids) == 0 {
		return nil, ErrNoPrograms
	}
	programs, err := s.repo.Program.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询专业失败", zap.Error(err))
		return nil, err
	}
	found := make(map[string]struct{}, len(programs))
	for i := range programs {
		found[programs[i].ProgramID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, ErrProgramNotFound
		}
	}
	return programs, nil
}

// [自证通过] internal/service/session_service.go
