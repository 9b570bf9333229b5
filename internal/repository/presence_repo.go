package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
)

// PresenceRepository 到课记录数据访问接口
type PresenceRepository interface {
	Create(ctx context.Context, presence *model.Presence) error
	GetByID(ctx context.Context, id string) (*model.Presence, error)
	GetByStudentAndSession(ctx context.Context, studentID, sessionID string) (*model.Presence, error)
	Update(ctx context.Context, presence *model.Presence) error
	DecidePending(ctx context.Context, presenceID string, status model.ApprovalStatus, approverID string, decidedAt time.Time) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.Presence, error)
	ListPendingByTeacher(ctx context.Context, teacherID string) ([]model.Presence, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

type presenceRepo struct {
	db *gorm.DB
}

func NewPresenceRepo(db *gorm.DB) PresenceRepository {
	return &presenceRepo{db: db}
}

func (r *presenceRepo) Create(ctx context.Context, presence *model.Presence) error {
	return r.db.WithContext(ctx).
		Omit("Student", "Session", "ApprovedBy").
		Create(presence).Error
}

func (r *presenceRepo) GetByID(ctx context.Context, id string) (*model.Presence, error) {
	var presence model.Presence
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Student.Program").
		Preload("Session").Preload("Session.Course").Preload("Session.Teacher").Preload("Session.Room").
		Preload("ApprovedBy").
		Where("presence_id = ?", id).
		First(&presence).Error
	if err != nil {
		return nil, err
	}
	return &presence, nil
}

func (r *presenceRepo) GetByStudentAndSession(ctx context.Context, studentID, sessionID string) (*model.Presence, error) {
	var presence model.Presence
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		First(&presence).Error
	if err != nil {
		return nil, err
	}
	return &presence, nil
}

// Update 全量写回状态字段，ApprovedByID / DecidedAt 为指针，重置为 NULL 也能落库
func (r *presenceRepo) Update(ctx context.Context, presence *model.Presence) error {
	return r.db.WithContext(ctx).
		Model(presence).
		Where("presence_id = ?", presence.PresenceID).
		Updates(map[string]interface{}{
			"status":         presence.Status,
			"scanned_at":     presence.ScannedAt,
			"approved_by_id": presence.ApprovedByID,
			"decided_at":     presence.DecidedAt,
		}).Error
}

// DecidePending 仅当记录仍为待审批时写入裁决，返回是否命中。
// WHERE 条件带上 status，两笔并发裁决只有先提交的生效，后到方拿到 0 行。
func (r *presenceRepo) DecidePending(ctx context.Context, presenceID string, status model.ApprovalStatus, approverID string, decidedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Presence{}).
		Where("presence_id = ? AND status = ?", presenceID, model.PresencePending).
		Updates(map[string]interface{}{
			"status":         status,
			"approved_by_id": approverID,
			"decided_at":     decidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *presenceRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Presence, error) {
	var presences []model.Presence
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Student.Program").
		Preload("ApprovedBy").
		Where("session_id = ?", sessionID).
		Order("scanned_at ASC").
		Find(&presences).Error
	return presences, err
}

func (r *presenceRepo) ListPendingByTeacher(ctx context.Context, teacherID string) ([]model.Presence, error) {
	var presences []model.Presence
	err := r.db.WithContext(ctx).
		Joins("JOIN sessions ON sessions.session_id = presences.session_id").
		Where("presences.status = ? AND sessions.teacher_id = ? AND sessions.status IN ?",
			model.PresencePending, teacherID,
			[]model.SessionStatus{model.SessionPlanned, model.SessionConfirmed}).
		Preload("Student").Preload("Student.Program").
		Preload("Session").Preload("Session.Course").Preload("Session.Room").
		Order("presences.scanned_at ASC").
		Find(&presences).Error
	return presences, err
}

func (r *presenceRepo) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Presence{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
