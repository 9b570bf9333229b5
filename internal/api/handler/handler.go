package handler

import (
	"go.uber.org/zap"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/realtime"
)

// Handler 聚合全部 HTTP 处理器
type Handler struct {
	Auth     *AuthHandler
	Session  *SessionHandler
	Presence *PresenceHandler
	Program  *ProgramHandler
	Room     *RoomHandler
	Course   *CourseHandler
	Student  *StudentHandler
	Teacher  *TeacherHandler
	Export   *ExportHandler
	Live     *LiveHandler
}

// NewHandler 创建处理器聚合
func NewHandler(svc *service.Service, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Session:  NewSessionHandler(svc.Session),
		Presence: NewPresenceHandler(svc.Presence),
		Program:  NewProgramHandler(svc.Program),
		Room:     NewRoomHandler(svc.Room),
		Course:   NewCourseHandler(svc.Course),
		Student:  NewStudentHandler(svc.Student),
		Teacher:  NewTeacherHandler(svc.Teacher),
		Export:   NewExportHandler(svc.Export),
		Live:     NewLiveHandler(svc.Session, hub, logger),
	}
}
