package service

import (
	"time"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
)

// ── 模型 → DTO 摘要转换（各 Service 共用）──

func toProgramBrief(p *model.Program) *dto.ProgramBrief {
	if p == nil {
		return nil
	}
	return &dto.ProgramBrief{ID: p.ProgramID, Name: p.Name}
}

func toProgramBriefs(programs []model.Program) []dto.ProgramBrief {
	briefs := make([]dto.ProgramBrief, 0, len(programs))
	for i := range programs {
		briefs = append(briefs, *toProgramBrief(&programs[i]))
	}
	return briefs
}

func toCourseBrief(c *model.Course) *dto.CourseBrief {
	if c == nil {
		return nil
	}
	return &dto.CourseBrief{ID: c.CourseID, Title: c.Title}
}

func toRoomBrief(r *model.Room) *dto.RoomBrief {
	if r == nil {
		return nil
	}
	return &dto.RoomBrief{ID: r.RoomID, Name: r.Name}
}

func toTeacherBrief(t *model.Teacher) *dto.TeacherBrief {
	if t == nil {
		return nil
	}
	return &dto.TeacherBrief{
		ID:         t.TeacherID,
		EmployeeID: t.EmployeeID,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
	}
}

func toStudentBrief(s *model.Student) *dto.StudentBrief {
	if s == nil {
		return nil
	}
	return &dto.StudentBrief{
		ID:        s.StudentID,
		Matricule: s.Matricule,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		PhotoURL:  s.PhotoURL,
		Program:   toProgramBrief(s.Program),
	}
}

func toSessionResponse(s *model.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:        s.SessionID,
		Course:    toCourseBrief(s.Course),
		Teacher:   toTeacherBrief(s.Teacher),
		Room:      toRoomBrief(s.Room),
		Programs:  toProgramBriefs(s.Programs),
		Date:      s.Date,
		StartTime: normalizeClock(s.StartTime),
		EndTime:   normalizeClock(s.EndTime),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func toSessionBrief(s *model.Session) *dto.SessionBrief {
	if s == nil {
		return nil
	}
	return &dto.SessionBrief{
		ID:        s.SessionID,
		Date:      s.Date,
		StartTime: normalizeClock(s.StartTime),
		EndTime:   normalizeClock(s.EndTime),
		Status:    string(s.Status),
		Course:    toCourseBrief(s.Course),
		Room:      toRoomBrief(s.Room),
	}
}

func toPresenceResponse(p *model.Presence) *dto.PresenceResponse {
	resp := &dto.PresenceResponse{
		ID:         p.PresenceID,
		Status:     string(p.Status),
		ScannedAt:  p.ScannedAt.Format(time.RFC3339),
		Student:    toStudentBrief(p.Student),
		Session:    toSessionBrief(p.Session),
		ApprovedBy: toTeacherBrief(p.ApprovedBy),
	}
	if p.DecidedAt != nil {
		decided := p.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	return resp
}
