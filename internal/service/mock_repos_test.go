package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/repository"
)

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	mu       sync.Mutex // 保护 sessions 映射
	schedMu  sync.Mutex // 模拟排课咨询锁
	sessions map[string]*model.Session
	seq      int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.SessionID == "" {
		m.seq++
		session.SessionID = fmt.Sprintf("sess-%03d", m.seq)
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		// 返回副本：调用方改内存不等于落库，与真实仓储行为一致
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) List(_ context.Context, filter repository.SessionFilter) ([]model.Session, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Session
	for _, s := range m.sessions {
		if filter.TeacherID != "" && s.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Date != "" && s.Date != filter.Date {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, int64(len(result)), nil
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) ReplacePrograms(_ context.Context, session *model.Session, programs []model.Program) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[session.SessionID]; ok {
		s.Programs = programs
	}
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) ListByTeacherAndDate(_ context.Context, teacherID, date, excludeID string) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Session
	for _, s := range m.sessions {
		if s.TeacherID == teacherID && s.Date == date && s.Status != model.SessionCancelled && s.SessionID != excludeID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSessionRepo) ListByRoomAndDate(_ context.Context, roomID, date, excludeID string) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Session
	for _, s := range m.sessions {
		if s.RoomID == roomID && s.Date == date && s.Status != model.SessionCancelled && s.SessionID != excludeID {
			result = append(result, *s)
		}
	}
	return result, nil
}

// WithScheduleLock 用互斥锁模拟数据库咨询锁，检查与写入整体串行化
func (m *mockSessionRepo) WithScheduleLock(_ context.Context, _, _, _ string, fn func(tx repository.SessionRepository) error) error {
	m.schedMu.Lock()
	defer m.schedMu.Unlock()
	return fn(m)
}

// ── Mock PresenceRepository ──

type mockPresenceRepo struct {
	mu        sync.Mutex
	presences map[string]*model.Presence
	sessions  *mockSessionRepo // ListPendingByTeacher 需要回查会话
	students  *mockStudentRepo
	seq       int
}

func newMockPresenceRepo(sessions *mockSessionRepo, students *mockStudentRepo) *mockPresenceRepo {
	return &mockPresenceRepo{
		presences: make(map[string]*model.Presence),
		sessions:  sessions,
		students:  students,
	}
}

func (m *mockPresenceRepo) Create(_ context.Context, presence *model.Presence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.presences {
		if p.StudentID == presence.StudentID && p.SessionID == presence.SessionID {
			return gorm.ErrDuplicatedKey
		}
	}
	if presence.PresenceID == "" {
		m.seq++
		presence.PresenceID = fmt.Sprintf("pres-%03d", m.seq)
	}
	m.presences[presence.PresenceID] = presence
	return nil
}

func (m *mockPresenceRepo) GetByID(_ context.Context, id string) (*model.Presence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.presences[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 模拟 Preload：补齐关联引用
	cp := *p
	if s, ok := m.sessions.sessions[p.SessionID]; ok {
		cp.Session = s
	}
	if m.students != nil {
		if st, ok := m.students.students[p.StudentID]; ok {
			cp.Student = st
		}
	}
	return &cp, nil
}

func (m *mockPresenceRepo) GetByStudentAndSession(_ context.Context, studentID, sessionID string) (*model.Presence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.presences {
		if p.StudentID == studentID && p.SessionID == sessionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPresenceRepo) Update(_ context.Context, presence *model.Presence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.presences[presence.PresenceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = presence.Status
	stored.ScannedAt = presence.ScannedAt
	stored.ApprovedByID = presence.ApprovedByID
	stored.DecidedAt = presence.DecidedAt
	return nil
}

// DecidePending 模拟条件更新：仅待审批记录可被裁决，返回影响行数是否非零
func (m *mockPresenceRepo) DecidePending(_ context.Context, presenceID string, status model.ApprovalStatus, approverID string, decidedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.presences[presenceID]
	if !ok || stored.Status != model.PresencePending {
		return false, nil
	}
	stored.Status = status
	stored.ApprovedByID = &approverID
	stored.DecidedAt = &decidedAt
	return true, nil
}

func (m *mockPresenceRepo) ListBySession(_ context.Context, sessionID string) ([]model.Presence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Presence
	for _, p := range m.presences {
		if p.SessionID == sessionID {
			cp := *p
			if m.students != nil {
				if st, ok := m.students.students[p.StudentID]; ok {
					cp.Student = st
				}
			}
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScannedAt.Before(result[j].ScannedAt)
	})
	return result, nil
}

func (m *mockPresenceRepo) ListPendingByTeacher(_ context.Context, teacherID string) ([]model.Presence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Presence
	for _, p := range m.presences {
		if p.Status != model.PresencePending {
			continue
		}
		s, ok := m.sessions.sessions[p.SessionID]
		if !ok || s.TeacherID != teacherID || !s.Status.Schedulable() {
			continue
		}
		cp := *p
		cp.Session = s
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScannedAt.Before(result[j].ScannedAt)
	})
	return result, nil
}

func (m *mockPresenceRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, p := range m.presences {
		if p.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = "stu-" + student.Matricule
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByTag(_ context.Context, tagID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.TagID == tagID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, programID string, _, _ int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, s := range m.students {
		if programID != "" && s.ProgramID != programID {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockStudentRepo) ListByPrograms(_ context.Context, programIDs []string) ([]model.Student, error) {
	idSet := make(map[string]struct{}, len(programIDs))
	for _, id := range programIDs {
		idSet[id] = struct{}{}
	}
	var result []model.Student
	for _, s := range m.students {
		if _, ok := idSet[s.ProgramID]; ok {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Matricule < result[j].Matricule })
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	if teacher.TeacherID == "" {
		teacher.TeacherID = "teach-" + teacher.EmployeeID
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByEmail(_ context.Context, email string) (*model.Teacher, error) {
	for _, t := range m.teachers {
		if t.Email == email {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context, _, _ int) ([]model.Teacher, int64, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	return result, int64(len(result)), nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string) error {
	delete(m.teachers, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = "course-" + course.Title
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) ReplacePrograms(_ context.Context, course *model.Course, programs []model.Program) error {
	if c, ok := m.courses[course.CourseID]; ok {
		c.Programs = programs
	}
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	for _, r := range m.rooms {
		if r.Name == room.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if room.RoomID == "" {
		room.RoomID = "room-" + room.Name
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[string]*model.Program)}
}

func (m *mockProgramRepo) Create(_ context.Context, program *model.Program) error {
	for _, p := range m.programs {
		if p.Name == program.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if program.ProgramID == "" {
		program.ProgramID = "prog-" + program.Name
	}
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetByIDs(_ context.Context, ids []string) ([]model.Program, error) {
	var result []model.Program
	for _, id := range ids {
		if p, ok := m.programs[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProgramRepo) Update(_ context.Context, program *model.Program) error {
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) Delete(_ context.Context, id string) error {
	delete(m.programs, id)
	return nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins map[string]*model.Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.Admin)}
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := m.admins[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock Publisher ──

type publishedEvent struct {
	sessionID string
	event     string
	payload   interface{}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockPublisher) Publish(sessionID, event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{sessionID: sessionID, event: event, payload: payload})
}

func (m *mockPublisher) byEvent(event string) []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []publishedEvent
	for _, e := range m.events {
		if e.event == event {
			result = append(result, e)
		}
	}
	return result
}

// ── 测试用聚合 ──

type testRepos struct {
	session  *mockSessionRepo
	presence *mockPresenceRepo
	student  *mockStudentRepo
	teacher  *mockTeacherRepo
	course   *mockCourseRepo
	room     *mockRoomRepo
	program  *mockProgramRepo
	admin    *mockAdminRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		session: newMockSessionRepo(),
		student: newMockStudentRepo(),
		teacher: newMockTeacherRepo(),
		course:  newMockCourseRepo(),
		room:    newMockRoomRepo(),
		program: newMockProgramRepo(),
		admin:   newMockAdminRepo(),
	}
	mocks.presence = newMockPresenceRepo(mocks.session, mocks.student)
	repo := &repository.Repository{
		Session:  mocks.session,
		Presence: mocks.presence,
		Student:  mocks.student,
		Teacher:  mocks.teacher,
		Course:   mocks.course,
		Room:     mocks.room,
		Program:  mocks.program,
		Admin:    mocks.admin,
	}
	return repo, mocks
}
