package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	pkgerrors "github.com/Ilyas-exe/nfc-presence-backend-public/pkg/errors"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	uuidCourse  = "11111111-1111-1111-1111-111111111111"
	uuidTeacher = "22222222-2222-2222-2222-222222222222"
	uuidRoom    = "33333333-3333-3333-3333-333333333333"
	uuidProgram = "44444444-4444-4444-4444-444444444444"
	uuidSession = "55555555-5555-5555-5555-555555555555"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	currentResult *dto.UserInfo
	currentErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _, _ string) (*dto.UserInfo, error) {
	return m.currentResult, m.currentErr
}

// ── Mock SessionService ──

type mockSessionService struct {
	createResult *dto.SessionResponse
	createErr    error
	getResult    *dto.SessionResponse
	getErr       error
	listResult   []dto.SessionResponse
	listErr      error
	updateResult *dto.SessionResponse
	updateErr    error
	deleteResult *dto.SessionDeleteResult
	deleteErr    error
}

func (m *mockSessionService) Create(_ context.Context, _ *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockSessionService) GetByID(_ context.Context, _ string) (*dto.SessionResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockSessionService) List(_ context.Context, _ *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockSessionService) Update(_ context.Context, _ string, _ *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockSessionService) Delete(_ context.Context, _ string) (*dto.SessionDeleteResult, error) {
	return m.deleteResult, m.deleteErr
}

// ── Mock PresenceService ──

type mockPresenceService struct {
	scanResult    *dto.ScanResult
	scanErr       error
	decideResult  *dto.PresenceResponse
	decideErr     error
	listResult    *dto.SessionPresencesResponse
	listErr       error
	pendingResult []dto.PresenceResponse
	pendingErr    error

	gotDeciderID string
}

func (m *mockPresenceService) RecordScan(_ context.Context, _ *dto.ScanRequest) (*dto.ScanResult, error) {
	return m.scanResult, m.scanErr
}
func (m *mockPresenceService) Decide(_ context.Context, _ string, _ *dto.DecisionRequest, teacherID string) (*dto.PresenceResponse, error) {
	m.gotDeciderID = teacherID
	return m.decideResult, m.decideErr
}
func (m *mockPresenceService) ListForSession(_ context.Context, _, _, _ string) (*dto.SessionPresencesResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockPresenceService) ListPendingForTeacher(_ context.Context, _ string) ([]dto.PresenceResponse, error) {
	return m.pendingResult, m.pendingErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportSessionPresences(_ context.Context, _, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportTeacherCalendar(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// withAuth 在路由前注入认证上下文，模拟 JWTAuth 中间件
func withAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func doJSON(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			User:         dto.UserInfo{ID: "u1", Name: "Admin", Role: "admin"},
		},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doJSON(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Secret123",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("期望 code 0，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doJSON(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("期望 code 10001，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doJSON(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-pass",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefresh})

	r := gin.New()
	r.POST("/auth/refresh", h.Refresh)
	w := doJSON(r, "POST", "/auth/refresh", jsonBody(dto.RefreshRequest{RefreshToken: "stale"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		currentResult: &dto.UserInfo{ID: "t1", Name: "Hassan Benali", Role: "teacher"},
	})

	r := gin.New()
	r.GET("/auth/me", withAuth("t1", "teacher"), h.Me)
	w := doJSON(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

func TestAuthHandler_Me_NoContext(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.Me) // 未经过认证中间件
	w := doJSON(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SessionHandler Tests
// ═══════════════════════════════════════════════════════════

func validCreateSessionBody() io.Reader {
	return jsonBody(dto.CreateSessionRequest{
		CourseID:   uuidCourse,
		TeacherID:  uuidTeacher,
		RoomID:     uuidRoom,
		ProgramIDs: []string{uuidProgram},
		Date:       "2026-03-02",
		StartTime:  "09:00",
		EndTime:    "11:00",
	})
}

func TestSessionHandler_Create_Success(t *testing.T) {
	mock := &mockSessionService{
		createResult: &dto.SessionResponse{ID: uuidSession, Status: "planned"},
	}
	h := NewSessionHandler(mock)

	r := gin.New()
	r.POST("/sessions", h.Create)
	w := doJSON(r, "POST", "/sessions", validCreateSessionBody())

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
}

func TestSessionHandler_Create_Conflict(t *testing.T) {
	mock := &mockSessionService{
		createErr: &pkgerrors.ConflictError{
			Resource:  "teacher",
			SessionID: uuidSession,
			StartTime: "09:00",
			EndTime:   "11:00",
		},
	}
	h := NewSessionHandler(mock)

	r := gin.New()
	r.POST("/sessions", h.Create)
	w := doJSON(r, "POST", "/sessions", validCreateSessionBody())

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("期望 code 11002，实际=%d", resp.Code)
	}
}

func TestSessionHandler_Create_MissingPrograms(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{})

	r := gin.New()
	r.POST("/sessions", h.Create)
	w := doJSON(r, "POST", "/sessions", jsonBody(dto.CreateSessionRequest{
		CourseID:  uuidCourse,
		TeacherID: uuidTeacher,
		RoomID:    uuidRoom,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "11:00",
	}))

	// program_ids 为空在绑定层即被拒绝
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestSessionHandler_Get_NotFound(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{getErr: service.ErrSessionNotFound})

	r := gin.New()
	r.GET("/sessions/:id", h.Get)
	w := doJSON(r, "GET", "/sessions/"+uuidSession, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("期望 code 11001，实际=%d", resp.Code)
	}
}

func TestSessionHandler_Update_Locked(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{updateErr: service.ErrSessionLocked})

	start := "10:00"
	r := gin.New()
	r.PUT("/sessions/:id", h.Update)
	w := doJSON(r, "PUT", "/sessions/"+uuidSession, jsonBody(dto.UpdateSessionRequest{
		StartTime: &start,
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
}

func TestSessionHandler_Delete_SoftCancel(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{
		deleteResult: &dto.SessionDeleteResult{Cancelled: true},
	})

	r := gin.New()
	r.DELETE("/sessions/:id", h.Delete)
	w := doJSON(r, "DELETE", "/sessions/"+uuidSession, nil)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Message != "会话已有签到记录，已改为取消" {
		t.Errorf("期望软取消提示，实际=%s", resp.Message)
	}
}

// ═══════════════════════════════════════════════════════════
// PresenceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPresenceHandler_Scan_Created(t *testing.T) {
	mock := &mockPresenceService{
		scanResult: &dto.ScanResult{
			Presence: &dto.PresenceResponse{ID: "p1", Status: "pending"},
			Created:  true,
		},
	}
	h := NewPresenceHandler(mock)

	r := gin.New()
	r.POST("/presences/scan", h.Scan)
	w := doJSON(r, "POST", "/presences/scan", jsonBody(dto.ScanRequest{
		TagID:     "NFC-AB12",
		SessionID: uuidSession,
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
}

func TestPresenceHandler_Scan_RepeatIsOK(t *testing.T) {
	mock := &mockPresenceService{
		scanResult: &dto.ScanResult{
			Presence: &dto.PresenceResponse{ID: "p1", Status: "pending"},
			Created:  false,
		},
	}
	h := NewPresenceHandler(mock)

	r := gin.New()
	r.POST("/presences/scan", h.Scan)
	w := doJSON(r, "POST", "/presences/scan", jsonBody(dto.ScanRequest{
		TagID:     "NFC-AB12",
		SessionID: uuidSession,
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

func TestPresenceHandler_Scan_RejectedResetIsOK(t *testing.T) {
	// 被拒记录重扫回到待审批是重置，不是新建：返回 200 而非 201
	mock := &mockPresenceService{
		scanResult: &dto.ScanResult{
			Presence: &dto.PresenceResponse{ID: "p1", Status: "pending"},
			Reset:    true,
		},
	}
	h := NewPresenceHandler(mock)

	r := gin.New()
	r.POST("/presences/scan", h.Scan)
	w := doJSON(r, "POST", "/presences/scan", jsonBody(dto.ScanRequest{
		TagID:     "NFC-AB12",
		SessionID: uuidSession,
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

func TestPresenceHandler_Scan_UnknownTag(t *testing.T) {
	h := NewPresenceHandler(&mockPresenceService{scanErr: service.ErrStudentTagNotFound})

	r := gin.New()
	r.POST("/presences/scan", h.Scan)
	w := doJSON(r, "POST", "/presences/scan", jsonBody(dto.ScanRequest{
		TagID:     "NFC-0000",
		SessionID: uuidSession,
	}))

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12002 {
		t.Errorf("期望 code 12002，实际=%d", resp.Code)
	}
}

func TestPresenceHandler_Decide_UsesCallerIdentity(t *testing.T) {
	mock := &mockPresenceService{
		decideResult: &dto.PresenceResponse{ID: "p1", Status: "approved"},
	}
	h := NewPresenceHandler(mock)

	r := gin.New()
	r.PUT("/presences/:id/decision", withAuth("teach-007", "teacher"), h.Decide)
	w := doJSON(r, "PUT", "/presences/p1/decision", jsonBody(dto.DecisionRequest{
		Decision: "approved",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	if mock.gotDeciderID != "teach-007" {
		t.Errorf("期望裁决者取自认证上下文 teach-007，实际=%s", mock.gotDeciderID)
	}
}

func TestPresenceHandler_Decide_WrongTeacher(t *testing.T) {
	h := NewPresenceHandler(&mockPresenceService{decideErr: service.ErrNotSessionTeacher})

	r := gin.New()
	r.PUT("/presences/:id/decision", withAuth("teach-999", "teacher"), h.Decide)
	w := doJSON(r, "PUT", "/presences/p1/decision", jsonBody(dto.DecisionRequest{
		Decision: "rejected",
	}))

	if w.Code != http.StatusForbidden {
		t.Errorf("期望 403，实际=%d", w.Code)
	}
}

func TestPresenceHandler_Decide_AlreadyDecided(t *testing.T) {
	h := NewPresenceHandler(&mockPresenceService{decideErr: service.ErrAlreadyDecided})

	r := gin.New()
	r.PUT("/presences/:id/decision", withAuth("teach-007", "teacher"), h.Decide)
	w := doJSON(r, "PUT", "/presences/p1/decision", jsonBody(dto.DecisionRequest{
		Decision: "approved",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
}

func TestPresenceHandler_Decide_BadDecisionValue(t *testing.T) {
	h := NewPresenceHandler(&mockPresenceService{})

	r := gin.New()
	r.PUT("/presences/:id/decision", withAuth("teach-007", "teacher"), h.Decide)
	w := doJSON(r, "PUT", "/presences/p1/decision", jsonBody(dto.DecisionRequest{
		Decision: "maybe",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestPresenceHandler_ListForSession_AccessDenied(t *testing.T) {
	h := NewPresenceHandler(&mockPresenceService{listErr: service.ErrPresenceAccessDenied})

	r := gin.New()
	r.GET("/presences/session/:id", withAuth("teach-999", "teacher"), h.ListForSession)
	w := doJSON(r, "GET", "/presences/session/"+uuidSession, nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("期望 403，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12007 {
		t.Errorf("期望 code 12007，实际=%d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_SessionPresences_SetsHeaders(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "签到表_算法设计_2026-03-02.xlsx",
	}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/presences/:id", withAuth("admin-1", "admin"), h.SessionPresences)
	w := doJSON(r, "GET", "/export/presences/"+uuidSession, nil)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("期望 xlsx Content-Type，实际=%s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("期望返回 Content-Disposition 头")
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Error("期望响应体原样透传导出内容")
	}
}

func TestExportHandler_TeacherCalendar_NotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrTeacherNotFound})

	r := gin.New()
	r.GET("/export/sessions/ics", withAuth("admin-1", "admin"), h.TeacherCalendar)
	w := doJSON(r, "GET", "/export/sessions/ics?teacher_id="+uuidTeacher, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

func TestExportHandler_TeacherCalendar_MissingTeacherID(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r := gin.New()
	r.GET("/export/sessions/ics", withAuth("admin-1", "admin"), h.TeacherCalendar)
	w := doJSON(r, "GET", "/export/sessions/ics", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
