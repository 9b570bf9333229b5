package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	pkgerrors "github.com/Ilyas-exe/nfc-presence-backend-public/pkg/errors"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/response"
)

// SessionHandler 排课模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Create 新建会话
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询单场会话
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	result, err := h.sessionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// List 按条件分页查询会话
// GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 修改会话（改排期、换教室教师、调状态）
// PUT /api/v1/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除会话；已有签到记录时转为软取消
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	result, err := h.sessionSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	if result.Cancelled {
		response.OKMessage(c, "会话已有签到记录，已改为取消", result)
		return
	}
	response.OKMessage(c, "会话已删除", result)
}

// handleSessionError 排课模块统一错误映射
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	var conflict *pkgerrors.ConflictError
	if errors.As(err, &conflict) {
		response.Conflict(c, 11002, conflict.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 11001, "会话不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11003, "课程不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 11004, "教师不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 11005, "教室不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 11006, "专业不存在")
	case errors.Is(err, service.ErrNoPrograms):
		response.BadRequest(c, 11007, "会话至少面向一个专业")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 11008, "开始时间必须早于结束时间")
	case errors.Is(err, service.ErrSessionLocked):
		response.Conflict(c, 11009, "已完成或已取消的会话不可改排期")
	case errors.Is(err, service.ErrStatusTransition):
		response.Conflict(c, 11010, "非法的会话状态迁移")
	case errors.Is(err, service.ErrDuplicateSession):
		response.Conflict(c, 11011, "同一课程在该教室该时段已存在会话")
	default:
		response.InternalError(c)
	}
}
