package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// Create 新建学生（录入学号与 NFC 标签）
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询单个学生
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	result, err := h.studentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// List 列出学生，支持按专业过滤
// GET /api/v1/students?program_id=xxx
func (h *StudentHandler) List(c *gin.Context) {
	result, err := h.studentSvc.List(c.Request.Context(), c.Query("program_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 修改学生
// PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除学生
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.studentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OKMessage(c, "学生已删除", nil)
}

// handleStudentError 学生模块统一错误映射
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 16001, "学生不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 13001, "专业不存在")
	case errors.Is(err, service.ErrStudentConflict):
		response.Conflict(c, 16002, "学号或 NFC 标签已被占用")
	default:
		response.InternalError(c)
	}
}
