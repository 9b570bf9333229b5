package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create 新建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询单门课程
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	result, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, result)
}

// List 列出全部课程
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	result, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 修改课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKMessage(c, "课程已删除", nil)
}

// handleCourseError 课程模块统一错误映射
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 15001, "课程不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 13001, "专业不存在")
	default:
		response.InternalError(c)
	}
}
