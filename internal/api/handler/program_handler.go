package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/response"
)

// ProgramHandler 专业模块 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// Create 新建专业
// POST /api/v1/programs
func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.programSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询单个专业
// GET /api/v1/programs/:id
func (h *ProgramHandler) Get(c *gin.Context) {
	result, err := h.programSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, result)
}

// List 列出全部专业
// GET /api/v1/programs
func (h *ProgramHandler) List(c *gin.Context) {
	result, err := h.programSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 修改专业
// PUT /api/v1/programs/:id
func (h *ProgramHandler) Update(c *gin.Context) {
	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.programSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除专业
// DELETE /api/v1/programs/:id
func (h *ProgramHandler) Delete(c *gin.Context) {
	if err := h.programSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OKMessage(c, "专业已删除", nil)
}

// handleProgramError 专业模块统一错误映射
func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 13001, "专业不存在")
	case errors.Is(err, service.ErrProgramNameTaken):
		response.Conflict(c, 13002, "专业名称已存在")
	default:
		response.InternalError(c)
	}
}
