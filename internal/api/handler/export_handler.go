package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/service"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// SessionPresences 导出单场会话签到表（xlsx）
// GET /api/v1/export/presences/:id
func (h *ExportHandler) SessionPresences(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSessionPresences(c.Request.Context(), c.Param("id"), callerID, callerRole)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, escapeFilename(filename)))
	c.Data(200, contentTypeXLSX, buf.Bytes())
}

// TeacherCalendar 导出某教师课表（ics）
// GET /api/v1/export/sessions/ics?teacher_id=xxx
func (h *ExportHandler) TeacherCalendar(c *gin.Context) {
	teacherID := c.Query("teacher_id")
	if teacherID == "" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportTeacherCalendar(c.Request.Context(), teacherID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, escapeFilename(filename)))
	c.Data(200, contentTypeICS, buf.Bytes())
}

// handleExportError 导出模块统一错误映射
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 11001, "会话不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 17001, "教师不存在")
	case errors.Is(err, service.ErrPresenceAccessDenied):
		response.Forbidden(c, 12007, "无权查看该会话的签到记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// escapeFilename 按 RFC 5987 百分号编码文件名中的非 ASCII 字符
func escapeFilename(name string) string {
	const hex = "0123456789ABCDEF"
	out := make([]byte, 0, len(name)*3)
	for i := 0; i < len(name); i++ {
		b := name[i]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') ||
			b == '.' || b == '-' || b == '_' {
			out = append(out, b)
			continue
		}
		out = append(out, '%', hex[b>>4], hex[b&0x0f])
	}
	return string(out)
}
