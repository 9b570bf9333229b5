package dto

// ── 签到模块 DTO ──

// ScanRequest NFC 扫码请求
type ScanRequest struct {
	TagID     string `json:"tag_id"     binding:"required"`
	SessionID string `json:"session_id" binding:"required,uuid"`
}

// ScanResult 扫码结果
// Created 为 true 表示本次扫码新建了记录；将被拒记录重置回待审批时置 Reset，
// 不算新建（HTTP 层返回 200 而非 201），但同样会推送 presence.created 事件。
type ScanResult struct {
	Presence *PresenceResponse `json:"presence"`
	Created  bool              `json:"created"`
	Reset    bool              `json:"reset"`
}

// DecisionRequest 教师审批请求
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// PresenceResponse 签到记录完整响应（含关联实体摘要）
type PresenceResponse struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	ScannedAt  string        `json:"scanned_at"`
	DecidedAt  *string       `json:"decided_at,omitempty"`
	Student    *StudentBrief `json:"student,omitempty"`
	Session    *SessionBrief `json:"session,omitempty"`
	ApprovedBy *TeacherBrief `json:"approved_by,omitempty"`
}

// SessionPresencesResponse 单场会话的签到汇总
// Absentees 为按专业应到但无已批准记录的学生清单。
type SessionPresencesResponse struct {
	Session       *SessionResponse   `json:"session"`
	Presences     []PresenceResponse `json:"presences"`
	Absentees     []StudentBrief     `json:"absentees"`
	TotalEnrolled int                `json:"total_enrolled"`
	TotalApproved int                `json:"total_approved"`
}
