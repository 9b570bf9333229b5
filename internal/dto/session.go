package dto

// ── 会话模块 DTO ──

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	CourseID   string   `json:"course_id"   binding:"required,uuid"`
	TeacherID  string   `json:"teacher_id"  binding:"required,uuid"`
	RoomID     string   `json:"room_id"     binding:"required,uuid"`
	ProgramIDs []string `json:"program_ids" binding:"required,min=1,dive,uuid"`
	Date       string   `json:"date"        binding:"required,datetime=2006-01-02"`
	StartTime  string   `json:"start_time"  binding:"required"` // "09:00"
	EndTime    string   `json:"end_time"    binding:"required"` // "11:00"
}

// UpdateSessionRequest 更新会话请求（字段可选，缺省表示不变）
type UpdateSessionRequest struct {
	CourseID   *string  `json:"course_id"   binding:"omitempty,uuid"`
	TeacherID  *string  `json:"teacher_id"  binding:"omitempty,uuid"`
	RoomID     *string  `json:"room_id"     binding:"omitempty,uuid"`
	ProgramIDs []string `json:"program_ids" binding:"omitempty,min=1,dive,uuid"`
	Date       *string  `json:"date"        binding:"omitempty,datetime=2006-01-02"`
	StartTime  *string  `json:"start_time"`
	EndTime    *string  `json:"end_time"`
	Status     *string  `json:"status"      binding:"omitempty,oneof=planned confirmed completed cancelled"`
}

// SessionListRequest 会话列表查询参数
type SessionListRequest struct {
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	RoomID    string `form:"room_id"    binding:"omitempty,uuid"`
	CourseID  string `form:"course_id"  binding:"omitempty,uuid"`
	ProgramID string `form:"program_id" binding:"omitempty,uuid"`
	Date      string `form:"date"       binding:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status"     binding:"omitempty,oneof=planned confirmed completed cancelled"`
	Offset    int    `form:"offset"     binding:"omitempty,min=0"`
	Limit     int    `form:"limit"      binding:"omitempty,min=1,max=200"`
}

// SessionResponse 会话完整响应（含关联实体摘要）
type SessionResponse struct {
	ID        string         `json:"id"`
	Course    *CourseBrief   `json:"course,omitempty"`
	Teacher   *TeacherBrief  `json:"teacher,omitempty"`
	Room      *RoomBrief     `json:"room,omitempty"`
	Programs  []ProgramBrief `json:"programs"`
	Date      string         `json:"date"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// SessionBrief 会话简要信息（嵌入签到记录响应）
type SessionBrief struct {
	ID        string       `json:"id"`
	Date      string       `json:"date"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Status    string       `json:"status"`
	Course    *CourseBrief `json:"course,omitempty"`
	Room      *RoomBrief   `json:"room,omitempty"`
}

// SessionDeleteResult 删除会话结果
// 已有签到记录的会话不物理删除，改为取消以保留考勤历史。
type SessionDeleteResult struct {
	Cancelled bool             `json:"cancelled"`
	Session   *SessionResponse `json:"session,omitempty"` // 仅软取消时返回
}
