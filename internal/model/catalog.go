package model

// Program 专业（学业方向）表 — 对应 programs
// 一名学生属于且仅属于一个专业；一场会话可面向多个专业。
type Program struct {
	ProgramID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name      string `gorm:"type:varchar(100);not null;unique"              json:"name"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name   string `gorm:"type:varchar(100);not null;unique"              json:"name"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// Course 课程表 — 对应 courses
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Title    string `gorm:"type:varchar(150);not null"                     json:"title"`
	BaseModel

	// 关联
	Programs []Program `gorm:"many2many:course_programs;joinForeignKey:CourseID;joinReferences:ProgramID" json:"programs,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Admin 管理员表 — 对应 admins
type Admin struct {
	AdminID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"admin_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;unique"              json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
