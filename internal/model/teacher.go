package model

// Teacher 教师表 — 对应 teachers
type Teacher struct {
	TeacherID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	EmployeeID   string `gorm:"type:varchar(50);not null;unique"               json:"employee_id"`
	FirstName    string `gorm:"type:varchar(100)"                              json:"first_name,omitempty"`
	LastName     string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email        string `gorm:"type:varchar(255);not null;unique"              json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
