package model

// Student 学生表 — 对应 students
// TagID 为学生卡上的 NFC 标签编号，扫码入口以此定位学生。
type Student struct {
	StudentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Matricule string `gorm:"type:varchar(50);not null;unique"               json:"matricule"`
	FirstName string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	TagID     string `gorm:"type:varchar(100);not null;unique"              json:"tag_id"`
	PhotoURL  string `gorm:"type:varchar(500)"                              json:"photo_url,omitempty"`
	ProgramID string `gorm:"type:uuid;not null"                             json:"program_id"`
	BaseModel

	// 关联
	Program *Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
