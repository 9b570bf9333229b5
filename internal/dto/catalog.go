package dto

// ── 目录模块 DTO（专业 / 教室 / 课程 / 学生 / 教师）──

// ProgramBrief 专业简要信息
type ProgramBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomBrief 教室简要信息
type RoomBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TeacherBrief 教师简要信息
type TeacherBrief struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name"`
}

// StudentBrief 学生简要信息
type StudentBrief struct {
	ID        string        `json:"id"`
	Matricule string        `json:"matricule"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	PhotoURL  string        `json:"photo_url,omitempty"`
	Program   *ProgramBrief `json:"program,omitempty"`
}

// ── 专业 ──

// CreateProgramRequest 创建专业请求
type CreateProgramRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateProgramRequest 更新专业请求
type UpdateProgramRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=100"`
}

// ProgramResponse 专业信息响应
type ProgramResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── 教室 ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// RoomResponse 教室信息响应
type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── 课程 ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Title      string   `json:"title"       binding:"required,min=2,max=150"`
	ProgramIDs []string `json:"program_ids" binding:"omitempty,dive,uuid"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title      *string  `json:"title"       binding:"omitempty,min=2,max=150"`
	ProgramIDs []string `json:"program_ids" binding:"omitempty,dive,uuid"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Programs  []ProgramBrief `json:"programs"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// ── 学生 ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	Matricule string `json:"matricule"  binding:"required,min=2,max=50"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name"  binding:"required,max=100"`
	TagID     string `json:"tag_id"     binding:"required,max=100"`
	PhotoURL  string `json:"photo_url"  binding:"omitempty,max=500"`
	ProgramID string `json:"program_id" binding:"required,uuid"`
}

// UpdateStudentRequest 更新学生请求
type UpdateStudentRequest struct {
	Matricule *string `json:"matricule"  binding:"omitempty,min=2,max=50"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name"  binding:"omitempty,max=100"`
	TagID     *string `json:"tag_id"     binding:"omitempty,max=100"`
	PhotoURL  *string `json:"photo_url"  binding:"omitempty,max=500"`
	ProgramID *string `json:"program_id" binding:"omitempty,uuid"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID        string        `json:"id"`
	Matricule string        `json:"matricule"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	TagID     string        `json:"tag_id"`
	PhotoURL  string        `json:"photo_url,omitempty"`
	Program   *ProgramBrief `json:"program,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// ── 教师 ──

// CreateTeacherRequest 创建教师请求（管理员操作）
type CreateTeacherRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,min=2,max=50"`
	FirstName  string `json:"first_name"  binding:"omitempty,max=100"`
	LastName   string `json:"last_name"   binding:"required,max=100"`
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required,min=8"`
}

// UpdateTeacherRequest 更新教师请求
type UpdateTeacherRequest struct {
	EmployeeID *string `json:"employee_id" binding:"omitempty,min=2,max=50"`
	FirstName  *string `json:"first_name"  binding:"omitempty,max=100"`
	LastName   *string `json:"last_name"   binding:"omitempty,max=100"`
	Email      *string `json:"email"       binding:"omitempty,email"`
	Password   *string `json:"password"    binding:"omitempty,min=8"`
}

// TeacherResponse 教师信息响应
type TeacherResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
