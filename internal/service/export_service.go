package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
)

// ExportService 导出服务接口
// 导出内容受调用者可见范围约束，与列表查询一致
type ExportService interface {
	ExportShiftsCSV(ctx context.Context, actor *model.User, query *dto.ListShiftsQuery) ([]byte, error)
	// ExportMonthlyBOQ 导出指定月份的工程量清单（进尺按孔径、物料按名称汇总）
	ExportMonthlyBOQ(ctx context.Context, actor *model.User, year int, month time.Month) ([]byte, error)
	// ExportShiftCalendar 导出已审批班次的 iCalendar 日历（可按钻机过滤）
	ExportShiftCalendar(ctx context.Context, actor *model.User, rig string) ([]byte, error)
}

// exportService ExportService 实现
type exportService struct {
	repo     *repository.Repository
	shiftSvc ShiftService
	logger   *zap.Logger
}

// NewExportService 创建导出服务实例
func NewExportService(repo *repository.Repository, shiftSvc ShiftService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, shiftSvc: shiftSvc, logger: logger}
}

const exportPageSize = 10000

// ────────────────────── ExportShiftsCSV ──────────────────────

func (s *exportService) ExportShiftsCSV(ctx context.Context, actor *model.User, query *dto.ListShiftsQuery) ([]byte, error) {
	shifts, err := s.listForExport(ctx, actor, query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"Date", "Shift", "Rig", "Location", "Project Code", "Supervisor",
		"Total Meters", "Avg Recovery %", "Avg ROP m/hr", "Downtime hrs",
		"Status", "Client Status",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range shifts {
		sh := &shifts[i]
		var downtime float64
		for j := range sh.Activities {
			if sh.Activities[j].ActivityType != model.ActivityDrilling {
				downtime += float64(sh.Activities[j].DurationMinutes) / 60
			}
		}
		recovery := ""
		if avg, ok := avgRecovery(sh.Progress); ok {
			recovery = strconv.FormatFloat(round2(avg), 'f', 2, 64)
		}
		clientStatus := ""
		if sh.ClientStatus != nil {
			clientStatus = *sh.ClientStatus
		}
		row := []string{
			sh.Date.Format(dateLayout),
			sh.ShiftType,
			sh.Rig,
			sh.Location,
			sh.ProjectCode,
			sh.SupervisorName,
			strconv.FormatFloat(totalMeters(sh.Progress), 'f', 2, 64),
			recovery,
			strconv.FormatFloat(round2(avgPenetration(sh.Progress)), 'f', 2, 64),
			strconv.FormatFloat(round2(downtime), 'f', 2, 64),
			sh.Status,
			clientStatus,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("班报 CSV 导出完成",
		zap.String("user_id", actor.UserID),
		zap.Int("count", len(shifts)))
	return buf.Bytes(), nil
}

func (s *exportService) listForExport(ctx context.Context, actor *model.User, query *dto.ListShiftsQuery) ([]model.DrillShift, error) {
	if query == nil {
		query = &dto.ListShiftsQuery{}
	}
	query.Page = 1
	query.PageSize = exportPageSize
	shifts, _, err := s.shiftSvc.List(ctx, actor, query)
	return shifts, err
}

// ────────────────────── ExportMonthlyBOQ ──────────────────────

func (s *exportService) ExportMonthlyBOQ(ctx context.Context, actor *model.User, year int, month time.Month) ([]byte, error) {
	scope, err := s.shiftSvc.VisibilityScopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	shifts, err := s.repo.Shift.ListByDateRange(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	// 进尺按孔径、物料按名称汇总
	metersBySize := make(map[string]float64)
	shiftIDs := make([]string, 0, len(shifts))
	for i := range shifts {
		shiftIDs = append(shiftIDs, shifts[i].ShiftID)
		for j := range shifts[i].Progress {
			p := &shifts[i].Progress[j]
			metersBySize[p.Size] += p.MetersDrilled
		}
	}
	materials, err := s.repo.Material.ListByShiftIDs(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	type materialTotal struct {
		unit  string
		total float64
	}
	materialTotals := make(map[string]*materialTotal)
	for i := range materials {
		m := &materials[i]
		t, ok := materialTotals[m.MaterialName]
		if !ok {
			t = &materialTotal{unit: m.Unit}
			materialTotals[m.MaterialName] = t
		}
		t.total += m.Quantity
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "BOQ"
	f.SetSheetName("Sheet1", sheet)
	title := fmt.Sprintf("Bill of Quantities — %s %d", month.String(), year)
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "A3", "Item")
	_ = f.SetCellValue(sheet, "B3", "Unit")
	_ = f.SetCellValue(sheet, "C3", "Quantity")

	row := 4
	sizes := make([]string, 0, len(metersBySize))
	for size := range metersBySize {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	for _, size := range sizes {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Drilling "+size)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "m")
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), round2(metersBySize[size]))
		row++
	}

	names := make([]string, 0, len(materialTotals))
	for name := range materialTotals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := materialTotals[name]
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.unit)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), round2(t.total))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	s.logger.Info("月度 BOQ 导出完成",
		zap.String("user_id", actor.UserID),
		zap.Int("year", year),
		zap.String("month", month.String()),
		zap.Int("shifts", len(shifts)))
	return buf.Bytes(), nil
}

// ────────────────────── ExportShiftCalendar ──────────────────────

func (s *exportService) ExportShiftCalendar(ctx context.Context, actor *model.User, rig string) ([]byte, error) {
	query := &dto.ListShiftsQuery{Status: model.StatusApproved, Rig: rig}
	shifts, err := s.listForExport(ctx, actor, query)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//rigops//shift calendar//EN")

	for i := range shifts {
		sh := &shifts[i]
		start, end := shiftWindow(sh)

		event := cal.AddEvent(sh.ShiftID + "@rigops")
		event.SetCreatedTime(sh.CreatedAt)
		event.SetDtStampTime(sh.UpdatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s — %s shift", sh.Rig, sh.ShiftType))
		event.SetLocation(sh.Location)
		event.SetDescription(fmt.Sprintf("Meters drilled: %.2f, supervisor: %s",
			totalMeters(sh.Progress), sh.SupervisorName))
	}

	s.logger.Info("班次日历导出完成",
		zap.String("user_id", actor.UserID),
		zap.String("rig", rig),
		zap.Int("events", len(shifts)))
	return []byte(cal.Serialize()), nil
}

// shiftWindow 计算班次的起止时刻：优先用填写的起止时间（跨午夜顺延一天），
// 缺失时按班次类型取标准窗口（白班 07:00 起、夜班 19:00 起，各 12 小时）
func shiftWindow(shift *model.DrillShift) (time.Time, time.Time) {
	day := shift.Date

	if shift.StartTime != nil && shift.EndTime != nil {
		st, err1 := time.Parse(clockLayout, *shift.StartTime)
		et, err2 := time.Parse(clockLayout, *shift.EndTime)
		if err1 == nil && err2 == nil {
			start := time.Date(day.Year(), day.Month(), day.Day(), st.Hour(), st.Minute(), 0, 0, time.UTC)
			end := time.Date(day.Year(), day.Month(), day.Day(), et.Hour(), et.Minute(), 0, 0, time.UTC)
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			return start, end
		}
	}

	startHour := 7
	if shift.ShiftType == model.ShiftNight {
		startHour = 19
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Duration(DefaultShiftHours) * time.Hour)
}
