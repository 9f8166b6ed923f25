package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
	pkgerrors "rigops/backend/pkg/errors"
)

// ReportService 汇总报表服务接口
// 全部为派生只读视图，不修改任何实体
type ReportService interface {
	SummarizeShift(ctx context.Context, actor *model.User, shiftID string) (*dto.ShiftSummary, error)
	DailyProgress(ctx context.Context, actor *model.User, query *dto.DailyProgressQuery) ([]dto.DailyStat, error)
	Dashboard(ctx context.Context, actor *model.User) (*dto.Dashboard, error)
	ClientDashboard(ctx context.Context, actor *model.User) (*dto.ClientDashboard, error)
}

// reportService ReportService 实现
type reportService struct {
	repo     *repository.Repository
	shiftSvc ShiftService
	logger   *zap.Logger
}

// NewReportService 创建报表服务实例
func NewReportService(repo *repository.Repository, shiftSvc ShiftService, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, shiftSvc: shiftSvc, logger: logger}
}

// ────────────────────── SummarizeShift ──────────────────────

// SummarizeShift 单班报汇总：进尺合计、平均穿透率、按物料名合并的消耗量
// 空子记录集返回零值而非报错
func (s *reportService) SummarizeShift(ctx context.Context, actor *model.User, shiftID string) (*dto.ShiftSummary, error) {
	shift, err := s.shiftSvc.GetByID(ctx, actor, shiftID)
	if err != nil {
		return nil, err
	}

	materials := make(map[string]float64, len(shift.Materials))
	for i := range shift.Materials {
		materials[shift.Materials[i].MaterialName] += shift.Materials[i].Quantity
	}

	return &dto.ShiftSummary{
		ShiftID:        shift.ShiftID,
		TotalMeters:    totalMeters(shift.Progress),
		AvgPenetration: avgPenetration(shift.Progress),
		Materials:      materials,
	}, nil
}

// ────────────────────── DailyProgress ──────────────────────

// DailyProgress 可见范围内按日聚合的进尺统计，日期升序
// 查询区间缺省为最近 30 天；无班报时返回空切片
func (s *reportService) DailyProgress(ctx context.Context, actor *model.User, query *dto.DailyProgressQuery) ([]dto.DailyStat, error) {
	scope, err := s.shiftSvc.VisibilityScopeFor(ctx, actor)
	if err != nil {
		if errors.Is(err, ErrNoLinkedClient) {
			return []dto.DailyStat{}, nil
		}
		return nil, err
	}

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if query.DateFrom != "" {
		if from, err = time.Parse(dateLayout, query.DateFrom); err != nil {
			return nil, err
		}
	}
	if query.DateTo != "" {
		if to, err = time.Parse(dateLayout, query.DateTo); err != nil {
			return nil, err
		}
	}

	shifts, err := s.repo.Shift.ListByDateRange(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	return aggregateDaily(shifts), nil
}

// aggregateDaily 按日期分组求进尺合计与穿透率均值
func aggregateDaily(shifts []model.DrillShift) []dto.DailyStat {
	type bucket struct {
		meters  float64
		rateSum float64
		rateN   int
		count   int
	}
	buckets := make(map[string]*bucket)
	for i := range shifts {
		day := shifts[i].Date.Format(dateLayout)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.count++
		for j := range shifts[i].Progress {
			p := &shifts[i].Progress[j]
			b.meters += p.MetersDrilled
			if p.PenetrationRate != nil {
				b.rateSum += *p.PenetrationRate
				b.rateN++
			}
		}
	}

	stats := make([]dto.DailyStat, 0, len(buckets))
	for day, b := range buckets {
		avg := 0.0
		if b.rateN > 0 {
			avg = b.rateSum / float64(b.rateN)
		}
		stats = append(stats, dto.DailyStat{
			Date:           day,
			TotalMeters:    b.meters,
			AvgPenetration: avg,
			ShiftCount:     b.count,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats
}

// ────────────────────── Dashboard ──────────────────────

// Dashboard 运营看板：当日/当月进尺、近 24 小时均值、停工分类、
// 钻机/客户/位置绩效、工作流状态计数与平均审批周期
// 统计窗口为当月，客户角色无权访问
func (s *reportService) Dashboard(ctx context.Context, actor *model.User) (*dto.Dashboard, error) {
	if actor.Role == model.RoleClient {
		return nil, pkgerrors.ErrForbidden
	}
	scope, err := s.shiftSvc.VisibilityScopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	monthShifts, err := s.repo.Shift.ListByDateRange(ctx, scope, monthStart, now)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.repo.Shift.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	dash := &dto.Dashboard{
		StatusCounts:       statusCounts,
		ClientStatusCounts: make(map[string]int64),
		DowntimeByCategory: make(map[string]float64),
	}

	var dayAgoShifts []model.DrillShift
	var approvedIDs []string
	approvedDates := make(map[string]time.Time)
	dayAgo := now.Add(-24 * time.Hour)

	for i := range monthShifts {
		sh := &monthShifts[i]
		meters := totalMeters(sh.Progress)
		dash.MetersThisMonth += meters
		if !sh.Date.Before(today) {
			dash.MetersToday += meters
		}
		if !sh.Date.Before(dayAgo) {
			dayAgoShifts = append(dayAgoShifts, *sh)
		}
		for j := range sh.Activities {
			a := &sh.Activities[j]
			if a.ActivityType != model.ActivityDrilling {
				dash.DowntimeByCategory[a.ActivityType] += float64(a.DurationMinutes) / 60
			}
		}
		if sh.Status == model.StatusApproved {
			approvedIDs = append(approvedIDs, sh.ShiftID)
			approvedDates[sh.ShiftID] = sh.Date
			if sh.ClientID != nil {
				key := model.ClientPending
				if sh.ClientStatus != nil {
					key = *sh.ClientStatus
				}
				dash.ClientStatusCounts[key]++
			}
		}
	}

	var dayProgress []model.DrillingProgress
	for i := range dayAgoShifts {
		dayProgress = append(dayProgress, dayAgoShifts[i].Progress...)
	}
	dash.AvgROP24h = avgPenetration(dayProgress)
	if avg, ok := avgRecovery(dayProgress); ok {
		dash.AvgRecovery24h = avg
	}

	dash.RigPerformance = groupPerformance(monthShifts, func(sh *model.DrillShift) string { return sh.Rig })
	dash.LocationPerformance = groupPerformance(monthShifts, func(sh *model.DrillShift) string { return sh.Location })
	dash.ClientPerformance = groupPerformance(monthShifts, func(sh *model.DrillShift) string {
		if sh.Client != nil {
			return sh.Client.Name
		}
		return ""
	})

	avgDays, err := s.avgDaysToApprove(ctx, approvedIDs, approvedDates)
	if err != nil {
		return nil, err
	}
	dash.AvgDaysToApprove = avgDays
	return dash, nil
}

// groupPerformance 按 key 函数分组统计绩效，空 key 的班报不参与分组
func groupPerformance(shifts []model.DrillShift, keyFn func(*model.DrillShift) string) []dto.GroupStat {
	type bucket struct {
		count    int
		progress []model.DrillingProgress
	}
	buckets := make(map[string]*bucket)
	for i := range shifts {
		key := keyFn(&shifts[i])
		if key == "" {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.progress = append(b.progress, shifts[i].Progress...)
	}

	stats := make([]dto.GroupStat, 0, len(buckets))
	for key, b := range buckets {
		stat := dto.GroupStat{
			Key:            key,
			ShiftCount:     b.count,
			TotalMeters:    totalMeters(b.progress),
			AvgPenetration: avgPenetration(b.progress),
		}
		if avg, ok := avgRecovery(b.progress); ok {
			stat.AvgRecovery = avg
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}

// avgDaysToApprove 平均审批周期：每班报最早一条 approved 历史的时间减去班报日期
func (s *reportService) avgDaysToApprove(ctx context.Context, shiftIDs []string, dates map[string]time.Time) (float64, error) {
	if len(shiftIDs) == 0 {
		return 0, nil
	}
	entries, err := s.repo.Approval.ListDecisionsByShiftIDs(ctx, shiftIDs, model.DecisionApproved)
	if err != nil {
		return 0, err
	}

	earliest := make(map[string]time.Time, len(shiftIDs))
	for i := range entries {
		id := entries[i].ShiftID
		if _, seen := earliest[id]; !seen {
			earliest[id] = entries[i].Timestamp
		}
	}
	if len(earliest) == 0 {
		return 0, nil
	}

	var sum float64
	for id, ts := range earliest {
		sum += ts.Sub(dates[id]).Hours() / 24
	}
	return sum / float64(len(earliest)), nil
}

// ────────────────────── ClientDashboard ──────────────────────

// ClientDashboard 客户看板：待签认数量、签认决定分布与进尺合计
func (s *reportService) ClientDashboard(ctx context.Context, actor *model.User) (*dto.ClientDashboard, error) {
	if actor.Role != model.RoleClient {
		return nil, pkgerrors.ErrForbidden
	}
	client, err := s.repo.Client.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoLinkedClient
		}
		return nil, err
	}

	counts, err := s.repo.Shift.CountByClientStatus(ctx, client.ClientID)
	if err != nil {
		return nil, err
	}

	scope := &repository.VisibilityScope{ClientID: client.ClientID}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	allShifts, err := s.repo.Shift.ListByDateRange(ctx, scope, time.Time{}, now)
	if err != nil {
		return nil, err
	}

	dash := &dto.ClientDashboard{
		ClientID:       client.ClientID,
		ClientName:     client.Name,
		PendingReview:  counts[model.ClientPending],
		DecisionCounts: counts,
	}
	for i := range allShifts {
		meters := totalMeters(allShifts[i].Progress)
		dash.TotalMeters += meters
		if !allShifts[i].Date.Before(monthStart) {
			dash.MetersThisMonth += meters
		}
	}
	return dash, nil
}
