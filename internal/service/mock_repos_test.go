package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock ClientRepository ──

type mockClientRepo struct {
	clients map[string]*model.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*model.Client)}
}

func (m *mockClientRepo) Create(_ context.Context, client *model.Client) error {
	if client.ClientID == "" {
		client.ClientID = "client-" + client.Name
	}
	m.clients[client.ClientID] = client
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) GetByUserID(_ context.Context, userID string) (*model.Client, error) {
	for _, c := range m.clients {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) Update(_ context.Context, client *model.Client) error {
	m.clients[client.ClientID] = client
	return nil
}

func (m *mockClientRepo) List(_ context.Context, includeInactive bool) ([]model.Client, error) {
	var result []model.Client
	for _, c := range m.clients {
		if !includeInactive && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts    map[string]*model.DrillShift
	idCounter int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.DrillShift)}
}

// scopeAllows 复刻 applyScope 的可见范围语义
func scopeAllows(sh *model.DrillShift, scope *repository.VisibilityScope) bool {
	if scope == nil || scope.All {
		return true
	}
	if scope.ClientID != "" {
		return sh.ClientID != nil && *sh.ClientID == scope.ClientID && sh.Status == model.StatusApproved
	}
	if scope.OwnerID != "" && sh.CreatedByID == scope.OwnerID {
		return true
	}
	for _, st := range scope.Statuses {
		if sh.Status == st {
			return true
		}
	}
	return false
}

func filterAllows(sh *model.DrillShift, filters *repository.ShiftListFilters) bool {
	if filters == nil {
		return true
	}
	if filters.Status != "" && sh.Status != filters.Status {
		return false
	}
	if filters.ClientStatus != "" && (sh.ClientStatus == nil || *sh.ClientStatus != filters.ClientStatus) {
		return false
	}
	if filters.Rig != "" && sh.Rig != filters.Rig {
		return false
	}
	if filters.ProjectCode != "" && sh.ProjectCode != filters.ProjectCode {
		return false
	}
	if filters.DateFrom != nil && sh.Date.Before(*filters.DateFrom) {
		return false
	}
	if filters.DateTo != nil && sh.Date.After(*filters.DateTo) {
		return false
	}
	return true
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.DrillShift) error {
	if shift.ShiftID == "" {
		m.idCounter++
		shift.ShiftID = fmt.Sprintf("shift-%d", m.idCounter)
	}
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = time.Now()
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.DrillShift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetForUpdate(_ context.Context, id string) (*model.DrillShift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.DrillShift) error {
	shift.UpdatedAt = time.Now()
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) List(_ context.Context, scope *repository.VisibilityScope, filters *repository.ShiftListFilters, offset, limit int) ([]model.DrillShift, int64, error) {
	var filtered []model.DrillShift
	for _, s := range m.shifts {
		if scopeAllows(s, scope) && filterAllows(s, filters) {
			filtered = append(filtered, *s)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Date.After(filtered[j].Date) })
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockShiftRepo) ListByIDs(_ context.Context, ids []string) ([]model.DrillShift, error) {
	var result []model.DrillShift
	for _, id := range ids {
		if s, ok := m.shifts[id]; ok {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockShiftRepo) ListByDateRange(_ context.Context, scope *repository.VisibilityScope, from, to time.Time) ([]model.DrillShift, error) {
	var result []model.DrillShift
	for _, s := range m.shifts {
		if !scopeAllows(s, scope) {
			continue
		}
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockShiftRepo) GetPreviousApproved(_ context.Context, rig string, before time.Time, excludeID string) (*model.DrillShift, error) {
	var best *model.DrillShift
	for _, s := range m.shifts {
		if s.Rig != rig || s.Status != model.StatusApproved || s.ShiftID == excludeID {
			continue
		}
		if !s.Date.Before(before) {
			continue
		}
		if best == nil || s.Date.After(best.Date) {
			best = s
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (m *mockShiftRepo) CountByStatus(_ context.Context, scope *repository.VisibilityScope) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, s := range m.shifts {
		if scopeAllows(s, scope) {
			counts[s.Status]++
		}
	}
	return counts, nil
}

func (m *mockShiftRepo) CountByClientStatus(_ context.Context, clientID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, s := range m.shifts {
		if s.ClientID == nil || *s.ClientID != clientID || s.Status != model.StatusApproved {
			continue
		}
		key := model.ClientPending
		if s.ClientStatus != nil {
			key = *s.ClientStatus
		}
		counts[key]++
	}
	return counts, nil
}

// ── Mock ProgressRepository ──

type mockProgressRepo struct {
	records   []model.DrillingProgress
	idCounter int
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{}
}

func (m *mockProgressRepo) BatchCreate(_ context.Context, records []model.DrillingProgress) error {
	for i := range records {
		if records[i].ProgressID == "" {
			m.idCounter++
			records[i].ProgressID = fmt.Sprintf("prog-%d", m.idCounter)
		}
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockProgressRepo) ListByShift(_ context.Context, shiftID string) ([]model.DrillingProgress, error) {
	var result []model.DrillingProgress
	for _, r := range m.records {
		if r.ShiftID == shiftID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockProgressRepo) ListByShiftIDs(_ context.Context, shiftIDs []string) ([]model.DrillingProgress, error) {
	ids := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		ids[id] = true
	}
	var result []model.DrillingProgress
	for _, r := range m.records {
		if ids[r.ShiftID] {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockProgressRepo) DeleteByShift(_ context.Context, shiftID string) error {
	var remaining []model.DrillingProgress
	for _, r := range m.records {
		if r.ShiftID != shiftID {
			remaining = append(remaining, r)
		}
	}
	m.records = remaining
	return nil
}

func (m *mockProgressRepo) ListHoleNumbers(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var holes []string
	for _, r := range m.records {
		if r.HoleNumber != "" && !seen[r.HoleNumber] {
			seen[r.HoleNumber] = true
			holes = append(holes, r.HoleNumber)
		}
	}
	sort.Strings(holes)
	return holes, nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	records   []model.ActivityLog
	idCounter int
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{}
}

func (m *mockActivityRepo) BatchCreate(_ context.Context, records []model.ActivityLog) error {
	for i := range records {
		if records[i].ActivityID == "" {
			m.idCounter++
			records[i].ActivityID = fmt.Sprintf("act-%d", m.idCounter)
		}
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockActivityRepo) ListByShift(_ context.Context, shiftID string) ([]model.ActivityLog, error) {
	var result []model.ActivityLog
	for _, r := range m.records {
		if r.ShiftID == shiftID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByShiftIDs(_ context.Context, shiftIDs []string) ([]model.ActivityLog, error) {
	ids := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		ids[id] = true
	}
	var result []model.ActivityLog
	for _, r := range m.records {
		if ids[r.ShiftID] {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) DeleteByShift(_ context.Context, shiftID string) error {
	var remaining []model.ActivityLog
	for _, r := range m.records {
		if r.ShiftID != shiftID {
			remaining = append(remaining, r)
		}
	}
	m.records = remaining
	return nil
}

// ── Mock MaterialRepository ──

type mockMaterialRepo struct {
	records   []model.MaterialUsed
	idCounter int
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{}
}

func (m *mockMaterialRepo) BatchCreate(_ context.Context, records []model.MaterialUsed) error {
	for i := range records {
		if records[i].MaterialID == "" {
			m.idCounter++
			records[i].MaterialID = fmt.Sprintf("mat-%d", m.idCounter)
		}
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockMaterialRepo) ListByShift(_ context.Context, shiftID string) ([]model.MaterialUsed, error) {
	var result []model.MaterialUsed
	for _, r := range m.records {
		if r.ShiftID == shiftID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockMaterialRepo) ListByShiftIDs(_ context.Context, shiftIDs []string) ([]model.MaterialUsed, error) {
	ids := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		ids[id] = true
	}
	var result []model.MaterialUsed
	for _, r := range m.records {
		if ids[r.ShiftID] {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockMaterialRepo) DeleteByShift(_ context.Context, shiftID string) error {
	var remaining []model.MaterialUsed
	for _, r := range m.records {
		if r.ShiftID != shiftID {
			remaining = append(remaining, r)
		}
	}
	m.records = remaining
	return nil
}

// ── Mock SurveyRepository ──

type mockSurveyRepo struct {
	records   []model.Survey
	idCounter int
}

func newMockSurveyRepo() *mockSurveyRepo {
	return &mockSurveyRepo{}
}

func (m *mockSurveyRepo) BatchCreate(_ context.Context, records []model.Survey) error {
	for i := range records {
		if records[i].SurveyID == "" {
			m.idCounter++
			records[i].SurveyID = fmt.Sprintf("survey-%d", m.idCounter)
		}
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockSurveyRepo) ListByShift(_ context.Context, shiftID string) ([]model.Survey, error) {
	var result []model.Survey
	for _, r := range m.records {
		if r.ShiftID == shiftID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockSurveyRepo) DeleteByShift(_ context.Context, shiftID string) error {
	var remaining []model.Survey
	for _, r := range m.records {
		if r.ShiftID != shiftID {
			remaining = append(remaining, r)
		}
	}
	m.records = remaining
	return nil
}

// ── Mock CasingRepository ──

type mockCasingRepo struct {
	records   []model.Casing
	idCounter int
}

func newMockCasingRepo() *mockCasingRepo {
	return &mockCasingRepo{}
}

func (m *mockCasingRepo) BatchCreate(_ context.Context, records []model.Casing) error {
	for i := range records {
		if records[i].CasingID == "" {
			m.idCounter++
			records[i].CasingID = fmt.Sprintf("casing-%d", m.idCounter)
		}
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockCasingRepo) ListByShift(_ context.Context, shiftID string) ([]model.Casing, error) {
	var result []model.Casing
	for _, r := range m.records {
		if r.ShiftID == shiftID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockCasingRepo) DeleteByShift(_ context.Context, shiftID string) error {
	var remaining []model.Casing
	for _, r := range m.records {
		if r.ShiftID != shiftID {
			remaining = append(remaining, r)
		}
	}
	m.records = remaining
	return nil
}

// ── Mock ApprovalRepository ──

type mockApprovalRepo struct {
	entries   []model.ApprovalHistory
	idCounter int
}

func newMockApprovalRepo() *mockApprovalRepo {
	return &mockApprovalRepo{}
}

func (m *mockApprovalRepo) Create(_ context.Context, entry *model.ApprovalHistory) error {
	if entry.ApprovalID == "" {
		m.idCounter++
		entry.ApprovalID = fmt.Sprintf("appr-%d", m.idCounter)
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockApprovalRepo) ListByShift(_ context.Context, shiftID string) ([]model.ApprovalHistory, error) {
	var result []model.ApprovalHistory
	for _, e := range m.entries {
		if e.ShiftID == shiftID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	return result, nil
}

func (m *mockApprovalRepo) ListDecisionsByShiftIDs(_ context.Context, shiftIDs []string, decision string) ([]model.ApprovalHistory, error) {
	ids := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		ids[id] = true
	}
	var result []model.ApprovalHistory
	for _, e := range m.entries {
		if ids[e.ShiftID] && e.Decision == decision {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.Before(result[j].Timestamp) })
	return result, nil
}

// ── Mock AlertRepository ──

type mockAlertRepo struct {
	alerts    map[string]*model.Alert
	idCounter int
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{alerts: make(map[string]*model.Alert)}
}

func (m *mockAlertRepo) Create(_ context.Context, alert *model.Alert) error {
	if alert.AlertID == "" {
		m.idCounter++
		alert.AlertID = fmt.Sprintf("alert-%d", m.idCounter)
	}
	alert.IsActive = true
	alert.CreatedAt = time.Now()
	m.alerts[alert.AlertID] = alert
	return nil
}

func (m *mockAlertRepo) GetByID(_ context.Context, id string) (*model.Alert, error) {
	if a, ok := m.alerts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) Update(_ context.Context, alert *model.Alert) error {
	m.alerts[alert.AlertID] = alert
	return nil
}

func (m *mockAlertRepo) HasActive(_ context.Context, shiftID, alertType string) (bool, error) {
	for _, a := range m.alerts {
		if a.ShiftID == shiftID && a.AlertType == alertType && a.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAlertRepo) DeactivateByType(_ context.Context, shiftID, alertType string) error {
	for _, a := range m.alerts {
		if a.ShiftID == shiftID && a.AlertType == alertType && a.IsActive {
			a.IsActive = false
		}
	}
	return nil
}

func (m *mockAlertRepo) ListByShift(_ context.Context, shiftID string) ([]model.Alert, error) {
	var result []model.Alert
	for _, a := range m.alerts {
		if a.ShiftID == shiftID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAlertRepo) List(_ context.Context, filters *repository.AlertListFilters, offset, limit int) ([]model.Alert, int64, error) {
	var filtered []model.Alert
	for _, a := range m.alerts {
		if filters != nil {
			if filters.AlertType != "" && a.AlertType != filters.AlertType {
				continue
			}
			if filters.Severity != "" && a.Severity != filters.Severity {
				continue
			}
			if filters.ActiveOnly && !a.IsActive {
				continue
			}
			if filters.Acknowledged != nil && a.IsAcknowledged != *filters.Acknowledged {
				continue
			}
		}
		filtered = append(filtered, *a)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}
