package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"rigops/backend/config"
	"rigops/backend/internal/dto"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
	pkgerrors "rigops/backend/pkg/errors"
)

// ── 测试辅助 ──

type testRepos struct {
	repo      *repository.Repository
	users     *mockUserRepo
	clients   *mockClientRepo
	shifts    *mockShiftRepo
	progress  *mockProgressRepo
	activity  *mockActivityRepo
	materials *mockMaterialRepo
	approvals *mockApprovalRepo
	alerts    *mockAlertRepo
}

func newTestRepos() *testRepos {
	tr := &testRepos{
		users:     newMockUserRepo(),
		clients:   newMockClientRepo(),
		shifts:    newMockShiftRepo(),
		progress:  newMockProgressRepo(),
		activity:  newMockActivityRepo(),
		materials: newMockMaterialRepo(),
		approvals: newMockApprovalRepo(),
		alerts:    newMockAlertRepo(),
	}
	// db 为空，Transact 退化为直接执行
	tr.repo = &repository.Repository{
		User:     tr.users,
		Client:   tr.clients,
		Shift:    tr.shifts,
		Progress: tr.progress,
		Activity: tr.activity,
		Material: tr.materials,
		Survey:   newMockSurveyRepo(),
		Casing:   newMockCasingRepo(),
		Approval: tr.approvals,
		Alert:    tr.alerts,
	}
	return tr
}

func testAlertConfig() *config.AlertConfig {
	return &config.AlertConfig{
		RecoveryThreshold: 90,
		ROPDropThreshold:  30,
		DowntimeThreshold: 4,
	}
}

func setupTestShiftService() (ShiftService, *testRepos) {
	tr := newTestRepos()
	alertSvc := NewAlertService(tr.repo, testAlertConfig(), zap.NewNop())
	svc := NewShiftService(tr.repo, alertSvc, zap.NewNop())
	return svc, tr
}

func supervisorUser(id string) *model.User {
	return &model.User{UserID: id, Username: id, Role: model.RoleSupervisor, IsActive: true}
}

func managerUser(id string) *model.User {
	return &model.User{UserID: id, Username: id, Role: model.RoleManager, IsActive: true}
}

func clientUser(id string) *model.User {
	return &model.User{UserID: id, Username: id, Role: model.RoleClient, IsActive: true}
}

func seedShift(tr *testRepos, shift *model.DrillShift) *model.DrillShift {
	tr.shifts.shifts[shift.ShiftID] = shift
	return shift
}

// ── Create 测试 ──

func TestShiftService_Create_Success(t *testing.T) {
	svc, tr := setupTestShiftService()
	actor := supervisorUser("sup-001")

	req := &dto.ShiftRequest{
		ShiftFields: dto.ShiftFields{Date: "2026-08-10", Rig: "RIG-01"},
		Progress: []dto.ProgressInput{
			{StartDepth: 100, EndDepth: 110, CoreLoss: 3},
		},
	}

	shift, err := svc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if shift.Status != model.StatusDraft {
		t.Errorf("期望Status=draft，实际=%s", shift.Status)
	}
	if shift.ShiftType != model.ShiftDay {
		t.Errorf("班次类型应默认为 day，实际=%s", shift.ShiftType)
	}
	if shift.CreatedByID != "sup-001" {
		t.Errorf("期望CreatedByID=sup-001，实际=%s", shift.CreatedByID)
	}

	records, _ := tr.progress.ListByShift(context.Background(), shift.ShiftID)
	if len(records) != 1 {
		t.Fatalf("期望 1 条进尺记录，实际=%d", len(records))
	}
	if records[0].MetersDrilled != 10 {
		t.Errorf("进尺应按深度差补算为 10，实际=%v", records[0].MetersDrilled)
	}
	if records[0].RecoveryPercentage == nil || *records[0].RecoveryPercentage != 70 {
		t.Errorf("回收率应重算为 70，实际=%v", records[0].RecoveryPercentage)
	}
	if records[0].Size != model.SizeHQ {
		t.Errorf("孔径应默认为 HQ，实际=%s", records[0].Size)
	}
}

func TestShiftService_Create_ManagerForbidden(t *testing.T) {
	svc, _ := setupTestShiftService()

	req := &dto.ShiftRequest{ShiftFields: dto.ShiftFields{Date: "2026-08-10"}}
	_, err := svc.Create(context.Background(), managerUser("mgr-001"), req)
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

func TestShiftService_Create_BadDate(t *testing.T) {
	svc, _ := setupTestShiftService()

	req := &dto.ShiftRequest{ShiftFields: dto.ShiftFields{Date: "10/08/2026"}}
	_, err := svc.Create(context.Background(), supervisorUser("sup-001"), req)
	if err == nil {
		t.Error("无法解析的日期应返回错误")
	}
}

// ── Update 测试 ──

func TestShiftService_Update_ReplacesChildren(t *testing.T) {
	svc, tr := setupTestShiftService()
	actor := supervisorUser("sup-001")

	req := &dto.ShiftRequest{
		ShiftFields: dto.ShiftFields{Date: "2026-08-10", Rig: "RIG-01"},
		Progress:    []dto.ProgressInput{{StartDepth: 0, EndDepth: 5}},
	}
	shift, err := svc.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	update := &dto.ShiftRequest{
		ShiftFields: dto.ShiftFields{Date: "2026-08-10", Rig: "RIG-02"},
		Progress: []dto.ProgressInput{
			{StartDepth: 5, EndDepth: 8},
			{StartDepth: 8, EndDepth: 12},
		},
	}
	updated, err := svc.Update(context.Background(), actor, shift.ShiftID, update)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Rig != "RIG-02" {
		t.Errorf("期望Rig=RIG-02，实际=%s", updated.Rig)
	}

	records, _ := tr.progress.ListByShift(context.Background(), shift.ShiftID)
	if len(records) != 2 {
		t.Errorf("子记录应整组替换为 2 条，实际=%d", len(records))
	}
}

func TestShiftService_Update_LockedForbidden(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-locked",
		CreatedByID: "sup-001",
		Date:        time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Status:      model.StatusApproved,
		IsLocked:    true,
	})

	req := &dto.ShiftRequest{ShiftFields: dto.ShiftFields{Date: "2026-08-10"}}
	_, err := svc.Update(context.Background(), supervisorUser("sup-001"), "shift-locked", req)
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("锁定班报期望 ErrForbidden，实际: %v", err)
	}
}

func TestShiftService_Update_NonOwnerForbidden(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Date:        time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Status:      model.StatusDraft,
	})

	req := &dto.ShiftRequest{ShiftFields: dto.ShiftFields{Date: "2026-08-10"}}
	_, err := svc.Update(context.Background(), supervisorUser("sup-002"), "shift-001", req)
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("非创建人期望 ErrForbidden，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestShiftService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestShiftService()

	err := svc.Delete(context.Background(), supervisorUser("sup-001"), "nonexistent")
	if !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("期望 ErrShiftNotFound，实际: %v", err)
	}
}

// ── 可见性测试 ──

func TestShiftService_GetByID_OwnerSeesDraft(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusDraft,
	})

	if _, err := svc.GetByID(context.Background(), supervisorUser("sup-001"), "shift-001"); err != nil {
		t.Errorf("创建人应可见自己的草稿: %v", err)
	}
}

func TestShiftService_GetByID_OtherSupervisorDraftForbidden(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusDraft,
	})

	// 越权访问返回 Forbidden 而非 NotFound
	_, err := svc.GetByID(context.Background(), supervisorUser("sup-002"), "shift-001")
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

func TestShiftService_GetByID_ManagerSeesSubmitted(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	if _, err := svc.GetByID(context.Background(), managerUser("mgr-001"), "shift-001"); err != nil {
		t.Errorf("经理应可见已提交班报: %v", err)
	}
}

func TestShiftService_GetByID_ClientOwnApprovedOnly(t *testing.T) {
	svc, tr := setupTestShiftService()
	userID := "cli-user-001"
	tr.clients.clients["client-A"] = &model.Client{ClientID: "client-A", Name: "甲方A", UserID: &userID, IsActive: true}

	clientA := "client-A"
	seedShift(tr, &model.DrillShift{
		ShiftID: "shift-approved", CreatedByID: "sup-001",
		ClientID: &clientA, Status: model.StatusApproved,
	})
	seedShift(tr, &model.DrillShift{
		ShiftID: "shift-submitted", CreatedByID: "sup-001",
		ClientID: &clientA, Status: model.StatusSubmitted,
	})
	clientB := "client-B"
	seedShift(tr, &model.DrillShift{
		ShiftID: "shift-other", CreatedByID: "sup-001",
		ClientID: &clientB, Status: model.StatusApproved,
	})

	actor := clientUser(userID)
	if _, err := svc.GetByID(context.Background(), actor, "shift-approved"); err != nil {
		t.Errorf("客户应可见归属自己的已审批班报: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), actor, "shift-submitted"); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("客户不应可见未审批班报，实际: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), actor, "shift-other"); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("客户不应可见其他客户的班报，实际: %v", err)
	}
}

func TestShiftService_List_ClientWithoutCompanyEmpty(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{ShiftID: "shift-001", CreatedByID: "sup-001", Status: model.StatusApproved})

	// 未关联客户公司的客户账号列表为空而非报错
	shifts, total, err := svc.List(context.Background(), clientUser("orphan"), &dto.ListShiftsQuery{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 0 || len(shifts) != 0 {
		t.Errorf("期望空结果，实际 total=%d len=%d", total, len(shifts))
	}
}

func TestShiftService_List_SupervisorSeesOwnAndShared(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{ShiftID: "s1", CreatedByID: "sup-001", Status: model.StatusDraft,
		Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)})
	seedShift(tr, &model.DrillShift{ShiftID: "s2", CreatedByID: "sup-002", Status: model.StatusDraft,
		Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)})
	seedShift(tr, &model.DrillShift{ShiftID: "s3", CreatedByID: "sup-002", Status: model.StatusSubmitted,
		Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)})

	_, total, err := svc.List(context.Background(), supervisorUser("sup-001"), &dto.ListShiftsQuery{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	// 自己的草稿 + 他人的 submitted，不含他人草稿
	if total != 2 {
		t.Errorf("期望可见 2 条，实际=%d", total)
	}
}

// ── Submit 测试 ──

func TestShiftService_Submit_Success(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusDraft,
	})

	shift, err := svc.Submit(context.Background(), supervisorUser("sup-001"), "shift-001")
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if shift.Status != model.StatusSubmitted {
		t.Errorf("期望Status=submitted，实际=%s", shift.Status)
	}
	if shift.SubmittedAt == nil {
		t.Error("SubmittedAt 应被设置")
	}

	entries, _ := tr.approvals.ListByShift(context.Background(), "shift-001")
	if len(entries) != 1 {
		t.Fatalf("期望 1 条审批历史，实际=%d", len(entries))
	}
	if entries[0].Decision != model.DecisionPending {
		t.Errorf("期望Decision=pending，实际=%s", entries[0].Decision)
	}
	if entries[0].Role != model.PendingReviewRole {
		t.Errorf("期望Role=%s，实际=%s", model.PendingReviewRole, entries[0].Role)
	}
	if entries[0].ApproverID != nil {
		t.Error("待审历史的 ApproverID 应为空")
	}
}

func TestShiftService_Submit_AlreadySubmitted(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	_, err := svc.Submit(context.Background(), supervisorUser("sup-001"), "shift-001")
	if !pkgerrors.IsInvalidState(err) {
		t.Errorf("重复提交期望 InvalidStateError，实际: %v", err)
	}

	// 失败的提交不应追加审批历史
	entries, _ := tr.approvals.ListByShift(context.Background(), "shift-001")
	if len(entries) != 0 {
		t.Errorf("期望 0 条审批历史，实际=%d", len(entries))
	}
}

func TestShiftService_Submit_NonOwnerForbidden(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusDraft,
	})

	_, err := svc.Submit(context.Background(), supervisorUser("sup-002"), "shift-001")
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

// ── Decide 测试 ──

func TestShiftService_Decide_ApproveWithoutClient(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	resp, err := svc.Decide(context.Background(), managerUser("mgr-001"), "shift-001",
		&dto.DecideRequest{Decision: "approved", Comments: "进尺达标"})
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if resp.Status != model.StatusApproved {
		t.Errorf("期望Status=approved，实际=%s", resp.Status)
	}
	if resp.Warning != "" {
		t.Errorf("无预警评估失败时 Warning 应为空，实际=%s", resp.Warning)
	}

	shift := tr.shifts.shifts["shift-001"]
	if !shift.IsLocked {
		t.Error("审批通过后班报应锁定")
	}
	if shift.ManagerApprovedAt == nil {
		t.Error("ManagerApprovedAt 应被设置")
	}
	// 未指定客户时不进入客户签认流程
	if shift.ClientStatus != nil {
		t.Errorf("未指定客户时 ClientStatus 应为空，实际=%s", *shift.ClientStatus)
	}

	entries, _ := tr.approvals.ListByShift(context.Background(), "shift-001")
	if len(entries) != 1 {
		t.Fatalf("期望 1 条审批历史，实际=%d", len(entries))
	}
	if entries[0].Decision != model.DecisionApproved {
		t.Errorf("期望Decision=approved，实际=%s", entries[0].Decision)
	}
	if entries[0].Role != "Manager" {
		t.Errorf("期望Role=Manager，实际=%s", entries[0].Role)
	}
	if entries[0].Comments != "进尺达标" {
		t.Errorf("审批意见应保留，实际=%s", entries[0].Comments)
	}
}

func TestShiftService_Decide_ApproveWithClientAutoSubmits(t *testing.T) {
	svc, tr := setupTestShiftService()
	clientID := "client-A"
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		ClientID:    &clientID,
		Status:      model.StatusSubmitted,
	})

	_, err := svc.Decide(context.Background(), managerUser("mgr-001"), "shift-001",
		&dto.DecideRequest{Decision: "approved"})
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}

	// 指定了客户的班报审批通过后自动进入客户签认流程
	shift := tr.shifts.shifts["shift-001"]
	if shift.ClientStatus == nil || *shift.ClientStatus != model.ClientPending {
		t.Errorf("期望ClientStatus=pending_client，实际=%v", shift.ClientStatus)
	}
	if shift.SubmittedToClientAt == nil {
		t.Error("SubmittedToClientAt 应被设置")
	}
}

func TestShiftService_Decide_Reject(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	resp, err := svc.Decide(context.Background(), managerUser("mgr-001"), "shift-001",
		&dto.DecideRequest{Decision: "rejected", Comments: "数据缺失"})
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if resp.Status != model.StatusRejected {
		t.Errorf("期望Status=rejected，实际=%s", resp.Status)
	}

	shift := tr.shifts.shifts["shift-001"]
	if shift.IsLocked {
		t.Error("驳回后班报应保持可编辑")
	}
}

func TestShiftService_Decide_SupervisorWithoutApprovalRight(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	_, err := svc.Decide(context.Background(), supervisorUser("sup-002"), "shift-001",
		&dto.DecideRequest{Decision: "approved"})
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("无审批权班组长期望 ErrForbidden，实际: %v", err)
	}
}

func TestShiftService_Decide_SupervisorWithCanApprove(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	actor := supervisorUser("sup-002")
	actor.CanApprove = true
	resp, err := svc.Decide(context.Background(), actor, "shift-001",
		&dto.DecideRequest{Decision: "approved"})
	if err != nil {
		t.Fatalf("具审批权的班组长应可审批: %v", err)
	}
	if resp.Status != model.StatusApproved {
		t.Errorf("期望Status=approved，实际=%s", resp.Status)
	}

	entries, _ := tr.approvals.ListByShift(context.Background(), "shift-001")
	if len(entries) != 1 || entries[0].Role != "Supervisor" {
		t.Errorf("审批历史应记录 Supervisor 角色，实际=%v", entries)
	}
}

func TestShiftService_Decide_DraftInvalidState(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusDraft,
	})

	_, err := svc.Decide(context.Background(), managerUser("mgr-001"), "shift-001",
		&dto.DecideRequest{Decision: "approved"})
	if !pkgerrors.IsInvalidState(err) {
		t.Errorf("草稿审批期望 InvalidStateError，实际: %v", err)
	}
}

func TestShiftService_Decide_InvalidDecision(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusSubmitted,
	})

	_, err := svc.Decide(context.Background(), managerUser("mgr-001"), "shift-001",
		&dto.DecideRequest{Decision: "maybe"})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("期望 ErrInvalidDecision，实际: %v", err)
	}
}

// ── SubmitToClient 测试 ──

func TestShiftService_SubmitToClient_Success(t *testing.T) {
	svc, tr := setupTestShiftService()
	clientID := "client-A"
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		ClientID:    &clientID,
		Status:      model.StatusApproved,
		IsLocked:    true,
	})

	shift, err := svc.SubmitToClient(context.Background(), managerUser("mgr-001"), "shift-001")
	if err != nil {
		t.Fatalf("SubmitToClient 应成功: %v", err)
	}
	if shift.ClientStatus == nil || *shift.ClientStatus != model.ClientPending {
		t.Errorf("期望ClientStatus=pending_client，实际=%v", shift.ClientStatus)
	}
}

func TestShiftService_SubmitToClient_NoClient(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		Status:      model.StatusApproved,
	})

	_, err := svc.SubmitToClient(context.Background(), managerUser("mgr-001"), "shift-001")
	if !errors.Is(err, ErrNoClientAssigned) {
		t.Errorf("期望 ErrNoClientAssigned，实际: %v", err)
	}
}

func TestShiftService_SubmitToClient_NotApproved(t *testing.T) {
	svc, tr := setupTestShiftService()
	clientID := "client-A"
	seedShift(tr, &model.DrillShift{
		ShiftID:     "shift-001",
		CreatedByID: "sup-001",
		ClientID:    &clientID,
		Status:      model.StatusSubmitted,
	})

	_, err := svc.SubmitToClient(context.Background(), managerUser("mgr-001"), "shift-001")
	if !pkgerrors.IsInvalidState(err) {
		t.Errorf("未审批班报期望 InvalidStateError，实际: %v", err)
	}
}

// ── ClientDecide 测试 ──

func seedClientWorkflow(tr *testRepos) (*model.User, *model.DrillShift) {
	userID := "cli-user-001"
	tr.clients.clients["client-A"] = &model.Client{
		ClientID: "client-A", Name: "甲方A", UserID: &userID, IsActive: true,
	}
	clientID := "client-A"
	pending := model.ClientPending
	shift := seedShift(tr, &model.DrillShift{
		ShiftID:      "shift-001",
		CreatedByID:  "sup-001",
		ClientID:     &clientID,
		Status:       model.StatusApproved,
		ClientStatus: &pending,
		IsLocked:     true,
	})
	return clientUser(userID), shift
}

func TestShiftService_ClientDecide_Approve(t *testing.T) {
	svc, tr := setupTestShiftService()
	actor, _ := seedClientWorkflow(tr)

	shift, err := svc.ClientDecide(context.Background(), actor, "shift-001",
		&dto.DecideRequest{Decision: "approved", Comments: "确认无误"})
	if err != nil {
		t.Fatalf("ClientDecide 应成功: %v", err)
	}
	if shift.ClientStatus == nil || *shift.ClientStatus != model.ClientApproved {
		t.Errorf("期望ClientStatus=client_approved，实际=%v", shift.ClientStatus)
	}
	if !shift.IsLocked {
		t.Error("客户签认通过后班报应保持锁定")
	}
	if shift.ClientApprovedAt == nil || shift.ClientApprovedByID == nil {
		t.Error("客户签认时间与签认人应被记录")
	}
	if shift.ClientComments != "确认无误" {
		t.Errorf("客户意见应保留，实际=%s", shift.ClientComments)
	}
}

func TestShiftService_ClientDecide_RejectUnlocks(t *testing.T) {
	svc, tr := setupTestShiftService()
	actor, _ := seedClientWorkflow(tr)

	shift, err := svc.ClientDecide(context.Background(), actor, "shift-001",
		&dto.DecideRequest{Decision: "rejected", Comments: "进尺数据有误"})
	if err != nil {
		t.Fatalf("ClientDecide 应成功: %v", err)
	}
	if shift.ClientStatus == nil || *shift.ClientStatus != model.ClientRejected {
		t.Errorf("期望ClientStatus=client_rejected，实际=%v", shift.ClientStatus)
	}
	// 客户拒绝解除锁定以便修改重报，经理审批状态保持不变
	if shift.IsLocked {
		t.Error("客户拒绝后班报应解除锁定")
	}
	if shift.Status != model.StatusApproved {
		t.Errorf("客户拒绝不应改变经理审批状态，实际=%s", shift.Status)
	}
}

func TestShiftService_ClientDecide_OtherClientForbidden(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedClientWorkflow(tr)

	otherUserID := "cli-user-002"
	tr.clients.clients["client-B"] = &model.Client{
		ClientID: "client-B", Name: "甲方B", UserID: &otherUserID, IsActive: true,
	}

	_, err := svc.ClientDecide(context.Background(), clientUser(otherUserID), "shift-001",
		&dto.DecideRequest{Decision: "approved"})
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("其他客户签认期望 ErrForbidden，实际: %v", err)
	}
}

func TestShiftService_ClientDecide_NonClientForbidden(t *testing.T) {
	svc, tr := setupTestShiftService()
	seedClientWorkflow(tr)

	_, err := svc.ClientDecide(context.Background(), managerUser("mgr-001"), "shift-001",
		&dto.DecideRequest{Decision: "approved"})
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("非客户角色期望 ErrForbidden，实际: %v", err)
	}
}
