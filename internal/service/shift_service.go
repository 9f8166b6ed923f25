package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
	pkgerrors "rigops/backend/pkg/errors"
)

// 班报模块错误
var (
	ErrShiftNotFound    = errors.New("班报不存在")
	ErrNoClientAssigned = errors.New("班报未指定客户，无法发起客户签认")
	ErrInvalidDecision  = errors.New("无效的审批决定")
	ErrNoLinkedClient   = errors.New("当前账号未关联客户公司")
)

const dateLayout = "2006-01-02"

// ShiftService 班报服务接口
//
// 工作流状态（status / client_status / is_locked）只允许经由本服务的
// Submit / Decide / SubmitToClient / ClientDecide 修改，其余代码一律只读。
type ShiftService interface {
	Create(ctx context.Context, actor *model.User, req *dto.ShiftRequest) (*model.DrillShift, error)
	Update(ctx context.Context, actor *model.User, shiftID string, req *dto.ShiftRequest) (*model.DrillShift, error)
	Delete(ctx context.Context, actor *model.User, shiftID string) error
	GetByID(ctx context.Context, actor *model.User, shiftID string) (*model.DrillShift, error)
	List(ctx context.Context, actor *model.User, query *dto.ListShiftsQuery) ([]model.DrillShift, int64, error)

	Submit(ctx context.Context, actor *model.User, shiftID string) (*model.DrillShift, error)
	Decide(ctx context.Context, actor *model.User, shiftID string, req *dto.DecideRequest) (*dto.DecideResponse, error)
	SubmitToClient(ctx context.Context, actor *model.User, shiftID string) (*model.DrillShift, error)
	ClientDecide(ctx context.Context, actor *model.User, shiftID string, req *dto.DecideRequest) (*model.DrillShift, error)

	// VisibilityScopeFor 构建该用户的可见范围，供报表与导出模块复用
	VisibilityScopeFor(ctx context.Context, actor *model.User) (*repository.VisibilityScope, error)
}

// shiftService ShiftService 实现
type shiftService struct {
	repo     *repository.Repository
	alertSvc AlertService
	logger   *zap.Logger
}

// NewShiftService 创建班报服务实例
func NewShiftService(repo *repository.Repository, alertSvc AlertService, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, alertSvc: alertSvc, logger: logger}
}

// ────────────────────── 可见性 ──────────────────────

// VisibilityScopeFor 角色可见范围：
// 超级管理员全部可见；客户仅可见归属自己且已审批的班报；
// 班组长可见自己创建的班报及所有 submitted/approved；经理可见 submitted/approved。
func (s *shiftService) VisibilityScopeFor(ctx context.Context, actor *model.User) (*repository.VisibilityScope, error) {
	if actor.IsSuperuser {
		return &repository.VisibilityScope{All: true}, nil
	}
	switch actor.Role {
	case model.RoleClient:
		client, err := s.repo.Client.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoLinkedClient
			}
			return nil, err
		}
		return &repository.VisibilityScope{ClientID: client.ClientID}, nil
	case model.RoleSupervisor:
		return &repository.VisibilityScope{
			OwnerID:  actor.UserID,
			Statuses: []string{model.StatusSubmitted, model.StatusApproved},
		}, nil
	default:
		return &repository.VisibilityScope{
			Statuses: []string{model.StatusSubmitted, model.StatusApproved},
		}, nil
	}
}

// canView 单条直接访问的可见性检查，越权访问返回 Forbidden 而非 NotFound
func (s *shiftService) canView(ctx context.Context, actor *model.User, shift *model.DrillShift) error {
	if actor.IsSuperuser {
		return nil
	}
	switch actor.Role {
	case model.RoleClient:
		client, err := s.repo.Client.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.ErrForbidden
			}
			return err
		}
		if shift.Status == model.StatusApproved && shift.ClientID != nil && *shift.ClientID == client.ClientID {
			return nil
		}
		return pkgerrors.ErrForbidden
	case model.RoleSupervisor:
		if shift.CreatedByID == actor.UserID {
			return nil
		}
	}
	if shift.Status == model.StatusSubmitted || shift.Status == model.StatusApproved {
		return nil
	}
	return pkgerrors.ErrForbidden
}

// canEdit 创建人（班组长）或超级管理员，且未锁定
func canEdit(actor *model.User, shift *model.DrillShift) error {
	if shift.IsLocked {
		return pkgerrors.ErrForbidden
	}
	if actor.IsSuperuser {
		return nil
	}
	if actor.Role == model.RoleSupervisor && shift.CreatedByID == actor.UserID {
		return nil
	}
	return pkgerrors.ErrForbidden
}

// ────────────────────── Create ──────────────────────

func (s *shiftService) Create(ctx context.Context, actor *model.User, req *dto.ShiftRequest) (*model.DrillShift, error) {
	if actor.Role != model.RoleSupervisor && !actor.IsSuperuser {
		return nil, pkgerrors.ErrForbidden
	}

	shift := &model.DrillShift{
		CreatedByID: actor.UserID,
		Status:      model.StatusDraft,
	}
	if err := applyShiftFields(shift, &req.ShiftFields); err != nil {
		return nil, err
	}

	err := s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Shift.Create(ctx, shift); err != nil {
			return err
		}
		return createChildren(ctx, txRepo, shift.ShiftID, actor.UserID, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("班报已创建",
		zap.String("shift_id", shift.ShiftID),
		zap.String("user_id", actor.UserID),
		zap.String("rig", shift.Rig))
	return s.repo.Shift.GetByID(ctx, shift.ShiftID)
}

// applyShiftFields 将请求字段写入实体，不触碰工作流状态字段
func applyShiftFields(shift *model.DrillShift, f *dto.ShiftFields) error {
	date, err := time.Parse(dateLayout, f.Date)
	if err != nil {
		return err
	}
	shift.Date = date
	shift.ShiftType = f.ShiftType
	if shift.ShiftType == "" {
		shift.ShiftType = model.ShiftDay
	}
	shift.Rig = f.Rig
	shift.Location = f.Location
	shift.ClientID = f.ClientID
	shift.ProjectCode = f.ProjectCode
	shift.PurchaseOrderNumber = f.PurchaseOrderNumber
	shift.TargetRecoveryPct = f.TargetRecoveryPct
	shift.TargetROP = f.TargetROP
	shift.TargetMetersPerShift = f.TargetMetersPerShift
	shift.SupervisorName = f.SupervisorName
	shift.DrillerName = f.DrillerName
	shift.Helper1Name = f.Helper1Name
	shift.Helper2Name = f.Helper2Name
	shift.Helper3Name = f.Helper3Name
	shift.Helper4Name = f.Helper4Name
	shift.StartTime = f.StartTime
	shift.EndTime = f.EndTime
	shift.Notes = f.Notes
	shift.StandbyClient = f.StandbyClient
	shift.StandbyClientReason = f.StandbyClientReason
	shift.StandbyClientRemarks = f.StandbyClientRemarks
	shift.StandbyConstructor = f.StandbyConstructor
	shift.StandbyConstructorReason = f.StandbyConstructorReason
	shift.StandbyConstructorRemarks = f.StandbyConstructorRemarks
	return nil
}

// createChildren 批量写入子记录，进尺记录先重算派生指标
func createChildren(ctx context.Context, repo *repository.Repository, shiftID, actorID string, req *dto.ShiftRequest) error {
	progress := make([]model.DrillingProgress, 0, len(req.Progress))
	for i := range req.Progress {
		in := &req.Progress[i]
		p := model.DrillingProgress{
			ShiftID:       shiftID,
			HoleNumber:    in.HoleNumber,
			Size:          in.Size,
			StartDepth:    in.StartDepth,
			EndDepth:      in.EndDepth,
			MetersDrilled: in.MetersDrilled,
			CoreLoss:      in.CoreLoss,
			CoreGain:      in.CoreGain,
			StartTime:     in.StartTime,
			EndTime:       in.EndTime,
			Remarks:       in.Remarks,
			CoreTrayImage: in.CoreTrayImage,
		}
		if p.Size == "" {
			p.Size = model.SizeHQ
		}
		ComputeProgressMetrics(&p)
		progress = append(progress, p)
	}
	if err := repo.Progress.BatchCreate(ctx, progress); err != nil {
		return err
	}

	activities := make([]model.ActivityLog, 0, len(req.Activities))
	for i := range req.Activities {
		in := &req.Activities[i]
		a := model.ActivityLog{
			ShiftID:         shiftID,
			ActivityType:    in.ActivityType,
			Description:     in.Description,
			DurationMinutes: in.DurationMinutes,
			PerformedByID:   &actorID,
		}
		if a.ActivityType == "" {
			a.ActivityType = model.ActivityOther
		}
		if in.Timestamp != nil {
			a.Timestamp = *in.Timestamp
		} else {
			a.Timestamp = time.Now()
		}
		activities = append(activities, a)
	}
	if err := repo.Activity.BatchCreate(ctx, activities); err != nil {
		return err
	}

	materials := make([]model.MaterialUsed, 0, len(req.Materials))
	for i := range req.Materials {
		in := &req.Materials[i]
		m := model.MaterialUsed{
			ShiftID:      shiftID,
			MaterialName: in.MaterialName,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
			Remarks:      in.Remarks,
		}
		if m.Unit == "" {
			m.Unit = "unit"
		}
		materials = append(materials, m)
	}
	if err := repo.Material.BatchCreate(ctx, materials); err != nil {
		return err
	}

	surveys := make([]model.Survey, 0, len(req.Surveys))
	for i := range req.Surveys {
		in := &req.Surveys[i]
		sv := model.Survey{
			ShiftID:      shiftID,
			SurveyType:   in.SurveyType,
			Depth:        in.Depth,
			DipAngle:     in.DipAngle,
			Azimuth:      in.Azimuth,
			Findings:     in.Findings,
			SurveyorName: in.SurveyorName,
		}
		if sv.SurveyType == "" {
			sv.SurveyType = model.SurveyOngoing
		}
		if in.SurveyTime != nil {
			sv.SurveyTime = *in.SurveyTime
		} else {
			sv.SurveyTime = time.Now()
		}
		surveys = append(surveys, sv)
	}
	if err := repo.Survey.BatchCreate(ctx, surveys); err != nil {
		return err
	}

	casings := make([]model.Casing, 0, len(req.Casings))
	for i := range req.Casings {
		in := &req.Casings[i]
		c := model.Casing{
			ShiftID:    shiftID,
			CasingSize: in.CasingSize,
			CasingType: in.CasingType,
			StartDepth: in.StartDepth,
			EndDepth:   in.EndDepth,
			Length:     in.Length,
			Remarks:    in.Remarks,
		}
		if c.CasingType == "" {
			c.CasingType = model.CasingPVC
		}
		if c.Length == 0 {
			c.Length = c.EndDepth - c.StartDepth
		}
		if in.InstalledAt != nil {
			c.InstalledAt = *in.InstalledAt
		} else {
			c.InstalledAt = time.Now()
		}
		casings = append(casings, c)
	}
	return repo.Casing.BatchCreate(ctx, casings)
}

// ────────────────────── Update ──────────────────────

// Update 整体替换：主体字段与全部子记录在一个事务内全有或全无地更新
func (s *shiftService) Update(ctx context.Context, actor *model.User, shiftID string, req *dto.ShiftRequest) (*model.DrillShift, error) {
	err := s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		shift, err := txRepo.Shift.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if err := canEdit(actor, shift); err != nil {
			return err
		}
		if err := applyShiftFields(shift, &req.ShiftFields); err != nil {
			return err
		}
		if err := txRepo.Shift.Update(ctx, shift); err != nil {
			return err
		}

		for _, del := range []func(context.Context, string) error{
			txRepo.Progress.DeleteByShift,
			txRepo.Activity.DeleteByShift,
			txRepo.Material.DeleteByShift,
			txRepo.Survey.DeleteByShift,
			txRepo.Casing.DeleteByShift,
		} {
			if err := del(ctx, shiftID); err != nil {
				return err
			}
		}
		return createChildren(ctx, txRepo, shiftID, actor.UserID, req)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	s.logger.Info("班报已更新",
		zap.String("shift_id", shiftID),
		zap.String("user_id", actor.UserID))
	return s.repo.Shift.GetByID(ctx, shiftID)
}

// ────────────────────── Delete ──────────────────────

func (s *shiftService) Delete(ctx context.Context, actor *model.User, shiftID string) error {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	if err := canEdit(actor, shift); err != nil {
		return err
	}
	if err := s.repo.Shift.Delete(ctx, shiftID); err != nil {
		return err
	}
	s.logger.Info("班报已删除",
		zap.String("shift_id", shiftID),
		zap.String("user_id", actor.UserID))
	return nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *shiftService) GetByID(ctx context.Context, actor *model.User, shiftID string) (*model.DrillShift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	if err := s.canView(ctx, actor, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) List(ctx context.Context, actor *model.User, query *dto.ListShiftsQuery) ([]model.DrillShift, int64, error) {
	scope, err := s.VisibilityScopeFor(ctx, actor)
	if err != nil {
		if errors.Is(err, ErrNoLinkedClient) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	filters := &repository.ShiftListFilters{
		Status:       query.Status,
		ClientStatus: query.ClientStatus,
		Rig:          query.Rig,
		ProjectCode:  query.ProjectCode,
		HoleNumber:   query.HoleNumber,
	}
	if query.DateFrom != "" {
		from, err := time.Parse(dateLayout, query.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		filters.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse(dateLayout, query.DateTo)
		if err != nil {
			return nil, 0, err
		}
		filters.DateTo = &to
	}
	return s.repo.Shift.List(ctx, scope, filters, query.Offset(), query.Limit())
}

// ────────────────────── Submit ──────────────────────

// Submit draft → submitted，同事务追加一条待审历史
func (s *shiftService) Submit(ctx context.Context, actor *model.User, shiftID string) (*model.DrillShift, error) {
	err := s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		shift, err := txRepo.Shift.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if !actor.IsSuperuser && !(actor.Role == model.RoleSupervisor && shift.CreatedByID == actor.UserID) {
			return pkgerrors.ErrForbidden
		}
		if shift.Status != model.StatusDraft {
			return pkgerrors.NewInvalidState("submit", shift.Status)
		}

		now := time.Now()
		shift.Status = model.StatusSubmitted
		if shift.SubmittedAt == nil {
			shift.SubmittedAt = &now
		}
		if err := txRepo.Shift.Update(ctx, shift); err != nil {
			return err
		}
		return txRepo.Approval.Create(ctx, &model.ApprovalHistory{
			ShiftID:   shift.ShiftID,
			Role:      model.PendingReviewRole,
			Decision:  model.DecisionPending,
			Timestamp: now,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	s.logger.Info("班报已提交审批",
		zap.String("shift_id", shiftID),
		zap.String("user_id", actor.UserID))
	return s.repo.Shift.GetByID(ctx, shiftID)
}

// ────────────────────── Decide ──────────────────────

// Decide submitted → approved/rejected
//
// 行锁保证并发审批串行化：后到者重读到非 submitted 状态并收到 InvalidState。
// 审批通过后的预警评估在事务提交之后执行，失败降级为响应中的警告，
// 绝不回滚已生效的审批。
func (s *shiftService) Decide(ctx context.Context, actor *model.User, shiftID string, req *dto.DecideRequest) (*dto.DecideResponse, error) {
	canDecide := actor.IsSuperuser ||
		actor.Role == model.RoleManager ||
		(actor.Role == model.RoleSupervisor && actor.CanApprove)
	if !canDecide {
		return nil, pkgerrors.ErrForbidden
	}
	if req.Decision != model.StatusApproved && req.Decision != model.StatusRejected {
		return nil, ErrInvalidDecision
	}

	var finalStatus string
	err := s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		shift, err := txRepo.Shift.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift.Status != model.StatusSubmitted {
			return pkgerrors.NewInvalidState("decide", shift.Status)
		}

		now := time.Now()
		if req.Decision == model.StatusApproved {
			shift.Status = model.StatusApproved
			shift.IsLocked = true
			if shift.ManagerApprovedAt == nil {
				shift.ManagerApprovedAt = &now
			}
			if shift.ClientID != nil {
				pending := model.ClientPending
				shift.ClientStatus = &pending
				shift.SubmittedToClientAt = &now
			}
		} else {
			shift.Status = model.StatusRejected
			shift.IsLocked = false
		}
		if err := txRepo.Shift.Update(ctx, shift); err != nil {
			return err
		}
		finalStatus = shift.Status
		return txRepo.Approval.Create(ctx, &model.ApprovalHistory{
			ShiftID:    shift.ShiftID,
			ApproverID: &actor.UserID,
			Role:       actor.DisplayRole(),
			Decision:   req.Decision,
			Comments:   req.Comments,
			Timestamp:  now,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	s.logger.Info("班报审批完成",
		zap.String("shift_id", shiftID),
		zap.String("user_id", actor.UserID),
		zap.String("decision", req.Decision))

	resp := &dto.DecideResponse{ShiftID: shiftID, Status: finalStatus}
	if finalStatus == model.StatusApproved {
		if err := s.alertSvc.Evaluate(ctx, shiftID); err != nil {
			s.logger.Warn("审批后预警评估失败",
				zap.String("shift_id", shiftID),
				zap.Error(err))
			resp.Warning = "审批已生效，但预警评估未完成：" + err.Error()
		}
	}
	return resp, nil
}

// ────────────────────── SubmitToClient ──────────────────────

func (s *shiftService) SubmitToClient(ctx context.Context, actor *model.User, shiftID string) (*model.DrillShift, error) {
	if actor.Role != model.RoleManager && !actor.IsSuperuser {
		return nil, pkgerrors.ErrForbidden
	}

	err := s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		shift, err := txRepo.Shift.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift.Status != model.StatusApproved {
			return pkgerrors.NewInvalidState("submit_to_client", shift.Status)
		}
		if shift.ClientID == nil {
			return ErrNoClientAssigned
		}

		now := time.Now()
		pending := model.ClientPending
		shift.ClientStatus = &pending
		shift.SubmittedToClientAt = &now
		return txRepo.Shift.Update(ctx, shift)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	s.logger.Info("班报已送客户签认",
		zap.String("shift_id", shiftID),
		zap.String("user_id", actor.UserID))
	return s.repo.Shift.GetByID(ctx, shiftID)
}

// ────────────────────── ClientDecide ──────────────────────

// ClientDecide 客户签认，仅限班报归属客户公司的关联账号
// 客户拒绝会解除锁定以便修改重报，经理审批状态保持 approved 不变
func (s *shiftService) ClientDecide(ctx context.Context, actor *model.User, shiftID string, req *dto.DecideRequest) (*model.DrillShift, error) {
	if actor.Role != model.RoleClient {
		return nil, pkgerrors.ErrForbidden
	}
	if req.Decision != model.StatusApproved && req.Decision != model.StatusRejected {
		return nil, ErrInvalidDecision
	}
	client, err := s.repo.Client.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrForbidden
		}
		return nil, err
	}

	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		shift, err := txRepo.Shift.GetForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift.ClientID == nil || *shift.ClientID != client.ClientID {
			return pkgerrors.ErrForbidden
		}
		if shift.Status != model.StatusApproved {
			return pkgerrors.NewInvalidState("client_decide", shift.Status)
		}

		now := time.Now()
		if req.Decision == model.StatusApproved {
			approved := model.ClientApproved
			shift.ClientStatus = &approved
			shift.ClientApprovedAt = &now
			shift.ClientApprovedByID = &actor.UserID
			shift.IsLocked = true
		} else {
			rejected := model.ClientRejected
			shift.ClientStatus = &rejected
			shift.IsLocked = false
		}
		shift.ClientComments = req.Comments
		return txRepo.Shift.Update(ctx, shift)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	s.logger.Info("客户签认完成",
		zap.String("shift_id", shiftID),
		zap.String("client_id", client.ClientID),
		zap.String("decision", req.Decision))
	return s.repo.Shift.GetByID(ctx, shiftID)
}
