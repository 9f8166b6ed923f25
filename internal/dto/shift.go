package dto

import "time"

// ProgressInput 钻进回次输入
// recovery_percentage / penetration_rate 为派生字段，不接受输入
type ProgressInput struct {
	HoleNumber    string  `json:"hole_number"`
	Size          string  `json:"size"           binding:"omitempty,oneof=PQ HQ NQ BQ AQ"`
	StartDepth    float64 `json:"start_depth"    binding:"min=0"`
	EndDepth      float64 `json:"end_depth"      binding:"min=0,gtefield=StartDepth"`
	MetersDrilled float64 `json:"meters_drilled" binding:"min=0"`
	CoreLoss      float64 `json:"core_loss"      binding:"min=0"`
	CoreGain      float64 `json:"core_gain"      binding:"min=0"`
	StartTime     *string `json:"start_time"     binding:"omitempty,len=5"`
	EndTime       *string `json:"end_time"       binding:"omitempty,len=5"`
	Remarks       string  `json:"remarks"`
	CoreTrayImage string  `json:"core_tray_image"`
}

// ActivityInput 活动记录输入
type ActivityInput struct {
	Timestamp       *time.Time `json:"timestamp"`
	ActivityType    string     `json:"activity_type"    binding:"omitempty,oneof=drilling maintenance safety meeting other"`
	Description     string     `json:"description"      binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"min=0"`
}

// MaterialInput 物料消耗输入
type MaterialInput struct {
	MaterialName string  `json:"material_name" binding:"required"`
	Quantity     float64 `json:"quantity"      binding:"min=0"`
	Unit         string  `json:"unit"`
	Remarks      string  `json:"remarks"`
}

// SurveyInput 测斜记录输入
type SurveyInput struct {
	SurveyType   string     `json:"survey_type"   binding:"omitempty,oneof=gyro camera ongoing magnetic other"`
	Depth        float64    `json:"depth"         binding:"min=0"`
	DipAngle     float64    `json:"dip_angle"     binding:"min=-90,max=90"`
	Azimuth      float64    `json:"azimuth"       binding:"min=0,max=360"`
	Findings     string     `json:"findings"`
	SurveyorName string     `json:"surveyor_name"`
	SurveyTime   *time.Time `json:"survey_time"`
}

// CasingInput 套管记录输入
type CasingInput struct {
	CasingSize  string     `json:"casing_size" binding:"required"`
	CasingType  string     `json:"casing_type" binding:"omitempty,oneof=pvc steel hdpe fiberglass other"`
	StartDepth  float64    `json:"start_depth" binding:"min=0"`
	EndDepth    float64    `json:"end_depth"   binding:"min=0,gtefield=StartDepth"`
	Length      float64    `json:"length"      binding:"min=0"`
	Remarks     string     `json:"remarks"`
	InstalledAt *time.Time `json:"installed_at"`
}

// ShiftFields 班报主体字段（创建与更新共用）
type ShiftFields struct {
	Date      string  `json:"date"       binding:"required,datetime=2006-01-02"`
	ShiftType string  `json:"shift_type" binding:"omitempty,oneof=day night"`
	Rig       string  `json:"rig"`
	Location  string  `json:"location"`
	ClientID  *string `json:"client_id"  binding:"omitempty,uuid"`

	ProjectCode         string `json:"project_code"`
	PurchaseOrderNumber string `json:"purchase_order_number"`

	TargetRecoveryPct    *float64 `json:"target_recovery_pct"     binding:"omitempty,min=0,max=200"`
	TargetROP            *float64 `json:"target_rop"              binding:"omitempty,min=0"`
	TargetMetersPerShift *float64 `json:"target_meters_per_shift" binding:"omitempty,min=0"`

	SupervisorName string `json:"supervisor_name"`
	DrillerName    string `json:"driller_name"`
	Helper1Name    string `json:"helper1_name"`
	Helper2Name    string `json:"helper2_name"`
	Helper3Name    string `json:"helper3_name"`
	Helper4Name    string `json:"helper4_name"`

	StartTime *string `json:"start_time" binding:"omitempty,len=5"`
	EndTime   *string `json:"end_time"   binding:"omitempty,len=5"`
	Notes     string  `json:"notes"`

	StandbyClient             bool   `json:"standby_client"`
	StandbyClientReason       string `json:"standby_client_reason"`
	StandbyClientRemarks      string `json:"standby_client_remarks"`
	StandbyConstructor        bool   `json:"standby_constructor"`
	StandbyConstructorReason  string `json:"standby_constructor_reason"`
	StandbyConstructorRemarks string `json:"standby_constructor_remarks"`
}

// ShiftRequest 创建 / 更新班报请求（子记录整组替换）
type ShiftRequest struct {
	ShiftFields
	Progress   []ProgressInput `json:"progress"`
	Activities []ActivityInput `json:"activities"`
	Materials  []MaterialInput `json:"materials"`
	Surveys    []SurveyInput   `json:"surveys"`
	Casings    []CasingInput   `json:"casings"`
}

// ListShiftsQuery 班报列表查询参数
type ListShiftsQuery struct {
	PageQuery
	Status       string `form:"status"        binding:"omitempty,oneof=draft submitted approved rejected"`
	ClientStatus string `form:"client_status" binding:"omitempty,oneof=pending_client client_approved client_rejected"`
	Rig          string `form:"rig"`
	ProjectCode  string `form:"project_code"`
	HoleNumber   string `form:"hole_number"`
	DateFrom     string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo       string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
}

// DecideRequest 经理审批 / 客户签认决定
type DecideRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Comments string `json:"comments"`
}

// DecideResponse 审批结果
// Warning 为预警评估失败时的非致命提示，审批本身已成功
type DecideResponse struct {
	ShiftID string `json:"shift_id"`
	Status  string `json:"status"`
	Warning string `json:"warning,omitempty"`
}
