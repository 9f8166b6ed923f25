package model

import "time"

// ── 工作流状态 ──

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// ── 客户签认状态（独立于经理审批状态）──

const (
	ClientPending  = "pending_client"
	ClientApproved = "client_approved"
	ClientRejected = "client_rejected"
)

// ── 班次类型 ──

const (
	ShiftDay   = "day"   // 白班 07:00 - 19:00
	ShiftNight = "night" // 夜班 19:00 - 07:00
)

// ── 待命原因 ──

// 客户原因
const (
	StandbyPadPreparation = "pad_preparation"
	StandbyOrderByClient  = "order_by_client"
	StandbySiteAccess     = "site_access"
	StandbyClientDelay    = "client_delay"
	StandbyOtherClient    = "other_client"
)

// 施工方原因
const (
	StandbyMobilizing         = "mobilizing"
	StandbyDemobilizing       = "demobilizing"
	StandbySafetyIncident     = "safety_incident"
	StandbyEquipmentBreakdown = "equipment_breakdown"
	StandbyMaintenance        = "maintenance"
	StandbyWeather            = "weather"
	StandbyOtherConstructor   = "other_constructor"
)

// DrillShift 钻探班报表 — 对应 drill_shifts
//
// 一条记录对应一台钻机在某日的一个班次（白班/夜班）。
// 工作流：draft → submitted → approved/rejected；审批通过后若指定了客户，
// 进入独立的客户签认流程 pending_client → client_approved/client_rejected。
// 不变量：is_locked 当且仅当 status=approved 或 client_status=client_approved；
// 状态字段只允许通过 ShiftService 的工作流方法修改。
type DrillShift struct {
	ShiftID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	CreatedByID string    `gorm:"type:uuid;not null"                             json:"created_by_id"`
	ClientID    *string   `gorm:"type:uuid"                                      json:"client_id,omitempty"`
	Date        time.Time `gorm:"type:date;not null;index"                       json:"date"`
	ShiftType   string    `gorm:"type:varchar(16);not null;default:'day'"        json:"shift_type"`
	Rig         string    `gorm:"type:varchar(128)"                              json:"rig,omitempty"`
	Location    string    `gorm:"type:varchar(255)"                              json:"location,omitempty"`

	// 项目 / 商务信息
	ProjectCode         string `gorm:"type:varchar(64);index" json:"project_code,omitempty"`
	PurchaseOrderNumber string `gorm:"type:varchar(64)"       json:"purchase_order_number,omitempty"`

	// KPI 目标（可选，用于偏差分析）
	TargetRecoveryPct    *float64 `gorm:"type:numeric(5,2)" json:"target_recovery_pct,omitempty"`
	TargetROP            *float64 `gorm:"type:numeric(6,2)" json:"target_rop,omitempty"`
	TargetMetersPerShift *float64 `gorm:"type:numeric(6,2)" json:"target_meters_per_shift,omitempty"`

	// 班组成员
	SupervisorName string `gorm:"type:varchar(255)" json:"supervisor_name,omitempty"`
	DrillerName    string `gorm:"type:varchar(255)" json:"driller_name,omitempty"`
	Helper1Name    string `gorm:"type:varchar(255)" json:"helper1_name,omitempty"`
	Helper2Name    string `gorm:"type:varchar(255)" json:"helper2_name,omitempty"`
	Helper3Name    string `gorm:"type:varchar(255)" json:"helper3_name,omitempty"`
	Helper4Name    string `gorm:"type:varchar(255)" json:"helper4_name,omitempty"`

	StartTime *string `gorm:"type:varchar(5)" json:"start_time,omitempty"` // "HH:MM"
	EndTime   *string `gorm:"type:varchar(5)" json:"end_time,omitempty"`   // "HH:MM"
	Notes     string  `gorm:"type:text"       json:"notes,omitempty"`

	Status string `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`

	// 工作流时间戳
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	ManagerApprovedAt *time.Time `json:"manager_approved_at,omitempty"`

	// 待命记录（客户原因与施工方原因相互独立）
	StandbyClient             bool   `gorm:"not null;default:false" json:"standby_client"`
	StandbyClientReason       string `gorm:"type:varchar(50)"       json:"standby_client_reason,omitempty"`
	StandbyClientRemarks      string `gorm:"type:text"              json:"standby_client_remarks,omitempty"`
	StandbyConstructor        bool   `gorm:"not null;default:false" json:"standby_constructor"`
	StandbyConstructorReason  string `gorm:"type:varchar(50)"       json:"standby_constructor_reason,omitempty"`
	StandbyConstructorRemarks string `gorm:"type:text"              json:"standby_constructor_remarks,omitempty"`

	// 客户签认
	ClientStatus        *string    `gorm:"type:varchar(32)" json:"client_status,omitempty"`
	ClientComments      string     `gorm:"type:text"        json:"client_comments,omitempty"`
	SubmittedToClientAt *time.Time `json:"submitted_to_client_at,omitempty"`
	ClientApprovedAt    *time.Time `json:"client_approved_at,omitempty"`
	ClientApprovedByID  *string    `gorm:"type:uuid"        json:"client_approved_by_id,omitempty"`

	IsLocked bool `gorm:"not null;default:false" json:"is_locked"`
	BaseModel

	// 关联
	CreatedBy        *User              `gorm:"foreignKey:CreatedByID;references:UserID"        json:"created_by,omitempty"`
	Client           *Client            `gorm:"foreignKey:ClientID;references:ClientID"         json:"client,omitempty"`
	ClientApprovedBy *User              `gorm:"foreignKey:ClientApprovedByID;references:UserID" json:"client_approved_by,omitempty"`
	Progress         []DrillingProgress `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"progress,omitempty"`
	Activities       []ActivityLog      `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
	Materials        []MaterialUsed     `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
	Surveys          []Survey           `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"surveys,omitempty"`
	Casings          []Casing           `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"casings,omitempty"`
	Approvals        []ApprovalHistory  `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"approvals,omitempty"`
	Alerts           []Alert            `gorm:"foreignKey:ShiftID;references:ShiftID;constraint:OnDelete:CASCADE" json:"alerts,omitempty"`
}

// TableName 指定表名
func (DrillShift) TableName() string { return "drill_shifts" }
