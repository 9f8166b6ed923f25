package model

import "time"

// ── 预警类型 ──

const (
	AlertRecovery   = "recovery"    // 岩芯回收率偏低
	AlertROPDrop    = "rop_drop"    // ROP 相对上一班次大幅下降
	AlertDowntime   = "downtime"    // 停工时间过长
	AlertBitFailure = "bit_failure" // 钻头失效征兆
)

// ── 预警级别 ──

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert 运营预警 — 对应 alerts
//
// 仅由 AlertService 在班报审批通过时生成；
// 同一班报同一类型最多存在一条活跃预警（插入前检查，而非数据库唯一约束）。
// 后续仅允许确认（acknowledge）或被新预警取代时置为非活跃。
type Alert struct {
	AlertID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"alert_id"`
	ShiftID     string   `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	AlertType   string   `gorm:"type:varchar(32);not null;index:idx_alerts_type_active" json:"alert_type"`
	Severity    string   `gorm:"type:varchar(16);not null;default:'medium';index:idx_alerts_severity_active" json:"severity"`
	Title       string   `gorm:"type:varchar(255);not null"                     json:"title"`
	Description string   `gorm:"type:text;not null"                             json:"description"`
	Value       *float64 `gorm:"type:numeric(10,2)"                             json:"value,omitempty"`     // 预警数值（%、小时等）
	Threshold   *float64 `gorm:"type:numeric(10,2)"                             json:"threshold,omitempty"` // 被突破的阈值

	IsActive         bool       `gorm:"not null;default:true;index:idx_alerts_type_active;index:idx_alerts_severity_active" json:"is_active"`
	IsAcknowledged   bool       `gorm:"not null;default:false" json:"is_acknowledged"`
	AcknowledgedByID *string    `gorm:"type:uuid"              json:"acknowledged_by_id,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Shift          *DrillShift `gorm:"foreignKey:ShiftID;references:ShiftID"          json:"shift,omitempty"`
	AcknowledgedBy *User       `gorm:"foreignKey:AcknowledgedByID;references:UserID"  json:"acknowledged_by,omitempty"`
}

// TableName 指定表名
func (Alert) TableName() string { return "alerts" }
