package model

// ── 钻头尺寸 ──

const (
	SizePQ = "PQ" // 85mm
	SizeHQ = "HQ" // 63.5mm
	SizeNQ = "NQ" // 47.6mm
	SizeBQ = "BQ" // 36.5mm
	SizeAQ = "AQ" // 27mm
)

// DrillingProgress 钻进进尺记录 — 对应 drilling_progress
//
// 一条记录对应班次内的一个钻进回次（深度区间）。
// recovery_percentage 与 penetration_rate 为派生字段，
// 每次保存前由 ComputeProgressMetrics 重新计算，不接受外部写入。
type DrillingProgress struct {
	ProgressID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"progress_id"`
	ShiftID    string `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	HoleNumber string `gorm:"type:varchar(50)"                               json:"hole_number,omitempty"`
	Size       string `gorm:"type:varchar(10);not null;default:'HQ'"        json:"size"`

	StartDepth    float64 `gorm:"type:numeric(10,2);not null" json:"start_depth"`
	EndDepth      float64 `gorm:"type:numeric(10,2);not null" json:"end_depth"`
	MetersDrilled float64 `gorm:"type:numeric(10,2);not null" json:"meters_drilled"` // 0 视为未填写，按深度差补算

	// 岩芯回收
	CoreLoss           float64  `gorm:"type:numeric(10,2);not null;default:0" json:"core_loss"`
	CoreGain           float64  `gorm:"type:numeric(10,2);not null;default:0" json:"core_gain"`
	RecoveryPercentage *float64 `gorm:"type:numeric(7,2)"                     json:"recovery_percentage,omitempty"`

	PenetrationRate *float64 `gorm:"type:numeric(10,2)" json:"penetration_rate,omitempty"` // m/hr
	StartTime       *string  `gorm:"type:varchar(5)"    json:"start_time,omitempty"`       // "HH:MM"
	EndTime         *string  `gorm:"type:varchar(5)"    json:"end_time,omitempty"`         // "HH:MM"
	Remarks         string   `gorm:"type:text"          json:"remarks,omitempty"`

	// 岩芯托盘照片（仅存路径，文件存储由外部服务负责）
	CoreTrayImage string `gorm:"type:varchar(500)" json:"core_tray_image,omitempty"`
}

// TableName 指定表名
func (DrillingProgress) TableName() string { return "drilling_progress" }
