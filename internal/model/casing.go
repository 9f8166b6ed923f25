package model

import "time"

// ── 套管材质 ──

const (
	CasingPVC        = "pvc"
	CasingSteel      = "steel"
	CasingHDPE       = "hdpe"
	CasingFiberglass = "fiberglass"
	CasingOther      = "other"
)

// Casing 套管安装记录 — 对应 casings
type Casing struct {
	CasingID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"casing_id"`
	ShiftID     string    `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	CasingSize  string    `gorm:"type:varchar(10);not null"                      json:"casing_size"` // 如 4"、6"
	CasingType  string    `gorm:"type:varchar(32);not null;default:'pvc'"        json:"casing_type"`
	StartDepth  float64   `gorm:"type:numeric(10,2);not null"                    json:"start_depth"`
	EndDepth    float64   `gorm:"type:numeric(10,2);not null"                    json:"end_depth"`
	Length      float64   `gorm:"type:numeric(10,2);not null"                    json:"length"`
	Remarks     string    `gorm:"type:text"                                      json:"remarks,omitempty"`
	InstalledAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"installed_at"`
}

// TableName 指定表名
func (Casing) TableName() string { return "casings" }
