package model

// MaterialUsed 班次物料消耗 — 对应 materials_used
type MaterialUsed struct {
	MaterialID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"material_id"`
	ShiftID      string  `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	MaterialName string  `gorm:"type:varchar(128);not null"                     json:"material_name"`
	Quantity     float64 `gorm:"type:numeric(12,3);not null"                    json:"quantity"`
	Unit         string  `gorm:"type:varchar(32);not null;default:'unit'"       json:"unit"`
	Remarks      string  `gorm:"type:text"                                      json:"remarks,omitempty"`
}

// TableName 指定表名
func (MaterialUsed) TableName() string { return "materials_used" }
