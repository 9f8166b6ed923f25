package model

import "time"

// ── 测斜类型 ──

const (
	SurveyGyro     = "gyro"
	SurveyCamera   = "camera"
	SurveyOngoing  = "ongoing"
	SurveyMagnetic = "magnetic"
	SurveyOther    = "other"
)

// Survey 孔内测斜记录 — 对应 surveys
type Survey struct {
	SurveyID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"survey_id"`
	ShiftID      string    `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	ProgressID   *string   `gorm:"type:uuid"                                      json:"progress_id,omitempty"`
	SurveyType   string    `gorm:"type:varchar(32);not null;default:'ongoing'"    json:"survey_type"`
	Depth        float64   `gorm:"type:numeric(10,2);not null"                    json:"depth"`
	DipAngle     float64   `gorm:"type:numeric(5,2);not null"                     json:"dip_angle"`
	Azimuth      float64   `gorm:"type:numeric(6,2);not null"                     json:"azimuth"` // 0-360
	Findings     string    `gorm:"type:text"                                      json:"findings,omitempty"`
	SurveyorName string    `gorm:"type:varchar(255)"                              json:"surveyor_name,omitempty"`
	SurveyTime   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"survey_time"`
}

// TableName 指定表名
func (Survey) TableName() string { return "surveys" }
