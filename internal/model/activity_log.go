package model

import "time"

// ── 活动类型 ──

const (
	ActivityDrilling    = "drilling"
	ActivityMaintenance = "maintenance"
	ActivitySafety      = "safety"
	ActivityMeeting     = "meeting"
	ActivityOther       = "other"
)

// ActivityLog 班次活动记录 — 对应 activity_logs
// 非 drilling 类型的活动时长计入停工时间
type ActivityLog struct {
	ActivityID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	ShiftID         string    `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	Timestamp       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"timestamp"`
	ActivityType    string    `gorm:"type:varchar(32);not null;default:'other'"      json:"activity_type"`
	Description     string    `gorm:"type:text;not null"                             json:"description"`
	DurationMinutes int       `gorm:"not null;default:0"                             json:"duration_minutes"`
	PerformedByID   *string   `gorm:"type:uuid"                                      json:"performed_by_id,omitempty"`
}

// TableName 指定表名
func (ActivityLog) TableName() string { return "activity_logs" }
