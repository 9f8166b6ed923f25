package dto

// ShiftSummary 单班报汇总
type ShiftSummary struct {
	ShiftID        string             `json:"shift_id"`
	TotalMeters    float64            `json:"total_meters"`
	AvgPenetration float64            `json:"avg_penetration"`
	Materials      map[string]float64 `json:"materials"`
}

// DailyStat 按日进尺统计
type DailyStat struct {
	Date           string  `json:"date"` // "2006-01-02"
	TotalMeters    float64 `json:"total_meters"`
	AvgPenetration float64 `json:"avg_penetration"`
	ShiftCount     int     `json:"shift_count"`
}

// DailyProgressQuery 按日统计查询参数
type DailyProgressQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
}

// GroupStat 分组绩效统计（按钻机 / 客户 / 位置）
type GroupStat struct {
	Key            string  `json:"key"`
	ShiftCount     int     `json:"shift_count"`
	TotalMeters    float64 `json:"total_meters"`
	AvgRecovery    float64 `json:"avg_recovery"`
	AvgPenetration float64 `json:"avg_penetration"`
}

// Dashboard 运营看板
type Dashboard struct {
	MetersToday      float64 `json:"meters_today"`
	MetersThisMonth  float64 `json:"meters_this_month"`
	AvgROP24h        float64 `json:"avg_rop_24h"`
	AvgRecovery24h   float64 `json:"avg_recovery_24h"`
	AvgDaysToApprove float64 `json:"avg_days_to_approve"`

	StatusCounts       map[string]int64   `json:"status_counts"`
	ClientStatusCounts map[string]int64   `json:"client_status_counts"`
	DowntimeByCategory map[string]float64 `json:"downtime_by_category"` // 小时

	RigPerformance      []GroupStat `json:"rig_performance"`
	ClientPerformance   []GroupStat `json:"client_performance"`
	LocationPerformance []GroupStat `json:"location_performance"`
}

// ClientDashboard 客户看板
type ClientDashboard struct {
	ClientID        string           `json:"client_id"`
	ClientName      string           `json:"client_name"`
	PendingReview   int64            `json:"pending_review"`
	DecisionCounts  map[string]int64 `json:"decision_counts"`
	TotalMeters     float64          `json:"total_meters"`
	MetersThisMonth float64          `json:"meters_this_month"`
}
