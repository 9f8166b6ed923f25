package dto

// ListAlertsQuery 预警列表查询参数
type ListAlertsQuery struct {
	PageQuery
	AlertType    string `form:"alert_type"   binding:"omitempty,oneof=recovery rop_drop downtime bit_failure"`
	Severity     string `form:"severity"     binding:"omitempty,oneof=low medium high critical"`
	ActiveOnly   bool   `form:"active_only"`
	Acknowledged *bool  `form:"acknowledged"`
}
