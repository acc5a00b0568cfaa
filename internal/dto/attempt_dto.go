package dto

// ReportWindow names the ranges accepted by the report endpoints.
const (
	WindowLast7Days   = "last_7_days"
	WindowLast30Days  = "last_30_days"
	WindowThisMonth   = "this_month"
	WindowLastMonth   = "last_month"
	WindowLast6Months = "last_6_months"
	WindowThisYear    = "this_year"
	WindowCustom      = "custom_range"
)

type AttemptReportRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	Window    string `json:"window" binding:"required"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, custom_range only
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, custom_range only
}

type AssignModulesRequest struct {
	ModuleID uint   `json:"module_id" binding:"required"`
	UserIDs  []uint `json:"user_ids" binding:"required,min=1"`
}

type TrendRequest struct {
	Quarter int `form:"quarter"`
	Year    int `form:"year"`
}
