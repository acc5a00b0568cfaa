package dto

// Coordinate is one x/y point of a line chart.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CompletionRateResponse struct {
	Total     int64   `json:"total"`
	Completed int64   `json:"completed"`
	Rate      float64 `json:"rate"`
}

// TrendPoint is one month or quarter of the completion trend.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ModuleUsageResponse struct {
	ModuleID   uint   `json:"module_id"`
	ModuleName string `json:"module_name"`
	Duration   int64  `json:"duration"`
	// Display is Duration formatted as HH:MM:SS for the dashboards.
	Display string `json:"display"`
}

// MistakeRow is one merged mistake across a report window.
type MistakeRow struct {
	Name        string   `json:"name"`
	Count       float64  `json:"count"`
	ModuleNames []string `json:"module_names"`
}

type AttemptReportResponse struct {
	Attempts        int          `json:"attempts"`
	TimeSpent       int64        `json:"time_spent"`
	TimeSpentHMS    string       `json:"time_spent_hms"`
	CompletedLevels int          `json:"completed_levels"`
	Mistakes        []MistakeRow `json:"mistakes_content"`
	MistakesCount   float64      `json:"mistakes_count"`
}

// AssignedUserPerformance is one row of the per-module performance listing.
type AssignedUserPerformance struct {
	UserID    uint    `json:"user_id"`
	FullName  string  `json:"full_name"`
	UserLogin string  `json:"user_login"`
	Complete  bool    `json:"complete"`
	Passed    bool    `json:"passed"`
	Progress  float64 `json:"progress"`
}

type LatestAttemptResponse struct {
	AttemptID     uint     `json:"attempt_id"`
	UserFullName  string   `json:"user_full_name"`
	ModuleName    string   `json:"module_name"`
	LevelName     string   `json:"level_name"`
	AttemptNumber uint     `json:"attempt_number"`
	Score         *float64 `json:"score,omitempty"`
	Duration      int64    `json:"duration"`
	CreatedAt     string   `json:"created_at"`
}
