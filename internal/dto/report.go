package dto

// ── 리포트 DTO ──

// ClassSummary 반별 주간 요약
type ClassSummary struct {
	Class             string   `json:"class"`
	Count             int      `json:"count"`
	AvgHomeworkRate   *float64 `json:"avg_homework_rate"`
	AvgWrongCount     *float64 `json:"avg_wrong_count"`
	ClassHomeworkRate *float64 `json:"class_homework_rate"` // 입력된 반평균 값들의 평균
	ClassWrongCount   *float64 `json:"class_wrong_count"`
}

// WeeklySummaryResponse 주간 요약
type WeeklySummaryResponse struct {
	Week    string         `json:"week"`
	Label   string         `json:"label"`
	Total   int            `json:"total"`
	Classes []ClassSummary `json:"classes"`
}
