package dto

// WeekResponse 주차 선택 항목
type WeekResponse struct {
	Index int    `json:"index"`
	Key   string `json:"key"`   // "3주차"
	Label string `json:"label"` // "1/18(일) ~ 1/24(토)"
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekListResponse 주차 목록과 오늘이 속한 주차
type WeekListResponse struct {
	Year    int            `json:"year"`
	List    []WeekResponse `json:"list"`
	Current *WeekResponse  `json:"current,omitempty"`
}
