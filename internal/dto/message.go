package dto

// GenerateMessageRequest 학부모 문자 생성 요청
type GenerateMessageRequest struct {
	Name   string `json:"name"   binding:"required,max=50"`
	Status string `json:"status" binding:"omitempty,oneof=재원생 신규생"`
	Week   string `json:"week"`
	Note   string `json:"note"   binding:"required,max=5000"`
}

// MessageResponse 생성 결과
// 생성에 실패하면 Failed=true 이고 Text 에 오류 내용이 들어간다
type MessageResponse struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}
