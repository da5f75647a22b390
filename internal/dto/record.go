package dto

import "learning-manager/internal/model"

// ── 상담 기록 DTO ──

// CreateRecordRequest 상담 기록 등록 요청
type CreateRecordRequest struct {
	Name    string `json:"name"    binding:"required,max=50"`
	Status  string `json:"status"  binding:"omitempty,oneof=재원생 신규생"`
	Class   string `json:"class"   binding:"max=50"`
	Subject string `json:"subject" binding:"max=50"`
	Week    string `json:"week"    binding:"required"` // "3주차"
	Note    string `json:"note"    binding:"required,max=5000"`

	HomeworkRate  *float64 `json:"homework_rate"       binding:"omitempty,gte=0,lte=100"`
	ClassHomework *float64 `json:"class_homework_rate" binding:"omitempty,gte=0,lte=100"`
	WrongCount    *float64 `json:"wrong_count"         binding:"omitempty,gte=0"`
	ClassWrong    *float64 `json:"class_wrong_count"   binding:"omitempty,gte=0"`

	PrevSchool     string `json:"prev_school"     binding:"max=100"`
	AssignedSchool string `json:"assigned_school" binding:"max=100"`
	Textbook       string `json:"textbook"        binding:"max=100"`
	Questions      string `json:"questions"       binding:"max=2000"`
	Difficulty     string `json:"difficulty"      binding:"max=20"`
	Summary        string `json:"summary"         binding:"max=2000"`

	// Refine 이 true 이면 저장 전에 학부모 문자를 생성해 함께 기록한다
	Refine bool `json:"refine"`
}

// RecordListRequest 기록 조회 조건
type RecordListRequest struct {
	Student string `form:"student"`
	Class   string `form:"class"`
	Week    string `form:"week"`
}

// SaveStatus 저장 결과
type SaveStatus struct {
	Outcome     string `json:"outcome"` // remote | local_fallback | local
	Message     string `json:"message"`
	RemoteError string `json:"remote_error,omitempty"`
}

// CreateRecordResponse 등록 결과
type CreateRecordResponse struct {
	Record  model.Record     `json:"record"`
	Save    SaveStatus       `json:"save"`
	Message *MessageResponse `json:"message,omitempty"`
	Warning string           `json:"warning,omitempty"`
	Total   int              `json:"total"`
}

// RecordListResponse 조회 결과
type RecordListResponse struct {
	List        []model.Record `json:"list"`
	Total       int            `json:"total"`
	Source      string         `json:"source"` // remote | local | empty
	RemoteError string         `json:"remote_error,omitempty"`
}
