package handler

import "learning-manager/internal/service"

// Handler 모든 Handler 의 집합 진입점
type Handler struct {
	Auth    *AuthHandler
	Week    *WeekHandler
	Record  *RecordHandler
	Message *MessageHandler
	Report  *ReportHandler
}

// NewHandler Handler 집합 생성
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Week:    NewWeekHandler(svc.Week),
		Record:  NewRecordHandler(svc.Record),
		Message: NewMessageHandler(svc.Message),
		Report:  NewReportHandler(svc.Report),
	}
}
