package service

import (
	"go.uber.org/zap"

	"learning-manager/config"
	"learning-manager/internal/repository"
	"learning-manager/pkg/jwt"
)

// Service 모든 Service 의 집합 진입점
type Service struct {
	Auth    AuthService
	Week    WeekService
	Record  RecordService
	Message MessageService
	Report  ReportService
}

// NewService Service 집합 생성
// generator, blacklist 는 nil 일 수 있다 (해당 기능 비활성).
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	generator TextGenerator,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) (*Service, error) {
	weeks, err := NewWeekService(&cfg.Calendar, logger)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}

	messages := NewMessageService(generator, weeks, logger)

	return &Service{
		Auth:    NewAuthService(&cfg.Auth, jwtMgr, blacklist, logger),
		Week:    weeks,
		Record:  NewRecordService(repo, weeks, messages, loc, logger),
		Message: messages,
		Report:  NewReportService(repo, weeks, logger),
	}, nil
}
