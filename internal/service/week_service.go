package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"learning-manager/config"
	"learning-manager/internal/dto"
	"learning-manager/pkg/weekcal"
)

// WeekService 주차 달력 조회
//
// 주차 목록은 프로세스 시작 시 한 번 계산하며 이후 바뀌지 않는다.
type WeekService interface {
	List() *dto.WeekListResponse
	// Resolve "3주차" 키를 달력의 주차로 바꾼다.
	Resolve(key string) (weekcal.Week, bool)
	Current() (weekcal.Week, bool)
}

type weekService struct {
	year  int
	weeks []weekcal.Week
	loc   *time.Location
	now   func() time.Time
}

// NewWeekService 설정된 기준일로 주차 목록을 만든다.
func NewWeekService(cfg *config.CalendarConfig, logger *zap.Logger) (WeekService, error) {
	anchor, err := cfg.Anchor()
	if err != nil {
		return nil, fmt.Errorf("달력 기준일 해석 실패: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("시간대 해석 실패: %w", err)
	}

	weeks := weekcal.Generate(anchor, cfg.TargetYear, cfg.MaxWeeks)
	if len(weeks) == 0 {
		logger.Warn("기준일이 대상 연도를 지나 주차 목록이 비어 있습니다",
			zap.String("anchor_date", cfg.AnchorDate),
			zap.Int("target_year", cfg.TargetYear),
		)
	} else {
		logger.Info("주차 달력 생성",
			zap.Int("target_year", cfg.TargetYear),
			zap.Int("weeks", len(weeks)),
		)
	}

	return &weekService{year: cfg.TargetYear, weeks: weeks, loc: loc, now: time.Now}, nil
}

func (s *weekService) List() *dto.WeekListResponse {
	resp := &dto.WeekListResponse{
		Year: s.year,
		List: make([]dto.WeekResponse, 0, len(s.weeks)),
	}
	for _, w := range s.weeks {
		resp.List = append(resp.List, toWeekResponse(w))
	}
	if cur, ok := s.Current(); ok {
		wr := toWeekResponse(cur)
		resp.Current = &wr
	}
	return resp
}

func (s *weekService) Resolve(key string) (weekcal.Week, bool) {
	idx, err := weekcal.ParseKey(key)
	if err != nil {
		return weekcal.Week{}, false
	}
	return weekcal.Lookup(s.weeks, idx)
}

func (s *weekService) Current() (weekcal.Week, bool) {
	return weekcal.Current(s.weeks, s.now().In(s.loc))
}

func toWeekResponse(w weekcal.Week) dto.WeekResponse {
	return dto.WeekResponse{
		Index: w.Index,
		Key:   w.Key(),
		Label: w.Label,
		Start: w.Start.Format("2006-01-02"),
		End:   w.End.Format("2006-01-02"),
	}
}
