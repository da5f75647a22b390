package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"learning-manager/internal/dto"
	"learning-manager/internal/model"
	"learning-manager/internal/repository"
)

// ── 리포트 모듈 업무 오류 ──

var (
	ErrReportWeekUnknown  = errors.New("선택한 주차가 달력에 없습니다")
	ErrExportNoRecords    = errors.New("조건에 맞는 상담 기록이 없습니다")
	ErrExportGenerateFail = errors.New("엑셀 파일 생성에 실패했습니다")
)

const unassignedClass = "미지정"

// ReportService 간단한 집계와 엑셀 내보내기
type ReportService interface {
	WeeklySummary(ctx context.Context, week string) (*dto.WeeklySummaryResponse, error)
	ExportExcel(ctx context.Context, req *dto.RecordListRequest) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	weeks  WeekService
	logger *zap.Logger
}

// NewReportService 리포트 서비스 생성
func NewReportService(repo *repository.Repository, weeks WeekService, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, weeks: weeks, logger: logger}
}

// ────────────────────── WeeklySummary ──────────────────────

func (s *reportService) WeeklySummary(ctx context.Context, week string) (*dto.WeeklySummaryResponse, error) {
	w, ok := s.weeks.Resolve(week)
	if !ok {
		return nil, ErrReportWeekUnknown
	}

	loaded, err := s.repo.Record.Load(ctx)
	if err != nil {
		s.logger.Error("주간 요약용 기록 적재 실패", zap.Error(err))
		return nil, err
	}

	records := FilterRecords(loaded.Table.Records, &dto.RecordListRequest{Week: w.Key()})
	return &dto.WeeklySummaryResponse{
		Week:    w.Key(),
		Label:   w.Label,
		Total:   len(records),
		Classes: SummarizeByClass(records),
	}, nil
}

// SummarizeByClass 반별 건수와 수치 평균. 반 이름 순으로 정렬한다.
// 값이 하나도 입력되지 않은 항목의 평균은 nil.
func SummarizeByClass(records []model.Record) []dto.ClassSummary {
	type acc struct {
		count                          int
		hw, wrong, classHw, classWrong avg
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		class := strings.TrimSpace(r.Class)
		if class == "" {
			class = unassignedClass
		}
		g, ok := groups[class]
		if !ok {
			g = &acc{}
			groups[class] = g
		}
		g.count++
		g.hw.add(r.HomeworkRate)
		g.wrong.add(r.WrongCount)
		g.classHw.add(r.ClassHomework)
		g.classWrong.add(r.ClassWrong)
	}

	classes := make([]string, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	out := make([]dto.ClassSummary, 0, len(classes))
	for _, c := range classes {
		g := groups[c]
		out = append(out, dto.ClassSummary{
			Class:             c,
			Count:             g.count,
			AvgHomeworkRate:   g.hw.value(),
			AvgWrongCount:     g.wrong.value(),
			ClassHomeworkRate: g.classHw.value(),
			ClassWrongCount:   g.classWrong.value(),
		})
	}
	return out
}

type avg struct {
	sum float64
	n   int
}

func (a *avg) add(m model.Metric) {
	if m.Valid {
		a.sum += m.Value
		a.n++
	}
}

func (a *avg) value() *float64 {
	if a.n == 0 {
		return nil
	}
	v := math.Round(a.sum/float64(a.n)*10) / 10
	return &v
}
