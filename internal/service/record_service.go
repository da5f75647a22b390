package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"learning-manager/internal/dto"
	"learning-manager/internal/model"
	"learning-manager/internal/repository"
)

// ── 상담 기록 모듈 업무 오류 ──

var (
	ErrRecordNameRequired = errors.New("학생 이름을 입력해주세요")
	ErrRecordNoteRequired = errors.New("상담 메모를 입력해주세요")
	ErrRecordWeekUnknown  = errors.New("선택한 주차가 달력에 없습니다")
	ErrRecordInvalid      = errors.New("입력값이 올바르지 않습니다")
)

// RecordService 상담 기록 업무 인터페이스
//
// 설계 메모:
//   - 기록은 추가만 한다. 수정/삭제 경로는 없다
//   - 등록 한 건 = 표 전체 적재 → 한 행 추가 → 표 전체 저장
//   - 같은 프로세스 안의 등록 요청은 순서대로 처리한다
type RecordService interface {
	Create(ctx context.Context, req *dto.CreateRecordRequest, staff string) (*dto.CreateRecordResponse, error)
	List(ctx context.Context, req *dto.RecordListRequest) (*dto.RecordListResponse, error)
	StudentHistory(ctx context.Context, name string) (*dto.RecordListResponse, error)
}

type recordService struct {
	repo     *repository.Repository
	weeks    WeekService
	messages MessageService
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger

	mu sync.Mutex
}

// NewRecordService 상담 기록 서비스 생성
func NewRecordService(
	repo *repository.Repository,
	weeks WeekService,
	messages MessageService,
	loc *time.Location,
	logger *zap.Logger,
) RecordService {
	return &recordService{
		repo:     repo,
		weeks:    weeks,
		messages: messages,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *recordService) Create(ctx context.Context, req *dto.CreateRecordRequest, staff string) (*dto.CreateRecordResponse, error) {
	in := normalizeCreateRequest(req)

	// 1. 외부 호출 전에 검증. 실패하면 저장소는 건드리지 않는다
	if in.Name == "" {
		return nil, ErrRecordNameRequired
	}
	if in.Note == "" {
		return nil, ErrRecordNoteRequired
	}
	if err := validate.Struct(&in); err != nil {
		return nil, wrapDetail(ErrRecordInvalid, validationDetail(err))
	}
	week, ok := s.weeks.Resolve(in.Week)
	if !ok {
		return nil, ErrRecordWeekUnknown
	}

	record := model.Record{
		Date:           s.now().In(s.loc).Format(model.DateLayout),
		Name:           in.Name,
		Status:         in.Status,
		Class:          in.Class,
		Subject:        in.Subject,
		Week:           week.Key(),
		Note:           in.Note,
		HomeworkRate:   metricOf(in.HomeworkRate),
		ClassHomework:  metricOf(in.ClassHomework),
		WrongCount:     metricOf(in.WrongCount),
		ClassWrong:     metricOf(in.ClassWrong),
		PrevSchool:     in.PrevSchool,
		AssignedSchool: in.AssignedSchool,
		Textbook:       in.Textbook,
		Questions:      in.Questions,
		Difficulty:     in.Difficulty,
		Summary:        in.Summary,
	}

	resp := &dto.CreateRecordResponse{}

	// 2. 선택: 학부모 문자 생성
	if in.Refine {
		msg, err := s.messages.Compose(ctx, &dto.GenerateMessageRequest{
			Name:   in.Name,
			Status: in.Status,
			Week:   week.Key(),
			Note:   in.Note,
		})
		switch {
		case errors.Is(err, ErrMessageDisabled):
			resp.Warning = ErrMessageDisabled.Error()
		case err != nil:
			return nil, err
		default:
			resp.Message = msg
			if !msg.Failed {
				record.Message = msg.Text
			}
		}
	}

	// 3. 적재 → 추가 → 저장
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.repo.Record.Load(ctx)
	if err != nil {
		s.logger.Error("상담 기록 적재 실패", zap.Error(err))
		return nil, err
	}

	table := loaded.Table
	table.Append(record)

	saved, err := s.repo.Record.Save(ctx, table)
	if err != nil {
		s.logger.Error("상담 기록 저장 실패", zap.String("student", record.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("상담 기록 저장",
		zap.String("student", record.Name),
		zap.String("week", record.Week),
		zap.String("staff", staff),
		zap.String("outcome", string(saved.Outcome)),
		zap.Int("rows", table.Len()),
	)

	resp.Record = record
	resp.Save = toSaveStatus(saved)
	resp.Total = table.Len()
	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *recordService) List(ctx context.Context, req *dto.RecordListRequest) (*dto.RecordListResponse, error) {
	loaded, err := s.repo.Record.Load(ctx)
	if err != nil {
		s.logger.Error("상담 기록 조회 실패", zap.Error(err))
		return nil, err
	}

	list := FilterRecords(loaded.Table.Records, req)
	return toListResponse(list, loaded), nil
}

// ────────────────────── StudentHistory ──────────────────────

func (s *recordService) StudentHistory(ctx context.Context, name string) (*dto.RecordListResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRecordNameRequired
	}

	loaded, err := s.repo.Record.Load(ctx)
	if err != nil {
		s.logger.Error("학생 이력 조회 실패", zap.String("student", name), zap.Error(err))
		return nil, err
	}

	list := make([]model.Record, 0)
	for _, r := range loaded.Table.Records {
		if strings.TrimSpace(r.Name) == name {
			list = append(list, r)
		}
	}
	// 날짜 순. 같은 날짜는 입력 순서 유지
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date < list[j].Date })

	return toListResponse(list, loaded), nil
}

// ── 보조 함수 ──

// FilterRecords 조건에 맞는 기록만 남긴다. 빈 조건은 무시한다.
func FilterRecords(records []model.Record, req *dto.RecordListRequest) []model.Record {
	out := make([]model.Record, 0, len(records))
	if req == nil {
		return append(out, records...)
	}

	student := strings.TrimSpace(req.Student)
	class := strings.TrimSpace(req.Class)
	week := strings.TrimSpace(req.Week)

	for _, r := range records {
		if student != "" && !strings.Contains(r.Name, student) {
			continue
		}
		if class != "" && strings.TrimSpace(r.Class) != class {
			continue
		}
		if week != "" && !sameWeek(r.Week, week) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sameWeek(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b) ||
		strings.TrimSuffix(strings.TrimSpace(a), "주차") == strings.TrimSuffix(strings.TrimSpace(b), "주차")
}

func normalizeCreateRequest(req *dto.CreateRecordRequest) dto.CreateRecordRequest {
	in := *req
	in.Name = strings.TrimSpace(in.Name)
	in.Status = strings.TrimSpace(in.Status)
	in.Class = strings.TrimSpace(in.Class)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Week = strings.TrimSpace(in.Week)
	in.Note = strings.TrimSpace(in.Note)
	return in
}

func metricOf(v *float64) model.Metric {
	if v == nil {
		return model.Metric{}
	}
	return model.NewMetric(*v)
}

func toSaveStatus(r *repository.SaveResult) dto.SaveStatus {
	st := dto.SaveStatus{Outcome: string(r.Outcome), Message: r.Message}
	if r.RemoteErr != nil {
		st.RemoteError = r.RemoteErr.Error()
	}
	return st
}

func toListResponse(list []model.Record, loaded *repository.LoadResult) *dto.RecordListResponse {
	resp := &dto.RecordListResponse{
		List:   list,
		Total:  len(list),
		Source: string(loaded.Source),
	}
	if loaded.RemoteErr != nil {
		resp.RemoteError = loaded.RemoteErr.Error()
	}
	return resp
}
