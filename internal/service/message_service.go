package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"learning-manager/internal/dto"
)

// ── 문자 생성 모듈 업무 오류 ──

var (
	ErrMessageDisabled     = errors.New("API 키가 설정되지 않아 문자 생성 기능을 사용할 수 없습니다")
	ErrMessageNameRequired = errors.New("학생 이름을 입력해주세요")
	ErrMessageNoteRequired = errors.New("상담 메모를 입력해주세요")
	ErrMessageInvalid      = errors.New("문자 생성 요청 값이 올바르지 않습니다")
)

// TextGenerator 외부 텍스트 생성 API
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MessageService 상담 메모를 학부모용 문자로 다듬는다.
//
// 생성 API 호출 실패는 오류로 전파하지 않고 "오류 발생: ..." 문장을 결과로 돌려준다.
// 재시도는 하지 않는다.
type MessageService interface {
	Enabled() bool
	Compose(ctx context.Context, req *dto.GenerateMessageRequest) (*dto.MessageResponse, error)
}

type messageService struct {
	generator TextGenerator // nil 이면 기능 비활성
	weeks     WeekService
	logger    *zap.Logger
}

// NewMessageService generator 가 nil 이면 Compose 는 ErrMessageDisabled 를 반환한다.
func NewMessageService(generator TextGenerator, weeks WeekService, logger *zap.Logger) MessageService {
	return &messageService{generator: generator, weeks: weeks, logger: logger}
}

func (s *messageService) Enabled() bool { return s.generator != nil }

// ────────────────────── Compose ──────────────────────

func (s *messageService) Compose(ctx context.Context, req *dto.GenerateMessageRequest) (*dto.MessageResponse, error) {
	in := *req
	in.Name = strings.TrimSpace(in.Name)
	in.Note = strings.TrimSpace(in.Note)

	// 외부 호출 전에 검증
	if in.Name == "" {
		return nil, ErrMessageNameRequired
	}
	if in.Note == "" {
		return nil, ErrMessageNoteRequired
	}
	if err := validate.Struct(&in); err != nil {
		return nil, wrapDetail(ErrMessageInvalid, validationDetail(err))
	}
	if s.generator == nil {
		return nil, ErrMessageDisabled
	}

	prompt, err := BuildPrompt(PromptInput{
		Name:   in.Name,
		Status: in.Status,
		Period: s.periodLabel(in.Week),
		Note:   in.Note,
	})
	if err != nil {
		s.logger.Error("프롬프트 생성 실패", zap.Error(err))
		return nil, err
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("문자 생성 API 호출 실패",
			zap.String("student", in.Name),
			zap.Error(err),
		)
		return &dto.MessageResponse{Text: "오류 발생: " + err.Error(), Failed: true}, nil
	}

	return &dto.MessageResponse{Text: text}, nil
}

// periodLabel "3주차 (1/18(일) ~ 1/24(토))". 달력에 없는 값은 입력 그대로 쓴다.
func (s *messageService) periodLabel(week string) string {
	week = strings.TrimSpace(week)
	if week == "" {
		return "-"
	}
	if w, ok := s.weeks.Resolve(week); ok {
		return w.Key() + " (" + w.Label + ")"
	}
	return week
}

// ── 프롬프트 ──

// PromptInput 프롬프트에 들어가는 값
type PromptInput struct {
	Name   string
	Status string
	Period string
	Note   string
}

var promptTemplate = template.Must(template.New("parent_message").Parse(
	`당신은 친절하고 전문적인 학원 상담 실장입니다.
아래 정보를 바탕으로 학부모님께 보낼 정중하고 깔끔한 상담 문자를 작성해주세요.

[학생 정보]
- 이름: {{.Name}}
- 구분: {{if .Status}}{{.Status}}{{else}}재원생{{end}}
- 기간: {{.Period}}

[상담/특이사항 메모]
{{.Note}}

바로 복사해서 보낼 수 있도록 인사말과 핵심 내용을 포함하고, 문자 본문만 출력해주세요.
`))

// BuildPrompt 같은 입력에는 항상 같은 프롬프트를 만든다.
func BuildPrompt(in PromptInput) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}
