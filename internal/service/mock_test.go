package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"learning-manager/config"
	"learning-manager/internal/model"
	"learning-manager/internal/repository"
)

// ── Mock RecordStore ──

type mockRecordStore struct {
	table   *model.Table
	source  repository.LoadSource
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{table: model.NewTable(), source: repository.SourceLocal}
}

func (m *mockRecordStore) Load(_ context.Context) (*repository.LoadResult, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return &repository.LoadResult{Table: model.FromRaw(m.table.ToRaw()), Source: m.source}, nil
}

func (m *mockRecordStore) Save(_ context.Context, table *model.Table) (*repository.SaveResult, error) {
	m.saves++
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.table = model.FromRaw(table.ToRaw())
	return &repository.SaveResult{Outcome: repository.SavedLocal, Message: "로컬 파일에 저장했습니다"}, nil
}

func (m *mockRecordStore) RemoteEnabled() bool { return false }

// ── Mock TextGenerator ──

type mockGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// ── 테스트 보조 ──

func testCalendarConfig() *config.CalendarConfig {
	return &config.CalendarConfig{
		AnchorDate: "2026-01-04",
		TargetYear: 2026,
		MaxWeeks:   53,
		Timezone:   "UTC",
	}
}

func setupTestWeekService(t *testing.T) WeekService {
	t.Helper()
	svc, err := NewWeekService(testCalendarConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewWeekService 실패: %v", err)
	}
	return svc
}

func fixedNow(s string) func() time.Time {
	return func() time.Time {
		tm, _ := time.Parse("2006-01-02 15:04", s)
		return tm
	}
}

func floatPtr(v float64) *float64 { return &v }
