package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"learning-manager/config"
	"learning-manager/internal/model"
)

// lastColumn 잔여 행 정리 범위의 오른쪽 끝 열
const lastColumn = "ZZZ"

// SheetsStore 구글 스프레드시트 워크시트 하나를 표로 다루는 원격 저장소
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	timeout       time.Duration
}

// NewSheetsStore 서비스 계정 인증 정보로 Sheets 클라이언트를 만든다.
func NewSheetsStore(ctx context.Context, cfg *config.SheetsConfig) (*SheetsStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, fmt.Errorf("스프레드시트 인증 정보가 없습니다")
	}

	return newSheetsStore(ctx, cfg, opts...)
}

func newSheetsStore(ctx context.Context, cfg *config.SheetsConfig, opts ...option.ClientOption) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("Sheets 클라이언트 생성 실패: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		timeout:       cfg.Timeout,
	}, nil
}

// Name 로그용 저장소 이름
func (s *SheetsStore) Name() string { return "sheets:" + s.worksheet }

// Read 워크시트 전체 값을 읽는다.
func (s *SheetsStore) Read(ctx context.Context) (*model.RawTable, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(s.worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("스프레드시트 읽기 실패: %w", err)
	}

	return valuesToRaw(resp.Values), nil
}

// Write 표 전체를 A1 부터 덮어쓴 뒤 표 아래에 남은 이전 행을 지운다.
// 덮어쓰기가 실패하면 기존 내용은 그대로 남는다.
func (s *SheetsStore) Write(ctx context.Context, raw *model.RawTable) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sheetRange := quoteSheet(s.worksheet)
	vr := &sheets.ValueRange{Values: rawToValues(raw)}
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, sheetRange+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("스프레드시트 쓰기 실패: %w", err)
	}

	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, staleRange(sheetRange, len(raw.Rows)+1), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("스프레드시트 잔여 행 정리 실패: %w", err)
	}
	return nil
}

func (s *SheetsStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ── 값 변환 ──

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// staleRange 헤더 포함 written 행 아래 전체, 예: 'Sheet'!A4:ZZZ
func staleRange(sheetRange string, written int) string {
	return sheetRange + "!A" + strconv.Itoa(written+1) + ":" + lastColumn
}

func valuesToRaw(values [][]interface{}) *model.RawTable {
	if len(values) == 0 {
		return &model.RawTable{}
	}
	raw := &model.RawTable{
		Header: cellsToStrings(values[0]),
		Rows:   make([][]string, 0, len(values)-1),
	}
	for _, row := range values[1:] {
		raw.Rows = append(raw.Rows, cellsToStrings(row))
	}
	return raw
}

func cellsToStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		if s, ok := c.(string); ok {
			out[i] = s
			continue
		}
		out[i] = fmt.Sprint(c)
	}
	return out
}

func rawToValues(raw *model.RawTable) [][]interface{} {
	values := make([][]interface{}, 0, len(raw.Rows)+1)
	values = append(values, stringsToCells(raw.Header))
	for _, row := range raw.Rows {
		values = append(values, stringsToCells(row))
	}
	return values
}

func stringsToCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
