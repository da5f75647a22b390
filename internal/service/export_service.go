package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"learning-manager/internal/dto"
	"learning-manager/internal/model"
	"learning-manager/pkg/weekcal"
)

// ═══════════════════════════════════════════════════════════
// ExportExcel 상담 기록을 엑셀로 내보내기
// ═══════════════════════════════════════════════════════════
//
// 출력 형식:
//   - Sheet "상담기록": 표 헤더 순서 그대로, 조건에 맞는 행
//   - Sheet "반별요약": 주차 × 반 단위 건수와 수치 평균
//
// 반환값: buf(엑셀 내용), filename(권장 파일명), error

var summaryHeader = []string{"주차", "반", "건수", "평균 과제율", "평균 오답수", "반평균 과제율", "반평균 오답수"}

func (s *reportService) ExportExcel(ctx context.Context, req *dto.RecordListRequest) (*bytes.Buffer, string, error) {
	// 1. 기록 적재 및 필터
	loaded, err := s.repo.Record.Load(ctx)
	if err != nil {
		s.logger.Error("내보내기용 기록 적재 실패", zap.Error(err))
		return nil, "", err
	}

	records := FilterRecords(loaded.Table.Records, req)
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}
	header := loaded.Table.Header

	// 2. 엑셀 생성
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	// 2.1 상담기록 시트
	const recordSheet = "상담기록"
	idx, _ := f.NewSheet(recordSheet)
	f.SetActiveSheet(idx)
	// 기본 Sheet1 삭제
	f.DeleteSheet("Sheet1")

	for i, col := range header {
		f.SetCellValue(recordSheet, cell(colName(i), 1), col)
		f.SetColWidth(recordSheet, colName(i), colName(i), columnWidth(col))
	}
	f.SetCellStyle(recordSheet, "A1", cell(colName(len(header)-1), 1), headerStyle)
	f.SetPanes(recordSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for r, rec := range records {
		row := r + 2
		for i, col := range header {
			f.SetCellValue(recordSheet, cell(colName(i), row), cellValue(&rec, col))
		}
	}
	lastRow := len(records) + 1
	f.SetCellStyle(recordSheet, "A2", cell(colName(len(header)-1), lastRow), wrapStyle)

	// 2.2 반별요약 시트
	const summarySheet = "반별요약"
	f.NewSheet(summarySheet)
	for i, h := range summaryHeader {
		f.SetCellValue(summarySheet, cell(colName(i), 1), h)
		f.SetColWidth(summarySheet, colName(i), colName(i), 14)
	}
	f.SetCellStyle(summarySheet, "A1", cell(colName(len(summaryHeader)-1), 1), headerStyle)

	row := 2
	byWeek := groupByWeek(records)
	for _, wk := range sortedWeekKeys(byWeek) {
		label := wk
		if label == "" {
			label = "-"
		}
		for _, cs := range SummarizeByClass(byWeek[wk]) {
			values := []interface{}{label, cs.Class, cs.Count,
				optional(cs.AvgHomeworkRate), optional(cs.AvgWrongCount),
				optional(cs.ClassHomeworkRate), optional(cs.ClassWrongCount)}
			for i, v := range values {
				f.SetCellValue(summarySheet, cell(colName(i), row), v)
			}
			row++
		}
	}

	// 3. buffer 로 출력
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("엑셀 쓰기 실패", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(req), nil
}

// ── 보조 함수 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// cellValue 수치 항목은 숫자 셀로, 나머지는 문자열 셀로 쓴다.
func cellValue(r *model.Record, col string) interface{} {
	var m model.Metric
	switch col {
	case model.ColHomeworkRate:
		m = r.HomeworkRate
	case model.ColClassHomework:
		m = r.ClassHomework
	case model.ColWrongCount:
		m = r.WrongCount
	case model.ColClassWrong:
		m = r.ClassWrong
	default:
		return r.Get(col)
	}
	if m.Valid {
		return m.Value
	}
	return m.String()
}

func columnWidth(col string) float64 {
	switch col {
	case model.ColNote, model.ColMessage, model.ColQuestions, model.ColSummary:
		return 48
	case model.ColDate, model.ColPrevSchool, model.ColAssignedSchool, model.ColTextbook:
		return 14
	default:
		return 10
	}
}

func optional(v *float64) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}

func groupByWeek(records []model.Record) map[string][]model.Record {
	out := make(map[string][]model.Record)
	for _, r := range records {
		k := strings.TrimSpace(r.Week)
		out[k] = append(out[k], r)
	}
	return out
}

// sortedWeekKeys 주차 번호 순. 번호로 해석되지 않는 값은 뒤에 문자열 순으로 둔다.
func sortedWeekKeys(groups map[string][]model.Record) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := weekcal.ParseKey(keys[i])
		b, errB := weekcal.ParseKey(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func exportFilename(req *dto.RecordListRequest) string {
	parts := []string{"상담기록"}
	if req != nil {
		for _, p := range []string{req.Week, req.Class, req.Student} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}
	return strings.Join(parts, "_") + ".xlsx"
}
