package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ── 고정 스키마 컬럼 ──

const (
	ColDate           = "날짜"
	ColName           = "이름"
	ColStatus         = "구분"
	ColClass          = "반"
	ColSubject        = "과목"
	ColWeek           = "주차"
	ColNote           = "상담내용"
	ColMessage        = "학부모문자"
	ColHomeworkRate   = "개인과제율"
	ColClassHomework  = "반평균과제율"
	ColWrongCount     = "개인오답수"
	ColClassWrong     = "반평균오답수"
	ColPrevSchool     = "이전학교"
	ColAssignedSchool = "배정학교"
	ColTextbook       = "교재"
	ColQuestions      = "질문목록"
	ColDifficulty     = "난이도"
	ColSummary        = "요약"
)

// Schema 저장소의 고정 컬럼 순서
var Schema = []string{
	ColDate, ColName, ColStatus, ColClass, ColSubject, ColWeek,
	ColNote, ColMessage,
	ColHomeworkRate, ColClassHomework, ColWrongCount, ColClassWrong,
	ColPrevSchool, ColAssignedSchool, ColTextbook, ColQuestions, ColDifficulty, ColSummary,
}

// DateLayout 날짜 컬럼 형식
const DateLayout = "2006-01-02"

// ── Metric ──

// Metric 과제율·오답수 같은 수치 항목.
// 빈 셀이나 숫자가 아닌 기존 값은 원문을 그대로 보존한다.
type Metric struct {
	Value float64
	Valid bool
	raw   string
}

// NewMetric 숫자 값으로 Metric 을 만든다.
func NewMetric(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// ParseMetric 셀 문자열을 해석한다. "85%" 처럼 퍼센트 기호가 붙은 값도 허용한다.
func ParseMetric(s string) Metric {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Metric{raw: s}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(trimmed, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{raw: s}
	}
	return Metric{Value: v, Valid: true, raw: s}
}

// String 저장용 셀 문자열
func (m Metric) String() string {
	if m.raw != "" {
		return m.raw
	}
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON 유효하지 않은 값은 null
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// ── Record ──

// Record 학생 한 명의 한 주 상담 기록
type Record struct {
	Date           string `json:"date"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Class          string `json:"class"`
	Subject        string `json:"subject"`
	Week           string `json:"week"`
	Note           string `json:"note"`
	Message        string `json:"message"`
	HomeworkRate   Metric `json:"homework_rate"`
	ClassHomework  Metric `json:"class_homework_rate"`
	WrongCount     Metric `json:"wrong_count"`
	ClassWrong     Metric `json:"class_wrong_count"`
	PrevSchool     string `json:"prev_school"`
	AssignedSchool string `json:"assigned_school"`
	Textbook       string `json:"textbook"`
	Questions      string `json:"questions"`
	Difficulty     string `json:"difficulty"`
	Summary        string `json:"summary"`

	// Extra 스키마 밖의 컬럼 값 (헤더 이름 → 셀)
	Extra map[string]string `json:"extra,omitempty"`
}

// Get 컬럼 이름으로 셀 값을 읽는다.
func (r *Record) Get(col string) string {
	switch col {
	case ColDate:
		return r.Date
	case ColName:
		return r.Name
	case ColStatus:
		return r.Status
	case ColClass:
		return r.Class
	case ColSubject:
		return r.Subject
	case ColWeek:
		return r.Week
	case ColNote:
		return r.Note
	case ColMessage:
		return r.Message
	case ColHomeworkRate:
		return r.HomeworkRate.String()
	case ColClassHomework:
		return r.ClassHomework.String()
	case ColWrongCount:
		return r.WrongCount.String()
	case ColClassWrong:
		return r.ClassWrong.String()
	case ColPrevSchool:
		return r.PrevSchool
	case ColAssignedSchool:
		return r.AssignedSchool
	case ColTextbook:
		return r.Textbook
	case ColQuestions:
		return r.Questions
	case ColDifficulty:
		return r.Difficulty
	case ColSummary:
		return r.Summary
	default:
		return r.Extra[col]
	}
}

// Set 컬럼 이름으로 셀 값을 쓴다.
func (r *Record) Set(col, v string) {
	switch col {
	case ColDate:
		r.Date = v
	case ColName:
		r.Name = v
	case ColStatus:
		r.Status = v
	case ColClass:
		r.Class = v
	case ColSubject:
		r.Subject = v
	case ColWeek:
		r.Week = v
	case ColNote:
		r.Note = v
	case ColMessage:
		r.Message = v
	case ColHomeworkRate:
		r.HomeworkRate = ParseMetric(v)
	case ColClassHomework:
		r.ClassHomework = ParseMetric(v)
	case ColWrongCount:
		r.WrongCount = ParseMetric(v)
	case ColClassWrong:
		r.ClassWrong = ParseMetric(v)
	case ColPrevSchool:
		r.PrevSchool = v
	case ColAssignedSchool:
		r.AssignedSchool = v
	case ColTextbook:
		r.Textbook = v
	case ColQuestions:
		r.Questions = v
	case ColDifficulty:
		r.Difficulty = v
	case ColSummary:
		r.Summary = v
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[col] = v
	}
}

// ── Table ──

// RawTable 저장소가 주고받는 타입 없는 표
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Table 고정 스키마를 공유하는 기록 목록
type Table struct {
	// Header 저장 시 컬럼 순서. 스키마 컬럼은 항상 포함된다.
	Header  []string
	Records []Record
}

// NewTable 스키마 컬럼만 가진 빈 표
func NewTable() *Table {
	header := make([]string, len(Schema))
	copy(header, Schema)
	return &Table{Header: header}
}

// Append 기록 한 건을 추가한다.
func (t *Table) Append(r Record) {
	t.Records = append(t.Records, r)
}

// Len 행 수
func (t *Table) Len() int { return len(t.Records) }

// FromRaw 저장소에서 읽은 표를 Record 로 옮긴다. 형태가 불확실한 데이터는 여기서만 다룬다.
//   - 누락된 스키마 컬럼은 헤더 끝에 추가되고 값은 빈 문자열
//   - 기존 컬럼 순서와 값은 바꾸지 않음
//   - 스키마 밖의 컬럼은 Record.Extra 로 보존
//   - 빈 헤더 이름, 중복 헤더의 두 번째 이후, 헤더보다 긴 행의 나머지 셀은 버림
func FromRaw(raw *RawTable) *Table {
	if raw == nil || len(raw.Header) == 0 {
		return NewTable()
	}

	header := make([]string, 0, len(raw.Header)+len(Schema))
	seen := make(map[string]bool, len(raw.Header))
	colIdx := make([]int, 0, len(raw.Header))
	for i, h := range raw.Header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		header = append(header, name)
		colIdx = append(colIdx, i)
	}
	for _, col := range Schema {
		if !seen[col] {
			header = append(header, col)
		}
	}

	t := &Table{Header: header, Records: make([]Record, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		if isBlankRow(row) {
			continue
		}
		var r Record
		for j, i := range colIdx {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			r.Set(header[j], v)
		}
		t.Records = append(t.Records, r)
	}

	return t
}

// ToRaw 헤더 순서대로 셀을 펼친다.
func (t *Table) ToRaw() *RawTable {
	raw := &RawTable{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, 0, len(t.Records)),
	}
	for i := range t.Records {
		row := make([]string, len(t.Header))
		for j, col := range t.Header {
			row[j] = t.Records[i].Get(col)
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
