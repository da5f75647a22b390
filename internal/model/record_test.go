package model

import (
	"encoding/json"
	"testing"
)

func TestFromRaw_Nil(t *testing.T) {
	tbl := FromRaw(nil)
	if tbl.Len() != 0 {
		t.Errorf("빈 표여야 합니다, 실제=%d행", tbl.Len())
	}
	if len(tbl.Header) != len(Schema) {
		t.Errorf("헤더는 스키마와 같아야 합니다, 실제=%v", tbl.Header)
	}
}

func TestFromRaw_RepairsMissingColumns(t *testing.T) {
	raw := &RawTable{
		Header: []string{ColName, ColWeek, ColNote},
		Rows: [][]string{
			{"이효승", "1주차", "숙제 성실"},
			{"김민지", "1주차"}, // 짧은 행
		},
	}

	tbl := FromRaw(raw)

	// 기존 컬럼 순서 유지
	for i, want := range []string{ColName, ColWeek, ColNote} {
		if tbl.Header[i] != want {
			t.Errorf("헤더[%d] 기대값 %s, 실제=%s", i, want, tbl.Header[i])
		}
	}
	if len(tbl.Header) != len(Schema) {
		t.Errorf("누락 컬럼이 추가되어야 합니다, 실제 헤더 수=%d", len(tbl.Header))
	}
	if tbl.Len() != 2 {
		t.Fatalf("기대값 2행, 실제=%d", tbl.Len())
	}

	r := tbl.Records[0]
	if r.Name != "이효승" || r.Week != "1주차" || r.Note != "숙제 성실" {
		t.Errorf("기존 값이 보존되어야 합니다: %+v", r)
	}
	if r.Class != "" || r.Textbook != "" || r.HomeworkRate.Valid {
		t.Errorf("새 컬럼은 비어 있어야 합니다: %+v", r)
	}
	if tbl.Records[1].Note != "" {
		t.Errorf("짧은 행의 누락 셀은 빈 문자열이어야 합니다")
	}
}

func TestFromRaw_KeepsUnknownColumns(t *testing.T) {
	raw := &RawTable{
		Header: []string{"\ufeff" + ColDate, "담당교사", ColName},
		Rows:   [][]string{{"2026-01-05", "박선생", "이효승"}},
	}

	tbl := FromRaw(raw)
	if tbl.Header[0] != ColDate {
		t.Errorf("BOM 은 제거되어야 합니다: %q", tbl.Header[0])
	}
	if tbl.Header[1] != "담당교사" {
		t.Errorf("스키마 밖 컬럼 위치가 유지되어야 합니다: %v", tbl.Header)
	}
	if got := tbl.Records[0].Extra["담당교사"]; got != "박선생" {
		t.Errorf("스키마 밖 값이 보존되어야 합니다, 실제=%q", got)
	}

	back := tbl.ToRaw()
	if back.Rows[0][1] != "박선생" {
		t.Errorf("ToRaw 는 스키마 밖 값을 다시 써야 합니다: %v", back.Rows[0])
	}
}

func TestFromRaw_SkipsBlankRows(t *testing.T) {
	raw := &RawTable{
		Header: Schema,
		Rows:   [][]string{{"", " "}, {"2026-01-05", "이효승"}},
	}
	if n := FromRaw(raw).Len(); n != 1 {
		t.Errorf("빈 행은 건너뛰어야 합니다, 실제=%d", n)
	}
}

func TestToRaw_RoundTripIdempotent(t *testing.T) {
	raw := &RawTable{
		Header: []string{ColName, ColHomeworkRate, ColWrongCount},
		Rows: [][]string{
			{"이효승", "85.0", "3"},
			{"김민지", "결석", ""},
		},
	}

	first := FromRaw(raw).ToRaw()
	second := FromRaw(first).ToRaw()

	if len(first.Header) != len(second.Header) {
		t.Fatalf("헤더 길이가 달라졌습니다: %d → %d", len(first.Header), len(second.Header))
	}
	for i := range first.Rows {
		for j := range first.Rows[i] {
			if first.Rows[i][j] != second.Rows[i][j] {
				t.Errorf("셀 (%d,%d) 이 달라졌습니다: %q → %q", i, j, first.Rows[i][j], second.Rows[i][j])
			}
		}
	}
	// 숫자가 아닌 기존 값과 원래 표기("85.0")가 그대로 남아야 함
	if first.Rows[0][1] != "85.0" || first.Rows[1][1] != "결석" {
		t.Errorf("원문 보존 실패: %v", first.Rows)
	}
}

func TestParseMetric(t *testing.T) {
	m := ParseMetric("85%")
	if !m.Valid || m.Value != 85 {
		t.Errorf("85%% 는 85 로 해석되어야 합니다: %+v", m)
	}
	if ParseMetric("").Valid {
		t.Error("빈 셀은 유효하지 않아야 합니다")
	}
	if got := NewMetric(12.5).String(); got != "12.5" {
		t.Errorf("기대값 12.5, 실제=%s", got)
	}

	// 유한하지 않은 값은 숫자로 보지 않고 원문만 보존한다
	for _, s := range []string{"NaN", "inf", "-Infinity", "+Inf%"} {
		m := ParseMetric(s)
		if m.Valid {
			t.Errorf("%q 는 유효하지 않아야 합니다: %+v", s, m)
		}
		if m.String() != s {
			t.Errorf("원문 보존 실패: 기대=%q, 실제=%q", s, m.String())
		}
		if _, err := json.Marshal(m); err != nil {
			t.Errorf("%q 직렬화 실패: %v", s, err)
		}
	}
}

func TestMetric_MarshalJSON(t *testing.T) {
	b, _ := json.Marshal(struct {
		A Metric `json:"a"`
		B Metric `json:"b"`
	}{A: NewMetric(90), B: ParseMetric("결석")})

	if string(b) != `{"a":90,"b":null}` {
		t.Errorf("JSON 직렬화 불일치: %s", b)
	}
}
