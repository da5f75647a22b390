package weekcal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Week 일요일~토요일 한 주
type Week struct {
	Index int
	Start time.Time
	End   time.Time
	Label string
}

// Key 선택 목록과 시트에 기록되는 주차 키, 예: "3주차"
func (w Week) Key() string { return FormatKey(w.Index) }

// Contains 날짜가 이 주에 속하는지 여부
func (w Week) Contains(t time.Time) bool {
	d := dateOf(t.In(w.Start.Location()))
	return !d.Before(w.Start) && !d.After(w.End)
}

const keySuffix = "주차"

var weekdayNames = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// Generate 기준일(대상 연도의 첫 일요일)부터 7일씩 전진하며 주차 목록을 만든다.
// 시작일이 대상 연도를 벗어나거나 maxWeeks 를 넘으면 멈춘다.
// 기준일이 이미 대상 연도를 지났다면 빈 목록을 반환한다.
func Generate(anchor time.Time, targetYear, maxWeeks int) []Week {
	if maxWeeks <= 0 {
		return []Week{}
	}
	weeks := make([]Week, 0, maxWeeks)
	current := dateOf(anchor)

	for week := 1; week <= maxWeeks; week++ {
		if current.Year() != targetYear {
			break
		}
		end := current.AddDate(0, 0, 6)
		weeks = append(weeks, Week{
			Index: week,
			Start: current,
			End:   end,
			Label: FormatRange(current, end),
		})
		current = current.AddDate(0, 0, 7)
	}

	return weeks
}

// FormatRange "1/4(일) ~ 1/10(토)"
func FormatRange(start, end time.Time) string {
	return formatDay(start) + " ~ " + formatDay(end)
}

func formatDay(t time.Time) string {
	return fmt.Sprintf("%d/%d(%s)", int(t.Month()), t.Day(), weekdayNames[t.Weekday()])
}

// FormatKey 3 → "3주차"
func FormatKey(index int) string {
	return strconv.Itoa(index) + keySuffix
}

// ParseKey "3주차" 또는 "3" → 3
func ParseKey(key string) (int, error) {
	s := strings.TrimSpace(key)
	s = strings.TrimSuffix(s, keySuffix)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("주차 형식 오류: %q", key)
	}
	return n, nil
}

// Lookup 주차 번호로 찾는다.
func Lookup(weeks []Week, index int) (Week, bool) {
	// 주차는 1부터 빈틈없이 생성되므로 위치로 바로 찾을 수 있다
	if index < 1 || index > len(weeks) {
		return Week{}, false
	}
	return weeks[index-1], true
}

// Current 주어진 날짜가 속한 주차를 찾는다.
func Current(weeks []Week, today time.Time) (Week, bool) {
	for _, w := range weeks {
		if w.Contains(today) {
			return w, true
		}
	}
	return Week{}, false
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
