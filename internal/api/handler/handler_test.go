package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"learning-manager/internal/api/middleware"
	"learning-manager/internal/dto"
	"learning-manager/internal/model"
	"learning-manager/internal/repository"
	"learning-manager/internal/service"
	"learning-manager/pkg/response"
	"learning-manager/pkg/weekcal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	enabled     bool
	loginResult *dto.TokenResponse
	loginErr    error
	logoutErr   error
	loggedOut   string
}

func (m *mockAuthService) Enabled() bool { return m.enabled }
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.loggedOut = jti
	return m.logoutErr
}

// ── Mock WeekService ──

type mockWeekService struct {
	list *dto.WeekListResponse
}

func (m *mockWeekService) List() *dto.WeekListResponse { return m.list }
func (m *mockWeekService) Resolve(_ string) (weekcal.Week, bool) {
	return weekcal.Week{}, false
}
func (m *mockWeekService) Current() (weekcal.Week, bool) { return weekcal.Week{}, false }

// ── Mock RecordService ──

type mockRecordService struct {
	createResult  *dto.CreateRecordResponse
	createErr     error
	createStaff   string
	listResult    *dto.RecordListResponse
	listErr       error
	listReq       *dto.RecordListRequest
	historyResult *dto.RecordListResponse
	historyErr    error
	historyName   string
}

func (m *mockRecordService) Create(_ context.Context, _ *dto.CreateRecordRequest, staff string) (*dto.CreateRecordResponse, error) {
	m.createStaff = staff
	return m.createResult, m.createErr
}
func (m *mockRecordService) List(_ context.Context, req *dto.RecordListRequest) (*dto.RecordListResponse, error) {
	m.listReq = req
	return m.listResult, m.listErr
}
func (m *mockRecordService) StudentHistory(_ context.Context, name string) (*dto.RecordListResponse, error) {
	m.historyName = name
	return m.historyResult, m.historyErr
}

// ── Mock MessageService ──

type mockMessageService struct {
	result *dto.MessageResponse
	err    error
}

func (m *mockMessageService) Enabled() bool { return m.err == nil }
func (m *mockMessageService) Compose(_ context.Context, _ *dto.GenerateMessageRequest) (*dto.MessageResponse, error) {
	return m.result, m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	summary    *dto.WeeklySummaryResponse
	summaryErr error
	buf        *bytes.Buffer
	filename   string
	exportErr  error
}

func (m *mockReportService) WeeklySummary(_ context.Context, _ string) (*dto.WeeklySummaryResponse, error) {
	return m.summary, m.summaryErr
}
func (m *mockReportService) ExportExcel(_ context.Context, _ *dto.RecordListRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.exportErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set(middleware.ContextStaffName, "상담실장")
	c.Set(middleware.ContextTokenID, "test-jti")
	c.Set(middleware.ContextTokenExp, time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func validRecordBody() dto.CreateRecordRequest {
	return dto.CreateRecordRequest{Name: "김철수", Week: "3주차", Note: "과제 성실"}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{enabled: true, loginResult: &dto.TokenResponse{AccessToken: "tok", ExpiresIn: 3600, StaffName: "상담실장"}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{StaffName: "상담실장", Password: "pw"}))

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("기대 code 0, 실제=%d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제=%d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{StaffName: "상담실장", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("기대 401, 실제=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("기대 오류 코드 11001, 실제=%d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{enabled: true}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) { setAuth(c); c.Next() }, h.Logout)
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제=%d", w.Code)
	}
	if mock.loggedOut != "test-jti" {
		t.Errorf("기대 jti test-jti, 실제=%q", mock.loggedOut)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{enabled: true})

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("기대 401, 실제=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// WeekHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWeekHandler_ListWeeks(t *testing.T) {
	list := &dto.WeekListResponse{Year: 2026, List: []dto.WeekResponse{{Index: 1, Key: "1주차", Label: "1/4(일) ~ 1/10(토)"}}}
	h := NewWeekHandler(&mockWeekService{list: list})

	r := gin.New()
	r.GET("/weeks", h.ListWeeks)
	w := serve(r, "GET", "/weeks", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("기대 200, 실제=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "1/4(일) ~ 1/10(토)") {
		t.Errorf("응답에 주차 라벨 없음: %s", w.Body.String())
	}
}

func TestWeekHandler_GetCurrentWeek_NotFound(t *testing.T) {
	h := NewWeekHandler(&mockWeekService{list: &dto.WeekListResponse{Year: 2026}})

	r := gin.New()
	r.GET("/weeks/current", h.GetCurrentWeek)
	w := serve(r, "GET", "/weeks/current", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("기대 404, 실제=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RecordHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRecordHandler_CreateRecord_Success(t *testing.T) {
	mock := &mockRecordService{createResult: &dto.CreateRecordResponse{
		Record: model.Record{Name: "김철수"},
		Save:   dto.SaveStatus{Outcome: "remote"},
		Total:  1,
	}}
	h := NewRecordHandler(mock)

	r := gin.New()
	r.POST("/records", func(c *gin.Context) { setAuth(c); c.Next() }, h.CreateRecord)
	w := serve(r, "POST", "/records", jsonBody(validRecordBody()))

	if w.Code != http.StatusCreated {
		t.Errorf("기대 201, 실제=%d", w.Code)
	}
	if mock.createStaff != "상담실장" {
		t.Errorf("직원 이름이 전달되지 않음: %q", mock.createStaff)
	}
}

func TestRecordHandler_CreateRecord_MissingNote(t *testing.T) {
	mock := &mockRecordService{}
	h := NewRecordHandler(mock)

	r := gin.New()
	r.POST("/records", h.CreateRecord)
	body := validRecordBody()
	body.Note = ""
	w := serve(r, "POST", "/records", jsonBody(body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("기대 오류 코드 10001, 실제=%d", resp.Code)
	}
}

func TestRecordHandler_CreateRecord_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   int
	}{
		{service.ErrRecordNameRequired, http.StatusBadRequest, 13001},
		{service.ErrRecordNoteRequired, http.StatusBadRequest, 13002},
		{service.ErrRecordWeekUnknown, http.StatusBadRequest, 13003},
		{fmt.Errorf("%w: HomeworkRate:lte=100", service.ErrRecordInvalid), http.StatusBadRequest, 13004},
		{fmt.Errorf("%w: disk full", repository.ErrStoreUnavailable), http.StatusServiceUnavailable, 13005},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			h := NewRecordHandler(&mockRecordService{createErr: tt.err})

			r := gin.New()
			r.POST("/records", h.CreateRecord)
			w := serve(r, "POST", "/records", jsonBody(validRecordBody()))

			if w.Code != tt.status {
				t.Errorf("기대 %d, 실제=%d", tt.status, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.code {
				t.Errorf("기대 오류 코드 %d, 실제=%d", tt.code, resp.Code)
			}
		})
	}
}

func TestRecordHandler_ListRecords_BindsQuery(t *testing.T) {
	mock := &mockRecordService{listResult: &dto.RecordListResponse{Source: "local"}}
	h := NewRecordHandler(mock)

	r := gin.New()
	r.GET("/records", h.ListRecords)
	w := serve(r, "GET", "/records?class=%EC%A4%912A&week=3", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("기대 200, 실제=%d", w.Code)
	}
	if mock.listReq == nil || mock.listReq.Class != "중2A" || mock.listReq.Week != "3" {
		t.Errorf("조회 조건 바인딩 불일치: %+v", mock.listReq)
	}
}

func TestRecordHandler_GetStudentHistory(t *testing.T) {
	mock := &mockRecordService{historyResult: &dto.RecordListResponse{Total: 2}}
	h := NewRecordHandler(mock)

	r := gin.New()
	r.GET("/records/students/:name", h.GetStudentHistory)
	w := serve(r, "GET", "/records/students/%EA%B9%80%EC%B2%A0%EC%88%98", nil)

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제=%d", w.Code)
	}
	if mock.historyName != "김철수" {
		t.Errorf("기대 이름 김철수, 실제=%q", mock.historyName)
	}
}

// ═══════════════════════════════════════════════════════════
// MessageHandler Tests
// ═══════════════════════════════════════════════════════════

func TestMessageHandler_Generate_FailureIsOK(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{result: &dto.MessageResponse{Text: "오류 발생: timeout", Failed: true}})

	r := gin.New()
	r.POST("/messages/generate", h.GenerateMessage)
	w := serve(r, "POST", "/messages/generate", jsonBody(dto.GenerateMessageRequest{Name: "김철수", Note: "메모"}))

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"failed":true`) {
		t.Errorf("failed 표시 없음: %s", w.Body.String())
	}
}

func TestMessageHandler_Generate_Disabled(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{err: service.ErrMessageDisabled})

	r := gin.New()
	r.POST("/messages/generate", h.GenerateMessage)
	w := serve(r, "POST", "/messages/generate", jsonBody(dto.GenerateMessageRequest{Name: "김철수", Note: "메모"}))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("기대 503, 실제=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14001 {
		t.Errorf("기대 오류 코드 14001, 실제=%d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_WeeklySummary_MissingWeek(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	r := gin.New()
	r.GET("/reports/weekly", h.WeeklySummary)
	w := serve(r, "GET", "/reports/weekly", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제=%d", w.Code)
	}
}

func TestReportHandler_WeeklySummary_UnknownWeek(t *testing.T) {
	h := NewReportHandler(&mockReportService{summaryErr: service.ErrReportWeekUnknown})

	r := gin.New()
	r.GET("/reports/weekly", h.WeeklySummary)
	w := serve(r, "GET", "/reports/weekly?week=99", nil)

	if resp := parseResponse(w); w.Code != http.StatusBadRequest || resp.Code != 15001 {
		t.Errorf("기대 400/15001, 실제=%d/%d", w.Code, resp.Code)
	}
}

func TestReportHandler_ExportExcel_Success(t *testing.T) {
	h := NewReportHandler(&mockReportService{buf: bytes.NewBufferString("PK-fake"), filename: "상담기록.xlsx"})

	r := gin.New()
	r.GET("/reports/export", h.ExportExcel)
	w := serve(r, "GET", "/reports/export", nil)

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("예상치 못한 Content-Type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("Content-Disposition 불일치: %s", cd)
	}
}

func TestReportHandler_ExportExcel_NoRecords(t *testing.T) {
	h := NewReportHandler(&mockReportService{exportErr: service.ErrExportNoRecords})

	r := gin.New()
	r.GET("/reports/export", h.ExportExcel)
	w := serve(r, "GET", "/reports/export?student=x", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("기대 404, 실제=%d", w.Code)
	}
}
