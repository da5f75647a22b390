package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learning-manager/internal/dto"
	"learning-manager/internal/repository"
	"learning-manager/internal/service"
	"learning-manager/pkg/response"
)

// RecordHandler 상담 기록 HTTP 처리기
type RecordHandler struct {
	recordSvc service.RecordService
}

// NewRecordHandler RecordHandler 생성
func NewRecordHandler(recordSvc service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// CreateRecord 상담 기록 등록
// POST /api/v1/records
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "입력값 검증에 실패했습니다", err.Error())
		return
	}

	result, err := h.recordSvc.Create(c.Request.Context(), &req, StaffName(c))
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.Created(c, result)
}

// ListRecords 상담 기록 조회
// GET /api/v1/records?student=&class=&week=
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var req dto.RecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "조회 조건이 올바르지 않습니다")
		return
	}

	result, err := h.recordSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStudentHistory 학생별 상담 이력
// GET /api/v1/records/students/:name
func (h *RecordHandler) GetStudentHistory(c *gin.Context) {
	result, err := h.recordSvc.StudentHistory(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *RecordHandler) handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNameRequired):
		response.BadRequest(c, 13001, "학생 이름을 입력해주세요")
	case errors.Is(err, service.ErrRecordNoteRequired):
		response.BadRequest(c, 13002, "상담 메모를 입력해주세요")
	case errors.Is(err, service.ErrRecordWeekUnknown):
		response.BadRequest(c, 13003, "선택한 주차가 달력에 없습니다")
	case errors.Is(err, service.ErrRecordInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 13004, "입력값이 올바르지 않습니다", err.Error())
	case errors.Is(err, repository.ErrStoreUnavailable):
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, 13005, "저장소를 사용할 수 없습니다", err.Error())
	default:
		response.InternalError(c)
	}
}
