package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"learning-manager/internal/dto"
	"learning-manager/internal/repository"
	"learning-manager/internal/service"
	"learning-manager/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 주간 요약·엑셀 내보내기 HTTP 처리기
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler ReportHandler 생성
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// WeeklySummary 반별 주간 요약
// GET /api/v1/reports/weekly?week=3주차
func (h *ReportHandler) WeeklySummary(c *gin.Context) {
	week := c.Query("week")
	if week == "" {
		response.BadRequest(c, 10001, "week 를 입력해주세요")
		return
	}

	result, err := h.reportSvc.WeeklySummary(c.Request.Context(), week)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportExcel 상담 기록 엑셀 내보내기
// GET /api/v1/reports/export?student=&class=&week=
func (h *ReportHandler) ExportExcel(c *gin.Context) {
	var req dto.RecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "조회 조건이 올바르지 않습니다")
		return
	}

	buf, filename, err := h.reportSvc.ExportExcel(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	// 다운로드 응답 헤더
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReportWeekUnknown):
		response.BadRequest(c, 15001, "선택한 주차가 달력에 없습니다")
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, 15101, "조건에 맞는 상담 기록이 없습니다")
	case errors.Is(err, repository.ErrStoreUnavailable):
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, 15102, "저장소를 사용할 수 없습니다", err.Error())
	default:
		response.InternalError(c)
	}
}
