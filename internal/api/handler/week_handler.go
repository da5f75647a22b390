package handler

import (
	"github.com/gin-gonic/gin"

	"learning-manager/internal/service"
	"learning-manager/pkg/response"
)

// WeekHandler 주차 달력 HTTP 처리기
type WeekHandler struct {
	weekSvc service.WeekService
}

// NewWeekHandler WeekHandler 생성
func NewWeekHandler(weekSvc service.WeekService) *WeekHandler {
	return &WeekHandler{weekSvc: weekSvc}
}

// ListWeeks 주차 목록
// GET /api/v1/weeks
func (h *WeekHandler) ListWeeks(c *gin.Context) {
	response.OK(c, h.weekSvc.List())
}

// GetCurrentWeek 오늘이 속한 주차
// GET /api/v1/weeks/current
func (h *WeekHandler) GetCurrentWeek(c *gin.Context) {
	cur := h.weekSvc.List().Current
	if cur == nil {
		response.NotFound(c, 12001, "오늘이 속한 주차가 달력에 없습니다")
		return
	}
	response.OK(c, cur)
}
