package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learning-manager/internal/dto"
	"learning-manager/internal/service"
	"learning-manager/pkg/response"
)

// MessageHandler 학부모 문자 생성 HTTP 처리기
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler MessageHandler 생성
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// GenerateMessage 상담 메모로 학부모 문자 초안 생성
// POST /api/v1/messages/generate
//
// 생성 API 실패는 200 과 failed=true 로 돌려준다.
func (h *MessageHandler) GenerateMessage(c *gin.Context) {
	var req dto.GenerateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "입력값 검증에 실패했습니다", err.Error())
		return
	}

	result, err := h.messageSvc.Compose(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageDisabled):
			response.ServiceUnavailable(c, 14001, "API 키가 설정되지 않아 문자 생성 기능을 사용할 수 없습니다")
		case errors.Is(err, service.ErrMessageNameRequired):
			response.BadRequest(c, 14002, "학생 이름을 입력해주세요")
		case errors.Is(err, service.ErrMessageNoteRequired):
			response.BadRequest(c, 14003, "상담 메모를 입력해주세요")
		case errors.Is(err, service.ErrMessageInvalid):
			response.ErrorWithDetails(c, http.StatusBadRequest, 14004, "문자 생성 요청 값이 올바르지 않습니다", err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
