package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learning-manager/internal/dto"
	"learning-manager/internal/service"
	"learning-manager/pkg/response"
)

// AuthHandler 직원 인증 HTTP 처리기
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler AuthHandler 생성
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 직원 로그인
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "비밀번호가 올바르지 않습니다")
		case errors.Is(err, service.ErrAuthDisabled):
			response.BadRequest(c, 11002, "인증이 설정되지 않았습니다")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout 로그아웃 (토큰을 블랙리스트에 올린다)
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := MustGetToken(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
