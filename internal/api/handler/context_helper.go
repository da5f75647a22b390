package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"learning-manager/internal/api/middleware"
	"learning-manager/pkg/response"
)

// StaffName JWT 미들웨어가 넣은 직원 이름. 인증이 꺼져 있으면 빈 문자열.
func StaffName(c *gin.Context) string {
	return c.GetString(middleware.ContextStaffName)
}

// MustGetToken 현재 토큰의 jti 와 만료 시각을 꺼낸다.
// 없으면 401 을 쓰고 false 를 반환하므로 호출자는 바로 return 해야 한다.
func MustGetToken(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(middleware.ContextTokenID)
	if jti == "" {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return "", time.Time{}, false
	}
	exp, _ := c.Get(middleware.ContextTokenExp)
	expAt, ok := exp.(time.Time)
	if !ok {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return "", time.Time{}, false
	}
	return jti, expAt, true
}
