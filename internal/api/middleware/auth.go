package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"learning-manager/pkg/jwt"
	"learning-manager/pkg/redis"
	"learning-manager/pkg/response"
)

// 컨텍스트 키
const (
	ContextStaffName = "staff_name"
	ContextTokenID   = "token_id"
	ContextTokenExp  = "token_exp"
)

// JWTAuth JWT 인증 미들웨어
// Authorization: Bearer <token> 을 검증하고 직원 이름을 컨텍스트에 넣는다.
// rdb 가 nil 이면 블랙리스트 확인을 건너뛴다.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "인증 헤더가 없습니다")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "인증 헤더 형식이 올바르지 않습니다")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "토큰이 유효하지 않거나 만료되었습니다")
			c.Abort()
			return
		}

		if rdb != nil {
			// Redis 오류 시에는 통과시킨다
			if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				response.Unauthorized(c, 10002, "로그아웃된 토큰입니다")
				c.Abort()
				return
			}
		}

		c.Set(ContextStaffName, claims.StaffName)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}
