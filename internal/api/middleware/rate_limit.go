package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"learning-manager/pkg/redis"
	"learning-manager/pkg/response"
)

// RateLimit Redis 슬라이딩 윈도우 호출 제한
// 문자 생성처럼 외부 API 비용이 드는 경로에 건다.
// rdb 가 nil 이거나 limit<=0 이면 제한하지 않는다.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("lm:rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 오류 시 통과
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c, 10004, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요")
			c.Abort()
			return
		}

		c.Next()
	}
}
