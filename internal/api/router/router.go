package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"learning-manager/config"
	"learning-manager/internal/api/handler"
	"learning-manager/internal/api/middleware"
	"learning-manager/internal/service"
	"learning-manager/pkg/jwt"
	"learning-manager/pkg/redis"
)

// Features /health 에 노출하는 기능 활성 상태
type Features struct {
	Auth         bool `json:"auth"`
	MessageGen   bool `json:"message_generation"`
	RemoteStore  bool `json:"remote_store"`
	Redis        bool `json:"redis"`
	CalendarYear int  `json:"calendar_year"`
}

// Setup Gin 엔진을 초기화해 반환한다.
// rdb 는 nil 일 수 있다 (블랙리스트·호출 제한 비활성).
func Setup(
	cfg *config.Config,
	svc *service.Service,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	features Features,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 전역 미들웨어 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 상태 확인 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "features": features})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		protected := v1.Group("")
		if svc.Auth.Enabled() {
			protected.Use(middleware.JWTAuth(jwtMgr, rdb))
			protected.POST("/auth/logout", h.Auth.Logout)
		}
		{
			// 주차 달력
			weeks := protected.Group("/weeks")
			{
				weeks.GET("", h.Week.ListWeeks)
				weeks.GET("/current", h.Week.GetCurrentWeek)
			}

			// 상담 기록
			records := protected.Group("/records")
			{
				records.GET("", h.Record.ListRecords)
				records.POST("", h.Record.CreateRecord)
				records.GET("/students/:name", h.Record.GetStudentHistory)
			}

			// 학부모 문자
			protected.POST("/messages/generate",
				middleware.RateLimit(rdb, cfg.RateLimit.GenerateLimit, cfg.RateLimit.GenerateWindow),
				h.Message.GenerateMessage,
			)

			// 리포트
			reports := protected.Group("/reports")
			{
				reports.GET("/weekly", h.Report.WeeklySummary)
				reports.GET("/export", h.Report.ExportExcel)
			}
		}
	}

	return r
}
