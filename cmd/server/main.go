package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"learning-manager/config"
	"learning-manager/internal/api/handler"
	"learning-manager/internal/api/router"
	"learning-manager/internal/repository"
	"learning-manager/internal/service"
	"learning-manager/pkg/gemini"
	"learning-manager/pkg/jwt"
	applogger "learning-manager/pkg/logger"
	"learning-manager/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "설정 파일 경로 (비우면 ./config/config.yaml)")
	flag.Parse()

	// 1. 설정 로드
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로거 초기화
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "로거 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("애플리케이션 시작",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Int("target_year", cfg.Calendar.TargetYear),
	)

	ctx := context.Background()

	// 3. Redis (선택: 실패해도 시작은 계속한다)
	var rdb *redis.Client
	var blacklist service.TokenBlacklist
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 연결 실패, 토큰 블랙리스트와 호출 제한을 끕니다", zap.Error(err))
			rdb = nil
		} else {
			blacklist = rdb
		}
	}

	// 4. 문자 생성 API (선택)
	var generator service.TextGenerator
	var geminiClient *gemini.Client
	if cfg.Gemini.Enabled() {
		geminiClient, err = gemini.NewClient(ctx, &cfg.Gemini, logger)
		if err != nil {
			logger.Warn("Gemini 클라이언트 생성 실패, 문자 생성 기능을 끕니다", zap.Error(err))
		} else {
			generator = geminiClient
		}
	} else {
		logger.Warn("API 키가 없어 문자 생성 기능을 끕니다")
	}

	// 5. JWT 관리자
	jwtMgr := jwt.NewManager(&cfg.Auth)
	if !cfg.Auth.Enabled() {
		logger.Warn("직원 비밀번호 해시가 없어 인증 없이 실행합니다")
	}

	// 6. 의존성 조립: Repository → Service → Handler
	repo := repository.NewRepository(ctx, cfg, logger)
	svc, err := service.NewService(cfg, repo, generator, jwtMgr, blacklist, logger)
	if err != nil {
		logger.Fatal("서비스 초기화 실패", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	// 7. 라우터
	engine := router.Setup(cfg, svc, h, jwtMgr, rdb, router.Features{
		Auth:         svc.Auth.Enabled(),
		MessageGen:   svc.Message.Enabled(),
		RemoteStore:  repo.Record.RemoteEnabled(),
		Redis:        rdb != nil,
		CalendarYear: cfg.Calendar.TargetYear,
	}, logger)

	// 8. HTTP 서버 (우아한 종료)
	// 문자 생성 호출 시간을 고려해 쓰기 제한은 넉넉하게 둔다
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 서버 시작", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 서버 오류", zap.Error(err))
		}
	}()

	// 9. 종료 신호 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("종료 신호 수신, 서버를 종료합니다", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("서버 종료 오류", zap.Error(err))
	}

	if geminiClient != nil {
		geminiClient.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("서버 종료 완료")
}
