package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"learning-manager/config"
	"learning-manager/internal/dto"
	"learning-manager/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("비밀번호가 올바르지 않습니다")
	ErrAuthDisabled       = errors.New("인증이 설정되지 않았습니다")
)

// TokenBlacklist 로그아웃한 토큰 보관소 (Redis)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 직원 인증 업무 인터페이스
//
// 학원 직원이 공용 비밀번호 하나로 로그인한다. 비밀번호 해시가 설정되지 않으면 인증을 끈다.
type AuthService interface {
	Enabled() bool
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	cfg       *config.AuthConfig
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist // nil 이면 로그아웃 토큰을 추적하지 않음
	logger    *zap.Logger
}

// NewAuthService AuthService 생성
func NewAuthService(
	cfg *config.AuthConfig,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Enabled() bool { return s.cfg.Enabled() }

func (s *authService) Login(_ context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if !s.cfg.Enabled() {
		return nil, ErrAuthDisabled
	}

	staff := strings.TrimSpace(req.StaffName)
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.StaffPasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("로그인 실패", zap.String("staff", staff))
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.jwtMgr.GenerateAccessToken(staff)
	if err != nil {
		s.logger.Error("토큰 발급 실패", zap.Error(err))
		return nil, err
	}

	s.logger.Info("로그인 성공", zap.String("staff", staff))

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtMgr.TTL().Seconds()),
		StaffName:   staff,
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("토큰 블랙리스트 등록 실패", zap.Error(err))
		return err
	}
	return nil
}
