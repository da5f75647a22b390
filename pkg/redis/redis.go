package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"learning-manager/config"
)

// Client Redis 클라이언트 래퍼
// 토큰 블랙리스트와 문자 생성 호출 제한에 사용한다
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient Redis 연결 후 Ping 으로 확인한다.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 연결 실패: %w", err)
	}

	logger.Info("Redis 연결 성공", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 토큰 블랙리스트 ──

const blacklistPrefix = "lm:token:blacklist:"

// BlacklistToken JWT ID 를 남은 유효기간 동안 블랙리스트에 둔다.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 이미 만료된 토큰
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted JWT ID 가 블랙리스트에 있는지 확인한다.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 슬라이딩 윈도우 호출 제한 ──

// CheckRateLimit 이번 요청을 포함한 window 안의 요청 수가 limit 이하이면 true.
// 정리, 기록, 집계를 한 트랜잭션으로 실행하고 한도를 넘은 요청의 기록은 되돌린다.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	minScore := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)
	member := uuid.NewString()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", minScore)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMilli()), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if withinLimit(count.Val(), limit) {
		return true, nil
	}

	if err := c.rdb.ZRem(ctx, key, member).Err(); err != nil {
		c.logger.Warn("거부된 요청 기록 삭제 실패", zap.String("key", key), zap.Error(err))
	}
	return false, nil
}

func withinLimit(count int64, limit int) bool {
	return count <= int64(limit)
}

// Close 연결 종료
func (c *Client) Close() error {
	return c.rdb.Close()
}
