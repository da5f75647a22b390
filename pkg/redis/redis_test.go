package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"learning-manager/config"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("Redis 클라이언트 생성 실패: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestWithinLimit(t *testing.T) {
	tests := []struct {
		count int64
		limit int
		want  bool
	}{
		{1, 3, true},
		{3, 3, true},
		{4, 3, false},
		{1, 0, false},
	}
	for _, tt := range tests {
		if got := withinLimit(tt.count, tt.limit); got != tt.want {
			t.Errorf("withinLimit(%d, %d): 기대=%v, 실제=%v", tt.count, tt.limit, tt.want, got)
		}
	}
}

func TestCheckRateLimit_RejectedRequestsNotRecorded(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()
	key := "lm:rate_limit:test"

	allowed := 0
	for i := 0; i < 5; i++ {
		ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("예상치 못한 오류: %v", err)
		}
		if ok {
			allowed++
		}
	}

	if allowed != 3 {
		t.Errorf("기대 허용 3건, 실제=%d", allowed)
	}
	members, err := mr.ZMembers(key)
	if err != nil {
		t.Fatalf("ZMembers 실패: %v", err)
	}
	if len(members) != 3 {
		t.Errorf("거부된 요청은 창에 남지 않아야 합니다, 실제=%d", len(members))
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("창 길이만큼 만료가 설정되어야 합니다, 실제=%v", ttl)
	}
}

func TestCheckRateLimit_ConcurrentCallersNeverExceedLimit(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()
	key := "lm:rate_limit:concurrent"
	const limit = 5

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.CheckRateLimit(ctx, key, limit, time.Minute)
			if err != nil {
				t.Errorf("예상치 못한 오류: %v", err)
				return
			}
			if ok {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("기대 허용 %d건, 실제=%d", limit, allowed)
	}
	if members, _ := mr.ZMembers(key); len(members) != limit {
		t.Errorf("창에는 허용된 요청만 남아야 합니다, 실제=%d", len(members))
	}
}

func TestBlacklistToken(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()

	if err := c.BlacklistToken(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("예상치 못한 오류: %v", err)
	}
	if ok, err := c.IsBlacklisted(ctx, "jti-1"); err != nil || !ok {
		t.Errorf("블랙리스트에 있어야 합니다: ok=%v err=%v", ok, err)
	}

	if err := c.BlacklistToken(ctx, "jti-expired", 0); err != nil {
		t.Fatalf("예상치 못한 오류: %v", err)
	}
	if mr.Exists(blacklistPrefix + "jti-expired") {
		t.Error("이미 만료된 토큰은 기록하지 않아야 합니다")
	}
}
