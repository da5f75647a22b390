package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 애플리케이션 전역 설정 구조체
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Store     StoreConfig     `mapstructure:"store"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BodyLimit int64      `mapstructure:"body_limit"` // 바이트
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig 교차 출처 설정
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig 로그 설정
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CalendarConfig 주차 달력 설정
type CalendarConfig struct {
	AnchorDate string `mapstructure:"anchor_date"` // 대상 연도의 첫 일요일, "2026-01-04"
	TargetYear int    `mapstructure:"target_year"`
	MaxWeeks   int    `mapstructure:"max_weeks"`
	Timezone   string `mapstructure:"timezone"`
}

// Anchor 기준일을 설정된 시간대로 해석한다.
func (c *CalendarConfig) Anchor() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02", c.AnchorDate, loc)
}

// Location 설정된 시간대를 반환한다.
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GeminiConfig 문자 생성 API 설정
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled API 키가 있을 때만 문자 생성 기능을 켠다.
func (c *GeminiConfig) Enabled() bool { return c.APIKey != "" }

// SheetsConfig 구글 스프레드시트 설정
type SheetsConfig struct {
	SpreadsheetID   string        `mapstructure:"spreadsheet_id"`
	Worksheet       string        `mapstructure:"worksheet"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	CredentialsJSON string        `mapstructure:"credentials_json"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Enabled 시트 주소와 인증 정보가 모두 있어야 원격 저장소를 사용한다.
func (c *SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != "" && (c.CredentialsFile != "" || c.CredentialsJSON != "")
}

// StoreConfig 로컬 파일 저장소 설정
type StoreConfig struct {
	LocalPath string `mapstructure:"local_path"`
}

// AuthConfig 직원 인증 설정
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	StaffPasswordHash string        `mapstructure:"staff_password_hash"` // bcrypt
	AccessTokenTTL    time.Duration `mapstructure:"access_token_ttl"`
}

// Enabled 비밀번호 해시가 설정된 경우에만 인증을 요구한다.
func (c *AuthConfig) Enabled() bool { return c.StaffPasswordHash != "" }

// RedisConfig Redis 설정 (주소가 비어 있으면 사용하지 않음)
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 문자 생성 호출 제한
type RateLimitConfig struct {
	GenerateLimit  int           `mapstructure:"generate_limit"`
	GenerateWindow time.Duration `mapstructure:"generate_window"`
}

// Load 설정 파일과 환경 변수에서 설정을 읽는다.
// 우선순위: 환경 변수(.env 포함) > 설정 파일 > 기본값
func Load(path string) (*Config, error) {
	// .env 가 없으면 무시한다
	_ = godotenv.Load()

	v := viper.New()

	// ── 기본값 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("calendar.anchor_date", "2026-01-04")
	v.SetDefault("calendar.target_year", 2026)
	v.SetDefault("calendar.max_weeks", 53)
	v.SetDefault("calendar.timezone", "Asia/Seoul")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout", "60s")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.worksheet", "상담기록")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.timeout", "30s")

	v.SetDefault("store.local_path", "data/consultations.csv")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.staff_password_hash", "")
	v.SetDefault("auth.access_token_ttl", "12h")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.generate_limit", 20)
	v.SetDefault("rate_limit.generate_window", "1m")

	// ── 설정 파일 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 환경 변수 ──
	v.SetEnvPrefix("LM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
		}
		// 설정 파일이 없으면 기본값과 환경 변수만 사용
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("설정 해석 실패: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 구조적으로 잘못된 설정만 거부한다.
// 비밀 값이 비어 있는 것은 해당 기능을 끄는 정상 상태이다.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("설정 검증 실패: server.port 는 1-65535 사이여야 합니다")
	}
	if _, err := c.Calendar.Anchor(); err != nil {
		return fmt.Errorf("설정 검증 실패: calendar.anchor_date 형식 오류: %w", err)
	}
	if c.Calendar.MaxWeeks <= 0 {
		return fmt.Errorf("설정 검증 실패: calendar.max_weeks 는 양수여야 합니다")
	}
	if c.Store.LocalPath == "" {
		return fmt.Errorf("설정 검증 실패: store.local_path 는 비워둘 수 없습니다")
	}
	if c.Auth.Enabled() && len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("설정 검증 실패: 인증 사용 시 auth.jwt_secret 은 16자 이상이어야 합니다")
	}
	return nil
}
