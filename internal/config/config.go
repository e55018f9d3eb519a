// Package config loads server configuration from environment variables,
// grounded on original_source/config.py's dataclass-per-concern layout
// (CORSConfig, RateLimitConfig, SecurityConfig, RedisConfig, GameConfig,
// AppConfig) and the teacher's ubiquitous getEnv(key, fallback) helper
// (present in every teacher main.go), generalized here with typed
// getEnvInt/getEnvBool/getEnvFloat variants in the same style.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strconv"
	"strings"

	"github.com/swarm-blackjack/trainer/internal/money"
	"github.com/swarm-blackjack/trainer/internal/rules"
)

// CORS holds CORS_ORIGINS, a comma-separated allowlist.
type CORS struct {
	Origins []string
}

// RateLimit holds RATE_LIMIT_ENABLED/RATE_LIMIT_RPM.
type RateLimit struct {
	Enabled bool
	RPM     int
}

// Redis holds REDIS_HOST/PORT/DB/PASSWORD.
type Redis struct {
	Host     string
	Port     string
	DB       int
	Password string
}

// Addr renders the host:port pair go-redis expects.
func (r Redis) Addr() string { return r.Host + ":" + r.Port }

// App is the full application configuration.
type App struct {
	Debug       bool
	Host        string
	Port        string
	SecretKey   []byte
	SessionTTL  int // seconds, default 3600
	Redis       Redis
	CORS        CORS
	RateLimit   RateLimit
	Game        rules.RuleSet
	AuditDBURL  string // optional, enables internal/audit's Postgres recorder
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvMoney(key string, fallback money.Amount) money.Amount {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	a, err := money.FromString(v)
	if err != nil {
		return fallback
	}
	return a
}

func parseCORSOrigins() []string {
	raw := getEnv("CORS_ORIGINS", "*")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadSecretKey() ([]byte, error) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		return []byte(v), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return []byte(base64.RawURLEncoding.EncodeToString(buf)), nil
}

func loadGameRules() rules.RuleSet {
	r := rules.VegasStrip()
	r.NumDecks = getEnvInt("NUM_DECKS", r.NumDecks)
	r.Penetration = getEnvFloat("PENETRATION", r.Penetration)
	r.MinBet = getEnvMoney("MIN_BET", r.MinBet)
	r.MaxBet = getEnvMoney("MAX_BET", r.MaxBet)
	r.BlackjackPayout = getEnvFloat("BLACKJACK_PAYOUT", r.BlackjackPayout)
	r.DealerHitsSoft17 = getEnvBool("DEALER_HITS_SOFT_17", r.DealerHitsSoft17)
	r.DoubleAfterSplit = getEnvBool("DOUBLE_AFTER_SPLIT", r.DoubleAfterSplit)
	r.ResplitAces = getEnvBool("RESPLIT_ACES", r.ResplitAces)
	r.MaxSplits = getEnvInt("MAX_SPLITS", r.MaxSplits)
	if v := os.Getenv("SURRENDER"); v != "" {
		r.Surrender = rules.Surrender(v)
	}
	return r
}

// Load builds App from the process environment, per spec.md §6's
// configuration env var list plus SPEC_FULL.md §6.5's game-rule defaults.
func Load() (*App, error) {
	secret, err := loadSecretKey()
	if err != nil {
		return nil, err
	}
	return &App{
		Debug:      getEnvBool("DEBUG", false),
		Host:       getEnv("HOST", "0.0.0.0"),
		Port:       getEnv("PORT", "8080"),
		SecretKey:  secret,
		SessionTTL: getEnvInt("SESSION_TTL", 3600),
		Redis: Redis{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			DB:       getEnvInt("REDIS_DB", 0),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		CORS:       CORS{Origins: parseCORSOrigins()},
		RateLimit:  RateLimit{Enabled: getEnvBool("RATE_LIMIT_ENABLED", true), RPM: getEnvInt("RATE_LIMIT_RPM", 60)},
		Game:       loadGameRules(),
		AuditDBURL: getEnv("AUDIT_DATABASE_URL", ""),
	}, nil
}
