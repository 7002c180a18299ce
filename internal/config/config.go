package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 是进程级配置，全部来自环境变量。
type Config struct {
	HTTPAddr         string        `env:"GOVERNANCE_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr         string        `env:"GOVERNANCE_GRPC_ADDR" envDefault:":9090"`
	AppTag           string        `env:"GOVERNANCE_APP_TAG" envDefault:"snapshot"`
	SequencerURL     string        `env:"GOVERNANCE_SEQUENCER_URL"`
	SignerURL        string        `env:"GOVERNANCE_SIGNER_URL"`
	SignerKeyID      string        `env:"GOVERNANCE_SIGNER_KEY_ID"`
	SignerEncoding   string        `env:"GOVERNANCE_SIGNER_ENCODING" envDefault:"hex"`
	Account          string        `env:"GOVERNANCE_ACCOUNT"`
	GnosisSafe       bool          `env:"GOVERNANCE_GNOSIS_SAFE" envDefault:"false"`
	CallTimeout      time.Duration `env:"GOVERNANCE_CALL_TIMEOUT" envDefault:"10s"`
	BreakerThreshold int           `env:"GOVERNANCE_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"GOVERNANCE_BREAKER_COOLDOWN" envDefault:"5s"`
	RateLimit        float64       `env:"GOVERNANCE_RATE_LIMIT" envDefault:"0"`
	RateBurst        int           `env:"GOVERNANCE_RATE_BURST" envDefault:"1"`
	FeedSize         int           `env:"GOVERNANCE_FEED_SIZE" envDefault:"64"`
	LogFormat        string        `env:"GOVERNANCE_LOG_FORMAT" envDefault:"text"`
}

// Load 解析环境变量。
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize(), nil
}

// UseStub 表示未配置 sequencer，使用内存 stub client。
func (c Config) UseStub() bool {
	return c.SequencerURL == ""
}

func (c Config) normalize() Config {
	if c.AppTag == "" {
		c.AppTag = "snapshot"
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	if c.BreakerThreshold <= 0 {
		c.BreakerThreshold = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 5 * time.Second
	}
	if c.FeedSize <= 0 {
		c.FeedSize = 64
	}
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}
	return c
}
