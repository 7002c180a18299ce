package dispatch

import (
	"log/slog"

	"github.com/aegis-sign/governance/internal/client"
	"github.com/aegis-sign/governance/internal/notify"
	"github.com/aegis-sign/governance/internal/session"
)

// DefaultAppTag 是未指定 app 时附加到 create-proposal/vote 的归属标识。
const DefaultAppTag = "snapshot"

// Config 控制 Dispatcher 行为。
type Config struct {
	Client   client.Client
	Session  session.Provider
	Notifier notify.Notifier
	Modal    notify.ModalNotifier
	AppTag   string
	Logger   *slog.Logger
	Metrics  *Metrics
}

func (c *Config) normalize() Config {
	cfg := *c
	if cfg.AppTag == "" {
		cfg.AppTag = DefaultAppTag
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLogger(cfg.Logger)
	}
	if cfg.Modal == nil {
		cfg.Modal = notify.NewLogger(cfg.Logger)
	}
	return cfg
}
