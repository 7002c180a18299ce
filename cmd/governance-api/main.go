package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aegis-sign/governance/internal/api"
	"github.com/aegis-sign/governance/internal/client"
	"github.com/aegis-sign/governance/internal/client/stub"
	"github.com/aegis-sign/governance/internal/config"
	"github.com/aegis-sign/governance/internal/dispatch"
	"github.com/aegis-sign/governance/internal/notify"
	"github.com/aegis-sign/governance/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

// stub 模式下未配置账户时使用的占位地址。
const stubAccount = "0x0000000000000000000000000000000000000001"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher, feed, err := configureDispatcher(cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to configure dispatcher", "error", err)
		os.Exit(1)
	}

	// HTTP server wiring
	mux := http.NewServeMux()
	api.NewHTTPHandler(dispatcher, api.WithFeed(feed), api.WithRateLimit(cfg.RateLimit, cfg.RateBurst)).Register(mux)
	mux.Handle("/debug/dispatch", dispatcher.DebugHandler())
	mux.Handle("/metrics", promhttp.Handler())
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server closed unexpectedly", "error", err)
			stop()
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen for gRPC", "error", err)
		os.Exit(1)
	}
	grpcSrv := grpc.NewServer()
	api.RegisterActionServiceServer(grpcSrv, api.NewGRPCServer(dispatcher))
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("grpc server closed unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	grpcSrv.GracefulStop()
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func configureDispatcher(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*dispatch.Dispatcher, *notify.Feed, error) {
	var (
		c       client.Client
		account = cfg.Account
	)
	if cfg.UseStub() {
		logger.Warn("GOVERNANCE_SEQUENCER_URL not set, using in-memory stub client")
		c = stub.New()
		if account == "" {
			account = stubAccount
		}
	} else {
		signer, err := client.NewRemoteSigner(client.RemoteSignerConfig{
			Endpoint:    cfg.SignerURL,
			KeyID:       cfg.SignerKeyID,
			CallTimeout: cfg.CallTimeout,
			Encoding:    cfg.SignerEncoding,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configure signer: %w", err)
		}
		seq, err := client.NewSequencer(client.SequencerConfig{
			Endpoint:         cfg.SequencerURL,
			CallTimeout:      cfg.CallTimeout,
			Logger:           logger,
			BreakerThreshold: cfg.BreakerThreshold,
			BreakerCooldown:  cfg.BreakerCooldown,
		}, signer)
		if err != nil {
			return nil, nil, fmt.Errorf("configure sequencer: %w", err)
		}
		c = seq
	}
	provider, err := session.NewStatic(account, cfg.GnosisSafe)
	if err != nil {
		return nil, nil, fmt.Errorf("GOVERNANCE_ACCOUNT: %w", err)
	}
	feed := notify.NewFeed(cfg.FeedSize)
	fanout := notify.Fanout{feed, notify.NewLogger(logger)}
	dispatcher, err := dispatch.NewDispatcher(dispatch.Config{
		Client:   c,
		Session:  provider,
		Notifier: fanout,
		Modal:    fanout,
		AppTag:   cfg.AppTag,
		Logger:   logger,
		Metrics:  dispatch.NewMetrics(reg),
	})
	if err != nil {
		return nil, nil, err
	}
	return dispatcher, feed, nil
}
