package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aegis-sign/governance/internal/action"
)

// Signer 对 typed data 签名，签名本身由外部服务完成。
type Signer interface {
	Sign(ctx context.Context, account string, data TypedData) (string, error)
}

// SequencerConfig 配置 Sequencer。
type SequencerConfig struct {
	Endpoint    string
	CallTimeout time.Duration
	Logger      *slog.Logger
	// BreakerThreshold 个连续失败后进入冷却，默认 5。
	BreakerThreshold int
	BreakerCooldown  time.Duration
	// Now 便于测试固定时间戳。
	Now func() time.Time
}

// Sequencer 通过 HTTP 把签名后的 envelope 提交到 sequencer。
type Sequencer struct {
	httpClient *http.Client
	base       *url.URL
	signer     Signer
	logger     *slog.Logger
	now        func() time.Time
	breaker    *circuitBreaker
}

type envelope struct {
	Address string    `json:"address"`
	Sig     string    `json:"sig"`
	Data    TypedData `json:"data"`
}

// NewSequencer 构造 Sequencer。
func NewSequencer(cfg SequencerConfig, signer Signer) (*Sequencer, error) {
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	httpClient, base, err := NewHTTPClient(cfg.Endpoint, cfg.CallTimeout)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Sequencer{
		httpClient: httpClient,
		base:       base,
		signer:     signer,
		logger:     logger,
		now:        now,
		breaker:    newCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown, now),
	}, nil
}

func (s *Sequencer) Proposal(ctx context.Context, account string, msg action.Proposal) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) UpdateProposal(ctx context.Context, account string, msg action.UpdateProposal) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) Vote(ctx context.Context, account string, msg action.Vote) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) CancelProposal(ctx context.Context, account string, msg action.CancelProposal) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) Space(ctx context.Context, account string, msg action.SpaceSettings) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) DeleteSpace(ctx context.Context, account string, msg action.DeleteSpace) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) Statement(ctx context.Context, account string, msg action.Statement) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

func (s *Sequencer) FlagProposal(ctx context.Context, account string, msg action.FlagProposal) (*Receipt, error) {
	return s.submit(ctx, account, msg)
}

// submit 组装 typed data、请求签名并 POST envelope；失败不重试。
func (s *Sequencer) submit(ctx context.Context, account string, msg action.Message) (*Receipt, error) {
	data, err := buildTypedData(msg, account, s.now().Unix())
	if err != nil {
		return nil, err
	}
	sig, err := s.signer.Sign(ctx, account, data)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(envelope{Address: account, Sig: sig, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sequencer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if !s.breaker.Allow() {
		return nil, ErrSequencerUnavailable
	}
	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			s.recordFailure()
		}
		return nil, fmt.Errorf("sequencer request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if ctx.Err() == nil {
			s.recordFailure()
		}
		return nil, fmt.Errorf("read sequencer response: %w", err)
	}
	if resp.StatusCode >= 500 {
		s.recordFailure()
	} else {
		s.breaker.Success()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeRemoteError(resp.StatusCode, raw)
	}
	var receipt Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decode sequencer receipt: %w", err)
	}
	s.logger.Info("sequencer accepted message",
		slog.String("type", data.PrimaryType),
		slog.String("space", msg.SpaceID()),
		slog.String("id", receipt.ID),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()))
	return &receipt, nil
}

func (s *Sequencer) recordFailure() {
	if s.breaker.Failure() {
		s.logger.Warn("sequencer breaker tripped", slog.String("endpoint", s.base.Redacted()))
	}
}

func decodeRemoteError(status int, raw []byte) error {
	remote := &RemoteError{Status: status}
	if err := json.Unmarshal(raw, remote); err != nil || (remote.Code == "" && remote.Description == "" && remote.Message == "") {
		remote.Code = http.StatusText(status)
	}
	return remote
}
