package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aegis-sign/governance/internal/action"
	"github.com/aegis-sign/governance/internal/client"
	"github.com/aegis-sign/governance/internal/notify"
	"github.com/aegis-sign/governance/internal/session"
	"github.com/google/uuid"
)

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeUnknown = "unknown"
)

// State 表示 dispatcher 是否有未完成的调用。
type State string

const (
	StateIdle     State = "IDLE"
	StateInFlight State = "IN_FLIGHT"
)

// Result 是一次 dispatch 的显式结果。
type Result struct {
	RequestID string
	Tag       action.Tag
	Receipt   *client.Receipt
	Err       error
	// Unknown 为 true 时没有调用任何外部操作。
	Unknown bool
}

// OK 表示外部调用成功。
func (r Result) OK() bool {
	return !r.Unknown && r.Err == nil
}

// Value 投影为兼容契约：成功返回 receipt，失败返回捕获的 error，未知 tag 返回 nil。
// 调用方只能通过值的形状区分成功与失败。
func (r Result) Value() any {
	switch {
	case r.Unknown:
		return nil
	case r.Err != nil:
		return r.Err
	default:
		return r.Receipt
	}
}

// Dispatcher 把 UI 意图映射到外部 client 的具体操作。
type Dispatcher struct {
	cfg      Config
	client   client.Client
	session  session.Provider
	notifier notify.Notifier
	modal    notify.ModalNotifier
	logger   *slog.Logger
	metrics  *Metrics

	// busy 是面向 UI 的提示标志，以最后结束的调用为准，不是互斥锁。
	busy     atomic.Bool
	inFlight atomic.Int64
}

// NewDispatcher 创建 Dispatcher。
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Client == nil {
		return nil, errors.New("client is required")
	}
	if cfg.Session == nil {
		return nil, errors.New("session provider is required")
	}
	normalized := cfg.normalize()
	return &Dispatcher{
		cfg:      normalized,
		client:   normalized.Client,
		session:  normalized.Session,
		notifier: normalized.Notifier,
		modal:    normalized.Modal,
		logger:   normalized.Logger,
		metrics:  normalized.Metrics,
	}, nil
}

// Busy 报告是否有调用在进行中。
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// InFlight 返回未完成调用的准确计数。
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// State 返回 Idle/InFlight。
func (d *Dispatcher) State() State {
	if d.inFlight.Load() > 0 {
		return StateInFlight
	}
	return StateIdle
}

// AppTag 返回默认 app 标识。
func (d *Dispatcher) AppTag() string {
	return d.cfg.AppTag
}

// IsGnosisSafe 报告当前账户是否为 Gnosis Safe 合约钱包。
func (d *Dispatcher) IsGnosisSafe(ctx context.Context) bool {
	account, err := d.session.Account(ctx)
	if err != nil {
		return false
	}
	return account.GnosisSafe
}

// Send 执行动作；失败时发出 toast 与 modal 通知，并把捕获的 error 作为返回值而不是抛出。
// 未知 tag 返回 nil 且不触发任何调用或通知。
func (d *Dispatcher) Send(ctx context.Context, space action.Space, tag action.Tag, payload action.Payload) any {
	res := d.Dispatch(ctx, space, tag, payload)
	if res.Err != nil {
		d.NotifyFailure(ctx, res.Err)
	}
	return res.Value()
}

// Dispatch 执行动作并返回显式结果，不产生通知。
func (d *Dispatcher) Dispatch(ctx context.Context, space action.Space, tag action.Tag, payload action.Payload) Result {
	d.busy.Store(true)
	d.inFlight.Add(1)
	d.metrics.incInFlight()
	defer func() {
		d.metrics.decInFlight()
		d.inFlight.Add(-1)
		d.busy.Store(false)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	res := Result{RequestID: uuid.NewString(), Tag: tag}
	start := time.Now()

	msg, err := action.Build(tag, space, AppFrom(ctx, d.cfg.AppTag), payload)
	if errors.Is(err, action.ErrUnknownAction) {
		res.Unknown = true
		d.metrics.observe(tag, outcomeUnknown, 0)
		d.logger.Debug("dispatch ignored unknown action", slog.String("action", string(tag)), slog.String("request_id", res.RequestID))
		return res
	}
	if err == nil {
		var account session.Account
		account, err = d.session.Account(ctx)
		if err == nil {
			res.Receipt, err = client.Invoke(ctx, d.client, account.Address, msg)
		}
	}
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		res.Err = err
		d.metrics.observe(tag, outcomeError, latency)
		d.logger.Warn("dispatch failed",
			slog.String("action", string(tag)),
			slog.String("space", space.ID),
			slog.String("request_id", res.RequestID),
			slog.Any("err", err))
		return res
	}
	d.metrics.observe(tag, outcomeOK, latency)
	d.logger.Info("dispatch succeeded",
		slog.String("action", string(tag)),
		slog.String("space", space.ID),
		slog.String("request_id", res.RequestID),
		slog.String("receipt", receiptID(res.Receipt)))
	return res
}

// NotifyFailure 把错误转成用户可读的描述，同时发出 toast 与 modal。
func (d *Dispatcher) NotifyFailure(ctx context.Context, err error) {
	message := FailureMessage(ctx, err)
	d.notifier.Notify(ctx, notify.SeverityRed, message)
	d.modal.NotifyModal(ctx, notify.SeverityWarning, message)
}

// FailureMessage 返回 "Oops, <描述>"，无描述时返回本地化兜底文案。
func FailureMessage(ctx context.Context, err error) string {
	if description := client.Describe(err); description != "" {
		return "Oops, " + description
	}
	return notify.SomethingWentWrong(LocaleFrom(ctx))
}

func receiptID(r *client.Receipt) string {
	if r == nil {
		return ""
	}
	return r.ID
}
