package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Severity 是通知的级别/颜色。
type Severity string

const (
	SeverityRed     Severity = "red"
	SeverityGreen   Severity = "green"
	SeverityWarning Severity = "warning"
)

// Kind 区分 toast 与 modal 通知。
type Kind string

const (
	KindToast Kind = "toast"
	KindModal Kind = "modal"
)

// Notifier 发送 toast 通知。
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// ModalNotifier 发送阻塞式 modal 通知。
type ModalNotifier interface {
	NotifyModal(ctx context.Context, severity Severity, message string)
}

// Notification 是一条已发出的通知。
type Notification struct {
	Kind     Kind      `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

// 默认保留的通知条数。
const defaultFeedSize = 64

// Feed 在内存中保留最近的通知，供 UI 轮询。
type Feed struct {
	mu    sync.Mutex
	items []Notification
	size  int
	now   func() time.Time
}

// NewFeed 构造 Feed，size<=0 时使用默认值。
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size, now: time.Now}
}

// Notify 实现 Notifier。
func (f *Feed) Notify(_ context.Context, severity Severity, message string) {
	f.push(KindToast, severity, message)
}

// NotifyModal 实现 ModalNotifier。
func (f *Feed) NotifyModal(_ context.Context, severity Severity, message string) {
	f.push(KindModal, severity, message)
}

func (f *Feed) push(kind Kind, severity Severity, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Notification{Kind: kind, Severity: severity, Message: message, Time: f.now()})
	if over := len(f.items) - f.size; over > 0 {
		f.items = append(f.items[:0], f.items[over:]...)
	}
}

// Snapshot 返回当前通知的副本。
func (f *Feed) Snapshot() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Drain 返回并清空当前通知。
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Logger 把通知写入 slog。
type Logger struct {
	logger *slog.Logger
}

// NewLogger 构造 Logger，logger 为空时使用默认 logger。
func NewLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return Logger{logger: logger}
}

func (l Logger) Notify(ctx context.Context, severity Severity, message string) {
	l.logger.InfoContext(ctx, "notification", slog.String("kind", string(KindToast)), slog.String("severity", string(severity)), slog.String("message", message))
}

func (l Logger) NotifyModal(ctx context.Context, severity Severity, message string) {
	l.logger.InfoContext(ctx, "notification", slog.String("kind", string(KindModal)), slog.String("severity", string(severity)), slog.String("message", message))
}

// Fanout 把同一条通知转发给多个接收方。
type Fanout []interface {
	Notifier
	ModalNotifier
}

func (f Fanout) Notify(ctx context.Context, severity Severity, message string) {
	for _, n := range f {
		n.Notify(ctx, severity, message)
	}
}

func (f Fanout) NotifyModal(ctx context.Context, severity Severity, message string) {
	for _, n := range f {
		n.NotifyModal(ctx, severity, message)
	}
}
