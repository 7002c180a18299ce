package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aegis-sign/governance/internal/action"
	"github.com/aegis-sign/governance/internal/client"
	"github.com/aegis-sign/governance/internal/dispatch"
	"github.com/aegis-sign/governance/internal/notify"
	"github.com/aegis-sign/governance/pkg/apierrors"
	"golang.org/x/time/rate"
)

// HTTPHandler 实现 `/spaces/{space}/actions/{action}` 等 HTTP/JSON 接口。
type HTTPHandler struct {
	sender  Sender
	feed    *notify.Feed
	limiter *rate.Limiter
}

// HTTPOption 定义可选参数。
type HTTPOption func(*HTTPHandler)

// WithFeed 暴露通知 feed 给 `/notifications`。
func WithFeed(feed *notify.Feed) HTTPOption {
	return func(h *HTTPHandler) { h.feed = feed }
}

// WithRateLimit 限制提交速率，limit<=0 表示不限速。
func WithRateLimit(limit float64, burst int) HTTPOption {
	return func(h *HTTPHandler) {
		if limit <= 0 {
			h.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// NewHTTPHandler 构造 HTTP handler。
func NewHTTPHandler(sender Sender, opts ...HTTPOption) *HTTPHandler {
	if sender == nil {
		panic("dispatch sender is required")
	}
	h := &HTTPHandler{sender: sender}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register 将 handler 注册到 mux。
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/spaces/{space}/actions/{action}", h.handleSend)
	mux.HandleFunc("/notifications", h.handleNotifications)
	mux.HandleFunc("/status", h.handleStatus)
}

type sendResponseBody struct {
	OK      bool            `json:"ok"`
	Receipt *client.Receipt `json:"receipt,omitempty"`
}

type statusResponseBody struct {
	Busy       bool `json:"busy"`
	GnosisSafe bool `json:"gnosisSafe"`
}

type errorResponse struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	RetryAfterHint string `json:"retryAfterHint,omitempty"`
}

func (h *HTTPHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeAPIError(w, apierrors.New(apierrors.CodeInvalidArgument, "POST required"))
		return
	}
	spaceID := strings.TrimSpace(r.PathValue("space"))
	if spaceID == "" {
		h.writeAPIError(w, apierrors.New(apierrors.CodeInvalidArgument, "space is required"))
		return
	}
	if h.limiter != nil && !h.limiter.Allow() {
		retryAfter := time.Duration(float64(time.Second) / float64(h.limiter.Limit()))
		h.writeAPIError(w, apierrors.New(apierrors.CodeRetryLater, "too many submissions").WithRetryAfter(retryAfter))
		return
	}
	payload := action.Payload{}
	if r.Body != nil && r.Body != http.NoBody {
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&payload); err != nil && err != io.EOF {
			h.writeAPIError(w, apierrors.New(apierrors.CodeInvalidArgument, "invalid JSON body"))
			return
		}
	}
	query := r.URL.Query()
	ctx := dispatch.WithApp(r.Context(), query.Get("app"))
	ctx = dispatch.WithLocale(ctx, notify.ResolveLocale(query.Get("lang"), r.Header.Get("Accept-Language")))

	tag := action.Tag(r.PathValue("action"))
	value := h.sender.Send(ctx, action.Space{ID: spaceID}, tag, payload)
	receipt, apiErr := classify(ctx, tag, value)
	if apiErr != nil {
		h.writeAPIError(w, apiErr)
		return
	}
	h.writeJSON(w, http.StatusOK, sendResponseBody{OK: true, Receipt: receipt})
}

func (h *HTTPHandler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeAPIError(w, apierrors.New(apierrors.CodeInvalidArgument, "GET required"))
		return
	}
	items := []notify.Notification{}
	if h.feed != nil {
		items = h.feed.Drain()
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, statusResponseBody{
		Busy:       h.sender.Busy(),
		GnosisSafe: h.sender.IsGnosisSafe(r.Context()),
	})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *HTTPHandler) writeAPIError(w http.ResponseWriter, apiErr *apierrors.Error) {
	if apiErr == nil {
		apiErr = apierrors.New(apierrors.CodeInternal, "internal error")
	}
	status := apierrors.HTTPStatus(apiErr.Code)
	if apierrors.RequiresRetryAfter(apiErr.Code) {
		if hint := apiErr.RetryAfterHint(); hint != "" {
			w.Header().Set("Retry-After", hint)
		}
	}
	resp := errorResponse{
		Code:    string(apiErr.Code),
		Message: apiErr.Error(),
	}
	if hint := apiErr.RetryAfterHint(); hint != "" {
		resp.RetryAfterHint = hint
	}
	h.writeJSON(w, status, resp)
}
