package api

import (
	"context"
	"errors"

	"github.com/aegis-sign/governance/internal/action"
	"github.com/aegis-sign/governance/internal/client"
	"github.com/aegis-sign/governance/internal/dispatch"
	"github.com/aegis-sign/governance/pkg/apierrors"
)

// Sender 是 HTTP/gRPC handler 依赖的 dispatch 能力，由 *dispatch.Dispatcher 实现。
type Sender interface {
	Send(ctx context.Context, space action.Space, tag action.Tag, payload action.Payload) any
	Busy() bool
	IsGnosisSafe(ctx context.Context) bool
}

var _ Sender = (*dispatch.Dispatcher)(nil)

// classify 按返回值形状区分成功与失败，与 UI 调用方的判断方式一致。
func classify(ctx context.Context, tag action.Tag, value any) (*client.Receipt, *apierrors.Error) {
	switch v := value.(type) {
	case *client.Receipt:
		if v == nil {
			return &client.Receipt{}, nil
		}
		return v, nil
	case error:
		if apiErr, ok := apierrors.FromError(v); ok {
			return nil, apiErr
		}
		code := apierrors.CodeExternalFailed
		switch {
		case errors.Is(v, action.ErrMissingField):
			code = apierrors.CodeInvalidArgument
		case errors.Is(v, client.ErrSequencerUnavailable):
			code = apierrors.CodeRetryLater
		}
		return nil, apierrors.New(code, dispatch.FailureMessage(ctx, v))
	case nil:
		if !tag.Known() {
			return nil, apierrors.New(apierrors.CodeUnknownAction, "unknown action "+string(tag))
		}
		return &client.Receipt{}, nil
	default:
		return nil, apierrors.New(apierrors.CodeInternal, "internal error")
	}
}
