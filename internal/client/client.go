package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/aegis-sign/governance/internal/action"
)

// Client 是外部签名/提交服务，每个动作对应一个操作。
type Client interface {
	Proposal(ctx context.Context, account string, msg action.Proposal) (*Receipt, error)
	UpdateProposal(ctx context.Context, account string, msg action.UpdateProposal) (*Receipt, error)
	Vote(ctx context.Context, account string, msg action.Vote) (*Receipt, error)
	CancelProposal(ctx context.Context, account string, msg action.CancelProposal) (*Receipt, error)
	Space(ctx context.Context, account string, msg action.SpaceSettings) (*Receipt, error)
	DeleteSpace(ctx context.Context, account string, msg action.DeleteSpace) (*Receipt, error)
	Statement(ctx context.Context, account string, msg action.Statement) (*Receipt, error)
	FlagProposal(ctx context.Context, account string, msg action.FlagProposal) (*Receipt, error)
}

// Receipt 是 sequencer 接收消息后的回执。
type Receipt struct {
	ID      string         `json:"id"`
	IPFS    string         `json:"ipfs,omitempty"`
	Relayer map[string]any `json:"relayer,omitempty"`
}

// RemoteError 是远端返回的结构化错误（error / error_description）。
type RemoteError struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Message     string `json:"message"`
}

// Error 实现 error 接口。
func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Description != "":
		return e.Description
	case e.Message != "":
		return e.Message
	default:
		return e.Code
	}
}

// Describe 提取面向用户的描述：优先 error_description，其次 message，否则为空。
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		if remote.Description != "" {
			return remote.Description
		}
		return remote.Message
	}
	return err.Error()
}

// Invoke 根据消息类型调用 Client 上对应的操作。
func Invoke(ctx context.Context, c Client, account string, msg action.Message) (*Receipt, error) {
	switch m := msg.(type) {
	case action.Proposal:
		return c.Proposal(ctx, account, m)
	case action.UpdateProposal:
		return c.UpdateProposal(ctx, account, m)
	case action.Vote:
		return c.Vote(ctx, account, m)
	case action.CancelProposal:
		return c.CancelProposal(ctx, account, m)
	case action.SpaceSettings:
		return c.Space(ctx, account, m)
	case action.DeleteSpace:
		return c.DeleteSpace(ctx, account, m)
	case action.Statement:
		return c.Statement(ctx, account, m)
	case action.FlagProposal:
		return c.FlagProposal(ctx, account, m)
	default:
		return nil, fmt.Errorf("%w: %T", action.ErrUnknownAction, msg)
	}
}
