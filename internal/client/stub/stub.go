package stub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aegis-sign/governance/internal/action"
	"github.com/aegis-sign/governance/internal/client"
)

// Call 记录一次对外部 client 的调用。
type Call struct {
	Method  string
	Account string
	Message action.Message
}

// Client 是内存实现的 client.Client，用于本地演练与单测。
type Client struct {
	mu    sync.Mutex
	calls []Call
	err   error
	gate  chan struct{}

	seq atomic.Uint64
}

// New 返回一个总是成功的 stub client。
func New() *Client { return &Client{} }

// FailWith 让后续调用返回 err。
func (c *Client) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Hold 让后续调用阻塞到返回的 release 被调用，用于观察进行中的状态。
func (c *Client) Hold() (release func()) {
	gate := make(chan struct{})
	c.mu.Lock()
	c.gate = gate
	c.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Calls 返回已记录调用的副本。
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *Client) record(method, account string, msg action.Message) (*client.Receipt, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{Method: method, Account: account, Message: msg})
	gate, err := c.gate, c.err
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &client.Receipt{ID: fmt.Sprintf("stub-%d", c.seq.Add(1))}, nil
}

func (c *Client) Proposal(_ context.Context, account string, msg action.Proposal) (*client.Receipt, error) {
	return c.record("Proposal", account, msg)
}

func (c *Client) UpdateProposal(_ context.Context, account string, msg action.UpdateProposal) (*client.Receipt, error) {
	return c.record("UpdateProposal", account, msg)
}

func (c *Client) Vote(_ context.Context, account string, msg action.Vote) (*client.Receipt, error) {
	return c.record("Vote", account, msg)
}

func (c *Client) CancelProposal(_ context.Context, account string, msg action.CancelProposal) (*client.Receipt, error) {
	return c.record("CancelProposal", account, msg)
}

func (c *Client) Space(_ context.Context, account string, msg action.SpaceSettings) (*client.Receipt, error) {
	return c.record("Space", account, msg)
}

func (c *Client) DeleteSpace(_ context.Context, account string, msg action.DeleteSpace) (*client.Receipt, error) {
	return c.record("DeleteSpace", account, msg)
}

func (c *Client) Statement(_ context.Context, account string, msg action.Statement) (*client.Receipt, error) {
	return c.record("Statement", account, msg)
}

func (c *Client) FlagProposal(_ context.Context, account string, msg action.FlagProposal) (*client.Receipt, error) {
	return c.record("FlagProposal", account, msg)
}

var _ client.Client = (*Client)(nil)
