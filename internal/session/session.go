package session

import (
	"context"
	"errors"

	"github.com/aegis-sign/governance/pkg/validator"
)

// ErrNoAccount 表示当前没有可用的签名账户。
var ErrNoAccount = errors.New("no active account")

// Account 是当前会话的签名账户。
type Account struct {
	Address string
	// GnosisSafe 标记账户为合约钱包，签名需要多签确认后才生效。
	GnosisSafe bool
}

// Provider 提供当前活跃账户。
type Provider interface {
	Account(ctx context.Context) (Account, error)
}

// Static 返回固定账户，地址来自配置。
type Static struct {
	account Account
}

// NewStatic 校验地址并构造 Static。
func NewStatic(address string, gnosisSafe bool) (*Static, error) {
	normalized, err := validator.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	return &Static{account: Account{Address: normalized, GnosisSafe: gnosisSafe}}, nil
}

// Account 实现 Provider。
func (s *Static) Account(context.Context) (Account, error) {
	if s == nil || s.account.Address == "" {
		return Account{}, ErrNoAccount
	}
	return s.account, nil
}
