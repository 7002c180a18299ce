package validator

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizeAddress 校验 0x 前缀的 20 字节地址并统一为小写。
func NormalizeAddress(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	body, ok := strings.CutPrefix(strings.ToLower(trimmed), "0x")
	if !ok {
		return "", fmt.Errorf("address %q must start with 0x", raw)
	}
	if len(body) != 40 {
		return "", fmt.Errorf("address %q must be 20 bytes", raw)
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("invalid hex address: %w", err)
	}
	return "0x" + body, nil
}
