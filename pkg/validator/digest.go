package validator

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DigestEncoding 描述 digest 字符串的编码。
type DigestEncoding string

const (
	DigestEncodingHex    DigestEncoding = "hex"
	DigestEncodingBase64 DigestEncoding = "base64"
)

// NormalizeEncoding 将用户输入转换为内部常量。
func NormalizeEncoding(raw string) (DigestEncoding, error) {
	switch strings.ToLower(raw) {
	case "", string(DigestEncodingHex):
		return DigestEncodingHex, nil
	case string(DigestEncodingBase64):
		return DigestEncodingBase64, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", raw)
	}
}

var errDigestNot32Bytes = errors.New("digest must be 32 bytes")

// EncodeDigest 将 32 字节 digest 编码为远端 signer 接受的字符串。
func EncodeDigest(digest []byte, enc DigestEncoding) (string, error) {
	if len(digest) != 32 {
		return "", errDigestNot32Bytes
	}
	switch enc {
	case DigestEncodingHex:
		return hex.EncodeToString(digest), nil
	case DigestEncodingBase64:
		return base64.StdEncoding.EncodeToString(digest), nil
	default:
		return "", fmt.Errorf("unknown encoding %q", enc)
	}
}

var errSignatureLength = errors.New("signature must be 64 or 65 bytes")

// FormatSignature 将 signer 返回的 r||s(+v) 转成 0x 前缀的 65 字节签名，v 取 27+recId。
func FormatSignature(sigHex string, recID uint32) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid hex signature: %w", err)
	}
	switch len(raw) {
	case 65:
	case 64:
		raw = append(raw, byte(27+recID))
	default:
		return "", errSignatureLength
	}
	return "0x" + hex.EncodeToString(raw), nil
}
