package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aegis-sign/governance/pkg/validator"
	"golang.org/x/crypto/sha3"
)

// RemoteSignerConfig 配置 RemoteSigner。
type RemoteSignerConfig struct {
	Endpoint    string
	KeyID       string
	CallTimeout time.Duration
	// Encoding 是 digest 的传输编码（hex|base64），默认 hex。
	Encoding string
}

// RemoteSigner 计算 envelope 的 keccak256 digest 并交给 signer-api 的 /sign 签名。
// digest 取 TypedData 规范 JSON 的哈希，signer 与 sequencer 需约定同一方案。
type RemoteSigner struct {
	httpClient *http.Client
	base       *url.URL
	keyID      string
	encoding   validator.DigestEncoding
}

type signRequestBody struct {
	KeyID    string `json:"keyId"`
	Digest   string `json:"digest"`
	Encoding string `json:"encoding"`
}

type signResponseBody struct {
	Signature string  `json:"signature"`
	RecID     *uint32 `json:"recId,omitempty"`
}

type signErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRemoteSigner 构造 RemoteSigner。
func NewRemoteSigner(cfg RemoteSignerConfig) (*RemoteSigner, error) {
	if cfg.KeyID == "" {
		return nil, errors.New("signer key id is required")
	}
	encoding, err := validator.NormalizeEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	httpClient, base, err := NewHTTPClient(cfg.Endpoint, cfg.CallTimeout)
	if err != nil {
		return nil, err
	}
	return &RemoteSigner{httpClient: httpClient, base: base, keyID: cfg.KeyID, encoding: encoding}, nil
}

// Digest 返回 typed data 的 keccak256 哈希。
func Digest(data TypedData) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode typed data: %w", err)
	}
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(raw)
	return h.Sum(nil), nil
}

// Sign 实现 Signer。
func (s *RemoteSigner) Sign(ctx context.Context, account string, data TypedData) (string, error) {
	digest, err := Digest(data)
	if err != nil {
		return "", err
	}
	encoded, err := validator.EncodeDigest(digest, s.encoding)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(signRequestBody{KeyID: s.keyID, Digest: encoded, Encoding: string(s.encoding)})
	if err != nil {
		return "", fmt.Errorf("encode sign request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinPath(s.base, "/sign"), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("read sign response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr signErrorBody
		_ = json.Unmarshal(raw, &apiErr)
		return "", &RemoteError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}
	var out signResponseBody
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}
	var recID uint32
	if out.RecID != nil {
		recID = *out.RecID
	}
	return validator.FormatSignature(out.Signature, recID)
}
