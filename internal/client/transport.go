package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mdlayher/vsock"
)

// 默认 HTTP 往返超时。
const defaultCallTimeout = 10 * time.Second

// vsockDialer 允许测试替换 vsock 拨号。
var vsockDialer = func(cid, port uint32) (net.Conn, error) {
	return vsock.Dial(cid, port, nil)
}

// NewHTTPClient 根据 endpoint 构造 http.Client 与请求基地址。
// endpoint 支持 http(s)://host[:port][/path] 与 vsock://<cid>:<port>[/path]，后者用于 Enclave 内的服务。
func NewHTTPClient(endpoint string, timeout time.Duration) (*http.Client, *url.URL, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, nil, fmt.Errorf("endpoint is required")
	}
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "http", "https":
		return &http.Client{Timeout: timeout}, u, nil
	case "vsock":
		cid, port, err := parseVsockHost(u.Host)
		if err != nil {
			return nil, nil, err
		}
		transport := &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return vsockDialer(cid, port)
			},
			MaxIdleConns:    16,
			IdleConnTimeout: 90 * time.Second,
		}
		base := &url.URL{Scheme: "http", Host: u.Host, Path: u.Path}
		return &http.Client{Timeout: timeout, Transport: transport}, base, nil
	default:
		return nil, nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}

func parseVsockHost(host string) (uint32, uint32, error) {
	rawCID, rawPort, found := strings.Cut(host, ":")
	if !found {
		return 0, 0, fmt.Errorf("vsock endpoint %q must be cid:port", host)
	}
	cid, err := strconv.ParseUint(rawCID, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid vsock cid %q: %w", rawCID, err)
	}
	port, err := strconv.ParseUint(rawPort, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid vsock port %q: %w", rawPort, err)
	}
	return uint32(cid), uint32(port), nil
}

func joinPath(base *url.URL, path string) string {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}
