package client

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoteSignerSign(t *testing.T) {
	data := TypedData{Domain: defaultDomain, Types: map[string][]TypeField{"DeleteSpace": fields("space", "string")}, Message: map[string]any{"space": "s.eth"}}
	digest, err := Digest(data)
	require.NoError(t, err)
	require.Len(t, digest, 32)

	var got signRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sign", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"signature":"`+strings.Repeat("0a", 64)+`","recId":1}`)
	}))
	t.Cleanup(srv.Close)

	signer, err := NewRemoteSigner(RemoteSignerConfig{Endpoint: srv.URL, KeyID: "k1"})
	require.NoError(t, err)
	sig, err := signer.Sign(context.Background(), testAccount, data)
	require.NoError(t, err)
	require.Equal(t, "0x"+strings.Repeat("0a", 64)+"1c", sig)

	require.Equal(t, "k1", got.KeyID)
	require.Equal(t, "hex", got.Encoding)
	require.Equal(t, hex.EncodeToString(digest), got.Digest)
}

func TestRemoteSignerErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"INVALID_KEY","message":"unknown key"}`)
	}))
	t.Cleanup(srv.Close)

	signer, err := NewRemoteSigner(RemoteSignerConfig{Endpoint: srv.URL, KeyID: "k1"})
	require.NoError(t, err)
	_, err = signer.Sign(context.Background(), testAccount, TypedData{})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, "INVALID_KEY", remote.Code)
	require.Equal(t, "unknown key", Describe(err))
}

func TestNewRemoteSignerRequiresKey(t *testing.T) {
	_, err := NewRemoteSigner(RemoteSignerConfig{Endpoint: "http://localhost"})
	require.Error(t, err)
	_, err = NewRemoteSigner(RemoteSignerConfig{Endpoint: "http://localhost", KeyID: "k1", Encoding: "rot13"})
	require.Error(t, err)
}

func TestRemoteSignerBase64Digest(t *testing.T) {
	data := TypedData{Domain: defaultDomain, Message: map[string]any{"space": "s.eth"}}
	digest, err := Digest(data)
	require.NoError(t, err)

	var got signRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"signature":"0x`+strings.Repeat("0b", 65)+`"}`)
	}))
	t.Cleanup(srv.Close)

	signer, err := NewRemoteSigner(RemoteSignerConfig{Endpoint: srv.URL, KeyID: "k1", Encoding: "BASE64"})
	require.NoError(t, err)
	sig, err := signer.Sign(context.Background(), testAccount, data)
	require.NoError(t, err)
	require.Equal(t, "0x"+strings.Repeat("0b", 65), sig)
	require.Equal(t, "base64", got.Encoding)
	require.Equal(t, base64.StdEncoding.EncodeToString(digest), got.Digest)
}

func TestDigestIsStable(t *testing.T) {
	data := TypedData{Domain: defaultDomain, Message: map[string]any{"b": 1, "a": 2}}
	first, err := Digest(data)
	require.NoError(t, err)
	second, err := Digest(data)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
