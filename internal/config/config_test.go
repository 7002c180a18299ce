package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, ":9090", cfg.GRPCAddr)
	require.Equal(t, "snapshot", cfg.AppTag)
	require.Equal(t, 10*time.Second, cfg.CallTimeout)
	require.Equal(t, 64, cfg.FeedSize)
	require.Equal(t, "hex", cfg.SignerEncoding)
	require.Equal(t, 5, cfg.BreakerThreshold)
	require.Equal(t, 5*time.Second, cfg.BreakerCooldown)
	require.Equal(t, "text", cfg.LogFormat)
	require.True(t, cfg.UseStub())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOVERNANCE_APP_TAG", "boost")
	t.Setenv("GOVERNANCE_SEQUENCER_URL", "https://seq.example.org")
	t.Setenv("GOVERNANCE_CALL_TIMEOUT", "3s")
	t.Setenv("GOVERNANCE_RATE_LIMIT", "2.5")
	t.Setenv("GOVERNANCE_RATE_BURST", "0")
	t.Setenv("GOVERNANCE_GNOSIS_SAFE", "true")
	t.Setenv("GOVERNANCE_LOG_FORMAT", "yaml")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "boost", cfg.AppTag)
	require.False(t, cfg.UseStub())
	require.Equal(t, 3*time.Second, cfg.CallTimeout)
	require.Equal(t, 2.5, cfg.RateLimit)
	require.Equal(t, 1, cfg.RateBurst)
	require.True(t, cfg.GnosisSafe)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("GOVERNANCE_CALL_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
}
