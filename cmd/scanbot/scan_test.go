package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/providers/jupiter"
)

const wsolSearch = `[{
	"id": "So11111111111111111111111111111111111111112",
	"name": "Wrapped SOL",
	"symbol": "SOL",
	"usdPrice": 150.25,
	"fdv": 9000000,
	"liquidity": 120000
}]`

func TestScanCmd_JupiterOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		w.Write([]byte(wsolSearch))
	}))
	defer server.Close()

	t.Setenv("SCANBOT_MORALIS_API_KEY", "")
	t.Setenv("SCANBOT_JUPITER_BASE_URL", server.URL)
	t.Setenv("SCANBOT_LOG_LEVEL", "warn")

	okCalls := observability.DefaultMetrics.ProviderRequests.WithLabelValues(jupiter.SourceName, "ok")
	before := testutil.ToFloat64(okCalls)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"scan", "So11111111111111111111111111111111111111112"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Wrapped SOL")
	assert.Equal(t, before, testutil.ToFloat64(okCalls), "one-off scans must not feed provider metrics")
}

func TestScanCmd_NoIdentifier(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"scan", "hello"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token address")
}
