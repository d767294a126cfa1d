package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-scan-bot/internal/providers/moralis"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Moralis.MaxPairs)
	assert.Equal(t, moralis.DefaultPreferredExchanges, cfg.Moralis.PreferredExchanges)
	assert.Equal(t, moralis.DefaultBaseURL, cfg.Moralis.BaseURL)
	assert.Equal(t, time.Hour, cfg.Redis.NameTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, ":9090", cfg.Ops.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Discord.Token)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanbot.yaml")
	yaml := `
discord:
  token: file-token
moralis:
  api_key: file-key
  max_pairs: 3
  preferred_exchanges: ["Raydium CPMM"]
postgres:
  dsn: postgres://localhost/scanbot
redis:
  addr: localhost:6379
  name_ttl: 15m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Discord.Token)
	assert.Equal(t, 3, cfg.Moralis.MaxPairs)
	assert.Equal(t, []string{"Raydium CPMM"}, cfg.Moralis.PreferredExchanges)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Redis.NameTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discord:\n  token: file-token\n"), 0o600))

	t.Setenv("SCANBOT_DISCORD_TOKEN", "env-token")
	t.Setenv("SCANBOT_OPS_ADDR", ":8081")
	t.Setenv("SCANBOT_HTTP_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, ":8081", cfg.Ops.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingKey))
	assert.Contains(t, err.Error(), "discord.token")
	assert.Contains(t, err.Error(), "SCANBOT_DISCORD_TOKEN")

	cfg.Discord.Token = "t"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")

	cfg.Postgres.DSN = "postgres://x"
	require.NoError(t, cfg.Validate())

	cfg.Moralis.MaxPairs = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_WithoutMoralisKey(t *testing.T) {
	t.Setenv("SCANBOT_DISCORD_TOKEN", "env-token")
	t.Setenv("SCANBOT_POSTGRES_DSN", "postgres://localhost/scanbot")
	t.Setenv("SCANBOT_MORALIS_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Moralis.APIKey)
	assert.NoError(t, cfg.Validate(), "Jupiter-only mode needs no Moralis key")
}

func TestRequire(t *testing.T) {
	cfg := &Config{Moralis: MoralisConfig{APIKey: "k"}}
	assert.NoError(t, cfg.Require("moralis.api_key"))
	assert.ErrorIs(t, cfg.Require("redis.addr"), ErrMissingKey)
	assert.Error(t, cfg.Require("nope"))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SCANBOT_MORALIS_API_KEY", EnvName("moralis.api_key"))
}
