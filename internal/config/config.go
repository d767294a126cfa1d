// Package config loads bot configuration from an optional YAML file and
// SCANBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"solana-scan-bot/internal/providers/jupiter"
	"solana-scan-bot/internal/providers/moralis"
)

// EnvPrefix is the environment variable prefix: discord.token is read from
// SCANBOT_DISCORD_TOKEN.
const EnvPrefix = "SCANBOT"

// Config is the full bot configuration.
type Config struct {
	Discord  DiscordConfig  `mapstructure:"discord"`
	Moralis  MoralisConfig  `mapstructure:"moralis"`
	Jupiter  JupiterConfig  `mapstructure:"jupiter"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Ops      OpsConfig      `mapstructure:"ops"`
	Log      LogConfig      `mapstructure:"log"`
}

type DiscordConfig struct {
	Token string `mapstructure:"token"`
}

type MoralisConfig struct {
	APIKey             string   `mapstructure:"api_key"`
	BaseURL            string   `mapstructure:"base_url"`
	MaxPairs           int      `mapstructure:"max_pairs"`
	PreferredExchanges []string `mapstructure:"preferred_exchanges"`
}

type JupiterConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig configures the display-name cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	NameTTL  time.Duration `mapstructure:"name_ttl"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RunKeys must be set to run the bot. moralis.api_key is optional: without it
// the bot runs on Jupiter alone.
var RunKeys = []string{"discord.token", "postgres.dsn"}

// ErrMissingKey is wrapped by Require for an unset required key.
var ErrMissingKey = errors.New("missing required config key")

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.token", "")
	v.SetDefault("moralis.api_key", "")
	v.SetDefault("moralis.base_url", moralis.DefaultBaseURL)
	v.SetDefault("moralis.max_pairs", moralis.DefaultMaxPairs)
	v.SetDefault("moralis.preferred_exchanges", moralis.DefaultPreferredExchanges)
	v.SetDefault("jupiter.base_url", jupiter.DefaultBaseURL)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.name_ttl", time.Hour)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("ops.addr", ":9090")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the keys needed to run the bot.
func (c *Config) Validate() error {
	if err := c.Require(RunKeys...); err != nil {
		return err
	}
	if c.Moralis.MaxPairs <= 0 {
		return fmt.Errorf("moralis.max_pairs must be positive, got %d", c.Moralis.MaxPairs)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	return nil
}

// Require reports the first of keys that is empty.
func (c *Config) Require(keys ...string) error {
	values := map[string]string{
		"discord.token":   c.Discord.Token,
		"moralis.api_key": c.Moralis.APIKey,
		"postgres.dsn":    c.Postgres.DSN,
		"redis.addr":      c.Redis.Addr,
	}
	for _, k := range keys {
		val, known := values[k]
		if !known {
			return fmt.Errorf("unknown required key %q", k)
		}
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%w: %s (env %s)", ErrMissingKey, k, EnvName(k))
		}
	}
	return nil
}

// EnvName returns the environment variable for a config key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
