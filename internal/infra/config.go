package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: AP_CONTROL_PLANE_ADDRESS
// overrides control_plane.address.
const EnvPrefix = "AP"

// Journal drivers.
const (
	JournalNone     = "none"
	JournalPostgres = "postgres"
	JournalRedis    = "redis"
)

// Config is the agentctl configuration.
type Config struct {
	ControlPlane ControlPlaneConfig `mapstructure:"control_plane"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Reliability  ReliabilityConfig  `mapstructure:"reliability"`
	Journal      JournalConfig      `mapstructure:"journal"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logger       LoggerConfig       `mapstructure:"logger"`
}

type ControlPlaneConfig struct {
	Address        string        `mapstructure:"address"`
	APIKey         string        `mapstructure:"api_key"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// AuthConfig enables signed bearer tokens when a private key is present.
type AuthConfig struct {
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	Issuer         string        `mapstructure:"issuer"`
	Subject        string        `mapstructure:"subject"`
	OrgID          string        `mapstructure:"org_id"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	AllowPlaintext bool          `mapstructure:"allow_plaintext"` // tokens require TLS otherwise
	PrivateKey     []byte
}

// ReliabilityConfig mirrors agentplatform.ReliabilityConfig field for field.
type ReliabilityConfig struct {
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`

	BreakerFailures    uint32        `mapstructure:"breaker_failures"`
	BreakerMaxRequests uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval    time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`

	MaxAttempts    uint          `mapstructure:"max_attempts"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

// Enabled reports whether any reliability piece is switched on.
func (c ReliabilityConfig) Enabled() bool {
	return c.RateLimit > 0 || c.BreakerFailures > 0 || c.MaxAttempts > 1 || c.AttemptTimeout > 0
}

// JournalConfig selects where the call journal goes.
type JournalConfig struct {
	Driver        string        `mapstructure:"driver"` // none, postgres, redis
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	StreamMaxLen  int64         `mapstructure:"stream_max_len"`
	// Env scopes the Redis stream key, e.g. "staging".
	Env string `mapstructure:"env"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int    `mapstructure:"max_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig merges defaults, the config file and the environment. With an
// empty path it looks for agentctl.yaml in the working directory and in
// $HOME/.config/agentplatform; a missing file is not an error then.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// 1. Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("agentctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/agentplatform")
		}
	}

	// 2. Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// 3. Defaults
	setDefaults(v)

	// 4. Read
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 5. Decode
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 6. Key material from ENV or from file
	key, err := loadKeyResource(cfg.Auth.PrivateKeyPath, EnvPrefix+"_AUTH_PRIVATE_KEY_DATA")
	if err != nil {
		return nil, err
	}
	cfg.Auth.PrivateKey = key

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnv registers keys that have no default, AutomaticEnv alone does not
// see them during Unmarshal.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("control_plane.api_key", EnvPrefix+"_CONTROL_PLANE_API_KEY", EnvPrefix+"_API_KEY")
	_ = v.BindEnv("auth.private_key_path")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DB_URL")
	_ = v.BindEnv("redis.password")
	_ = v.BindEnv("journal.env")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("control_plane.address", "localhost:50051")
	v.SetDefault("control_plane.connect_timeout", 10*time.Second)
	v.SetDefault("auth.issuer", "agentctl")
	v.SetDefault("auth.subject", "agentctl")
	v.SetDefault("auth.org_id", "")
	v.SetDefault("auth.token_ttl", 5*time.Minute)
	v.SetDefault("auth.allow_plaintext", false)
	v.SetDefault("reliability.rate_limit", 0)
	v.SetDefault("reliability.burst", 1)
	v.SetDefault("reliability.breaker_failures", 0)
	v.SetDefault("reliability.breaker_timeout", 30*time.Second)
	v.SetDefault("reliability.max_attempts", 1)
	v.SetDefault("reliability.retry_delay", 100*time.Millisecond)
	v.SetDefault("journal.driver", JournalNone)
	v.SetDefault("journal.buffer_size", 1000)
	v.SetDefault("journal.batch_size", 100)
	v.SetDefault("journal.flush_interval", 500*time.Millisecond)
	v.SetDefault("journal.stream_max_len", 100000)
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
}

// Validate rejects settings agentctl cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ControlPlane.Address) == "" {
		return errors.New("config: control_plane.address is empty")
	}
	switch c.Journal.Driver {
	case JournalNone, "":
	case JournalPostgres:
		if c.Database.URL == "" {
			return errors.New("config: journal.driver=postgres needs database.url")
		}
	case JournalRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: journal.driver=redis needs redis.addr")
		}
	default:
		return fmt.Errorf("config: unknown journal.driver %q", c.Journal.Driver)
	}
	return nil
}

// loadKeyResource prefers PEM data passed directly in the environment and
// falls back to reading path.
func loadKeyResource(path string, envDataKey string) ([]byte, error) {
	if data := os.Getenv(envDataKey); data != "" {
		return []byte(data), nil
	}
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read key %s: %w", path, err)
	}
	return data, nil
}
