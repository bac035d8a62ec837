package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"go-currency-converter"
)

// candidates searched, in order, when no config path is given
var candidates = []string{
	"configs/config.yaml",
	"config.yaml",
}

// Config everything the converter server needs at startup
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`

	// Rates seeded into the store once at startup
	Rates []RateConfig `yaml:"rates"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level        string   `yaml:"level"`
	ExcludePaths []string `yaml:"excludePaths"`
}

// RateLimitConfig per-client request limiting. Disabled when RPS <= 0.
type RateLimitConfig struct {
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
	IdleTTL time.Duration `yaml:"idleTTL"`
}

type RateConfig struct {
	From string  `yaml:"from"`
	To   string  `yaml:"to"`
	Rate float64 `yaml:"rate"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			Mode:            gin.ReleaseMode,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:        "info",
			ExcludePaths: []string{"/healthcheck", "/metrics"},
		},
		RateLimit: RateLimitConfig{
			RPS:     0,
			Burst:   20,
			IdleTTL: 10 * time.Minute,
		},
	}
}

// Load reads configuration from path, or from the first existing default
// candidate when path is empty, then applies environment overrides.
// A missing file is only an error when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	paths := candidates
	if path != "" {
		paths = []string{path}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == "" {
				continue
			}
			return Config{}, fmt.Errorf("load config [%v]: %w", p, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config [%v]: %w", p, err)
		}
		break
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides overrides cfg with any CONVERTER_* environment variables that are set
func ApplyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("CONVERTER_ADDRESS")); v != "" {
		cfg.Server.Address = v
	}
	if v := strings.TrimSpace(os.Getenv("CONVERTER_MODE")); v != "" {
		cfg.Server.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("CONVERTER_SHUTDOWN_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CONVERTER_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("CONVERTER_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CONVERTER_RATE_LIMIT_RPS")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CONVERTER_RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimit.RPS = rps
	}
	if v := strings.TrimSpace(os.Getenv("CONVERTER_RATE_LIMIT_BURST")); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONVERTER_RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimit.Burst = burst
	}
	return nil
}

// Validate reports the first setting that cannot be used
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server address is required")
	}
	if !lo.Contains([]string{gin.DebugMode, gin.ReleaseMode, gin.TestMode}, c.Server.Mode) {
		return fmt.Errorf("unknown server mode: %v", c.Server.Mode)
	}
	if _, err := level.Parse(c.Log.Level); err != nil {
		return fmt.Errorf("log level [%v]: %w", c.Log.Level, err)
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit burst must not be negative: %d", c.RateLimit.Burst)
	}
	return nil
}

// ConversionRates returns the seed rates in store form
func (c Config) ConversionRates() []converter.ConversionRate {
	return lo.Map(c.Rates, func(r RateConfig, _ int) converter.ConversionRate {
		return converter.ConversionRate{
			From: converter.Currency(r.From),
			To:   converter.Currency(r.To),
			Rate: converter.Rate(r.Rate),
		}
	})
}
