package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment overrides, applied after file values.
const (
	EnvRelayHost       = "CELLWIRE_RELAY_HOST"
	EnvRelayPort       = "CELLWIRE_RELAY_PORT"
	EnvMaxPortAttempts = "CELLWIRE_RELAY_MAX_PORT_ATTEMPTS"
	EnvRelayURL        = "CELLWIRE_RELAY_URL"
	EnvRequestTimeout  = "CELLWIRE_REQUEST_TIMEOUT"
)

var dotenvOnce sync.Once

// loadDotEnv makes a .env file in the working directory visible to the
// CELLWIRE_* overrides. A missing file is not an error.
func loadDotEnv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// RelayConfig configures the relay daemon.
type RelayConfig struct {
	Host            string
	Port            int
	MaxPortAttempts int
	AllowedOrigins  []string
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		Host:            "127.0.0.1",
		Port:            8765,
		MaxPortAttempts: 10,
	}
}

type relayFile struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	MaxPortAttempts int      `toml:"max_port_attempts"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

// LoadRelayConfig layers defaults, the optional TOML file, and environment
// overrides. Fields absent from the file keep their defaults.
func LoadRelayConfig(path string) (RelayConfig, error) {
	loadDotEnv()
	cfg := DefaultRelayConfig()

	if strings.TrimSpace(path) != "" {
		var raw relayFile
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return RelayConfig{}, fmt.Errorf("load relay config: %w", err)
		}
		if meta.IsDefined("host") {
			cfg.Host = strings.TrimSpace(raw.Host)
		}
		if meta.IsDefined("port") {
			cfg.Port = raw.Port
		}
		if meta.IsDefined("max_port_attempts") {
			cfg.MaxPortAttempts = raw.MaxPortAttempts
		}
		if meta.IsDefined("allowed_origins") {
			cfg.AllowedOrigins = normalizeList(raw.AllowedOrigins)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvRelayHost)); v != "" {
		cfg.Host = v
	}
	if v, ok := parseInt(os.Getenv(EnvRelayPort)); ok {
		cfg.Port = v
	}
	if v, ok := parseInt(os.Getenv(EnvMaxPortAttempts)); ok {
		cfg.MaxPortAttempts = v
	}

	if err := ValidateRelayConfig(cfg); err != nil {
		return RelayConfig{}, err
	}
	return cfg, nil
}

func ValidateRelayConfig(cfg RelayConfig) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("relay config missing host")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("relay config port out of range: %d", cfg.Port)
	}
	if cfg.MaxPortAttempts < 1 {
		return fmt.Errorf("relay config max_port_attempts must be at least 1")
	}
	return nil
}

// CallerConfig configures a caller-side client.
type CallerConfig struct {
	RelayURL       string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
}

func DefaultCallerConfig() CallerConfig {
	return CallerConfig{
		RelayURL:       "ws://127.0.0.1:8765/ws",
		DialTimeout:    5 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

type callerFile struct {
	RelayURL       string `toml:"relay_url"`
	DialTimeout    string `toml:"dial_timeout"`
	RequestTimeout string `toml:"request_timeout"`
}

// LoadCallerConfig layers defaults, the optional TOML file, and environment
// overrides.
func LoadCallerConfig(path string) (CallerConfig, error) {
	loadDotEnv()
	cfg := DefaultCallerConfig()

	if strings.TrimSpace(path) != "" {
		var raw callerFile
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return CallerConfig{}, fmt.Errorf("load caller config: %w", err)
		}
		if meta.IsDefined("relay_url") {
			cfg.RelayURL = strings.TrimSpace(raw.RelayURL)
		}
		if meta.IsDefined("dial_timeout") {
			d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
			if err != nil {
				return CallerConfig{}, fmt.Errorf("parse dial_timeout: %w", err)
			}
			cfg.DialTimeout = d
		}
		if meta.IsDefined("request_timeout") {
			d, err := time.ParseDuration(strings.TrimSpace(raw.RequestTimeout))
			if err != nil {
				return CallerConfig{}, fmt.Errorf("parse request_timeout: %w", err)
			}
			cfg.RequestTimeout = d
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvRelayURL)); v != "" {
		cfg.RelayURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRequestTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return CallerConfig{}, fmt.Errorf("parse %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}

	if err := ValidateCallerConfig(cfg); err != nil {
		return CallerConfig{}, err
	}
	return cfg, nil
}

func ValidateCallerConfig(cfg CallerConfig) error {
	if strings.TrimSpace(cfg.RelayURL) == "" {
		return fmt.Errorf("caller config missing relay_url")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("caller config request_timeout must be positive")
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
