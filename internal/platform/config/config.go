package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server captures the relay page service configuration.
type Server struct {
	Addr            string        `env:"RELAY_ADDR"             envDefault:":8080"`
	AssetsDir       string        `env:"RELAY_ASSETS_DIR"       envDefault:"./web"`
	LogLevel        string        `env:"RELAY_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"RELAY_LOG_FORMAT"       envDefault:"json"`
	FrameAncestors  []string      `env:"RELAY_FRAME_ANCESTORS"  envDefault:"*" envSeparator:" "`
	ShutdownTimeout time.Duration `env:"RELAY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Login           Login
	Tracing         Tracing
}

// Login holds the options the page hands to the provider login client.
type Login struct {
	MaxTimeToLive    time.Duration `env:"RELAY_MAX_TIME_TO_LIVE"  envDefault:"8h"`
	DerivationOrigin string        `env:"RELAY_DERIVATION_ORIGIN"`
	WindowFeatures   string        `env:"RELAY_WINDOW_FEATURES"`
}

// Tracing selects the OTLP trace exporter. An empty endpoint disables it.
type Tracing struct {
	Enabled  bool   `env:"RELAY_OTEL_ENABLED"  envDefault:"true"`
	Endpoint string `env:"RELAY_OTEL_ENDPOINT"`
}

// Active reports whether spans are exported.
func (t Tracing) Active() bool {
	return t.Enabled && strings.TrimSpace(t.Endpoint) != ""
}

// ErrInvalidConfig is returned when parsed values are out of range.
var ErrInvalidConfig = errors.New("config: invalid value")

// LoadDotEnv loads variables from files into the environment without
// overriding those already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	cfg.FrameAncestors = dedupeSources(cfg.FrameAncestors)
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values the service cannot run with.
func (s Server) Validate() error {
	if strings.TrimSpace(s.Addr) == "" {
		return fmt.Errorf("%w: RELAY_ADDR is empty", ErrInvalidConfig)
	}
	if s.Login.MaxTimeToLive <= 0 {
		return fmt.Errorf("%w: RELAY_MAX_TIME_TO_LIVE must be positive", ErrInvalidConfig)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: RELAY_SHUTDOWN_TIMEOUT must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(s.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: RELAY_LOG_FORMAT %q", ErrInvalidConfig, s.LogFormat)
	}
	return nil
}

// FrameAncestorsDirective renders the CSP frame-ancestors directive.
func (s Server) FrameAncestorsDirective() string {
	sources := dedupeSources(s.FrameAncestors)
	if len(sources) == 0 {
		sources = []string{"*"}
	}
	return "frame-ancestors " + strings.Join(sources, " ")
}

// dedupeSources trims sources and drops empty and repeated ones, keeping order.
func dedupeSources(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
