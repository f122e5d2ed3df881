// Package config resolves the runtime settings of the server binaries from
// command-line flags, the environment, an optional .env file and an optional
// YAML file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/KamdynS/go-miro-mcp/miro"
)

// Environment variables.
const (
	EnvToken      = "MIRO_OAUTH_TOKEN"
	EnvConfigFile = "MIRO_MCP_CONFIG"
	EnvBaseURL    = "MIRO_API_BASE_URL"
	EnvTimeout    = "MIRO_MCP_TIMEOUT"
	EnvTransport  = "MIRO_MCP_TRANSPORT"
	EnvAddr       = "MIRO_MCP_ADDR"
	EnvRateLimit  = "MIRO_MCP_RATE_LIMIT"
	EnvBurst      = "MIRO_MCP_BURST"
	EnvLogLevel   = "MIRO_MCP_LOG_LEVEL"
	EnvLogFormat  = "MIRO_MCP_LOG_FORMAT"
	EnvTracing    = "MIRO_MCP_TRACING"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ErrMissingToken is returned when no access token is configured.
var ErrMissingToken = errors.New(EnvToken + " is not set; pass --token or export it")

// Config is the resolved runtime configuration.
type Config struct {
	Token     string        `yaml:"-" validate:"required"`
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	Transport string        `yaml:"transport" validate:"oneof=stdio http"`
	Tracing   bool          `yaml:"tracing"`
	HTTP      HTTPConfig    `yaml:"http"`
	Log       LogConfig     `yaml:"log"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Addr      string  `yaml:"addr" validate:"required"`
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=0"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BaseURL:   miro.DefaultBaseURL,
		Timeout:   30 * time.Second,
		Transport: TransportStdio,
		HTTP: HTTPConfig{
			Addr:      ":8080",
			RateLimit: 10,
			Burst:     20,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load resolves the configuration for a binary named name. args excludes the
// program name; getenv is usually os.Getenv. flag.ErrHelp is returned as is.
func Load(name string, args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fset.SetOutput(output)
	}
	var (
		token      = fset.String("token", "", "Miro access token (env "+EnvToken+")")
		configFile = fset.String("config", "", "YAML configuration file (env "+EnvConfigFile+")")
		envFile    = fset.String("env-file", ".env", "dotenv file read before the environment")
		baseURL    = fset.String("base-url", "", "Miro REST API base URL")
		timeout    = fset.Duration("timeout", 0, "timeout of one API request")
		transport  = fset.String("transport", "", "serving transport: stdio or http")
		addr       = fset.String("addr", "", "listen address of the http transport")
		rateLimit  = fset.Float64("rate-limit", 0, "requests per second allowed per client IP (http)")
		burst      = fset.Int("burst", 0, "rate limit burst (http)")
		logLevel   = fset.String("log-level", "", "log level")
		logFormat  = fset.String("log-format", "", "log format: text or json")
		tracing    = fset.Bool("trace", false, "log OpenTelemetry spans at debug level")
	)
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	set := map[string]bool{}
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })

	lookup, err := envLookup(getenv, *envFile, set["env-file"])
	if err != nil {
		return nil, err
	}

	cfg := Default()

	path := *configFile
	if path == "" {
		path = lookup(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if set["token"] {
		cfg.Token = *token
	}
	if set["base-url"] {
		cfg.BaseURL = *baseURL
	}
	if set["timeout"] {
		cfg.Timeout = *timeout
	}
	if set["transport"] {
		cfg.Transport = *transport
	}
	if set["addr"] {
		cfg.HTTP.Addr = *addr
	}
	if set["rate-limit"] {
		cfg.HTTP.RateLimit = *rateLimit
	}
	if set["burst"] {
		cfg.HTTP.Burst = *burst
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = *logFormat
	}
	if set["trace"] {
		cfg.Tracing = *tracing
	}

	cfg.Token = strings.TrimSpace(cfg.Token)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: invalid %s: %v fails %s", fe.Namespace(), fe.Value(), fe.ActualTag())
	}
	return fmt.Errorf("config: %w", err)
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	if v := lookup(EnvToken); v != "" {
		c.Token = v
	}
	if v := lookup(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := lookup(EnvTransport); v != "" {
		c.Transport = v
	}
	if v := lookup(EnvAddr); v != "" {
		c.HTTP.Addr = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := lookup(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := lookup(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := lookup(EnvRateLimit); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		c.HTTP.RateLimit = f
	}
	if v := lookup(EnvBurst); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBurst, err)
		}
		c.HTTP.Burst = n
	}
	if v := lookup(EnvTracing); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTracing, err)
		}
		c.Tracing = b
	}
	return nil
}

// envLookup layers the dotenv file under the real environment. A missing
// default .env is ignored; an explicitly named one must exist.
func envLookup(getenv func(string) string, path string, explicit bool) (func(string) string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	dotenv := map[string]string{}
	if path != "" {
		vals, err := godotenv.Read(path)
		switch {
		case err == nil:
			dotenv = vals
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}, nil
}
