package appconfig

import (
	"errors"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/doclens/doclens-api/llm"
	"go.uber.org/zap"
)

const (
	DefaultConfigPath      = "config.ini"
	DefaultHTTPPort        = ":8000"
	DefaultGRPCPort        = ":50051"
	DefaultMaxAnalyzeChars = 24000
	DefaultAllowedOrigins  = "http://localhost:3000,http://localhost:5173,http://localhost:5000"
)

// ErrNoAPIKey means neither the request nor the server supplied a credential.
var ErrNoAPIKey = errors.New("no api key provided")

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	GroqAPIKey string `env:"GROQ_API_KEY" ini:"groq_api_key"`

	LLMProvider string `env:"LLM_PROVIDER" ini:"llm_provider"`
	LLMBaseURL  string `env:"LLM_BASE_URL" ini:"llm_base_url"`
	LLMModel    string `env:"LLM_MODEL" ini:"llm_model"`

	HTTPPort       string `env:"HTTP_PORT" ini:"http_port"`
	GRPCPort       string `env:"GRPC_PORT" ini:"grpc_port"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" ini:"allowed_origins"`

	MaxAnalyzeChars int `env:"MAX_ANALYZE_CHARS" ini:"max_analyze_chars"`
}

var (
	mu      sync.RWMutex
	current *AppConfig
)

// Load reads the section of path named by ENV (top-level keys when ENV is
// unset), lets non-empty environment variables override it and fills
// anything left unset with defaults.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := config.LoadConfig(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Settings returns the process-wide configuration, loading it on first use.
// A missing or broken config file falls back to defaults plus environment.
func Settings() *AppConfig {
	mu.RLock()
	cfg := current
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = loadOrDefault(DefaultConfigPath)
	}
	return current
}

// Reload re-reads the configuration file and replaces the process-wide value.
func Reload() *AppConfig {
	return ReloadFrom(DefaultConfigPath)
}

// ReloadFrom is Reload for a config file other than config.ini.
func ReloadFrom(path string) *AppConfig {
	cfg := loadOrDefault(path)

	mu.Lock()
	current = cfg
	mu.Unlock()
	return cfg
}

// SetForTest installs cfg as the process-wide configuration. The returned
// func restores the previous value.
func SetForTest(cfg *AppConfig) (restore func()) {
	mu.Lock()
	prev := current
	if cfg != nil {
		cfg.applyDefaults()
	}
	current = cfg
	mu.Unlock()

	return func() {
		mu.Lock()
		current = prev
		mu.Unlock()
	}
}

func loadOrDefault(path string) *AppConfig {
	cfg, err := Load(path)
	if err != nil {
		logger.Error("Failed to load config, using defaults", zap.String("path", path), zap.Error(err))
		cfg = &AppConfig{}
		cfg.applyEnv()
		cfg.applyDefaults()
	}
	return cfg
}

// applyEnv overrides every field carrying an env tag with its variable when
// set and non-empty. Unparseable numbers are logged and skipped.
func (c *AppConfig) applyEnv() {
	val := reflect.ValueOf(c).Elem()
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		name := typ.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			continue
		}

		field := val.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				logger.Error("Ignoring invalid environment override", zap.String("env", name), zap.Error(err))
				continue
			}
			field.SetInt(int64(n))
		}
	}
}

func (c *AppConfig) applyDefaults() {
	if c.HTTPPort == "" {
		c.HTTPPort = DefaultHTTPPort
	}
	if c.GRPCPort == "" {
		c.GRPCPort = DefaultGRPCPort
	}
	if c.AllowedOrigins == "" {
		c.AllowedOrigins = DefaultAllowedOrigins
	}
	if c.MaxAnalyzeChars <= 0 {
		c.MaxAnalyzeChars = DefaultMaxAnalyzeChars
	}
}

// ResolveAPIKey prefers a non-blank per-request key over the server's own.
func (c *AppConfig) ResolveAPIKey(requestKey string) (string, error) {
	if key := strings.TrimSpace(requestKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(c.GroqAPIKey); key != "" {
		return key, nil
	}
	return "", ErrNoAPIKey
}

func (c *AppConfig) HasAPIKey() bool {
	return strings.TrimSpace(c.GroqAPIKey) != ""
}

func (c *AppConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *AppConfig) ProviderConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider: c.LLMProvider,
		BaseURL:  c.LLMBaseURL,
		Model:    c.LLMModel,
	}
}

// ResolveAPIKey resolves against the process-wide configuration.
func ResolveAPIKey(requestKey string) (string, error) {
	return Settings().ResolveAPIKey(requestKey)
}

func HasServerAPIKey() bool {
	return Settings().HasAPIKey()
}
