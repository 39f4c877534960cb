package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderVertex Provider = "vertex"
	ProviderOpenAI Provider = "openai"
	ProviderMock   Provider = "mock"
)

type ContentBackend string

const (
	ContentEmbedded  ContentBackend = "embedded"
	ContentDir       ContentBackend = "dir"
	ContentFirestore ContentBackend = "firestore"
)

type Config struct {
	Port     string `toml:"port"`
	LogLevel string `toml:"log_level"`

	LLM     LLMConfig     `toml:"llm"`
	Chat    ChatConfig    `toml:"chat"`
	Content ContentConfig `toml:"content"`
	Session SessionConfig `toml:"session"`

	CORSOrigins []string `toml:"cors_origins"`
}

type LLMConfig struct {
	Provider Provider `toml:"provider"`

	// APIKey is only ever read from the environment.
	APIKey string `toml:"-"`

	GCPProjectID string `toml:"gcp_project"`
	GCPLocation  string `toml:"gcp_location"`
	BaseURL      string `toml:"base_url"` // openai-compatible endpoint

	RetrievalModel  string        `toml:"retrieval_model"`
	GenerationModel string        `toml:"generation_model"`
	Timeout         time.Duration `toml:"timeout"`

	RatePerSecond float64 `toml:"rate_per_second"`
	RateBurst     int     `toml:"rate_burst"`
}

type ChatConfig struct {
	AnswerLanguage string `toml:"answer_language"`
	MaxExcerpts    int    `toml:"max_excerpts"`
}

type ContentConfig struct {
	Backend ContentBackend `toml:"backend"`
	Dir     string         `toml:"dir"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `toml:"idle_ttl"`
	SweepInterval time.Duration `toml:"sweep_interval"`
	MaxSessions   int           `toml:"max_sessions"`
}

func defaults() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			GCPLocation:     "us-central1",
			BaseURL:         "https://api.openai.com",
			RetrievalModel:  "gemini-2.5-flash",
			GenerationModel: "gemini-2.5-flash",
			Timeout:         30 * time.Second,
			RatePerSecond:   2,
			RateBurst:       4,
		},
		Chat: ChatConfig{
			AnswerLanguage: "Traditional Chinese (繁體中文)",
			MaxExcerpts:    3,
		},
		Content: ContentConfig{
			Backend: ContentEmbedded,
		},
		Session: SessionConfig{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			MaxSessions:   1000,
		},
		CORSOrigins: []string{"*"},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getListEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load builds the config from defaults, then the optional TOML file named by
// FOLIO_CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("FOLIO_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", getEnv("FOLIO_PORT", cfg.Port))
	cfg.LogLevel = getEnv("FOLIO_LOG_LEVEL", cfg.LogLevel)
	cfg.CORSOrigins = getListEnv("FOLIO_CORS_ORIGINS", cfg.CORSOrigins)

	cfg.LLM.Provider = Provider(strings.ToLower(getEnv("FOLIO_LLM_PROVIDER", string(cfg.LLM.Provider))))
	cfg.LLM.APIKey = getEnv("FOLIO_LLM_API_KEY", os.Getenv("GEMINI_API_KEY"))
	cfg.LLM.GCPProjectID = getEnv("FOLIO_GCP_PROJECT", cfg.LLM.GCPProjectID)
	cfg.LLM.GCPLocation = getEnv("FOLIO_GCP_LOCATION", cfg.LLM.GCPLocation)
	cfg.LLM.BaseURL = getEnv("FOLIO_LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.RetrievalModel = getEnv("FOLIO_RETRIEVAL_MODEL", cfg.LLM.RetrievalModel)
	cfg.LLM.GenerationModel = getEnv("FOLIO_GENERATION_MODEL", cfg.LLM.GenerationModel)
	cfg.LLM.Timeout = getDurationEnv("FOLIO_LLM_TIMEOUT", cfg.LLM.Timeout)
	cfg.LLM.RatePerSecond = getFloatEnv("FOLIO_LLM_RATE", cfg.LLM.RatePerSecond)
	cfg.LLM.RateBurst = getIntEnv("FOLIO_LLM_BURST", cfg.LLM.RateBurst)

	cfg.Chat.AnswerLanguage = getEnv("FOLIO_CHAT_LANGUAGE", cfg.Chat.AnswerLanguage)
	cfg.Chat.MaxExcerpts = getIntEnv("FOLIO_CHAT_MAX_EXCERPTS", cfg.Chat.MaxExcerpts)

	cfg.Content.Backend = ContentBackend(strings.ToLower(getEnv("FOLIO_CONTENT_BACKEND", string(cfg.Content.Backend))))
	cfg.Content.Dir = getEnv("FOLIO_CONTENT_DIR", cfg.Content.Dir)

	cfg.Session.IdleTTL = getDurationEnv("FOLIO_SESSION_IDLE_TTL", cfg.Session.IdleTTL)
	cfg.Session.SweepInterval = getDurationEnv("FOLIO_SESSION_SWEEP_INTERVAL", cfg.Session.SweepInterval)
	cfg.Session.MaxSessions = getIntEnv("FOLIO_MAX_SESSIONS", cfg.Session.MaxSessions)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late. A missing API key
// is not an error here: it disables chat instead.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderMock:
	case ProviderVertex:
		if c.LLM.GCPProjectID == "" {
			return fmt.Errorf("FOLIO_GCP_PROJECT must be set for the vertex provider")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Content.Backend {
	case ContentEmbedded:
	case ContentDir:
		if c.Content.Dir == "" {
			return fmt.Errorf("FOLIO_CONTENT_DIR must be set for the dir content backend")
		}
	case ContentFirestore:
		if c.LLM.GCPProjectID == "" {
			return fmt.Errorf("FOLIO_GCP_PROJECT must be set for the firestore content backend")
		}
	default:
		return fmt.Errorf("unknown content backend %q", c.Content.Backend)
	}

	if c.LLM.RetrievalModel == "" || c.LLM.GenerationModel == "" {
		return fmt.Errorf("retrieval and generation models must be set")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if c.Chat.MaxExcerpts < 1 {
		return fmt.Errorf("max excerpts must be at least 1")
	}
	if c.Session.MaxSessions < 1 {
		return fmt.Errorf("max sessions must be at least 1")
	}
	return nil
}
