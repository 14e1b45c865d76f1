package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig    `yaml:"llm"`
	Budgets BudgetConfig `yaml:"budgets"`
	Store   StoreConfig  `yaml:"store"`
	Server  ServerConfig `yaml:"server"`
	Export  ExportConfig `yaml:"export"`
	Reader  ReaderConfig `yaml:"reader"`
	Log     LogConfig    `yaml:"log"`
}

// LLMConfig holds completion provider configuration
type LLMConfig struct {
	Provider              string        `yaml:"provider"` // openai | gemini | compat
	OpenAIKey             string        `yaml:"openai_api_key"`
	GeminiKey             string        `yaml:"gemini_api_key"`
	CompatKey             string        `yaml:"compat_api_key"`
	BaseURL               string        `yaml:"base_url"`
	ExtractionModel       string        `yaml:"extraction_model"`
	ReasoningModel        string        `yaml:"reasoning_model"`
	ExtractionTemperature float64       `yaml:"extraction_temperature"`
	AnswerTemperature     float64       `yaml:"answer_temperature"`
	ValuationTemperature  float64       `yaml:"valuation_temperature"`
	Timeout               time.Duration `yaml:"timeout"`
}

// BudgetConfig holds the character budgets for text embedded in prompts
type BudgetConfig struct {
	Extraction int `yaml:"extraction"`
	Answer     int `yaml:"answer"`
	Valuation  int `yaml:"valuation"`
}

// StoreConfig holds analysis history storage configuration
type StoreConfig struct {
	DSN string `yaml:"dsn"` // postgres://... or a sqlite file path; empty disables history
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// ExportConfig holds export configuration
type ExportConfig struct {
	Format string `yaml:"format"` // pdf | xlsx
}

// ReaderConfig holds document reader configuration
type ReaderConfig struct {
	Pdftotext string `yaml:"pdftotext"`
	MaxPages  int    `yaml:"max_pages"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

func defaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:              "openai",
			ExtractionModel:       "gpt-4o-mini",
			ReasoningModel:        "gpt-4o",
			ExtractionTemperature: 0.1,
			AnswerTemperature:     0.3,
			ValuationTemperature:  0.4,
			Timeout:               45 * time.Second,
		},
		Budgets: BudgetConfig{
			Extraction: 12000,
			Answer:     12000,
			Valuation:  4000,
		},
		Store: StoreConfig{
			DSN: "./tmp/analyses.db",
		},
		Server: ServerConfig{
			GRPCAddr: ":8080",
		},
		Export: ExportConfig{
			Format: "pdf",
		},
		Reader: ReaderConfig{
			Pdftotext: "pdftotext",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration: defaults, then an optional .env file, then the YAML file
// named by LEASE_CONFIG, then environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewAppError("CONFIG_ERROR", "failed to load .env", err)
	}

	cfg := defaultConfig()
	if path := os.Getenv("LEASE_CONFIG"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewAppError("CONFIG_ERROR", "failed to read config file", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return NewAppError("CONFIG_ERROR", "failed to parse config file", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLM.Provider))
	c.LLM.OpenAIKey = getEnv("OPENAI_API_KEY", c.LLM.OpenAIKey)
	c.LLM.GeminiKey = getEnv("GEMINI_API_KEY", c.LLM.GeminiKey)
	c.LLM.CompatKey = getEnv("LLM_API_KEY", c.LLM.CompatKey)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.ExtractionModel = getEnv("EXTRACTION_MODEL", c.LLM.ExtractionModel)
	c.LLM.ReasoningModel = getEnv("REASONING_MODEL", c.LLM.ReasoningModel)
	c.LLM.ExtractionTemperature = getEnvAsFloat("EXTRACTION_TEMPERATURE", c.LLM.ExtractionTemperature)
	c.LLM.AnswerTemperature = getEnvAsFloat("ANSWER_TEMPERATURE", c.LLM.AnswerTemperature)
	c.LLM.ValuationTemperature = getEnvAsFloat("VALUATION_TEMPERATURE", c.LLM.ValuationTemperature)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	if c.LLM.Provider == "gemini" {
		// OpenAI model names mean nothing to Gemini.
		if strings.HasPrefix(c.LLM.ExtractionModel, "gpt-") {
			c.LLM.ExtractionModel = "gemini-2.0-flash"
		}
		if strings.HasPrefix(c.LLM.ReasoningModel, "gpt-") {
			c.LLM.ReasoningModel = "gemini-2.5-pro"
		}
	}

	c.Budgets.Extraction = getEnvAsInt("EXTRACTION_BUDGET", c.Budgets.Extraction)
	c.Budgets.Answer = getEnvAsInt("ANSWER_BUDGET", c.Budgets.Answer)
	c.Budgets.Valuation = getEnvAsInt("VALUATION_BUDGET", c.Budgets.Valuation)

	c.Store.DSN = getEnv("DB_URL", c.Store.DSN)
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Export.Format = strings.ToLower(getEnv("EXPORT_FORMAT", c.Export.Format))
	c.Reader.Pdftotext = getEnv("PDFTOTEXT_BIN", c.Reader.Pdftotext)
	c.Reader.MaxPages = getEnvAsInt("READER_MAX_PAGES", c.Reader.MaxPages)
	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(getEnv("LOG_FORMAT", c.Log.Format))
}

// APIKey returns the key for the configured provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case "gemini":
		return c.GeminiKey
	case "compat":
		return c.CompatKey
	default:
		return c.OpenAIKey
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("llm.provider", c.LLM.Provider, Required, OneOf("openai", "gemini", "compat")).
		Field("export.format", c.Export.Format, Required, OneOf("pdf", "xlsx")).
		Field("log.format", c.Log.Format, OneOf("", "json", "text")).
		Field("budgets.extraction", c.Budgets.Extraction, Positive).
		Field("budgets.answer", c.Budgets.Answer, Positive).
		Field("budgets.valuation", c.Budgets.Valuation, Positive)
	if c.LLM.Provider == "compat" {
		v.Field("llm.base_url", c.LLM.BaseURL, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("provider=%s extraction_model=%s reasoning_model=%s export=%s store=%q",
		c.LLM.Provider, c.LLM.ExtractionModel, c.LLM.ReasoningModel, c.Export.Format, c.Store.DSN)
}
