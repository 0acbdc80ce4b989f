package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"

	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

type Config struct {
	AppPort  int    `mapstructure:"APP_PORT" validate:"min=1,max=65535"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StoreDriver      string        `mapstructure:"STORE_DRIVER" validate:"oneof=mongo sqlite"`
	MongoURI         string        `mapstructure:"MONGODB_URI" validate:"required_if=StoreDriver mongo"`
	MongoDatabase    string        `mapstructure:"MONGODB_DATABASE" validate:"required_if=StoreDriver mongo"`
	MongoTimeout     time.Duration `mapstructure:"MONGODB_TIMEOUT" validate:"min=0"`
	SQLitePath       string        `mapstructure:"SQLITE_PATH" validate:"required_if=StoreDriver sqlite"`
	InferenceBackend string        `mapstructure:"INFERENCE_BACKEND" validate:"oneof=ollama openai"`
	OllamaURL        string        `mapstructure:"OLLAMA_URL" validate:"required_if=InferenceBackend ollama"`
	OpenAIBaseURL    string        `mapstructure:"OPENAI_BASE_URL" validate:"required_if=InferenceBackend openai"`
	OpenAIAPIKey     string        `mapstructure:"OPENAI_API_KEY"`

	BaseModel          string        `mapstructure:"BASE_MODEL"`
	ModelName          string        `mapstructure:"MODEL_NAME" validate:"required"`
	PullMissingModel   bool          `mapstructure:"PULL_MISSING_MODEL"`
	MaxInputWords      int           `mapstructure:"MAX_INPUT_WORDS" validate:"min=1"`
	MaxOutputTokens    int           `mapstructure:"MAX_OUTPUT_TOKENS" validate:"min=1"`
	RepetitionPenalty  float64       `mapstructure:"REPETITION_PENALTY" validate:"gte=1"`
	NoRepeatNgramSize  int           `mapstructure:"NO_REPEAT_NGRAM_SIZE" validate:"min=0"`
	GenerationTimeout  time.Duration `mapstructure:"GENERATION_TIMEOUT" validate:"min=0"`
	WarmupOnStart      bool          `mapstructure:"WARMUP_ON_START"`
	HistoryLimit       int           `mapstructure:"HISTORY_LIMIT" validate:"min=1,max=100"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL" validate:"min=0"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// ConfigFile is the .env file the values were read from, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// LoadConfig reads the configuration from the environment and an optional .env file.
// MONGODB_URI may also be supplied as MONGODB_URL or MONGO_URI.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_PORT", 8000)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGODB_DATABASE", "chem_ai")
	v.SetDefault("MONGODB_TIMEOUT", "10s")
	v.SetDefault("SQLITE_PATH", "/data/chemibot.db")
	v.SetDefault("INFERENCE_BACKEND", BackendOllama)
	v.SetDefault("OLLAMA_URL", "http://ollama:11434")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("BASE_MODEL", "google/flan-t5-base")
	v.SetDefault("MODEL_NAME", "chemibot-flan-t5")
	v.SetDefault("PULL_MISSING_MODEL", false)
	v.SetDefault("MAX_INPUT_WORDS", 384)
	v.SetDefault("MAX_OUTPUT_TOKENS", 128)
	v.SetDefault("REPETITION_PENALTY", 1.3)
	v.SetDefault("NO_REPEAT_NGRAM_SIZE", 3)
	v.SetDefault("GENERATION_TIMEOUT", "120s")
	v.SetDefault("WARMUP_ON_START", false)
	v.SetDefault("HISTORY_LIMIT", 10)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "https://chemibot.netlify.app,http://localhost:5173")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("MONGODB_URI", "MONGODB_URI", "MONGODB_URL", "MONGO_URI"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// BindEnv aliases only cover the process environment; .env files use them too.
	if v.GetString("MONGODB_URI") == "" {
		for _, alias := range []string{"MONGODB_URL", "MONGO_URI"} {
			if value := v.GetString(alias); value != "" {
				v.Set("MONGODB_URI", value)
				break
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.CORSAllowedOrigins = splitOrigins(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values against the struct's validate tags.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("mapstructure")
	})
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' tag", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.AppPort)
}

// splitOrigins normalizes origins given either as a list or as one comma separated value.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
