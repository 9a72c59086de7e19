// Package config loads runtime settings from config.yaml, a .env file and the
// process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Timezone  string          `mapstructure:"timezone"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Env         string `mapstructure:"env"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type StorageConfig struct {
	Driver  string   `mapstructure:"driver"`
	DataDir string   `mapstructure:"data_dir"`
	S3      S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
}

type LLMConfig struct {
	Provider   string        `mapstructure:"provider"`
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	Deployment string        `mapstructure:"deployment"`
	APIVersion string        `mapstructure:"api_version"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const (
	StorageFile   = "file"
	StorageS3     = "s3"
	StorageMemory = "memory"

	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderCanned = "canned"
)

// Flat environment names kept for compatibility with existing deployments.
var envAliases = map[string][]string{
	"server.port":                  {"PORT"},
	"server.env":                   {"NODE_ENV", "APP_ENV"},
	"server.frontend_url":          {"FRONTEND_URL"},
	"storage.driver":               {"STORAGE_DRIVER"},
	"storage.data_dir":             {"DATA_DIR"},
	"storage.s3.endpoint":          {"S3_ENDPOINT"},
	"storage.s3.region":            {"S3_REGION"},
	"storage.s3.access_key_id":     {"S3_ACCESS_KEY_ID"},
	"storage.s3.secret_access_key": {"S3_SECRET_ACCESS_KEY"},
	"storage.s3.bucket_name":       {"S3_BUCKET"},
	"storage.s3.prefix":            {"S3_PREFIX"},
	"llm.provider":                 {"LLM_PROVIDER"},
	"llm.endpoint":                 {"AZURE_OPENAI_ENDPOINT", "LLM_ENDPOINT"},
	"llm.api_key":                  {"AZURE_OPENAI_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "LLM_API_KEY"},
	"llm.deployment":               {"AZURE_OPENAI_DEPLOYMENT_NAME"},
	"llm.api_version":              {"AZURE_OPENAI_API_VERSION"},
	"llm.model":                    {"LLM_MODEL"},
	"llm.timeout":                  {"LLM_TIMEOUT"},
	"redis.host":                   {"REDIS_HOST"},
	"redis.port":                   {"REDIS_PORT"},
	"redis.password":               {"REDIS_PASSWORD"},
	"redis.db":                     {"REDIS_DB"},
	"scheduler.enabled":            {"SCHEDULER_ENABLED"},
	"timezone":                     {"TIMEZONE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.bucket_name", "musule-plans")
	v.SetDefault("storage.s3.prefix", "plans/")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.deployment", "gpt-4o-mini")
	v.SetDefault("llm.api_version", "2024-02-01")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("timezone", "Asia/Tokyo")
}

// Load reads configuration. path is the directory searched for config.yaml
// and .env; a missing file of either kind is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil {
		log.Println("[CONFIG] No .env file found, relying on environment")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Server.FrontendURL = strings.TrimRight(c.Server.FrontendURL, "/")
	c.LLM.Endpoint = strings.TrimRight(c.LLM.Endpoint, "/")
	c.Storage.S3.BucketName = strings.TrimSpace(c.Storage.S3.BucketName)

	if c.LLM.Provider == "" {
		c.LLM.Provider = c.inferProvider()
	}
}

// inferProvider picks a backend from whichever credentials are present.
func (c *Config) inferProvider() string {
	switch {
	case c.LLM.Endpoint != "" && c.LLM.APIKey != "":
		return ProviderAzure
	case c.LLM.APIKey != "":
		return ProviderOpenAI
	default:
		return ProviderCanned
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageS3, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.LLM.Provider {
	case ProviderAzure, ProviderOpenAI, ProviderGemini, ProviderCanned:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.Storage.Driver == StorageS3 && c.Storage.S3.BucketName == "" {
		return errors.New("s3 storage requires a bucket name")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %s", c.LLM.Timeout)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the planner's fixed timezone. Validate has already
// checked that it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
