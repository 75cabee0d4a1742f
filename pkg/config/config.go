package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // memory, postgres or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite file
}

type LLMConfig struct {
	Provider        string  `mapstructure:"provider"` // openai or anthropic
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"`
	AnthropicAPIKey string  `mapstructure:"anthropic_api_key"`
	Model           string  `mapstructure:"model"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
}

type PipelineConfig struct {
	StageDelayMS int  `mapstructure:"stage_delay_ms"`
	Debug        bool `mapstructure:"debug"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Slack    SlackConfig    `mapstructure:"slack"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type SlackConfig struct {
	Token   string `mapstructure:"token"`
	Channel string `mapstructure:"channel"`
}

type AnalyticsConfig struct {
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "helpdesk.db")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("pipeline.stage_delay_ms", 300)
	v.SetDefault("pipeline.debug", false)
	v.SetDefault("analytics.refresh_schedule", "*/5 * * * *")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.OpenAIAPIKey = apiKey
	}
	if apiKey := v.GetString("ANTHROPIC_API_KEY"); apiKey != "" {
		config.LLM.AnthropicAPIKey = apiKey
	}
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Notify.Telegram.Token = token
	}
	if token := v.GetString("SLACK_BOT_TOKEN"); token != "" {
		config.Notify.Slack.Token = token
	}

	return &config, nil
}
