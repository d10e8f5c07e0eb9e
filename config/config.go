package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Recruiting backend (the system of record for meetings).
	BackendBaseURL string `mapstructure:"BACKEND_BASE_URL"`

	// Calendar provider endpoints, overridable so tests can point them at fakes.
	GraphBaseURL          string `mapstructure:"GRAPH_BASE_URL"`
	GoogleCalendarBaseURL string `mapstructure:"GOOGLE_CALENDAR_BASE_URL"`

	// Meeting defaults.
	DefaultUserInfoID int    `mapstructure:"DEFAULT_USER_INFO_ID"`
	MeetingTimezone   string `mapstructure:"MEETING_TIMEZONE"`

	// Outlook join-link polling.
	JoinLinkPollAttempts int `mapstructure:"JOINLINK_POLL_ATTEMPTS"`
	JoinLinkPollDelayMS  int `mapstructure:"JOINLINK_POLL_DELAY_MS"`

	// Session lifetime in hours.
	SessionTTLHours int `mapstructure:"SESSION_TTL_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("BACKEND_BASE_URL", "https://testbackend.recruitcrafts.com")
	viper.SetDefault("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0")
	viper.SetDefault("GOOGLE_CALENDAR_BASE_URL", "https://www.googleapis.com/calendar/v3")
	viper.SetDefault("DEFAULT_USER_INFO_ID", 356)
	viper.SetDefault("MEETING_TIMEZONE", "Europe/Istanbul")
	viper.SetDefault("JOINLINK_POLL_ATTEMPTS", 3)
	viper.SetDefault("JOINLINK_POLL_DELAY_MS", 500)
	viper.SetDefault("SESSION_TTL_HOURS", 12)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
