package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage. DBDriver is "mongo" or "memory".
	DBDriver     string `mapstructure:"DB_DRIVER"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Auth.
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	TokenTTLHours int    `mapstructure:"TOKEN_TTL_HOURS"`
	RequireAuth   bool   `mapstructure:"REQUIRE_AUTH"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	CacheEnabled         bool `mapstructure:"CACHE_ENABLED"`
	TutorCacheTTLSeconds int  `mapstructure:"TUTOR_CACHE_TTL_SECONDS"`

	// Booking lifecycle. CompletionPolicy is "none" or "time".
	CompletionPolicy     string `mapstructure:"COMPLETION_POLICY"`
	SessionLengthMinutes int    `mapstructure:"SESSION_LENGTH_MINUTES"`
	Timezone             string `mapstructure:"TIMEZONE"`
	PruneIntervalMinutes int    `mapstructure:"PRUNE_INTERVAL_MINUTES"`

	MetricsPrefix string `mapstructure:"METRICS_PREFIX"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DB_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("DATABASE_NAME", "studybuddy")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("REQUIRE_AUTH", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("TUTOR_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("COMPLETION_POLICY", "none")
	viper.SetDefault("SESSION_LENGTH_MINUTES", 60)
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("PRUNE_INTERVAL_MINUTES", 60)
	viper.SetDefault("METRICS_PREFIX", "studybuddy")
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	setDefaults()

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

// Location resolves TIMEZONE; unknown zones fall back to time.Local.
func Location() *time.Location {
	switch AppConfig.Timezone {
	case "", "Local":
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("unknown TIMEZONE %q, using local time", AppConfig.Timezone)
		return time.Local
	}
	return loc
}

func SessionLength() time.Duration {
	if AppConfig.SessionLengthMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(AppConfig.SessionLengthMinutes) * time.Minute
}

func TokenTTL() time.Duration {
	if AppConfig.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(AppConfig.TokenTTLHours) * time.Hour
}
