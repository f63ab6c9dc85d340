package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `yaml:"app" mapstructure:"app"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
}

type AppConfig struct {
	Environment string `yaml:"environment" mapstructure:"environment"`
	LogLevel    string `yaml:"log_level" mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"db_name" mapstructure:"db_name"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxConns int    `yaml:"max_conns" mapstructure:"max_conns"`
}

type RedisConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type AnalyticsConfig struct {
	// TopCategoriesLimit caps the ranked category list on every metric row.
	TopCategoriesLimit int `yaml:"top_categories_limit" mapstructure:"top_categories_limit"`

	// HourlyRetentionDays is how long hourly metric rows are kept before
	// the daily cleanup removes them.
	HourlyRetentionDays int `yaml:"hourly_retention_days" mapstructure:"hourly_retention_days"`

	// DailyRetentionDays of 0 keeps daily metric rows indefinitely.
	DailyRetentionDays int `yaml:"daily_retention_days" mapstructure:"daily_retention_days"`

	// DailyRunHour is the UTC hour at which the daily pipeline aggregates
	// the just-completed calendar day.
	DailyRunHour int `yaml:"daily_run_hour" mapstructure:"daily_run_hour"`
}

func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 20)
	viper.SetDefault("analytics.top_categories_limit", 5)
	viper.SetDefault("analytics.hourly_retention_days", 90)
	viper.SetDefault("analytics.daily_retention_days", 0)
	viper.SetDefault("analytics.daily_run_hour", 2)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Database.Host = getEnv("DB_HOST", config.Database.Host)
	config.Database.User = getEnv("DB_USER", config.Database.User)
	config.Database.Password = getEnv("DB_PASSWORD", config.Database.Password)
	config.Database.DBName = getEnv("DB_NAME", config.Database.DBName)
	config.Database.Port = getEnv("DB_PORT", config.Database.Port)
	config.Redis.Password = getEnv("REDIS_PASSWORD", config.Redis.Password)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}

	if c.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database.db_name is required")
	}

	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required")
	}

	// Redis is required in production; development can run without the
	// cache (realtime snapshots are simply not published).
	if c.App.Environment == "production" {
		if c.Redis.Host == "" {
			return fmt.Errorf("redis.host is required for production")
		}

		if c.Redis.Port == "" {
			return fmt.Errorf("redis.port is required for production")
		}
	}

	if c.Analytics.TopCategoriesLimit <= 0 {
		return fmt.Errorf("analytics.top_categories_limit must be positive")
	}

	if c.Analytics.HourlyRetentionDays < 1 {
		return fmt.Errorf("analytics.hourly_retention_days must be at least 1")
	}

	if c.Analytics.DailyRetentionDays < 0 {
		return fmt.Errorf("analytics.daily_retention_days must not be negative")
	}

	if c.Analytics.DailyRunHour < 0 || c.Analytics.DailyRunHour > 23 {
		return fmt.Errorf("analytics.daily_run_hour must be between 0 and 23")
	}

	return nil
}

func (c *Config) SafeString() string {
	return fmt.Sprintf(`Config:
		Environment: %s
		Log Level: %s

		Database:
			Host: %s:%s
			User: %s
			Database: %s
			SSL Mode: %s
			Max Connections: %d

		Redis:
			Host: %s:%s
			Database: %d
			Password: %s

		Analytics:
			Top Categories Limit: %d
			Hourly Retention: %d days
			Daily Retention: %d days
			Daily Run Hour: %02d:00 UTC
		`,
		c.App.Environment,
		c.App.LogLevel,
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.DBName,
		c.Database.SSLMode,
		c.Database.MaxConns,
		c.Redis.Host,
		c.Redis.Port,
		c.Redis.DB,
		maskSecret(c.Redis.Password),
		c.Analytics.TopCategoriesLimit,
		c.Analytics.HourlyRetentionDays,
		c.Analytics.DailyRetentionDays,
		c.Analytics.DailyRunHour,
	)
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}

	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}

	return s[:4] + "..." + s[len(s)-4:]
}
