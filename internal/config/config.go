package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration for both binaries.
type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Rates struct {
		URL string        `mapstructure:"url"`
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"rates"`
	Alerts struct {
		DiscordWebhookURL string `mapstructure:"discordWebhookUrl"`
		EmailAPIURL       string `mapstructure:"emailApiUrl"`
		EmailAPIKey       string `mapstructure:"emailApiKey"`
		EmailFrom         string `mapstructure:"emailFrom"`
	} `mapstructure:"alerts"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
}

// LoadConfig loads configuration from config.yml and the environment.
func LoadConfig(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// Best-effort: a missing .env file is fine, the environment wins.
		_ = godotenv.Load(path)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("rates.ttl", time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional when everything comes from env vars.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	bindEnvOverrides()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindEnvOverrides maps the flat environment variable names used in
// deployment onto the nested config keys.
func bindEnvOverrides() {
	for key, env := range map[string]string{
		"app.port":                 "APP_PORT",
		"app.env":                  "APP_ENV",
		"database.dsn":             "DATABASE_DSN",
		"redis.addr":               "REDIS_ADDR",
		"redis.password":           "REDIS_PASSWORD",
		"kafka.brokers":            "KAFKA_BROKERS",
		"rates.url":                "RATES_URL",
		"alerts.discordWebhookUrl": "DISCORD_WEBHOOK_URL",
		"alerts.emailApiUrl":       "EMAIL_API_URL",
		"alerts.emailApiKey":       "EMAIL_API_KEY",
		"alerts.emailFrom":         "EMAIL_FROM",
		"auth.jwtSecret":           "JWT_SECRET",
	} {
		_ = viper.BindEnv(key, env)
	}
}
