package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	HTTPTimeout    time.Duration
	LogLevel       slog.Level
	LogFormat      string
	ExportFilename string
	TopRegions     int
}

// NewViper reads settings from the environment, an optional .env file and
// an optional novaretail.{yaml,toml} in the working directory.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("novaretail")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("export_filename", "novaretail_data_oct2025.csv")
	v.SetDefault("top_regions", 5)
	return v
}

func FromViper(v *viper.Viper) Config {
	to := 15 * time.Second
	if n := v.GetInt("http_timeout_seconds"); n > 0 {
		to = time.Duration(n) * time.Second
	}
	return Config{
		Port:           v.GetString("port"),
		HTTPTimeout:    to,
		LogLevel:       ParseLevel(v.GetString("log_level")),
		LogFormat:      strings.ToLower(v.GetString("log_format")),
		ExportFilename: v.GetString("export_filename"),
		TopRegions:     v.GetInt("top_regions"),
	}
}

func FromEnv() Config {
	v := NewViper()
	_ = v.ReadInConfig()
	return FromViper(v)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
