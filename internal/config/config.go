package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatasetConfig locates the local dataset copy and its remote origin.
type DatasetConfig struct {
	Path           string
	BaseURL        string
	FileID         string
	ExpectedSize   int64
	Refresh        bool
	RetryMax       int
	RetryWait      time.Duration
	ConnectTimeout time.Duration
	HeaderTimeout  time.Duration
	UserAgent      string
}

// DatabaseConfig is optional. An empty host disables the snapshot export.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Enabled reports whether a database was configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

func Load() (*Config, error) {
	// A missing .env is fine; real env vars always win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("DATASET_PATH", "data/TMDB_movie_dataset_v11.csv")
	v.SetDefault("DATASET_BASE_URL", "https://drive.google.com")
	v.SetDefault("DATASET_FILE_ID", "1_yoz0hHydQkJKt8qNMFxykHJ0UOjj1hB")
	v.SetDefault("DATASET_EXPECTED_SIZE", 0)
	v.SetDefault("DATASET_REFRESH", false)
	v.SetDefault("DATASET_RETRY_MAX", 0)
	v.SetDefault("DATASET_RETRY_WAIT", "2s")
	v.SetDefault("DATASET_CONNECT_TIMEOUT", "30s")
	v.SetDefault("DATASET_HEADER_TIMEOUT", "60s")
	v.SetDefault("DATASET_USER_AGENT", "cinescope/1.0")
	v.SetDefault("DATABASE_HOST", "")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "cinescope")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 4)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 1)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "DATASET_RETRY_WAIT",
		"DATASET_CONNECT_TIMEOUT", "DATASET_HEADER_TIMEOUT", "DATABASE_CONN_MAX_LIFETIME",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			ReadTimeout:  durations["SERVER_READ_TIMEOUT"],
			WriteTimeout: durations["SERVER_WRITE_TIMEOUT"],
		},
		Dataset: DatasetConfig{
			Path:           v.GetString("DATASET_PATH"),
			BaseURL:        v.GetString("DATASET_BASE_URL"),
			FileID:         v.GetString("DATASET_FILE_ID"),
			ExpectedSize:   v.GetInt64("DATASET_EXPECTED_SIZE"),
			Refresh:        v.GetBool("DATASET_REFRESH"),
			RetryMax:       v.GetInt("DATASET_RETRY_MAX"),
			RetryWait:      durations["DATASET_RETRY_WAIT"],
			ConnectTimeout: durations["DATASET_CONNECT_TIMEOUT"],
			HeaderTimeout:  durations["DATASET_HEADER_TIMEOUT"],
			UserAgent:      v.GetString("DATASET_USER_AGENT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DATABASE_CONN_MAX_LIFETIME"],
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("DATASET_PATH must not be empty")
	}
	if cfg.Dataset.RetryMax < 0 {
		return nil, fmt.Errorf("DATASET_RETRY_MAX must not be negative")
	}

	return cfg, nil
}
