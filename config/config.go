package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	StorageFile = "file"
	StorageDB   = "db"
)

type Config struct {
	Mode    string `mapstructure:"mode"`
	Dotenv  string `mapstructure:"dotenv"`
	Storage struct {
		Type     string `mapstructure:"type"`
		FilePath string `mapstructure:"filePath"`
	} `mapstructure:"storage"`
	Handlers struct {
		Prometheus struct {
			Enabled bool   `mapstructure:"enabled"`
			Port    string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		Host           string        `mapstructure:"host"`
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		StatsCacheTTL  time.Duration `mapstructure:"statsCacheTTL"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"mode":                           "APP_ENV",
	"server.host":                    "HBNB_API_HOST",
	"server.httpport":                "HBNB_API_PORT",
	"storage.type":                   "HBNB_TYPE_STORAGE",
	"storage.filepath":               "HBNB_FILE_PATH",
	"repositories.postgres.host":     "HBNB_PG_HOST",
	"repositories.postgres.port":     "HBNB_PG_PORT",
	"repositories.postgres.username": "HBNB_PG_USER",
	"repositories.postgres.password": "HBNB_PG_PWD",
	"repositories.postgres.db":       "HBNB_PG_DB",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) validate() error {
	c.Storage.Type = strings.ToLower(strings.TrimSpace(c.Storage.Type))
	switch c.Storage.Type {
	case "", StorageFile:
		c.Storage.Type = StorageFile
	case StorageDB:
	default:
		return fmt.Errorf("unsupported storage type %q (want %q or %q)", c.Storage.Type, StorageFile, StorageDB)
	}
	if c.Server.HTTPPort == "" {
		c.Server.HTTPPort = "5000"
	}
	return nil
}

// IsDevelopment reports whether human-readable logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.Mode == "" || c.Mode == "development"
}
