package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "github.com/bnema/yolka/internal/log"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "YOLKA"
	appDirName = "yolka"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Session  SessionConfig  `mapstructure:"session"`
	Render   RenderConfig   `mapstructure:"render"`
	Log      applog.Config  `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

type TelegramConfig struct {
	Token             string        `mapstructure:"token"`
	TokenRef          string        `mapstructure:"token_ref"`
	APIURL            string        `mapstructure:"api_url"`
	PollTimeout       time.Duration `mapstructure:"poll_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Greetings         []string      `mapstructure:"greetings"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type AssetsConfig struct {
	Dir string `mapstructure:"dir"`
}

type SessionConfig struct {
	Store       string        `mapstructure:"store"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
	SQLitePath  string        `mapstructure:"sqlite_path"`
}

type RenderConfig struct {
	Workers int `mapstructure:"workers"`
}

// SecretsConfig locates file-backed secrets referenced as file:<name>.
type SecretsConfig struct {
	Dir string `mapstructure:"dir"`
}

type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// Load reads config.toml from file (when set) or the default search paths,
// then applies YOLKA_* environment overrides. A missing config file is not an
// error; defaults cover everything except the bot token.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, appDirName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.token_ref", "")
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.poll_timeout", 30*time.Second)
	v.SetDefault("telegram.requests_per_second", 25.0)
	v.SetDefault("telegram.greetings", []string{"привет"})
	v.SetDefault("catalog.path", "candidates.toml")
	v.SetDefault("assets.dir", "img")
	v.SetDefault("session.store", StoreMemory)
	v.SetDefault("session.redis_addr", "127.0.0.1:6379")
	v.SetDefault("session.redis_prefix", "yolka:")
	v.SetDefault("session.redis_ttl", 24*time.Hour)
	v.SetDefault("session.sqlite_path", "yolka.db")
	v.SetDefault("render.workers", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.listen", "")
	v.SetDefault("secrets.dir", "/run/secrets")
}

func (c Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("unsupported session store %q", c.Session.Store)
	}
	if c.Render.Workers <= 0 {
		return fmt.Errorf("render.workers must be positive, got %d", c.Render.Workers)
	}
	if c.Telegram.RequestsPerSecond <= 0 {
		return fmt.Errorf("telegram.requests_per_second must be positive")
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog path is empty")
	}
	return nil
}
