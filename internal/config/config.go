package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const appName = "lazycerulean"

type Config struct {
	Homeserver    string        `env:"CERULEAN_HOMESERVER,required=true" validate:"required,http_url"`
	UserID        string        `env:"CERULEAN_USER_ID" validate:"omitempty,startswith=@,contains=:"`
	WithReplies   bool          `env:"CERULEAN_WITH_REPLIES"`
	PageSize      int           `env:"CERULEAN_PAGE_SIZE,default=100" validate:"min=1,max=1000"`
	SyncTimeout   time.Duration `env:"CERULEAN_SYNC_TIMEOUT,default=30s"`
	HTTPTimeout   time.Duration `env:"CERULEAN_HTTP_TIMEOUT,default=40s" validate:"gtfield=SyncTimeout"`
	PermalinkBase string        `env:"CERULEAN_PERMALINK_BASE" validate:"omitempty,http_url"`
	LogFile       string        `env:"CERULEAN_LOG_FILE"`
	LogLevel      string        `env:"CERULEAN_LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	MetricsAddr   string        `env:"CERULEAN_METRICS_ADDR" validate:"omitempty,hostname_port"`
	CacheDir      string        `env:"CERULEAN_CACHE_DIR"`
	Debug         string        `env:"DEBUG"`
}

var validate = validator.New()

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one.
func Load() (Config, error) {
	_ = godotenv.Load()

	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	return FromEnvSet(es)
}

func FromEnvSet(es env.EnvSet) (Config, error) {
	var c Config
	if err := env.Unmarshal(es, &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	if c.CacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return Config{}, fmt.Errorf("find cache dir: %w", err)
		}

		c.CacheDir = filepath.Join(dir, appName)
	}

	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.CacheDir, appName+".log")
	}

	return c, nil
}

// Debugging reports whether every message should be printed above the UI.
func (c Config) Debugging() bool {
	return c.Debug != ""
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}
