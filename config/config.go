package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string  `mapstructure:"driver"`
	Host       string  `mapstructure:"host"`
	Port       int     `mapstructure:"port"`
	DBName     string  `mapstructure:"dbname"`
	User_DB    string  `mapstructure:"userdb"`
	PasswordDB string  `mapstructure:"passworddb"`
	SQLitePath string  `mapstructure:"sqlite_path"`
	HTTPAddr   string  `mapstructure:"http_addr"`
	Admins     []int64 `mapstructure:"admins"`
	TgApiToken string  `mapstructure:"tg_api_token"`
	LogLevel   string  `mapstructure:"log_level"`
	LogPretty  bool    `mapstructure:"log_pretty"`
}

// InitConfig reads config.yaml from dir (./config when empty). Every key can
// be overridden from the environment, e.g. SOCCERMEMO_TG_API_TOKEN.
func InitConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = "./config"
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("SOCCERMEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("init config: %w", err)
		}
		// no file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", DriverSQLite)
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 5432)
	v.SetDefault("dbname", "soccer_memo")
	v.SetDefault("sqlite_path", "soccer-memo.db")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	// keys without a default still need an env binding for Unmarshal
	for _, key := range []string{"userdb", "passworddb", "tg_api_token", "admins", "log_pretty"} {
		_ = v.BindEnv(key)
	}
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" {
			return errors.New("config: postgres driver needs host and dbname")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: sqlite driver needs sqlite_path")
		}
	default:
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
	return nil
}

// DSN is the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.Host, c.User_DB, c.PasswordDB, c.DBName, c.Port)
}

// IsAdmin reports whether chatID may change records through the bot.
func (c *Config) IsAdmin(chatID int64) bool {
	for _, admin := range c.Admins {
		if admin == chatID {
			return true
		}
	}
	return false
}
