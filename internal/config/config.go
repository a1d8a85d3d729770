package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// SQLitePath replaces MySQL when set (local runs).
	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	NATSURL           string
	NATSSubjectPrefix string

	LogLevel string
}

var defaults = map[string]any{
	"APP_PORT":                "8080",
	"MYSQL_HOST":              "mysql",
	"MYSQL_PORT":              "3306",
	"MYSQL_DB":                "syndication",
	"MYSQL_USER":              "syndication",
	"MYSQL_PASS":              "syndication",
	"SQLITE_PATH":             "",
	"REDIS_ADDR":              "redis:6379",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"NATS_URL":                "",
	"NATS_SUBJECT_PREFIX":     "syndication.events",
	"LOG_LEVEL":               "info",
}

// Load reads the environment, optionally layered over a config file
// (any format viper understands, keyed like the env vars).
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	return &Config{
		AppPort:           v.GetString("APP_PORT"),
		MySQLHost:         v.GetString("MYSQL_HOST"),
		MySQLPort:         v.GetString("MYSQL_PORT"),
		MySQLDB:           v.GetString("MYSQL_DB"),
		MySQLUser:         v.GetString("MYSQL_USER"),
		MySQLPass:         v.GetString("MYSQL_PASS"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisDB:           v.GetInt("REDIS_DB"),
		IdempTTLSecs:      v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		NATSURL:           v.GetString("NATS_URL"),
		NATSSubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}, nil
}

func (c *Config) Validate() error {
	if c.SQLitePath == "" {
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime is needed for DATETIME columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
