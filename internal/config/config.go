package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Engine   EngineConfig   `toml:"engine"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// EngineConfig настройки движка доступности
type EngineConfig struct {
	// Timezone единственный гражданский часовой пояс системы
	Timezone             string `toml:"timezone"`
	HoldTTLSeconds       int    `toml:"hold_ttl_seconds"`
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"`
}

// Load читает конфигурацию из TOML файла.
// Перед этим подгружает .env (если есть); переменные окружения перекрывают значения из файла.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Location возвращает часовой пояс движка
func (c EngineConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: engine.timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// HoldTTL время жизни удержания, всегда domain.DefaultHoldTTL после Validate
func (c EngineConfig) HoldTTL() time.Duration {
	return time.Duration(c.HoldTTLSeconds) * time.Second
}

// SweepInterval период фоновой очистки, 0 - очистка выключена
func (c EngineConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Engine.HoldTTL() != domain.DefaultHoldTTL {
		return fmt.Errorf("%w: engine.hold_ttl_seconds is fixed at %d", ErrInvalidConfig, int(domain.DefaultHoldTTL/time.Second))
	}
	if c.Engine.SweepIntervalSeconds < 0 {
		return fmt.Errorf("%w: engine.sweep_interval_seconds must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Engine.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "resource-allocation"
	}
	if c.Engine.Timezone == "" {
		c.Engine.Timezone = "UTC"
	}
	if c.Engine.HoldTTLSeconds == 0 {
		c.Engine.HoldTTLSeconds = int(domain.DefaultHoldTTL / time.Second)
	}
}

// applyEnv перекрывает секреты и адреса значениями из окружения
func (c *Config) applyEnv() error {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setString(&c.Engine.Timezone, "ENGINE_TIMEZONE")

	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Server.HTTPPort, "HTTP_PORT"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}
