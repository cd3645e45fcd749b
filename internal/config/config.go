package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	BusinessService BusinessServiceConfig `toml:"business_service"`
	RateLimit       RateLimitConfig       `toml:"rate_limit"`
	Redis           RedisConfig           `toml:"redis"`
	Jobs            JobsConfig            `toml:"jobs"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BusinessServiceConfig настройки клиента каталога бизнесов
type BusinessServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды

	// Circuit breaker
	BreakerMaxRequests         uint32 `toml:"breaker_max_requests"`
	BreakerInterval            int    `toml:"breaker_interval"` // секунды
	BreakerTimeout             int    `toml:"breaker_timeout"`  // секунды
	BreakerConsecutiveFailures uint32 `toml:"breaker_consecutive_failures"`
}

// RateLimitConfig ограничение частоты запросов к публичному расчету слотов
type RateLimitConfig struct {
	Enabled  bool `toml:"enabled"`
	Requests int  `toml:"requests"` // запросов на клиента за окно
	Window   int  `toml:"window"`   // секунды
	// Прокси, от которых принимается X-Forwarded-For (CIDR или IP)
	TrustedProxies []string `toml:"trusted_proxies"`
}

// RedisConfig подключение к Redis (счетчики rate limit)
// Если выключен, лимит считается в памяти процесса
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// JobsConfig фоновые задачи
type JobsConfig struct {
	// ExpirePendingSchedule cron-выражение; пустое значение выключает задачу
	ExpirePendingSchedule string `toml:"expire_pending_schedule"`
	PendingTTL            int    `toml:"pending_ttl"` // минуты
}

// Load читает конфигурацию из TOML файла
// Перед чтением подгружается .env (если есть), секреты переопределяются переменными окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "slot_scheduler",
		},
		BusinessService: BusinessServiceConfig{
			Timeout:                    5,
			BreakerMaxRequests:         1,
			BreakerInterval:            60,
			BreakerTimeout:             30,
			BreakerConsecutiveFailures: 5,
		},
		RateLimit: RateLimitConfig{
			Requests: 60,
			Window:   60,
		},
		Jobs: JobsConfig{
			PendingTTL: 30,
		},
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database.host, database.user and database.dbname are required")
	}
	if c.BusinessService.URL == "" {
		problems = append(problems, "business_service.url is required")
	}
	if c.BusinessService.Timeout <= 0 {
		problems = append(problems, "business_service.timeout must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		problems = append(problems, "rate_limit.requests and rate_limit.window must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Jobs.ExpirePendingSchedule != "" && c.Jobs.PendingTTL <= 0 {
		problems = append(problems, "jobs.pending_ttl must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Seconds переводит целое количество секунд в time.Duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
