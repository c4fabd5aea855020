package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	// Встроенная база часовых поясов для контейнеров без tzdata
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Режимы проверки токенов
const (
	AuthModeJWT    = "jwt"
	AuthModeRemote = "remote"
)

// Политики повторного входа при смене селекторов
const (
	ReentrancyReject = "reject"
	ReentrancyLatest = "latest"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Cache     CacheConfig     `toml:"cache"`
	Events    EventsConfig    `toml:"events"`
	Booking   BookingConfig   `toml:"booking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения в формате postgres:// (для golang-migrate)
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig проверка access-токенов провайдера аутентификации.
// mode = "jwt": локальная проверка подписи HS256 общим секретом.
// mode = "remote": запрос GET {provider_url}/auth/v1/user с токеном пользователя.
type AuthConfig struct {
	Mode        string `toml:"mode"`
	JWTSecret   string `toml:"jwt_secret"`
	Audience    string `toml:"audience"`
	ProviderURL string `toml:"provider_url"`
	APIKey      string `toml:"api_key"`
	Timeout     int    `toml:"timeout"`
}

type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
	KeyPrefix  string `toml:"key_prefix"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type BookingConfig struct {
	Timezone          string `toml:"timezone"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	Reentrancy        string `toml:"reentrancy"`
}

// Location часовой пояс клиники, в котором считается "сегодня"
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

func (b BookingConfig) SessionTTL() time.Duration {
	return time.Duration(b.SessionTTLMinutes) * time.Minute
}

type RateLimitConfig struct {
	ConfirmRPS   float64 `toml:"confirm_rps"`
	ConfirmBurst int     `toml:"confirm_burst"`
}

// Default значения, применяемые до чтения файла
func Default() *Config {
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
			User:            "postgres",
			DBName:          "clinic",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "clinic-booking",
		},
		Auth: AuthConfig{
			Mode:     AuthModeJWT,
			Audience: "authenticated",
			Timeout:  5,
		},
		Cache: CacheConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 300,
			KeyPrefix:  "clinic:",
		},
		Events: EventsConfig{
			Exchange: "clinic.appointments",
		},
		Booking: BookingConfig{
			Timezone:          "America/Argentina/Buenos_Aires",
			SessionTTLMinutes: 30,
			Reentrancy:        ReentrancyReject,
		},
		RateLimit: RateLimitConfig{
			ConfirmRPS:   1,
			ConfirmBurst: 3,
		},
	}
}

// Load читает TOML-файл поверх значений по умолчанию.
// Секреты можно переопределить переменными окружения, в том числе из файла .env.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_PASSWORD":     &c.Database.Password,
		"AUTH_JWT_SECRET": &c.Auth.JWTSecret,
		"AUTH_API_KEY":    &c.Auth.APIKey,
		"CACHE_PASSWORD":  &c.Cache.Password,
		"EVENTS_URL":      &c.Events.URL,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*target = v
		}
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}

	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			problems = append(problems, "auth.jwt_secret is required in jwt mode")
		}
	case AuthModeRemote:
		if c.Auth.ProviderURL == "" {
			problems = append(problems, "auth.provider_url is required in remote mode")
		}
	default:
		problems = append(problems, fmt.Sprintf("auth.mode %q is not supported", c.Auth.Mode))
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		problems = append(problems, "cache.addr is required when cache is enabled")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		problems = append(problems, "events.url is required when events are enabled")
	}

	if _, err := c.Booking.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone: %v", err))
	}
	if c.Booking.SessionTTLMinutes <= 0 {
		problems = append(problems, "booking.session_ttl_minutes must be positive")
	}
	if c.Booking.Reentrancy != ReentrancyReject && c.Booking.Reentrancy != ReentrancyLatest {
		problems = append(problems, fmt.Sprintf("booking.reentrancy %q is not supported", c.Booking.Reentrancy))
	}

	if c.RateLimit.ConfirmRPS <= 0 || c.RateLimit.ConfirmBurst <= 0 {
		problems = append(problems, "rate_limit values must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
