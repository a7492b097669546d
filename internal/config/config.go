package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

const defaultCommissionPercent = 20

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при недопустимых значениях
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса (config.toml + переменные окружения для секретов)
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Auth        AuthConfig        `toml:"auth"`
	UserService UserServiceConfig `toml:"user_service"`
	Redis       RedisConfig       `toml:"redis"`
	Cache       CacheConfig       `toml:"cache"`
	Broker      BrokerConfig      `toml:"broker"`
	Outbox      OutboxConfig      `toml:"outbox"`
	Payments    PaymentsConfig    `toml:"payments"`
	Stripe      StripeConfig      `toml:"stripe"`
	Coinbase    CoinbaseConfig    `toml:"coinbase"`
	Brevo       BrevoConfig       `toml:"brevo"`
}

type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	ReadTimeout     int    `toml:"read_timeout"`     // секунды
	WriteTimeout    int    `toml:"write_timeout"`    // секунды
	IdleTimeout     int    `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int    `toml:"shutdown_timeout"` // секунды
	Timezone        string `toml:"timezone"`         // IANA имя, пусто = локальное время сервера
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
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

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type CacheConfig struct {
	AvailabilityTTL int `toml:"availability_ttl"` // секунды
}

type BrokerConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Queue   string `toml:"queue"`
}

type OutboxConfig struct {
	PollInterval int `toml:"poll_interval"` // миллисекунды
	BatchSize    int `toml:"batch_size"`
	MaxAttempts  int `toml:"max_attempts"`
	BaseBackoff  int `toml:"base_backoff"` // секунды
	MaxBackoff   int `toml:"max_backoff"`  // секунды
}

type PaymentsConfig struct {
	// nil - ключ не задан и берётся значение по умолчанию; явный 0 означает платформу без комиссии
	CommissionPercent *float64 `toml:"commission_percent"`
	SuccessURL        string   `toml:"success_url"`
	CancelURL         string   `toml:"cancel_url"`
}

type StripeConfig struct {
	SecretKey     string `toml:"secret_key"`
	WebhookSecret string `toml:"webhook_secret"`
}

type CoinbaseConfig struct {
	URL           string `toml:"url"`
	APIKey        string `toml:"api_key"`
	WebhookSecret string `toml:"webhook_secret"`
	Timeout       int    `toml:"timeout"` // секунды
}

type BrevoConfig struct {
	URL         string `toml:"url"`
	APIKey      string `toml:"api_key"`
	SenderName  string `toml:"sender_name"`
	SenderEmail string `toml:"sender_email"`
	SMSSender   string `toml:"sms_sender"`
	Timeout     int    `toml:"timeout"` // секунды
}

// Load читает TOML файл, подмешивает секреты из окружения (.env, если есть) и проставляет значения по умолчанию
func Load(path string) (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_PASSWORD":             &c.Database.Password,
		"JWT_SECRET":              &c.Auth.JWTSecret,
		"STRIPE_SECRET_KEY":       &c.Stripe.SecretKey,
		"STRIPE_WEBHOOK_SECRET":   &c.Stripe.WebhookSecret,
		"COINBASE_API_KEY":        &c.Coinbase.APIKey,
		"COINBASE_WEBHOOK_SECRET": &c.Coinbase.WebhookSecret,
		"BREVO_API_KEY":           &c.Brevo.APIKey,
		"RABBITMQ_URL":            &c.Broker.URL,
		"REDIS_PASSWORD":          &c.Redis.Password,
	}
	for env, target := range overrides {
		if v := os.Getenv(env); v != "" {
			*target = v
		}
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "reservation_service"
	}

	setDefault(&c.UserService.Timeout, 5)
	setDefault(&c.Cache.AvailabilityTTL, 60)
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Broker.Queue == "" {
		c.Broker.Queue = "reservation.notifications"
	}

	setDefault(&c.Outbox.PollInterval, 1000)
	setDefault(&c.Outbox.BatchSize, 50)
	setDefault(&c.Outbox.MaxAttempts, 10)
	setDefault(&c.Outbox.BaseBackoff, 2)
	setDefault(&c.Outbox.MaxBackoff, 300)

	if c.Payments.CommissionPercent == nil {
		c.Payments.CommissionPercent = ptr.Ptr(float64(defaultCommissionPercent))
	}

	if c.Coinbase.URL == "" {
		c.Coinbase.URL = "https://api.commerce.coinbase.com"
	}
	setDefault(&c.Coinbase.Timeout, 10)
	if c.Brevo.URL == "" {
		c.Brevo.URL = "https://api.brevo.com/v3"
	}
	setDefault(&c.Brevo.Timeout, 10)
}

// Validate проверяет значения, без которых сервис не может работать корректно
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Server.Timezone != "" {
		if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
			return fmt.Errorf("%w: server.timezone=%q: %v", ErrInvalidConfig, c.Server.Timezone, err)
		}
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret (or JWT_SECRET) is required", ErrInvalidConfig)
	}
	if pct := ptr.Value(c.Payments.CommissionPercent); pct < 0 || pct > 100 {
		return fmt.Errorf("%w: payments.commission_percent=%v", ErrInvalidConfig, pct)
	}
	if c.Outbox.MaxBackoff < c.Outbox.BaseBackoff {
		return fmt.Errorf("%w: outbox.max_backoff < outbox.base_backoff", ErrInvalidConfig)
	}
	if c.Stripe.SecretKey != "" && c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("%w: stripe.webhook_secret (or STRIPE_WEBHOOK_SECRET) is required when stripe is configured", ErrInvalidConfig)
	}
	if c.Coinbase.APIKey != "" && c.Coinbase.WebhookSecret == "" {
		return fmt.Errorf("%w: coinbase.webhook_secret (or COINBASE_WEBHOOK_SECRET) is required when coinbase is configured", ErrInvalidConfig)
	}
	if c.Broker.Enabled && c.Broker.URL == "" {
		return fmt.Errorf("%w: broker.url (or RABBITMQ_URL) is required when broker is enabled", ErrInvalidConfig)
	}
	return nil
}

// Location часовой пояс, в котором считается "сегодня" для генерации слотов
func (c *Config) Location() *time.Location {
	if c.Server.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
