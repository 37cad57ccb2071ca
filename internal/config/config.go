package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML-файла при старте
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Payments      PaymentsConfig      `toml:"payments"`
	Sweeper       SweeperConfig       `toml:"sweeper"`
	Tenancy       TenancyConfig       `toml:"tenancy"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN собирает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// PaymentsConfig настройки интеграции с платёжным процессором
type PaymentsConfig struct {
	GatewayURL       string `toml:"gateway_url"`
	Timeout          int    `toml:"timeout"` // seconds
	WebhookSecret    string `toml:"webhook_secret"`
	Currency         string `toml:"currency"` // ISO 4217
	MinDepositMinor  int64  `toml:"min_deposit_minor"`  // Минимальный депозит в минорных единицах
	DepositTTLMinute int    `toml:"deposit_ttl_minute"` // Срок жизни pending-бронирования без оплаты
}

// SweeperConfig настройки фоновой уборки просроченных бронирований
type SweeperConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
	BatchLimit      int  `toml:"batch_limit"`
}

// TenancyConfig настройки определения tenant по запросу
type TenancyConfig struct {
	// IgnoredSubdomains поддомены, которые не считаются slug (www, api и т.п.)
	IgnoredSubdomains []string `toml:"ignored_subdomains"`
}

// NotificationsConfig настройки отправки уведомлений
type NotificationsConfig struct {
	Enabled          bool   `toml:"enabled"`
	TwilioAccountSID string `toml:"twilio_account_sid"`
	TwilioAuthToken  string `toml:"twilio_auth_token"`
	TwilioFromNumber string `toml:"twilio_from_number"`
}

// Load загружает конфигурацию из TOML-файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
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
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "barber-booking"
	}
	if c.Payments.Timeout == 0 {
		c.Payments.Timeout = 10
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = "RUB"
	}
	if c.Payments.MinDepositMinor == 0 {
		c.Payments.MinDepositMinor = 50
	}
	if c.Payments.DepositTTLMinute == 0 {
		c.Payments.DepositTTLMinute = 15
	}
	if c.Sweeper.IntervalSeconds == 0 {
		c.Sweeper.IntervalSeconds = 60
	}
	if c.Sweeper.BatchLimit == 0 {
		c.Sweeper.BatchLimit = 100
	}
	if len(c.Tenancy.IgnoredSubdomains) == 0 {
		c.Tenancy.IgnoredSubdomains = []string{"www", "api", "localhost"}
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Payments.GatewayURL == "" {
		return fmt.Errorf("config: payments.gateway_url is required")
	}
	if c.Payments.WebhookSecret == "" {
		return fmt.Errorf("config: payments.webhook_secret is required")
	}
	return nil
}
