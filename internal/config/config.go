package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/config"
)

type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	StatusAPI StatusAPIConfig `yaml:"status_api"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Broker    BrokerConfig    `yaml:"broker"`
	Retry     RetryConfig     `yaml:"retry"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	SMS       SMSConfig       `yaml:"sms"`
	Push      PushConfig      `yaml:"push"`
}

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type GatewayConfig struct {
	Port              int `yaml:"port"`
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type StatusAPIConfig struct {
	Port        int           `yaml:"port"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	RecentHours int           `yaml:"recent_hours"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConns        int           `yaml:"max_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectRetries  int           `yaml:"connect_retries"`
	ConnectDelay    time.Duration `yaml:"connect_delay"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type BrokerConfig struct {
	Brokers        []string      `yaml:"brokers"`
	GroupIDPrefix  string        `yaml:"group_id_prefix"`
	ConnectRetries int           `yaml:"connect_retries"`
	ConnectDelay   time.Duration `yaml:"connect_delay"`
	RestartDelay   time.Duration `yaml:"restart_delay"`
}

type RetryConfig struct {
	MaxRetries int             `yaml:"max_retries"`
	Delays     []time.Duration `yaml:"delays"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	UseTLS    bool   `yaml:"use_tls"`
	TestMode  bool   `yaml:"test_mode"`
}

type SMSConfig struct {
	GatewayURL string        `yaml:"gateway_url"`
	APIToken   string        `yaml:"api_token"`
	Sender     string        `yaml:"sender"`
	Timeout    time.Duration `yaml:"timeout"`
	TestMode   bool          `yaml:"test_mode"`
}

type PushConfig struct {
	EndpointURL string        `yaml:"endpoint_url"`
	Timeout     time.Duration `yaml:"timeout"`
	TestMode    bool          `yaml:"test_mode"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	configPath := getEnv("CONFIG_PATH", "./config/base.yaml")

	provider, err := config.NewYAML(
		config.File(configPath),
		config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() {
	if val := os.Getenv("SERVICE_NAME"); val != "" {
		c.Service.Name = val
	}
	if val := os.Getenv("SERVICE_ENVIRONMENT"); val != "" {
		c.Service.Environment = val
	}
	if val := os.Getenv("DATABASE_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DATABASE_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DATABASE_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DATABASE_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DATABASE_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DATABASE_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}
	if val := os.Getenv("BROKER_ADDR"); val != "" {
		c.Broker.Brokers = []string{val}
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USERNAME"); val != "" {
		c.SMTP.Username = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM_EMAIL"); val != "" {
		c.SMTP.FromEmail = val
	}
	if val := os.Getenv("SMS_GATEWAY_URL"); val != "" {
		c.SMS.GatewayURL = val
	}
	if val := os.Getenv("SMS_API_TOKEN"); val != "" {
		c.SMS.APIToken = val
	}
	if val := os.Getenv("PUSH_ENDPOINT_URL"); val != "" {
		c.Push.EndpointURL = val
	}
	if val := os.Getenv("TEST_MODE"); val != "" {
		if testMode, err := strconv.ParseBool(val); err == nil {
			c.SMTP.TestMode = testMode
			c.SMS.TestMode = testMode
			c.Push.TestMode = testMode
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8080
	}
	if c.Gateway.RequestsPerMinute == 0 {
		c.Gateway.RequestsPerMinute = 300
	}
	if c.StatusAPI.Port == 0 {
		c.StatusAPI.Port = 8081
	}
	if c.StatusAPI.CacheTTL == 0 {
		c.StatusAPI.CacheTTL = 5 * time.Second
	}
	if c.StatusAPI.RecentHours == 0 {
		c.StatusAPI.RecentHours = 24
	}
	if c.Database.ConnectRetries == 0 {
		c.Database.ConnectRetries = 10
	}
	if c.Database.ConnectDelay == 0 {
		c.Database.ConnectDelay = 5 * time.Second
	}
	if c.Broker.ConnectRetries == 0 {
		c.Broker.ConnectRetries = 5
	}
	if c.Broker.ConnectDelay == 0 {
		c.Broker.ConnectDelay = 5 * time.Second
	}
	if c.Broker.RestartDelay == 0 {
		c.Broker.RestartDelay = 2 * time.Second
	}
	if c.Broker.GroupIDPrefix == "" {
		c.Broker.GroupIDPrefix = "notification-pipeline"
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 3
	}
	if len(c.Retry.Delays) == 0 {
		c.Retry.Delays = []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second}
	}
	if c.SMS.Timeout == 0 {
		c.SMS.Timeout = 30 * time.Second
	}
	if c.Push.Timeout == 0 {
		c.Push.Timeout = 10 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Retry.MaxRetries < 1 {
		return fmt.Errorf("retry.max_retries must be at least 1, got %d", c.Retry.MaxRetries)
	}
	if len(c.Retry.Delays) < c.Retry.MaxRetries-1 {
		return fmt.Errorf("retry.delays must have at least max_retries-1 entries, got %d for %d retries",
			len(c.Retry.Delays), c.Retry.MaxRetries)
	}
	if len(c.Broker.Brokers) == 0 {
		return fmt.Errorf("broker.brokers must not be empty")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string in URL format for pgx/v5
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
