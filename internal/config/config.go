package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

// Backend is the upstream REST API every storefront call is forwarded to.
type Backend struct {
	BaseURL string        `yaml:"BASE_URL" env:"BACKEND_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"TIMEOUT" env:"BACKEND_TIMEOUT" env-default:"15s"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-required:"true"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-required:"true"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"168h"`
}

type Session struct {
	CookieName string        `yaml:"COOKIE_NAME" env:"SESSION_COOKIE_NAME" env-default:"sf_session"`
	IdleTTL    time.Duration `yaml:"IDLE_TTL" env:"SESSION_IDLE_TTL" env-default:"2h"`
	Secure     bool          `yaml:"SECURE_COOKIE" env:"SESSION_SECURE_COOKIE" env-default:"false"`
}

// Pricing drives the advisory quote shown during checkout.
type Pricing struct {
	FreeShippingThreshold float64 `yaml:"FREE_SHIPPING_THRESHOLD" env:"PRICING_FREE_SHIPPING_THRESHOLD" env-default:"100"`
	FlatShippingFee       float64 `yaml:"FLAT_SHIPPING_FEE" env:"PRICING_FLAT_SHIPPING_FEE" env-default:"10"`
	TaxRate               float64 `yaml:"TAX_RATE" env:"PRICING_TAX_RATE" env-default:"0.15"`
}

type Payment struct {
	Provider      string        `yaml:"PROVIDER" env:"PAYMENT_PROVIDER" env-default:"razorpay"`
	RazorpayKeyID string        `yaml:"RAZORPAY_KEY_ID" env:"RAZORPAY_KEY_ID" env-default:""`
	Currency      string        `yaml:"CURRENCY" env:"PAYMENT_CURRENCY" env-default:"INR"`
	StoreName     string        `yaml:"STORE_NAME" env:"PAYMENT_STORE_NAME" env-default:"Ecommerce Store"`
	ThemeColor    string        `yaml:"THEME_COLOR" env:"PAYMENT_THEME_COLOR" env-default:"#2874f0"`
	WidgetTimeout time.Duration `yaml:"WIDGET_TIMEOUT" env:"PAYMENT_WIDGET_TIMEOUT" env-default:"15m"`
	Stripe        Stripe        `yaml:"stripe"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	PaymentMethod string `yaml:"STRIPE_PAYMENT_METHOD" env:"STRIPE_PAYMENT_METHOD" env-default:"pm_card_visa"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@example.com"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Ecommerce Store"`
}

type OtelConfig struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:""`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Backend      Backend      `yaml:"backend"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Cache        CacheConfig  `yaml:"cache"`
	Session      Session      `yaml:"session"`
	Pricing      Pricing      `yaml:"pricing"`
	Payment      Payment      `yaml:"payment"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Otel         OtelConfig   `yaml:"otel"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "config/local.yaml"
		}
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}
