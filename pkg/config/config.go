package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Orders   OrdersConfig
	Pricing  PricingConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == StorageBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required when the redis storage backend is selected", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GIFTNEST_APP_ENV" required:"true"`
	Port         string `envconfig:"GIFTNEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GIFTNEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIFTNEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Backend      string `envconfig:"GIFTNEST_STORAGE_BACKEND" default:"sqlite"`
	SQLitePath   string `envconfig:"GIFTNEST_STORAGE_SQLITE_PATH" default:"giftnest.db"`
	KeyNamespace string `envconfig:"GIFTNEST_STORAGE_KEY_NAMESPACE" default:"gn"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageBackendSQLite, StorageBackendRedis, StorageBackendMemory:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"GIFTNEST_REDIS_URL"`
	Address      string        `envconfig:"GIFTNEST_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTNEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTNEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTNEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTNEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTNEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTNEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIFTNEST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type OrdersConfig struct {
	BaseURL string `envconfig:"GIFTNEST_ORDERS_BASE_URL" required:"true"`
	// Zero leaves the submission call without a client-side deadline; the
	// collaborator's own behavior decides when the attempt resolves.
	Timeout time.Duration `envconfig:"GIFTNEST_ORDERS_TIMEOUT" default:"0s"`
}

type PricingConfig struct {
	TaxRate         decimal.Decimal `envconfig:"GIFTNEST_PRICING_TAX_RATE" default:"0.08"`
	ShippingFlatFee decimal.Decimal `envconfig:"GIFTNEST_PRICING_SHIPPING_FLAT_FEE" default:"4.99"`
}

type CheckoutConfig struct {
	EstimatedDeliveryDays   int    `envconfig:"GIFTNEST_CHECKOUT_ESTIMATED_DELIVERY_DAYS" default:"5"`
	DefaultDeliveryPriority string `envconfig:"GIFTNEST_CHECKOUT_DEFAULT_DELIVERY_PRIORITY" default:"standard"`
}
