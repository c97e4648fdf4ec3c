package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	API              APIConfig               `env:",prefix=API_"`
	Gateway          GatewayConfig           `env:",prefix=GATEWAY_"`
	Rates            RatesConfig             `env:",prefix=RATES_"`
	Checkout         CheckoutConfig          `env:",prefix=CHECKOUT_"`
}

type APIConfig struct {
	Host         string        `env:"HOST,default=0.0.0.0"`
	Port         uint16        `env:"PORT,default=8080"`
	GinMode      string        `env:"GIN_MODE,default=release"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a APIConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// GatewayConfig configures the payment gateway client (donation submission endpoint).
type GatewayConfig struct {
	BaseURL     string        `env:"BASE_URL,default=https://gateway.ihsan.example"`
	APIKey      string        `env:"API_KEY"`
	Timeout     time.Duration `env:"TIMEOUT,default=30s"`
	MockPayment bool          `env:"MOCK_PAYMENT,default=false"`
	RateLimit   struct {
		Burst int     `env:"BURST,default=1"`
		RPS   float64 `env:"RPS,default=10.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

// RatesConfig configures the exchange-rate API client and cache.
type RatesConfig struct {
	BaseURL string        `env:"BASE_URL,default=https://openexchangerates.org/api"`
	AppID   string        `env:"APP_ID"`
	Timeout time.Duration `env:"TIMEOUT,default=15s"`
	TTL     time.Duration `env:"TTL,default=24h"`
}

type CheckoutConfig struct {
	SessionTTL time.Duration `env:"SESSION_TTL,default=45m"`
	SuccessURL string        `env:"SUCCESS_URL,default=https://ihsan.example/donate/success"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/ihsan.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=5"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}
