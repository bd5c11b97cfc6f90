package config

import (
	"flag"
	"os"
	"sync"
	"time"
)

const (
	defaultServerAddress  = ":8080"
	defaultDatabaseDSN    = ""
	defaultRedisAddr      = ""
	defaultLogLevel       = "debug"
	defaultBaseURL        = "http://localhost:8080"
	defaultPayPalBaseURL  = "https://api-m.sandbox.paypal.com"
	defaultGatewayTimeout = 10 * time.Second
)

type Config struct {
	ServerAddr          string
	DatabaseDSN         string
	RedisAddr           string
	LogLevel            string
	BaseURL             string
	AuthTokenKey        string
	StripeAPIKey        string
	StripeWebhookSecret string
	PayPalBaseURL       string
	PayPalClientID      string
	PayPalClientSecret  string
	GatewayTimeout      time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{GatewayTimeout: defaultGatewayTimeout}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "storefront server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "storefront database DSN")
		flag.StringVar(&cfg.RedisAddr, "r", defaultRedisAddr, "redis address for event broadcast")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.BaseURL, "b", defaultBaseURL, "public base URL for payment callbacks")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if redisAddrEnv := os.Getenv("REDIS_ADDRESS"); redisAddrEnv != "" {
			cfg.RedisAddr = redisAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if baseURLEnv := os.Getenv("BASE_URL"); baseURLEnv != "" {
			cfg.BaseURL = baseURLEnv
		}
		if tokenKeyEnv := os.Getenv("AUTH_TOKEN_KEY"); tokenKeyEnv != "" {
			cfg.AuthTokenKey = tokenKeyEnv
		}
		if stripeKeyEnv := os.Getenv("STRIPE_API_KEY"); stripeKeyEnv != "" {
			cfg.StripeAPIKey = stripeKeyEnv
		}
		if stripeSecretEnv := os.Getenv("STRIPE_WEBHOOK_SECRET"); stripeSecretEnv != "" {
			cfg.StripeWebhookSecret = stripeSecretEnv
		}
		cfg.PayPalBaseURL = defaultPayPalBaseURL
		if paypalBaseEnv := os.Getenv("PAYPAL_BASE_URL"); paypalBaseEnv != "" {
			cfg.PayPalBaseURL = paypalBaseEnv
		}
		if paypalIDEnv := os.Getenv("PAYPAL_CLIENT_ID"); paypalIDEnv != "" {
			cfg.PayPalClientID = paypalIDEnv
		}
		if paypalSecretEnv := os.Getenv("PAYPAL_CLIENT_SECRET"); paypalSecretEnv != "" {
			cfg.PayPalClientSecret = paypalSecretEnv
		}
		if timeoutEnv := os.Getenv("GATEWAY_TIMEOUT"); timeoutEnv != "" {
			if d, err := time.ParseDuration(timeoutEnv); err == nil {
				cfg.GatewayTimeout = d
			}
		}

		singleton = &cfg
	})

	return singleton, nil
}
