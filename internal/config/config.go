package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads from its environment.
type Config struct {
	AppPort string

	StoreDriver  string // mongo, postgres, sqlite or memory
	MongoURI     string
	DBName       string
	DatabaseDSN  string
	StoreTimeout time.Duration

	TokenSecret string
	TokenTTL    time.Duration

	StripeSecretKey string
	PaymentCurrency string

	RabbitMQURL string
	RedisAddr   string
	CacheTTL    time.Duration

	ProfileUpdateRequiresAuth bool
	LogLevel                  string
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("DB_HOST", "alliedcluster.blmq2.mongodb.net")
	v.SetDefault("DB_NAME", "AlliedParts")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("TOKEN_TTL", "12h")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("CACHE_TTL", "1m")
	v.SetDefault("PROFILE_UPDATE_REQUIRES_AUTH", true)
	v.SetDefault("LOG_LEVEL", "INFO")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:                   v.GetString("APP_PORT"),
		StoreDriver:               v.GetString("STORE_DRIVER"),
		MongoURI:                  v.GetString("MONGO_URI"),
		DBName:                    v.GetString("DB_NAME"),
		DatabaseDSN:               v.GetString("DATABASE_DSN"),
		StoreTimeout:              v.GetDuration("STORE_TIMEOUT"),
		TokenSecret:               v.GetString("SECRET_TOKEN"),
		TokenTTL:                  v.GetDuration("TOKEN_TTL"),
		StripeSecretKey:           v.GetString("STRIPE_SECRET_KEY"),
		PaymentCurrency:           v.GetString("PAYMENT_CURRENCY"),
		RabbitMQURL:               v.GetString("RABBITMQ_URL"),
		RedisAddr:                 v.GetString("REDIS_ADDR"),
		CacheTTL:                  v.GetDuration("CACHE_TTL"),
		ProfileUpdateRequiresAuth: v.GetBool("PROFILE_UPDATE_REQUIRES_AUTH"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
	}

	// Heroku-style PORT wins over APP_PORT.
	if port := v.GetString("PORT"); port != "" {
		cfg.AppPort = ":" + port
	}

	if cfg.StoreDriver == "mongo" && cfg.MongoURI == "" {
		user, pass := v.GetString("DB_USER"), v.GetString("DB_PASS")
		if user == "" || pass == "" {
			return nil, errors.New("MONGO_URI or DB_USER/DB_PASS must be set for the mongo store")
		}
		cfg.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			url.QueryEscape(user), url.QueryEscape(pass), v.GetString("DB_HOST"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("SECRET_TOKEN must be set")
	}
	switch c.StoreDriver {
	case "mongo", "memory":
	case "postgres", "sqlite":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN must be set for the %s store", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}
