// Package config loads application configuration from the environment
// (and an optional .env file) through viper.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	HTTPAddr string

	// DatabaseURL selects the gorm driver: postgres:// DSNs use the
	// postgres driver, anything else is treated as a sqlite path.
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OtaCacheTTL time.Duration

	Pricing PricingConfig
}

// PricingConfig captures the property's rate comparison policy.
type PricingConfig struct {
	// TaxInclusive reports whether the property displays gross prices.
	TaxInclusive bool

	// NetRateChannels lists channels that quote prices exclusive of
	// tax and therefore need tax added before comparison.
	NetRateChannels []string

	// MajorChannels orders the channel metadata of OTA rate series;
	// channels listed here come first, the rest alphabetical.
	MajorChannels []string
}

func Load() (Config, error) {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("REVPACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "dev")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "revpace.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("ota_cache_ttl", "5m")
	v.SetDefault("pricing_tax_inclusive", true)
	v.SetDefault("pricing_net_rate_channels", "booking,expedia")
	v.SetDefault("pricing_major_channels", "airbnb,booking,expedia")

	ttl, err := time.ParseDuration(v.GetString("ota_cache_ttl"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Env:           v.GetString("env"),
		HTTPAddr:      v.GetString("http_addr"),
		DatabaseURL:   v.GetString("database_url"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		OtaCacheTTL:   ttl,
		Pricing: PricingConfig{
			TaxInclusive:    v.GetBool("pricing_tax_inclusive"),
			NetRateChannels: splitList(v.GetString("pricing_net_rate_channels")),
			MajorChannels:   splitList(v.GetString("pricing_major_channels")),
		},
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
