package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port      string
	LogFormat string

	// Path of the local sqlite database holding cart state. Empty means
	// in-memory only (cart lost on restart).
	DBPath string

	UpstreamTimeout time.Duration

	// Upstream base URLs (inside docker network recommended)
	CatalogURL string
	PaymentURL string
	OrderURL   string

	// Empty disables event publishing.
	RabbitURL string

	// CORS
	CORSAllowOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:      getenv("PORT", "8084"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		DBPath: getenv("STOREFRONT_DB_PATH", "storefront.db"),

		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),

		CatalogURL: getenv("CATALOG_URL", "http://catalog-service:8086"),
		PaymentURL: getenv("PAYMENT_URL", "http://payment-service:8080"),
		OrderURL:   getenv("ORDER_URL", "http://order-service:8082"),

		RabbitURL: os.Getenv("RABBITMQ_URL"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
