package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string
	PriceAPIURL      string
	FxAPIURL         string
	Port             string
	DBPath           string
	CacheDir         string
	RefreshEvery     time.Duration
	WidgetEvery      time.Duration
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envSeconds(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("config: ignoring invalid %s=%q, using %ds", k, v, def)
	}
	return time.Duration(def) * time.Second
}

func Load() Config {
	return Config{
		TelegramToken:    mustEnv("TELEGRAM_BOT_TOKEN"),
		WebhookPublicURL: mustEnv("WEBHOOK_PUBLIC_URL"),
		OpenAIKey:        mustEnv("OPENAI_API_KEY"),
		PriceAPIURL:      mustEnv("PRICE_API_URL"),
		FxAPIURL:         mustEnv("FX_API_URL"),
		Port:             envOr("PORT", "9095"),
		DBPath:           envOr("DB_PATH", "/app/data/portfolio.db"),
		CacheDir:         envOr("CACHE_DIR", "/app/data/imagecache"),
		RefreshEvery:     envSeconds("REFRESH_SECONDS", 30),
		WidgetEvery:      envSeconds("WIDGET_REFRESH_SECONDS", 300),
	}
}
