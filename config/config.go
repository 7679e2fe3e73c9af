package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Infrastructure
	SQLitePath    string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	MetricsAddr   string
	WebhookURL    string
	LogLevel      string

	// Simulation
	StartingCash float64
	TradeFee     float64
	BuyQty       int64
	Assets       string
	StartDate    string
	EndDate      string

	// Strategy
	RSIWindow    int
	RSIBuyLevel  float64
	RSISellLevel float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		SQLitePath:    getEnv("SQLITE_PATH", "data/simulation.db"),
		DataDir:       getEnv("DATA_DIR", "data/prices"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		StartingCash: getEnvFloat("STARTING_CASH", 10000),
		TradeFee:     getEnvFloat("TRADE_FEE", 0),
		BuyQty:       int64(getEnvInt("BUY_QTY", 10)),
		Assets:       getEnv("ASSETS", ""),
		StartDate:    getEnv("START_DATE", ""),
		EndDate:      getEnv("END_DATE", ""),

		RSIWindow:    getEnvInt("RSI_WINDOW", 14),
		RSIBuyLevel:  getEnvFloat("RSI_BUY_LEVEL", 30),
		RSISellLevel: getEnvFloat("RSI_SELL_LEVEL", 70),
	}
}

// ParseAssets splits the comma-separated asset list into symbols.
func (c *Config) ParseAssets() []string {
	parts := strings.Split(c.Assets, ",")
	assets := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		assets = append(assets, strings.ToUpper(p))
	}
	return assets
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid integer for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid number for %s: %q, using %g", key, v, fallback)
		return fallback
	}
	return f
}
