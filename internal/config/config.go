// Package config handles loading and validating configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all tunable parameters for the detection engine.
type Config struct {
	// Correlation clustering
	TimeWindowSeconds float64
	MinClusterClients int

	// Ring aggregation
	RingClusterThreshold int

	// Bonus abuse detector
	MinTradeVolume      float64
	MaxTradeDurationSec float64
	MinBonusAbuseTrades int
	BonusAbuseRiskScore float64

	// Commission inflation detector
	MaxAvgDurationSec     float64
	MinSubAffiliateTrades int
	CommissionRiskScore   float64

	// Regime shift monitor
	DeviationThreshold float64
	CurrentWindowDays  int
	MinHistoryDays     int
	MinBaselineDays    int

	// Agentic policy
	HighTierConfidence   float64
	MediumTierConfidence float64

	// LLM enrichment (optional, engine runs without it)
	LLMProvider string
	LLMAPIKey   string
	LLMModel    string

	// Metrics
	PrometheusPort int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with fallback to .env file.
// Priority order: Environment variables > .env file > hardcoded defaults
func Load() (*Config, error) {
	// Attempt to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		// Correlation
		TimeWindowSeconds: getEnvFloat("TIME_WINDOW_SECONDS", 1.0),
		MinClusterClients: getEnvInt("MIN_CLUSTER_CLIENTS", 2),

		// Rings
		RingClusterThreshold: getEnvInt("RING_CLUSTER_THRESHOLD", 3),

		// Bonus abuse
		MinTradeVolume:      getEnvFloat("MIN_TRADE_VOLUME", 4.0),
		MaxTradeDurationSec: getEnvFloat("MAX_TRADE_DURATION_SECONDS", 60),
		MinBonusAbuseTrades: getEnvInt("MIN_BONUS_ABUSE_TRADES", 1),
		BonusAbuseRiskScore: getEnvFloat("BONUS_ABUSE_RISK_SCORE", 0.95),

		// Commission inflation
		MaxAvgDurationSec:     getEnvFloat("MAX_AVG_DURATION_SECONDS", 120),
		MinSubAffiliateTrades: getEnvInt("MIN_SUB_AFFILIATE_TRADES", 50),
		CommissionRiskScore:   getEnvFloat("COMMISSION_RISK_SCORE", 0.88),

		// Regime monitor
		DeviationThreshold: getEnvFloat("DEVIATION_THRESHOLD", 2.5),
		CurrentWindowDays:  getEnvInt("CURRENT_WINDOW_DAYS", 3),
		MinHistoryDays:     getEnvInt("MIN_HISTORY_DAYS", 5),
		MinBaselineDays:    getEnvInt("MIN_BASELINE_DAYS", 5),

		// Agentic policy
		HighTierConfidence:   getEnvFloat("HIGH_TIER_CONFIDENCE", 0.9),
		MediumTierConfidence: getEnvFloat("MEDIUM_TIER_CONFIDENCE", 0.7),

		// LLM
		LLMProvider: getEnv("LLM_PROVIDER", "openrouter"),
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMModel:    getEnv("LLM_MODEL", ""),

		// Metrics
		PrometheusPort: getEnvInt("PROMETHEUS_PORT", 9090),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are internally consistent.
func (c *Config) Validate() error {
	if c.TimeWindowSeconds <= 0 {
		return fmt.Errorf("TIME_WINDOW_SECONDS must be positive")
	}

	if c.MinClusterClients < 2 {
		return fmt.Errorf("MIN_CLUSTER_CLIENTS must be at least 2")
	}

	if c.RingClusterThreshold < 1 {
		return fmt.Errorf("RING_CLUSTER_THRESHOLD must be at least 1")
	}

	if c.MinTradeVolume <= 0 {
		return fmt.Errorf("MIN_TRADE_VOLUME must be positive")
	}

	if c.MaxTradeDurationSec <= 0 {
		return fmt.Errorf("MAX_TRADE_DURATION_SECONDS must be positive")
	}

	if c.BonusAbuseRiskScore <= 0 || c.BonusAbuseRiskScore > 1 {
		return fmt.Errorf("BONUS_ABUSE_RISK_SCORE must be in (0, 1]")
	}

	if c.CommissionRiskScore <= 0 || c.CommissionRiskScore > 1 {
		return fmt.Errorf("COMMISSION_RISK_SCORE must be in (0, 1]")
	}

	if c.DeviationThreshold <= 0 {
		return fmt.Errorf("DEVIATION_THRESHOLD must be positive")
	}

	if c.CurrentWindowDays < 1 {
		return fmt.Errorf("CURRENT_WINDOW_DAYS must be at least 1")
	}

	if c.MediumTierConfidence >= c.HighTierConfidence {
		return fmt.Errorf("MEDIUM_TIER_CONFIDENCE must be below HIGH_TIER_CONFIDENCE")
	}

	if c.PrometheusPort < 1 || c.PrometheusPort > 65535 {
		return fmt.Errorf("PROMETHEUS_PORT must be between 1 and 65535")
	}

	return nil
}

// MaskedLLMKey returns the API key with most characters hidden for logging.
func (c *Config) MaskedLLMKey() string {
	return maskSecret(c.LLMAPIKey)
}

// maskSecret hides all but the first and last 4 characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 8 {
		if len(s) == 0 {
			return "(not set)"
		}
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float64 or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
