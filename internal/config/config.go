package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	appvalidator "studioops/internal/pkg/validator"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultDatabaseURL    = "studioops.db"
	defaultCustodyHorizon = "72h"
	defaultKafkaTopic     = "studioops.notifications"
)

// Config is the process-level runtime configuration, read from the
// environment. A .env file is honored for local development.
type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	// RedisAddr empty means in-process locking only.
	RedisAddr     string
	RedisPassword string

	// KafkaBrokers empty means notifications go to the log.
	KafkaBrokers []string
	KafkaTopic   string

	EquipmentCustodyHorizon time.Duration

	Scheduling Scheduling
}

// Scheduling holds the recurrence expansion tunables, loaded from an
// optional YAML file named by SCHEDULING_CONFIG.
type Scheduling struct {
	MaxOccurrences int `yaml:"max_occurrences" validate:"min=1"`
	HorizonDays    int `yaml:"horizon_days" validate:"min=1"`
}

func (s Scheduling) Horizon() time.Duration {
	return time.Duration(s.HorizonDays) * 24 * time.Hour
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		HTTPAddr:    getEnv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaTopic: getEnv("KAFKA_TOPIC", defaultKafkaTopic),

		Scheduling: Scheduling{
			MaxOccurrences: 365,
			HorizonDays:    730,
		},
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	cfg.EquipmentCustodyHorizon, err = parseDurationEnv("EQUIPMENT_CUSTODY_HORIZON", defaultCustodyHorizon)
	if err != nil {
		return nil, err
	}
	if cfg.EquipmentCustodyHorizon <= 0 {
		return nil, fmt.Errorf("EQUIPMENT_CUSTODY_HORIZON must be > 0")
	}

	if path := strings.TrimSpace(os.Getenv("SCHEDULING_CONFIG")); path != "" {
		if err := loadScheduling(path, &cfg.Scheduling); err != nil {
			return nil, err
		}
	}

	if isProdLike(cfg.AppEnv) && cfg.DatabaseURL == defaultDatabaseURL {
		return nil, fmt.Errorf("in prod/release DATABASE_URL must be set explicitly")
	}

	return cfg, nil
}

func loadScheduling(path string, out *Scheduling) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scheduling config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse scheduling config %s: %w", path, err)
	}
	if fields := appvalidator.Validate(out); fields != nil {
		return fmt.Errorf("invalid scheduling config %s: %v", path, fields)
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
