// Package config loads service configuration from an optional YAML file
// followed by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tables holds the DynamoDB table names.
type Tables struct {
	Users       string `yaml:"users"`
	Products    string `yaml:"products"`
	Carts       string `yaml:"carts"`
	Checkouts   string `yaml:"checkouts"`
	Orders      string `yaml:"orders"`
	Refunds     string `yaml:"refunds"`
	Reviews     string `yaml:"reviews"`
	Idempotency string `yaml:"idempotency"`
}

// SMTP holds outbound mail settings. An empty User disables delivery.
type SMTP struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

type Config struct {
	Port             string        `yaml:"port"`
	RunLocal         bool          `yaml:"run_local"`
	AWSRegion        string        `yaml:"aws_region"`
	EndpointOverride string        `yaml:"endpoint_override"`
	Tables           Tables        `yaml:"tables"`
	EventsQueueURL   string        `yaml:"events_queue_url"`
	KafkaBrokers     string        `yaml:"kafka_brokers"`
	KafkaTopic       string        `yaml:"kafka_topic"`
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTTTL           time.Duration `yaml:"jwt_ttl"`
	IdempotencyTTL   time.Duration `yaml:"idempotency_ttl"`
	SMTP             SMTP          `yaml:"smtp"`
	UploadBucket     string        `yaml:"upload_bucket"`
	AssetBaseURL     string        `yaml:"asset_base_url"`
	MetricsNamespace string        `yaml:"metrics_namespace"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:      "8080",
		AWSRegion: "us-east-1",
		Tables: Tables{
			Users:       "users",
			Products:    "products",
			Carts:       "carts",
			Checkouts:   "checkouts",
			Orders:      "orders",
			Refunds:     "return_requests",
			Reviews:     "reviews",
			Idempotency: "idempotency",
		},
		KafkaTopic:       "storefront.events",
		JWTTTL:           40 * time.Hour,
		IdempotencyTTL:   48 * time.Hour,
		SMTP:             SMTP{Host: "smtp.gmail.com", Port: 587, From: "noreply@storefront.local"},
		MetricsNamespace: "Storefront",
	}
}

// Load builds the configuration. CONFIG_FILE, when set, names a YAML file
// applied over the defaults; environment variables win over both.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks settings every binary needs.
func (c Config) Validate() error {
	if c.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be positive")
	}
	return nil
}

// ValidateAPI checks the settings only the HTTP API needs.
func (c Config) ValidateAPI() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.EndpointOverride, "AWS_ENDPOINT_OVERRIDE")
	setString(&cfg.Tables.Users, "USERS_TABLE")
	setString(&cfg.Tables.Products, "PRODUCTS_TABLE")
	setString(&cfg.Tables.Carts, "CARTS_TABLE")
	setString(&cfg.Tables.Checkouts, "CHECKOUTS_TABLE")
	setString(&cfg.Tables.Orders, "ORDERS_TABLE")
	setString(&cfg.Tables.Refunds, "RETURN_REQUESTS_TABLE")
	setString(&cfg.Tables.Reviews, "REVIEWS_TABLE")
	setString(&cfg.Tables.Idempotency, "IDEMPOTENCY_TABLE")
	setString(&cfg.EventsQueueURL, "EVENTS_QUEUE_URL")
	setString(&cfg.KafkaBrokers, "KAFKA_BROKERS")
	setString(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.SMTP.Host, "SMTP_HOST")
	setString(&cfg.SMTP.User, "SMTP_USER")
	setString(&cfg.SMTP.Pass, "SMTP_PASS")
	setString(&cfg.SMTP.From, "SMTP_FROM")
	setString(&cfg.UploadBucket, "UPLOAD_BUCKET")
	setString(&cfg.AssetBaseURL, "ASSET_BASE_URL")
	setString(&cfg.MetricsNamespace, "METRICS_NAMESPACE")

	if v := getenv("RUN_LOCAL"); v != "" {
		cfg.RunLocal = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	if v := getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTP.Port = port
	}
	if err := setDuration(&cfg.JWTTTL, "JWT_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.IdempotencyTTL, "IDEMPOTENCY_TTL"); err != nil {
		return err
	}
	return nil
}

func getenv(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}

func setString(dst *string, k string) {
	if v := getenv(k); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, k string) error {
	v := getenv(k)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	*dst = d
	return nil
}
