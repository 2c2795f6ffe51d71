package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from HAMMING_ prefixed environment variables.
type Config struct {
	Count    int           `envconfig:"COUNT" default:"60"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"10m"`
	Teardown time.Duration `envconfig:"TEARDOWN" default:"1s"`
	Merge    string        `envconfig:"MERGE" default:"barrier"`
	Verify   bool          `envconfig:"VERIFY" default:"false"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"hamming"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("hamming", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
