package config

import (
	"os"
	"strings"
)

// Config captures process-level configuration for the institution service.
type Config struct {
	Addr        string
	DatabaseURL string

	KafkaBrokers  []string
	RequestTopic  string
	ReplyTopic    string
	ConsumerGroup string

	ServiceName    string
	ServiceVersion string
}

// FromEnv builds a Config from environment variables so main stays lean.
// Defaults target local development; the port matches the deployed service.
func FromEnv() Config {
	cfg := Config{
		Addr:           getenv("INSTITUTION_ADDR", ":8606"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RequestTopic:   getenv("KAFKA_REQUEST_TOPIC", "institution.requests"),
		ReplyTopic:     getenv("KAFKA_REPLY_TOPIC", "institution.replies"),
		ConsumerGroup:  getenv("KAFKA_CONSUMER_GROUP", "institution-service"),
		ServiceName:    "institution-service",
		ServiceVersion: getenv("SERVICE_VERSION", "1.0.0"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
