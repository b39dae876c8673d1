package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	AdminAccount string
	CohortID     string
	MintPolicy   string
	SigningSeed  string

	EnableOutboxRelay bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "shield"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	admin := strings.TrimSpace(os.Getenv("GOVERNANCE_ADMIN_ACCOUNT"))
	if admin == "" {
		admin = "registry.admin"
	}

	cohort := strings.TrimSpace(os.Getenv("GOVERNANCE_COHORT_ID"))
	if cohort == "" {
		cohort = "genesis"
	}

	policy := strings.TrimSpace(strings.ToLower(os.Getenv("GOVERNANCE_MINT_POLICY")))
	if policy != "admin" {
		policy = "open"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		AdminAccount: admin,
		CohortID:     cohort,
		MintPolicy:   policy,
		SigningSeed:  strings.TrimSpace(os.Getenv("GOVERNANCE_SIGNING_SEED")),

		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
