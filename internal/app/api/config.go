package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

// Order store backends selectable through ORDER_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

const (
	DefaultOrderServicePort    = "8080"
	DefaultInventoryLedgerPort = "8081"
	DefaultPaymentLedgerPort   = "8082"

	defaultCollaboratorTimeout = 3 * time.Second
	defaultMaxAttempts         = 5
)

// Config carries environment-driven settings shared by the order service, the ledgers and the worker.
type Config struct {
	Port                string
	PostgresDSN         string
	OrderStore          string
	RedisAddr           string
	InventoryLedgerURL  string
	PaymentLedgerURL    string
	CollaboratorTimeout time.Duration
	MaxAttempts         int
	TemporalAddress     string
	TemporalNamespace   string
	TemporalDisabled    bool
	InventorySeedFile   string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
// defaultPort is used when PORT is unset.
func LoadConfig(defaultPort string) (Config, error) {
	cfg := Config{
		Port:                envDefault("PORT", defaultPort),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:           envDefault("REDIS_ADDR", "localhost:6379"),
		InventoryLedgerURL:  strings.TrimSpace(os.Getenv("INVENTORY_LEDGER_URL")),
		PaymentLedgerURL:    strings.TrimSpace(os.Getenv("PAYMENT_LEDGER_URL")),
		CollaboratorTimeout: defaultCollaboratorTimeout,
		MaxAttempts:         defaultMaxAttempts,
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		InventorySeedFile:   strings.TrimSpace(os.Getenv("INVENTORY_SEED_FILE")),
	}

	store := strings.ToLower(strings.TrimSpace(os.Getenv("ORDER_STORE")))
	switch store {
	case "":
		store = StoreMemory
		if cfg.PostgresDSN != "" {
			store = StorePostgres
		}
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return Config{}, fmt.Errorf("ORDER_STORE must be one of %s, %s, %s", StoreMemory, StorePostgres, StoreRedis)
	}
	cfg.OrderStore = store

	if raw := strings.TrimSpace(os.Getenv("COLLABORATOR_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("COLLABORATOR_TIMEOUT must be a positive duration")
		}
		cfg.CollaboratorTimeout = timeout
	}
	if raw := strings.TrimSpace(os.Getenv("ORDER_CAS_MAX_ATTEMPTS")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts <= 0 {
			return Config{}, fmt.Errorf("ORDER_CAS_MAX_ATTEMPTS must be a positive integer")
		}
		cfg.MaxAttempts = attempts
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
