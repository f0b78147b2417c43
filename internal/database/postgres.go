package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// postgresDSN assembles a keyword/value DSN. Timestamps on users and
// feedbacks are compared against time.Now() in UTC, so the session time zone
// is pinned to UTC unless the deployment overrides it.
func postgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	pairs := []string{
		"host=" + valueOr(cfg.Host, "localhost"),
		fmt.Sprintf("port=%d", portOr(cfg.Port, 5432)),
		"user=" + cfg.User,
		"dbname=" + cfg.Name,
	}
	if cfg.Password != "" {
		pairs = append(pairs, "password="+cfg.Password)
	}

	extras := map[string]string{
		"sslmode":  "disable",
		"TimeZone": "UTC",
	}
	for key, value := range cfg.Options {
		extras[key] = value
	}
	for _, key := range sortedKeys(extras) {
		pairs = append(pairs, key+"="+extras[key])
	}

	return strings.Join(pairs, " "), nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func portOr(port, fallback int) int {
	if port == 0 {
		return fallback
	}
	return port
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
