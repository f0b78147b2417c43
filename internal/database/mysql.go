package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := mysqlDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// mysqlDSN builds a go-sql-driver DSN. parseTime is mandatory because gorm
// scans OTP expiry and token timestamps into time.Time; loc is pinned to UTC
// to match the rest of the service.
func mysqlDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql configuration requires user and database name")
	}

	credentials := cfg.User
	if cfg.Password != "" {
		credentials += ":" + cfg.Password
	}

	params := map[string]string{
		"charset":   "utf8mb4",
		"parseTime": "True",
		"loc":       "UTC",
	}
	for key, value := range cfg.Options {
		params[key] = value
	}

	query := make([]string, 0, len(params))
	for _, key := range sortedKeys(params) {
		query = append(query, key+"="+params[key])
	}

	return fmt.Sprintf(
		"%s@tcp(%s:%d)/%s?%s",
		credentials,
		valueOr(cfg.Host, "127.0.0.1"),
		portOr(cfg.Port, 3306),
		cfg.Name,
		strings.Join(query, "&"),
	), nil
}
