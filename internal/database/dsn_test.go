package database

import (
	"strings"
	"testing"
)

func TestPostgresDSNDefaults(t *testing.T) {
	dsn, err := postgresDSN(Config{User: "hirementis", Name: "hirementis"})
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}

	for _, want := range []string{"host=localhost", "port=5432", "sslmode=disable", "TimeZone=UTC"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestPostgresDSNOptionsOverrideDefaults(t *testing.T) {
	dsn, err := postgresDSN(Config{
		User:    "hirementis",
		Name:    "hirementis",
		Options: map[string]string{"sslmode": "require"},
	})
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}

	if !strings.Contains(dsn, "sslmode=require") || strings.Contains(dsn, "sslmode=disable") {
		t.Fatalf("expected sslmode override, got %q", dsn)
	}
}

func TestPostgresDSNRequiresUserAndName(t *testing.T) {
	if _, err := postgresDSN(Config{Name: "hirementis"}); err == nil {
		t.Fatal("expected error without user")
	}
	if _, err := postgresDSN(Config{User: "hirementis"}); err == nil {
		t.Fatal("expected error without database name")
	}
}

func TestMySQLDSNDefaults(t *testing.T) {
	dsn, err := mysqlDSN(Config{User: "root", Password: "pw", Name: "hirementis"})
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}

	if !strings.HasPrefix(dsn, "root:pw@tcp(127.0.0.1:3306)/hirementis?") {
		t.Fatalf("unexpected dsn prefix: %q", dsn)
	}
	for _, want := range []string{"charset=utf8mb4", "parseTime=True", "loc=UTC"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestSQLiteDSNFile(t *testing.T) {
	dsn, err := sqliteDSN(t.TempDir() + "/app.db")
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}

	for _, want := range []string{"_foreign_keys=1", "_journal_mode=WAL", "_busy_timeout=5000"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}
