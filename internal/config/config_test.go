package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/test")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("MASTER_KEY", "0000000000000000000000000000000000000000000000000000000000000000")
	t.Cleanup(func() {
		os.Unsetenv("MYSQL_DSN")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("MASTER_KEY")
	})
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MySQL.DSN == "" {
		t.Error("MySQL DSN should not be empty")
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}

	if cfg.Environment != "dev" {
		t.Errorf("Expected default environment dev, got %s", cfg.Environment)
	}

	if cfg.Publish.CacheSeconds != 300 {
		t.Errorf("Expected default page cache 300s, got %d", cfg.Publish.CacheSeconds)
	}
}

func TestLoad_MissingMySQLDSN(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("MYSQL_DSN")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when MYSQL_DSN is missing")
	}
}

func TestLoad_MissingMasterKey(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("MASTER_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when MASTER_KEY is missing")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "5")
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("PUBLISH_ROOT", "/srv/pages")
	os.Setenv("ENVIRONMENT", "prod")

	defer func() {
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("REDIS_DB")
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("PUBLISH_ROOT")
		os.Unsetenv("ENVIRONMENT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Redis.Addr != "redis.example.com:6379" {
		t.Errorf("Expected custom Redis addr, got %s", cfg.Redis.Addr)
	}

	if cfg.Redis.DB != 5 {
		t.Errorf("Expected Redis DB 5, got %d", cfg.Redis.DB)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("Expected HTTPAddr :9090, got %s", cfg.HTTPAddr)
	}

	if cfg.Publish.PublishRoot != "/srv/pages" {
		t.Errorf("Expected custom publish root, got %s", cfg.Publish.PublishRoot)
	}

	if cfg.Environment != "prod" {
		t.Errorf("Expected environment prod, got %s", cfg.Environment)
	}
}
