package db

import (
	"testing"

	"coopledger/internal/config"
	"coopledger/models"
)

func TestInitializeRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := Initialize(config.DatabaseConfig{}); err == nil {
		t.Fatal("expected error for empty database URL")
	}
}

func TestConfigureMigratesSchema(t *testing.T) {
	database, err := Configure(config.DatabaseConfig{URL: "file::memory:?cache=shared"})
	if err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	t.Cleanup(func() {
		DB = nil
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if Get() != database {
		t.Fatal("expected Get() to return the configured handle")
	}

	material := models.RawMaterial{Name: "Maize", PricePerKg: 0.42}
	if err := database.Create(&material).Error; err != nil {
		t.Fatalf("failed to insert raw material after migration: %v", err)
	}

	var count int64
	if err := database.Model(&models.FinishedFeed{}).Count(&count).Error; err != nil {
		t.Fatalf("finished feed table missing after migration: %v", err)
	}
}

func TestOpenDialectorSelectsDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"postgres url", "postgres://farm:pw@localhost:5432/coopledger", "postgres"},
		{"postgresql url", "postgresql://farm:pw@localhost/coopledger", "postgres"},
		{"keyword dsn", "host=localhost user=farm dbname=coopledger", "postgres"},
		{"sqlite path", "coopledger.db", "sqlite"},
		{"sqlite memory", "file::memory:?cache=shared", "sqlite"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := openDialector(tt.url).Name(); got != tt.want {
				t.Fatalf("openDialector(%q).Name() = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
