package repositories

import (
	"database/sql"
	"testing"

	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Setup(db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

func TestSetup(t *testing.T) {
	db := setupTestDB(t)

	// Setup is idempotent.
	if err := Setup(db); err != nil {
		t.Fatalf("second Setup failed: %v", err)
	}
}

func TestSettingsRepository(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	t.Run("unset key", func(t *testing.T) {
		_, ok, err := repo.Get("missing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("expected ok=false for unset key")
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := repo.Set(SettingGroupEntries, "true"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, ok, err := repo.Get(SettingGroupEntries)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || value != "true" {
			t.Errorf("got %q (ok=%v), want \"true\"", value, ok)
		}
	})

	t.Run("set replaces existing value", func(t *testing.T) {
		if err := repo.Set(SettingGroupEntries, "false"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, _, err := repo.Get(SettingGroupEntries)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "false" {
			t.Errorf("got %q after update, want \"false\"", value)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Set(SettingBaseURL, "https://example.youtrack.cloud/api"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := repo.Delete(SettingBaseURL); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		_, ok, err := repo.Get(SettingBaseURL)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("deleted key still present")
		}
	})
}

func TestPageOffsetRepository(t *testing.T) {
	repo := NewPageOffsetRepository(setupTestDB(t))

	t.Run("unknown issue starts at zero", func(t *testing.T) {
		if got := repo.Offset("PROJ-1"); got != 0 {
			t.Errorf("Offset = %d, want 0", got)
		}
	})

	t.Run("set and read back", func(t *testing.T) {
		if err := repo.SetOffset("PROJ-1", 200); err != nil {
			t.Fatalf("SetOffset failed: %v", err)
		}
		if got := repo.Offset("PROJ-1"); got != 200 {
			t.Errorf("Offset = %d, want 200", got)
		}
	})

	t.Run("upsert replaces the previous offset", func(t *testing.T) {
		if err := repo.SetOffset("PROJ-1", 300); err != nil {
			t.Fatalf("SetOffset failed: %v", err)
		}
		if got := repo.Offset("PROJ-1"); got != 300 {
			t.Errorf("Offset = %d, want 300", got)
		}
	})

	t.Run("negative offsets clamp to zero", func(t *testing.T) {
		if err := repo.SetOffset("PROJ-2", -5); err != nil {
			t.Fatalf("SetOffset failed: %v", err)
		}
		if got := repo.Offset("PROJ-2"); got != 0 {
			t.Errorf("Offset = %d, want 0", got)
		}
	})

	t.Run("offsets are per issue", func(t *testing.T) {
		if err := repo.SetOffset("PROJ-3", 100); err != nil {
			t.Fatalf("SetOffset failed: %v", err)
		}
		if got := repo.Offset("PROJ-1"); got != 300 {
			t.Errorf("PROJ-1 offset = %d, want 300", got)
		}
		if got := repo.Offset("PROJ-3"); got != 100 {
			t.Errorf("PROJ-3 offset = %d, want 100", got)
		}
	})

	t.Run("clear wipes everything", func(t *testing.T) {
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if got := repo.Offset("PROJ-1"); got != 0 {
			t.Errorf("Offset after clear = %d, want 0", got)
		}
	})
}
