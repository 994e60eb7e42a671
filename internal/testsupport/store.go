package testsupport

import (
	"testing"

	"filekeeper/internal/config"
	"filekeeper/internal/reports"
)

// MustOpenStore opens a reports.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *reports.Store {
	t.Helper()

	store, err := reports.Open(cfg)
	if err != nil {
		t.Fatalf("reports.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
