// Package testsupport provides shared helpers for seeding configs and CRM
// fixtures in tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"crmlink/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}
