//go:build sqlite

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunSQLiteStorePersistsAcrossCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "forkmonkey.db")
	common := []string{"--store", "sqlite", "--db-path", dbPath, "--seed", "3", "--log-level", "error"}

	runCapture(t, append([]string{"hatch", "--id", "alpha"}, common...)...)
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected sqlite db at %s: %v", dbPath, err)
	}
	runCapture(t, append([]string{"evolve", "--id", "alpha"}, common...)...)

	out := runCapture(t, append([]string{"show", "--id", "alpha", "--json"}, common...)...)
	if !strings.Contains(out, `"id": "alpha"`) || !strings.Contains(out, `"total_mutations"`) {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}
