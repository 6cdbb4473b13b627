package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEstimatesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_estimates.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no estimates migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS estimates",
		"CREATE TABLE IF NOT EXISTS estimate_line_items",
		"FOREIGN KEY (estimate_id) REFERENCES estimates(id) ON DELETE CASCADE",
		"CHECK (markup_percent IS NULL OR markup_amount IS NULL)",
		"CHECK (markup_percent IS NULL OR markup_percent >= -100)",
		"idx_estimates_one_current_version",
		"DROP TABLE IF EXISTS estimate_line_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestQuotesMigrationContainsStatusCheck(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_quotes.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no quotes migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS quotes",
		"CREATE TABLE IF NOT EXISTS quote_line_items",
		"CHECK (status IN ('pending', 'accepted', 'rejected', 'expired'))",
		"idx_quotes_status_valid_until",
		"FOREIGN KEY (estimate_line_item_id) REFERENCES estimate_line_items(id) ON DELETE SET NULL",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
