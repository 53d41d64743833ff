package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestItemRequestsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_item_requests.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no item_requests migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS item_requests",
		"FOREIGN KEY (item_id) REFERENCES items(id)",
		"FOREIGN KEY (borrower_id) REFERENCES users(id)",
		"CHECK (status BETWEEN 1 AND 8)",
		"ux_item_requests_item_open",
		"WHERE status IN (1, 2, 4, 5)",
		"DROP TABLE IF EXISTS item_requests",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestNotificationsMigrationEnforcesTargetExclusivity(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_notifications_and_outbox.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no notifications migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS notifications",
		"CHECK ((user_id IS NULL) <> (role IS NULL))",
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"idx_outbox_events_unpublished",
		"WHERE published_at IS NULL",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
