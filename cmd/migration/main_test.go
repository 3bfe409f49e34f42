package main

import (
	"os"
	"regexp"
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile("../../db/migrations/" + name)
	if err != nil {
		t.Fatalf("read migration %s: %v", name, err)
	}
	return string(raw)
}

func columnType(t *testing.T, ddl, column string) string {
	t.Helper()
	re := regexp.MustCompile(`(?m)^\s*` + column + `\s+([A-Z]+(?: PRECISION)?(?:\(\d+,\s*\d+\))?)`)
	match := re.FindStringSubmatch(ddl)
	if match == nil {
		t.Fatalf("column %s not found in migration", column)
	}
	return match[1]
}

func TestRoundsMigrationKeepsRatingPrecision(t *testing.T) {
	ddl := readMigration(t, "000001_create_rounds.up.sql")

	if got := columnType(t, ddl, "rating"); got != "DOUBLE PRECISION" {
		t.Fatalf("rating must store the entered value unrounded, got %s", got)
	}
	if got := columnType(t, ddl, "differential"); got != "NUMERIC(6, 2)" {
		t.Fatalf("unexpected differential type: %s", got)
	}
}

func TestRoundsMigrationDownDropsTable(t *testing.T) {
	ddl := readMigration(t, "000001_create_rounds.down.sql")
	if !strings.Contains(ddl, "DROP TABLE IF EXISTS rounds") {
		t.Fatalf("down migration does not drop rounds: %q", ddl)
	}
}

func TestParseSteps(t *testing.T) {
	if steps, err := parseSteps(nil); err != nil || steps != 1 {
		t.Fatalf("expected default of 1 step, got %d err=%v", steps, err)
	}
	if steps, err := parseSteps([]string{" 3 "}); err != nil || steps != 3 {
		t.Fatalf("expected 3 steps, got %d err=%v", steps, err)
	}
	if _, err := parseSteps([]string{"0"}); err == nil {
		t.Fatalf("expected error for zero steps")
	}
}

func TestParseVersionRejectsNegative(t *testing.T) {
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if v, err := parseVersion("1"); err != nil || v != 1 {
		t.Fatalf("expected version 1, got %d err=%v", v, err)
	}
}
