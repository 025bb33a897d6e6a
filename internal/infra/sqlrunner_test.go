package infra

import (
	"testing"

	"adgen/internal/sqlinline"
)

func TestExtractMarker(t *testing.T) {
	marker, trimmed, err := extractMarker("--sql 7f3f2a9c-1d52-4c7e-9a0b-8e4f6d2c1b3a\nselect 1;")
	if err != nil {
		t.Fatalf("extractMarker returned error: %v", err)
	}
	if marker != "7f3f2a9c-1d52-4c7e-9a0b-8e4f6d2c1b3a" {
		t.Fatalf("marker mismatch: %s", marker)
	}
	if trimmed != "select 1;" {
		t.Fatalf("trimmed query mismatch: %q", trimmed)
	}
}

func TestExtractMarkerRejectsUnmarkedQuery(t *testing.T) {
	if _, _, err := extractMarker("select 1;"); err == nil {
		t.Fatalf("expected error for unmarked query")
	}
}

func TestInlineQueriesCarryMarkers(t *testing.T) {
	queries := map[string]string{
		"insert_run":          sqlinline.QInsertRun,
		"finish_run":          sqlinline.QFinishRun,
		"select_run":          sqlinline.QSelectRun,
		"select_runs_by_user": sqlinline.QSelectRunsByUser,
	}
	seen := make(map[string]string)
	for name, query := range queries {
		marker, _, err := extractMarker(query)
		if err != nil {
			t.Fatalf("query %s: %v", name, err)
		}
		if prev, ok := seen[marker]; ok {
			t.Fatalf("marker %s reused by %s and %s", marker, prev, name)
		}
		seen[marker] = name
	}
}
