package util

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("test")

	if !strings.HasPrefix(id, "test-") {
		t.Errorf("expected ID to start with 'test-', got '%s'", id)
	}

	// ID 应该有合理的长度
	if len(id) < 10 {
		t.Errorf("expected ID length >= 10, got %d", len(id))
	}
}

func TestRunID(t *testing.T) {
	id := RunID()

	if !strings.HasPrefix(id, "run-") {
		t.Errorf("expected RunID to start with 'run-', got '%s'", id)
	}
}

func TestReportID(t *testing.T) {
	id := ReportID()

	if !strings.HasPrefix(id, "report-") {
		t.Errorf("expected ReportID to start with 'report-', got '%s'", id)
	}
}

func TestUniqueIDs(t *testing.T) {
	// 生成多个 ID，确保它们都是唯一的
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id := RunID()
		if ids[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != count {
		t.Errorf("expected %d unique IDs, got %d", count, len(ids))
	}
}
