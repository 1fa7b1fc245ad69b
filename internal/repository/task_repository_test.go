package repository

import (
	"database/sql/driver"
	"testing"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

func TestTextArrayNilIsNotNull(t *testing.T) {
	// A POST body that omits owners and tags decodes to nil slices. The
	// owners and tags columns are NOT NULL, so the driver value must be an
	// empty array, never SQL NULL.
	task := domain.Task{Name: "no owners"}

	for _, values := range [][]string{task.Owners, task.Tags} {
		val, err := textArray(values).Value()
		if err != nil {
			t.Fatalf("value failed: %v", err)
		}
		if val == nil {
			t.Fatalf("nil slice serialized as SQL NULL")
		}
		if s, ok := val.(string); !ok || s != "{}" {
			t.Fatalf("expected empty array literal, got %v", val)
		}
	}
}

func TestTextArrayPreservesValues(t *testing.T) {
	val, err := textArray([]string{"u-1", "u-2"}).Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if s, ok := val.(string); !ok || s != `{"u-1","u-2"}` {
		t.Fatalf("unexpected array literal: %v", val)
	}
}

func TestToColumnValueArrays(t *testing.T) {
	// JSON-decoded arrays arrive as []any
	val, err := toColumnValue("owners", []any{"u-1", "u-2"}).(driver.Valuer).Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if s, ok := val.(string); !ok || s != `{"u-1","u-2"}` {
		t.Fatalf("unexpected array literal: %v", val)
	}

	// A non-array value for an array column falls back to an empty array
	val, err = toColumnValue("tags", nil).(driver.Valuer).Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if s, ok := val.(string); !ok || s != "{}" {
		t.Fatalf("expected empty array literal, got %v", val)
	}

	// Scalar columns pass through untouched
	if got := toColumnValue("status", "Completed"); got != "Completed" {
		t.Fatalf("scalar value altered: %v", got)
	}
}
