package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	original := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}
	decoded, err := Decode(original.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.CreatedAt.Equal(original.CreatedAt) || decoded.ID != original.ID {
		t.Fatalf("cursor changed through round trip: %+v != %+v", decoded, original)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "!!!", "bm90LWpzb24"} {
		if _, err := Decode(value); err != ErrInvalidCursor {
			t.Fatalf("value %q: expected ErrInvalidCursor, got %v", value, err)
		}
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	if got := ClampLimit(0); got != DefaultLimit {
		t.Fatalf("zero should clamp to default, got %d", got)
	}
	if got := ClampLimit(-5); got != DefaultLimit {
		t.Fatalf("negative should clamp to default, got %d", got)
	}
	if got := ClampLimit(500); got != MaxLimit {
		t.Fatalf("oversized should clamp to max, got %d", got)
	}
	if got := ClampLimit(7); got != 7 {
		t.Fatalf("in-range value should pass through, got %d", got)
	}
}
