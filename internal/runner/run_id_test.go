package runner

import (
	"strings"
	"testing"
	"time"
)

func TestNewRunIDWithRand(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := NewRunIDWithRand(now, strings.NewReader("abcdef"))
	if err != nil {
		t.Fatalf("new run id: %v", err)
	}
	if !strings.HasPrefix(id, "20260301T120000Z-") {
		t.Fatalf("unexpected prefix: %s", id)
	}
	if len(id) != len("20260301T120000Z-")+12 {
		t.Fatalf("unexpected length: %s", id)
	}
}

func TestNewRunIDWithRandNilReader(t *testing.T) {
	if _, err := NewRunIDWithRand(time.Now(), nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}
