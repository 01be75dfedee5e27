package testutil

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("boom"))
}

func TestAssertErrorIs(t *testing.T) {
	t.Parallel()
	base := errors.New("base")
	AssertErrorIs(t, fmt.Errorf("wrapped: %w", base), base)
}

func TestAssertFloat(t *testing.T) {
	t.Parallel()
	AssertFloat(t, "exact", 1.5, 1.5, 0)
	AssertFloat(t, "within tolerance", 1.0000001, 1, 1e-6)
	AssertFloat(t, "nan", math.NaN(), math.NaN(), 0)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	path := WriteFile(t, t.TempDir(), "sub/a.txt", "hello")
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestWriteJSONLines(t *testing.T) {
	t.Parallel()
	path := WriteJSONLines(t, t.TempDir(), "events.jsonl",
		map[string]int{"run": 1},
		map[string]int{"run": 2},
	)
	data, err := os.ReadFile(path)
	AssertNoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[1] != `{"run":2}` {
		t.Errorf("line 2 = %q", lines[1])
	}
}
