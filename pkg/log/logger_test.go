package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
		wantErr  bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"", Notice, false},
		{"warn", Warning, false},
		{"error", Error, false},
		{"loud", Notice, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
		if got != tt.expected {
			t.Errorf("%q: expected level %d, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestPrinter_WritesThroughBackend(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	SetLevel(Info)
	defer func() {
		SetSink(&bytes.Buffer{})
		SetLevel(Notice)
	}()

	Printer(New("bvh")).Printf("built BVH with %d nodes", 7)
	Warner(New("check")).Printf("frame is %s", "skewed")
	SetLevel(Error)
	Printer(New("bvh")).Printf("hidden")

	out := buf.String()
	for _, want := range []string{"[bvh]", "built BVH with 7 nodes", "[WARNING]", "frame is skewed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info messages to be filtered at error level, got:\n%s", out)
	}
}
