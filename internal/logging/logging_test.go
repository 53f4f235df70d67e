package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
)

func TestNew_Filters(t *testing.T) {
	tests := []struct {
		lvl       string
		wantDebug bool
		wantInfo  bool
		wantError bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"", false, true, true},
		{"WARN", false, false, true},
		{"error", false, false, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger, err := New(&buf, tt.lvl)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.lvl, err)
		}
		level.Debug(logger).Log("msg", "d")
		level.Info(logger).Log("msg", "i")
		level.Error(logger).Log("msg", "e")

		out := buf.String()
		if got := strings.Contains(out, "msg=d"); got != tt.wantDebug {
			t.Errorf("%q: debug logged = %v", tt.lvl, got)
		}
		if got := strings.Contains(out, "msg=i"); got != tt.wantInfo {
			t.Errorf("%q: info logged = %v", tt.lvl, got)
		}
		if got := strings.Contains(out, "msg=e"); got != tt.wantError {
			t.Errorf("%q: error logged = %v", tt.lvl, got)
		}
	}
}

func TestNew_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	if err != nil {
		t.Fatal(err)
	}
	level.Info(logger).Log("msg", "screenshot saved", "path", "solar_system.png")

	out := buf.String()
	for _, want := range []string{"ts=", "caller=", "level=info", "path=solar_system.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
