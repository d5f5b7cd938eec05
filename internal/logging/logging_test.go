package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		tt := tt
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) succeeded, want error")
	}
}

func TestOpenFile_WritesJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "abacus.log")

	logger, closeFn, err := OpenFile(path, zerolog.InfoLevel)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Str("expression", "5+3").Msg("evaluated")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %s", out)
	}
	if !strings.Contains(out, `"expression":"5+3"`) {
		t.Errorf("log missing field: %s", out)
	}
}

func TestNewConsole(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewConsole(&buf, zerolog.WarnLevel)
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("info written at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("warn line missing: %q", buf.String())
	}
}
