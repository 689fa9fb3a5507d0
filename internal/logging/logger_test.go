package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "senderos.log")
	log, err := New(path, "info")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.With("session", "abc").Info("path started", "path", "patriarcas")
	log.Debug("filtered out")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"msg":"path started"`, `"session":"abc"`, `"path":"patriarcas"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("log missing %s: %s", want, text)
		}
	}
	if strings.Contains(text, "filtered out") {
		t.Fatalf("debug entry written at info level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNilAndNopLoggersAreSafe(t *testing.T) {
	var log *Logger
	log.Info("ignored")
	log.Sync()
	Nop().With("k", "v").Error("ignored")
}
