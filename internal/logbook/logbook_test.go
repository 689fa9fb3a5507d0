package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEntriesCarrySessionTag(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "nested", "journey.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if len(book.Session()) != 36 {
		t.Fatalf("session id = %q, want a uuid", book.Session())
	}
	book.Warn("gate %s", "abierta")
	lines, total := book.Tail(10)
	if total != 1 || len(lines) != 1 {
		t.Fatalf("lines = %v total = %d", lines, total)
	}
	tag := "[" + book.Session()[:8] + "]"
	if !strings.Contains(lines[0], tag) || !strings.Contains(lines[0], "WARN") || !strings.HasSuffix(lines[0], "gate abierta") {
		t.Fatalf("unexpected entry %q", lines[0])
	}
}

func TestTailOnMissingFileOrNilBook(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "journey.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines, total := book.Tail(5); lines != nil || total != 0 {
		t.Fatalf("expected empty tail, got %v/%d", lines, total)
	}
	var nilBook *Logbook
	nilBook.Info("ignored")
	if lines, total := nilBook.Tail(5); lines != nil || total != 0 {
		t.Fatalf("nil book tail = %v/%d", lines, total)
	}
}
