package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/senderos/internal/community"
	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/session"
)

func TestReadLineTrimsAndReportsEOF(t *testing.T) {
	term, out := NewScripted(0, "  hola  ", "")
	line, err := term.ReadLine("> ")
	if err != nil || line != "  hola  " {
		t.Fatalf("line = %q err = %v", line, err)
	}
	if line, err = term.ReadLine("> "); err != nil || line != "" {
		t.Fatalf("blank line = %q err = %v", line, err)
	}
	if _, err = term.ReadLine("> "); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
	if out.String() != "> > > " {
		t.Fatalf("prompts = %q", out.String())
	}
}

func TestWrapBreaksLongTextWithoutPadding(t *testing.T) {
	got := Wrap(lipgloss.NewStyle().Width(20), "Abram confía en la promesa y sale hacia una tierra nueva.")
	for _, line := range strings.Split(got, "\n") {
		if lipgloss.Width(line) > 20 {
			t.Fatalf("line too wide: %q", line)
		}
		if strings.HasSuffix(line, " ") {
			t.Fatalf("line keeps padding: %q", line)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected wrapping, got %q", got)
	}
}

func TestChoiceRepromptsUntilValid(t *testing.T) {
	term, out := NewScripted(0, "x", "9", "0", "2")
	n, err := Choice{Prompt: "? ", Invalid: "no", Count: 3}.Ask(term)
	if err != nil || n != 2 {
		t.Fatalf("n = %d err = %v", n, err)
	}
	if strings.Count(out.String(), "no\n") != 3 {
		t.Fatalf("expected three invalid notices, got %q", out.String())
	}

	term, _ = NewScripted(0, "0")
	if n, err := (Choice{Prompt: "? ", Count: 3, AllowBack: true}).Ask(term); err != nil || n != 0 {
		t.Fatalf("back: n = %d err = %v", n, err)
	}
	term, _ = NewScripted(0, "")
	if n, err := (Choice{Prompt: "? ", Count: 3, Default: 2}).Ask(term); err != nil || n != 2 {
		t.Fatalf("default: n = %d err = %v", n, err)
	}
}

func newShellSession(t *testing.T) *session.Session {
	t.Helper()
	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	deck, err := community.Parse([]byte("missions:\n  - Escribe una nota de gratitud.\n"))
	if err != nil {
		t.Fatalf("deck: %v", err)
	}
	s, err := session.New(catalog, session.WithDeck(deck))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func TestShellPlaysFullSession(t *testing.T) {
	term, out := NewScripted(78,
		// intake: blank name, bad age, adult, default mode
		"", "4", "2", "",
		// empty testimony tree
		"2",
		// Patriarcas after one bad pick
		"1", "7", "1", "C", "Confío", "A", "",
		"2",
		// mission accepted
		"3", "s",
		"4",
		"9", "5",
	)
	sh := NewShell(newShellSession(t), term, WithDefaultMode(content.ModeStrategy))
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		session.WelcomeMessage,
		"Selecciona una opción válida (1-3).",
		"Tu opción [2]: ",
		session.StartingDeckMessage,
		session.EmptyTreeMessage,
		"Opción no válida. Intenta nuevamente.",
		"*** Inicias el camino de Patriarcas ***",
		"1. Patriarcas / El llamado de Abram",
		"Confío",
		"Escribe una nota de gratitud.",
		"Has usado la virtud 'Servicio' para animar a otros.",
		"Jugador: Peregrino | Grupo: Adulto | Modo: estrategia",
		"Gemas de Esperanza: 10",
		"Opción no reconocida. Intenta de nuevo.",
		session.FarewellMessage,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestShellStopsOnEOF(t *testing.T) {
	term, _ := NewScripted(0, "Ana", "1", "1", "1", "1")
	err := NewShell(newShellSession(t), term).Run(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestShellHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	term, _ := NewScripted(0, "Ana", "1", "1")
	if err := NewShell(newShellSession(t), term).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
