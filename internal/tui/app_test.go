package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/senderos/internal/community"
	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/logbook"
	"github.com/kingrea/senderos/internal/session"
)

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	book, err := logbook.New(filepath.Join(t.TempDir(), "journey.log"))
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	deck, err := community.Parse([]byte("missions:\n  - Llama a alguien que necesite compañía.\n"))
	if err != nil {
		t.Fatalf("deck: %v", err)
	}
	s, err := session.New(catalog, session.WithLogbook(book), session.WithDeck(deck))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return NewApp(s, opts...)
}

func press(t *testing.T, app *App, keys ...tea.KeyMsg) *App {
	t.Helper()
	for _, key := range keys {
		model, _ := app.Update(key)
		next, ok := model.(*App)
		if !ok {
			t.Fatalf("unexpected model type %T", model)
		}
		app = next
	}
	return app
}

func typeText(t *testing.T, app *App, text string) *App {
	t.Helper()
	return press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func completeIntake(t *testing.T, app *App, name string) *App {
	t.Helper()
	app = typeText(t, app, name)
	app = press(t, app, enter, down, enter, enter)
	if app.state != stateMainMenu {
		t.Fatalf("expected main menu after intake, got state %d", app.state)
	}
	return app
}

func TestIntakeCreatesPlayerWithDefaultMode(t *testing.T) {
	app := completeIntake(t, newTestApp(t, WithDefaultMode(content.ModeReflection)), "Rut")
	p := app.Player()
	if p == nil {
		t.Fatalf("player not created")
	}
	if p.Name() != "Rut" || p.AgeGroup() != content.AgeAdult || p.Mode() != content.ModeReflection {
		t.Fatalf("player = %s/%s/%s", p.Name(), p.AgeGroup(), p.Mode())
	}
	if p.Currency() != 1 || app.statusMsg != session.StartingDeckMessage {
		t.Fatalf("currency = %d status = %q", p.Currency(), app.statusMsg)
	}
}

func TestBlankNameBecomesPeregrino(t *testing.T) {
	app := press(t, newTestApp(t), enter, enter, enter)
	if app.Player() == nil || app.Player().Name() != "Peregrino" {
		t.Fatalf("expected default player name")
	}
	if app.Player().AgeGroup() != content.AgeChild || app.Player().Mode() != content.ModeStory {
		t.Fatalf("unexpected defaults %s/%s", app.Player().AgeGroup(), app.Player().Mode())
	}
}

func TestJourneyWithHintThroughTheUI(t *testing.T) {
	app := completeIntake(t, newTestApp(t), "Ana")
	app = press(t, app, enter, enter)
	if app.state != stateGate || app.journey == nil {
		t.Fatalf("expected gate state, got %d", app.state)
	}

	app = press(t, app, enter)
	if len(app.notices) != 1 || !strings.Contains(app.notices[0], "letra") {
		t.Fatalf("empty answer notice = %v", app.notices)
	}
	app = press(t, typeText(t, app, "A"), enter)
	if app.state != stateGate || app.journey.Gate().Attempts() != 1 {
		t.Fatalf("first miss should stay at gate")
	}
	app = press(t, typeText(t, app, "B"), enter)
	if app.state != stateAssistOffer {
		t.Fatalf("second miss should offer an assist, got %d", app.state)
	}
	app = press(t, app, enter)
	if app.state != stateGate || app.Player().Tokens(content.TokenDiscernment) != 0 {
		t.Fatalf("assist not applied: state %d", app.state)
	}
	if !strings.Contains(strings.Join(app.notices, " "), "Pista") {
		t.Fatalf("hint not surfaced: %v", app.notices)
	}

	app = press(t, typeText(t, app, "c"), enter)
	if app.state != stateReflection {
		t.Fatalf("correct answer should move to reflection, got %d", app.state)
	}
	if app.Player().Currency() != 4 {
		t.Fatalf("currency = %d, want 4", app.Player().Currency())
	}
	app = press(t, typeText(t, app, "Confío en la promesa"), enter)
	if app.state != stateGate || app.journey.Index() != 1 {
		t.Fatalf("expected second chapter gate")
	}

	app = press(t, typeText(t, app, "A"), enter, enter)
	if app.state != stateMainMenu || app.journey != nil {
		t.Fatalf("expected main menu after the last chapter, got %d", app.state)
	}
	if !strings.Contains(app.statusMsg, "Camino Patriarcas completado") {
		t.Fatalf("completion message missing: %q", app.statusMsg)
	}
	p := app.Player()
	if p.Currency() != 8 || p.Tokens(content.TokenDiscernment) != 1 || p.Tokens(content.TokenPatience) != 2 {
		t.Fatalf("end state currency=%d discernimiento=%d paciencia=%d",
			p.Currency(), p.Tokens(content.TokenDiscernment), p.Tokens(content.TokenPatience))
	}
	if got := p.Testimonies(); len(got) != 1 || got[0].Text != "Confío en la promesa" {
		t.Fatalf("testimonies = %+v", got)
	}
	if view := app.View(); !strings.Contains(view, "journey.log") {
		t.Fatalf("log panel missing from view")
	}
}

func TestDecliningAssistKeepsTokens(t *testing.T) {
	app := completeIntake(t, newTestApp(t), "Ana")
	app = press(t, app, enter, enter)
	app = press(t, typeText(t, app, "A"), enter)
	app = press(t, typeText(t, app, "B"), enter)
	if !strings.Contains(strings.Join(app.notices, "\n"), "- Servicio: 1") {
		t.Fatalf("assist offer should list every virtue: %v", app.notices)
	}
	app = press(t, app, esc)
	if app.state != stateGate || app.journey.Gate().AssistOffered() {
		t.Fatalf("decline should close the offer")
	}
	if app.Player().Tokens(content.TokenDiscernment) != 1 || app.Player().Tokens(content.TokenPatience) != 1 {
		t.Fatalf("tokens changed on decline")
	}
}

func TestPathPickerEscReturnsToMenu(t *testing.T) {
	app := completeIntake(t, newTestApp(t), "Ana")
	app = press(t, app, enter, esc)
	if app.state != stateMainMenu || app.journey != nil {
		t.Fatalf("esc should return to main menu")
	}
}

func TestMissionAcceptAndStatus(t *testing.T) {
	app := completeIntake(t, newTestApp(t), "Ana")
	app = press(t, app, down, down, enter)
	if app.state != stateMission || app.mission == "" {
		t.Fatalf("expected mission screen")
	}
	app = typeText(t, app, "s")
	if app.state != stateMainMenu || app.Player().Currency() != 3 {
		t.Fatalf("accepting should pay two gems, currency = %d", app.Player().Currency())
	}
	app = press(t, app, down, enter)
	if app.state != stateStatus {
		t.Fatalf("expected status screen, got %d", app.state)
	}
	if view := app.View(); !strings.Contains(view, "Gemas de Esperanza: 3") {
		t.Fatalf("status view missing gems")
	}
	app = press(t, app, esc)
	if app.state != stateMainMenu {
		t.Fatalf("esc should leave status")
	}
}

func TestTestimonyTreeEmptyState(t *testing.T) {
	app := completeIntake(t, newTestApp(t), "Ana")
	app = press(t, app, down, enter)
	if app.state != stateTestimonies {
		t.Fatalf("expected testimony tree, got %d", app.state)
	}
	if view := app.View(); !strings.Contains(view, "Todavía no hay testimonios") {
		t.Fatalf("empty tree message missing")
	}
}

func TestCtrlCInterruptsAndExitQuits(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !app.Interrupted() || cmd == nil {
		t.Fatalf("ctrl+c should interrupt")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c should quit")
	}

	app = completeIntake(t, newTestApp(t), "Ana")
	app = press(t, app, down, down, down, down)
	_, cmd = app.Update(enter)
	if !app.Exited() || cmd == nil {
		t.Fatalf("exit item should quit")
	}
}
