package journey

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/gate"
	"github.com/kingrea/senderos/internal/player"
)

type scriptedConsole struct {
	lines []string
	shown []string
}

func (s *scriptedConsole) Show(text string)             { s.shown = append(s.shown, text) }
func (s *scriptedConsole) ShowOptions(options []string) { s.shown = append(s.shown, options...) }
func (s *scriptedConsole) ReadLine(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedConsole) contains(substr string) bool {
	for _, line := range s.shown {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func chapter(title, answer string, r content.Reward) content.Chapter {
	return content.Chapter{
		Title: title,
		Narrative: map[content.Mode]string{
			content.ModeStory:    title + " (cuento)",
			content.ModeStrategy: title + " (estrategia)",
		},
		Question:         "¿Pregunta?",
		Options:          []string{"A) Uno", "B) Dos", "C) Tres"},
		CorrectLabel:     answer,
		Hint:             "Pista de " + title,
		Explanation:      "Explicación de " + title,
		ReflectionPrompt: "¿Qué aprendiste?",
		Reward:           r,
	}
}

func onePath() content.Path {
	return content.Path{
		Name: "Patriarcas",
		Chapters: []content.Chapter{
			chapter("El llamado de Abram", "C", content.Reward{Currency: 3, Token: content.TokenDiscernment, Memento: "Ilustración"}),
		},
	}
}

func TestTraverseScenarioFirstAttempt(t *testing.T) {
	p := player.New("Ana", content.AgeAdult, content.ModeStory)
	console := &scriptedConsole{lines: []string{"C", ""}}
	if err := Traverse(onePath(), p, console); err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if p.Currency() != 4 {
		t.Fatalf("currency = %d, want 4", p.Currency())
	}
	want := map[content.TokenKind]int{content.TokenPatience: 1, content.TokenDiscernment: 2, content.TokenService: 1}
	for kind, n := range want {
		if p.Tokens(kind) != n {
			t.Fatalf("tokens[%s] = %d, want %d", kind, p.Tokens(kind), n)
		}
	}
	if !console.contains("Ilustración") {
		t.Fatalf("memento not surfaced")
	}
	if len(p.Testimonies()) != 0 {
		t.Fatalf("blank reflection should not be recorded")
	}
	if !console.contains("Camino Patriarcas completado") {
		t.Fatalf("completion message missing")
	}
}

func TestScenarioHintThenCorrectOnThirdAttempt(t *testing.T) {
	p := player.New("Ana", content.AgeAdult, content.ModeStory)
	j := Start(onePath(), p)
	for _, wrong := range []string{"A", "B"} {
		v, receipt, err := j.Answer(wrong)
		if err != nil || v.Correct || receipt != nil {
			t.Fatalf("wrong answer %s: v=%+v receipt=%v err=%v", wrong, v, receipt, err)
		}
	}
	if !j.Gate().AssistOffered() {
		t.Fatalf("assist should be offered after two wrong attempts")
	}
	res, err := j.Assist(content.TokenDiscernment)
	if err != nil {
		t.Fatalf("assist: %v", err)
	}
	if !res.Used || res.Hint != "Pista de El llamado de Abram" {
		t.Fatalf("unexpected assist: %+v", res)
	}
	if p.Tokens(content.TokenDiscernment) != 0 {
		t.Fatalf("tokens[Discernimiento] = %d, want 0", p.Tokens(content.TokenDiscernment))
	}
	if j.Gate().State() != gate.AwaitingAnswer {
		t.Fatalf("gate should still await an answer")
	}
	v, receipt, err := j.Answer("c")
	if err != nil || !v.Correct || receipt == nil {
		t.Fatalf("correct answer: v=%+v receipt=%v err=%v", v, receipt, err)
	}
	if j.Gate().Attempts() != 3 {
		t.Fatalf("attempts = %d, want 3", j.Gate().Attempts())
	}
	if j.Stage() != StageReflection {
		t.Fatalf("stage = %s, want reflection", j.Stage())
	}
	if _, _, err := j.Answer("C"); !errors.Is(err, ErrNotAtGate) {
		t.Fatalf("answer after pass: err = %v, want ErrNotAtGate", err)
	}
	if len(j.Receipts()) != 1 || p.Currency() != 4 {
		t.Fatalf("reward must be applied exactly once")
	}
}

func TestReflectRecordsTrimmedTextAndAdvances(t *testing.T) {
	path := content.Path{
		Name: "Profetas",
		Chapters: []content.Chapter{
			chapter("Isaías", "B", content.Reward{Currency: 3}),
			chapter("Miqueas", "A", content.Reward{Currency: 4, Token: content.TokenService}),
		},
	}
	p := player.New("Ana", content.AgeAdult, content.ModeStory)
	j := Start(path, p)
	if _, err := j.Reflect("antes de tiempo"); !errors.Is(err, ErrNotReflecting) {
		t.Fatalf("err = %v, want ErrNotReflecting", err)
	}
	j.Answer("B")
	recorded, err := j.Reflect("   ")
	if err != nil || recorded {
		t.Fatalf("blank reflection: recorded=%v err=%v", recorded, err)
	}
	if j.Chapter().Title != "Miqueas" || j.Stage() != StageGate {
		t.Fatalf("expected second chapter gate, got %s/%s", j.Chapter().Title, j.Stage())
	}
	j.Answer("A")
	recorded, err = j.Reflect("  Haré justicia.  ")
	if err != nil || !recorded {
		t.Fatalf("reflection: recorded=%v err=%v", recorded, err)
	}
	if !j.Done() || j.Gate() != nil {
		t.Fatalf("journey should be done")
	}
	got := p.Testimonies()
	if len(got) != 1 || got[0] != (player.Testimony{PathName: "Profetas", ChapterTitle: "Miqueas", Text: "Haré justicia."}) {
		t.Fatalf("testimonies = %+v", got)
	}
	if p.Currency() != 8 || p.Tokens(content.TokenService) != 2 {
		t.Fatalf("currency = %d, servicio = %d", p.Currency(), p.Tokens(content.TokenService))
	}
}

func TestNarrativeForFallsBackToDefaultMode(t *testing.T) {
	ch := chapter("Jacob", "A", content.Reward{})
	if got := NarrativeFor(ch, content.ModeStrategy); got != "Jacob (estrategia)" {
		t.Fatalf("strategy narrative = %q", got)
	}
	if got := NarrativeFor(ch, content.ModeReflection); got != "Jacob (cuento)" {
		t.Fatalf("fallback narrative = %q", got)
	}
	p := player.New("Ana", content.AgeAdult, content.ModeReflection)
	j := Start(content.Path{Name: "X", Chapters: []content.Chapter{ch}}, p)
	if j.Narrative() != "Jacob (cuento)" {
		t.Fatalf("journey narrative = %q", j.Narrative())
	}
}

func TestObserverSeesEventsInOrder(t *testing.T) {
	var kinds []EventKind
	p := player.New("Ana", content.AgeAdult, content.ModeStory)
	j := Start(onePath(), p, WithObserver(func(e Event) {
		if e.Path != "Patriarcas" {
			t.Fatalf("event path = %q", e.Path)
		}
		kinds = append(kinds, e.Kind)
	}))
	j.Answer("A")
	j.Answer("C")
	j.Reflect("Confío")
	want := []EventKind{EventStarted, EventAttempt, EventAttempt, EventRewarded, EventTestimony, EventCompleted}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
}

func TestTraverseStopsOnInputError(t *testing.T) {
	p := player.New("Ana", content.AgeAdult, content.ModeStory)
	console := &scriptedConsole{lines: []string{"A"}}
	if err := Traverse(onePath(), p, console); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
	if p.Currency() != 1 {
		t.Fatalf("no reward expected, currency = %d", p.Currency())
	}
}

func TestTraverseReportsAttemptsAndAssists(t *testing.T) {
	var kinds []EventKind
	p := player.New("Ana", content.AgeAdult, content.ModeStory)
	console := &scriptedConsole{lines: []string{"A", "B", "s", "Discernimiento", "C", "Confío"}}
	err := Traverse(onePath(), p, console, WithObserver(func(e Event) { kinds = append(kinds, e.Kind) }))
	if err != nil {
		t.Fatalf("traverse: %v", err)
	}
	want := []EventKind{EventStarted, EventAttempt, EventAttempt, EventAssist, EventAttempt, EventRewarded, EventTestimony, EventCompleted}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
	if !console.contains("Pista de El llamado de Abram") {
		t.Fatalf("hint not shown")
	}
	if p.Currency() != 4 || p.Tokens(content.TokenDiscernment) != 1 {
		t.Fatalf("currency = %d, discernimiento = %d", p.Currency(), p.Tokens(content.TokenDiscernment))
	}
}
