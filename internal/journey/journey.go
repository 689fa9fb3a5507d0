// internal/journey/journey.go
//
// A Journey walks one path chapter by chapter. Each chapter goes through
// the same stages:
//
//  1. Gate: the player answers the Wisdom Gate until it is correct
//  2. Reflection: the reward has been applied and an optional testimony is asked for
//
// After the last reflection the journey is Done. Chapters are never skipped,
// reordered or revisited.

package journey

import (
	"errors"
	"strings"

	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/gate"
	"github.com/kingrea/senderos/internal/reward"
)

// Stage is the journey's position within the current chapter.
type Stage int

const (
	StageGate Stage = iota
	StageReflection
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageGate:
		return "gate"
	case StageReflection:
		return "reflection"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

var (
	ErrNotAtGate     = errors.New("journey: not waiting on a gate")
	ErrNotReflecting = errors.New("journey: not waiting on a reflection")
)

// Traveler is the player state a journey mutates.
type Traveler interface {
	gate.Spender
	reward.Receiver
	Mode() content.Mode
	RecordTestimony(pathName, chapterTitle, text string) bool
}

// EventKind labels what happened during a journey.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventAttempt   EventKind = "attempt"
	EventAssist    EventKind = "assist"
	EventRewarded  EventKind = "rewarded"
	EventTestimony EventKind = "testimony"
	EventCompleted EventKind = "completed"
)

// Event is reported to observers as the journey moves.
type Event struct {
	Kind    EventKind
	Path    string
	Chapter string
	Attempt int
	Detail  string
}

// Option customizes a Journey.
type Option func(*Journey)

// WithObserver registers fn to receive every journey event.
func WithObserver(fn func(Event)) Option {
	return func(j *Journey) {
		if fn != nil {
			j.observers = append(j.observers, fn)
		}
	}
}

// WithDispenser overrides the reward dispenser.
func WithDispenser(d reward.Dispenser) Option {
	return func(j *Journey) {
		j.dispenser = d
	}
}

// Journey is the progression controller for one traversal of a path.
type Journey struct {
	path      content.Path
	traveler  Traveler
	dispenser reward.Dispenser
	observers []func(Event)

	index    int
	stage    Stage
	gate     *gate.Gate
	receipts []reward.Receipt
}

// Start begins a traversal of path at its first chapter.
func Start(path content.Path, traveler Traveler, opts ...Option) *Journey {
	j := &Journey{path: path, traveler: traveler}
	for _, opt := range opts {
		if opt != nil {
			opt(j)
		}
	}
	j.emit(Event{Kind: EventStarted})
	j.enterChapter(0)
	return j
}

func (j *Journey) Path() content.Path { return j.path }
func (j *Journey) Stage() Stage       { return j.stage }
func (j *Journey) Index() int         { return j.index }
func (j *Journey) Done() bool         { return j.stage == StageDone }

// Gate returns the gate of the current chapter, or nil once done.
func (j *Journey) Gate() *gate.Gate {
	if j.stage == StageDone {
		return nil
	}
	return j.gate
}

// Chapter returns the current chapter. It is the zero Chapter once done.
func (j *Journey) Chapter() content.Chapter {
	if j.stage == StageDone {
		return content.Chapter{}
	}
	return j.path.Chapters[j.index]
}

// Narrative returns the current chapter's text for the traveler's mode.
func (j *Journey) Narrative() string {
	return NarrativeFor(j.Chapter(), j.traveler.Mode())
}

// Receipts lists the rewards applied so far, in chapter order.
func (j *Journey) Receipts() []reward.Receipt {
	out := make([]reward.Receipt, len(j.receipts))
	copy(out, j.receipts)
	return out
}

// Answer submits a gate answer. The reward is applied exactly once, on the
// submission that opens the gate, and its receipt is returned with it.
func (j *Journey) Answer(input string) (gate.Verdict, *reward.Receipt, error) {
	if j.stage != StageGate {
		return gate.Verdict{}, nil, ErrNotAtGate
	}
	v, err := j.gate.Submit(input)
	if err != nil {
		return v, nil, err
	}
	j.emit(Event{Kind: EventAttempt, Chapter: j.Chapter().Title, Attempt: v.Attempt, Detail: v.Answer})
	if !v.Correct {
		return v, nil, nil
	}
	return v, j.settle(), nil
}

// Assist spends a virtue against the current gate's pending offer.
func (j *Journey) Assist(kind content.TokenKind) (gate.AssistResult, error) {
	if j.stage != StageGate {
		return gate.AssistResult{}, ErrNotAtGate
	}
	res, err := j.gate.Assist(j.traveler, kind)
	if err != nil {
		return res, err
	}
	detail := string(res.Kind) + " unavailable"
	if res.Used {
		detail = string(res.Kind) + " spent"
	}
	j.emit(Event{Kind: EventAssist, Chapter: j.Chapter().Title, Attempt: j.gate.Attempts(), Detail: detail})
	return res, nil
}

// Decline closes the current assist offer.
func (j *Journey) Decline() {
	if j.stage == StageGate {
		j.gate.Decline()
	}
}

// Reflect closes the current chapter. A non-blank text is recorded as a
// testimony; blank text is skipped. It reports whether a testimony was added.
func (j *Journey) Reflect(text string) (bool, error) {
	if j.stage != StageReflection {
		return false, ErrNotReflecting
	}
	ch := j.Chapter()
	recorded := false
	if strings.TrimSpace(text) != "" {
		recorded = j.traveler.RecordTestimony(j.path.Name, ch.Title, text)
		if recorded {
			j.emit(Event{Kind: EventTestimony, Chapter: ch.Title})
		}
	}
	j.enterChapter(j.index + 1)
	return recorded, nil
}

// settle applies the current chapter's reward once its gate is correct.
func (j *Journey) settle() *reward.Receipt {
	if j.stage != StageGate || j.gate.State() != gate.Correct {
		return nil
	}
	ch := j.Chapter()
	receipt := j.dispenser.Apply(ch.Reward, j.traveler, j.path.Name, ch.Title)
	j.receipts = append(j.receipts, receipt)
	j.stage = StageReflection
	j.emit(Event{Kind: EventRewarded, Chapter: ch.Title, Attempt: j.gate.Attempts(), Detail: strings.Join(receipt.Lines(), " ")})
	return &receipt
}

func (j *Journey) enterChapter(idx int) {
	j.index = idx
	if idx >= len(j.path.Chapters) {
		j.index = len(j.path.Chapters)
		j.stage = StageDone
		j.gate = nil
		j.emit(Event{Kind: EventCompleted})
		return
	}
	j.stage = StageGate
	j.gate = gate.New(j.path.Chapters[idx])
}

func (j *Journey) emit(e Event) {
	if len(j.observers) == 0 {
		return
	}
	e.Path = j.path.Name
	for _, fn := range j.observers {
		fn(e)
	}
}

// NarrativeFor picks the chapter text for mode, falling back to the default
// mode when the chapter has no variant for it.
func NarrativeFor(ch content.Chapter, mode content.Mode) string {
	if text := strings.TrimSpace(ch.Narrative[mode]); text != "" {
		return text
	}
	return ch.Narrative[content.DefaultMode]
}
