// internal/gate/gate.go
//
// The Wisdom Gate guarding each chapter. A gate starts awaiting an answer and
// has exactly one terminal state, Correct. Wrong answers never fail the
// gate; from the second wrong attempt on the player is offered a virtue
// assist instead.

package gate

import (
	"errors"

	"github.com/kingrea/senderos/internal/content"
)

// State is the gate's position in its state machine.
type State int

const (
	AwaitingAnswer State = iota
	Correct
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting-answer"
	case Correct:
		return "correct"
	default:
		return "unknown"
	}
}

// AssistThreshold is the attempt count from which assists are offered.
const AssistThreshold = 2

// Messages surfaced to the player.
const (
	MsgEnterLetter  = "Ingresa una letra."
	MsgIncorrect    = "Respuesta incorrecta."
	MsgTryAgain     = "Intenta nuevamente. Confía, puedes lograrlo."
	MsgAssistOffer  = "Puedes usar una virtud para obtener ayuda:"
	MsgBreathe      = "Respira hondo y vuelve a intentarlo."
	MsgDiscernment  = "Discernimiento activado. Pista:"
	MsgPatience     = "Paciencia activada. Tómate tu tiempo para pensar otra vez."
	MsgUnavailable  = "No puedes usar esa virtud ahora."
	MsgCorrectIntro = "¡Correcto!"
)

var (
	ErrEmptyAnswer      = errors.New("gate: answer is empty")
	ErrAlreadyCorrect   = errors.New("gate: already answered correctly")
	ErrAssistNotOffered = errors.New("gate: no assist on offer")
)

// AssistKinds are the virtues that can be spent at a gate.
var AssistKinds = []content.TokenKind{content.TokenDiscernment, content.TokenPatience}

// Spender is the part of player state a gate touches.
type Spender interface {
	Tokens(kind content.TokenKind) int
	SpendToken(kind content.TokenKind) bool
}

// Verdict describes the outcome of one submitted answer.
type Verdict struct {
	Answer        string
	Attempt       int
	Correct       bool
	Explanation   string
	AssistOffered bool
}

// AssistResult describes what spending (or trying to spend) a virtue did.
// Used is false when the kind is not an assist kind or the stock is empty.
type AssistResult struct {
	Kind    content.TokenKind
	Used    bool
	Hint    string
	Message string
}

// Gate tracks attempts for a single chapter question.
type Gate struct {
	chapter      content.Chapter
	attempts     int
	state        State
	offerPending bool
}

// New opens a gate for chapter.
func New(chapter content.Chapter) *Gate {
	return &Gate{chapter: chapter, state: AwaitingAnswer}
}

func (g *Gate) Chapter() content.Chapter { return g.chapter }
func (g *Gate) Attempts() int            { return g.attempts }
func (g *Gate) State() State             { return g.state }

// AssistOffered reports whether the last wrong answer opened an assist offer
// that has not been taken or declined yet.
func (g *Gate) AssistOffered() bool {
	return g.state == AwaitingAnswer && g.offerPending
}

// Submit evaluates one answer. Blank answers are rejected without counting
// as an attempt. The whole trimmed answer must equal the chapter's label,
// ignoring case; anything longer is a wrong attempt.
func (g *Gate) Submit(answer string) (Verdict, error) {
	if g.state == Correct {
		return Verdict{}, ErrAlreadyCorrect
	}
	normalized := content.NormalizeAnswer(answer)
	if normalized == "" {
		return Verdict{}, ErrEmptyAnswer
	}
	g.attempts++
	g.offerPending = false
	v := Verdict{Answer: normalized, Attempt: g.attempts}
	if normalized == content.NormalizeLabel(g.chapter.CorrectLabel) {
		g.state = Correct
		v.Correct = true
		v.Explanation = g.chapter.Explanation
		return v, nil
	}
	if g.attempts >= AssistThreshold {
		g.offerPending = true
		v.AssistOffered = true
	}
	return v, nil
}

// Decline closes the pending assist offer without spending anything.
func (g *Gate) Decline() {
	g.offerPending = false
}

// Assist spends one virtue from spender against the pending offer.
// Discernimiento reveals the chapter hint; Paciencia only encourages. Either
// way the player still has to submit the right letter. The offer is closed
// whether or not the spend succeeded.
func (g *Gate) Assist(spender Spender, kind content.TokenKind) (AssistResult, error) {
	if !g.AssistOffered() {
		return AssistResult{}, ErrAssistNotOffered
	}
	g.offerPending = false
	kind = content.CanonicalToken(string(kind))
	result := AssistResult{Kind: kind, Message: MsgUnavailable}
	switch kind {
	case content.TokenDiscernment:
		if spender.SpendToken(kind) {
			result.Used = true
			result.Hint = g.chapter.Hint
			result.Message = MsgDiscernment
		}
	case content.TokenPatience:
		if spender.SpendToken(kind) {
			result.Used = true
			result.Message = MsgPatience
		}
	}
	return result, nil
}
