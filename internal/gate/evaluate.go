// internal/gate/evaluate.go
//
// Blocking driver for a gate: prompts, re-asks on blank answers and walks
// the player through the virtue offer on a line console.

package gate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/player"
)

// Prompter is the display/input surface the blocking driver talks to.
type Prompter interface {
	Show(text string)
	ShowOptions(options []string)
	ReadLine(prompt string) (string, error)
}

// Result summarizes a finished gate.
type Result struct {
	Attempts    int
	Explanation string
	Assists     []AssistResult
}

// Evaluate runs a fresh gate for chapter interactively until the right
// letter is given. There is no attempt limit. It only returns early when the
// prompter fails, for example on end of input.
func Evaluate(chapter content.Chapter, spender Spender, io Prompter) (Result, error) {
	return Run(New(chapter), spender, io)
}

// Driver is the gate surface Run steps through. *Gate implements it; callers
// that need to observe each step can wrap one.
type Driver interface {
	Chapter() content.Chapter
	Attempts() int
	Submit(answer string) (Verdict, error)
	Assist(spender Spender, kind content.TokenKind) (AssistResult, error)
	Decline()
}

// Run drives an existing gate the same way Evaluate does.
func Run(g Driver, spender Spender, io Prompter) (Result, error) {
	chapter := g.Chapter()
	var result Result
	if chapter.GatePrompt != "" {
		io.Show(chapter.GatePrompt)
	}
	io.Show("Responde la siguiente pregunta para avanzar.")
	io.Show(chapter.Question)
	io.ShowOptions(chapter.Options)

	for {
		line, err := io.ReadLine("Tu respuesta (letra): ")
		if err != nil {
			result.Attempts = g.Attempts()
			return result, err
		}
		verdict, err := g.Submit(line)
		if errors.Is(err, ErrEmptyAnswer) {
			io.Show(MsgEnterLetter)
			continue
		}
		if err != nil {
			result.Attempts = g.Attempts()
			return result, err
		}
		if verdict.Correct {
			io.Show(MsgCorrectIntro + " " + verdict.Explanation)
			result.Attempts = verdict.Attempt
			result.Explanation = verdict.Explanation
			return result, nil
		}

		io.Show(MsgIncorrect)
		if !verdict.AssistOffered {
			io.Show(MsgTryAgain)
			continue
		}
		io.Show(MsgAssistOffer)
		io.Show(AssistStock(spender))
		decision, err := io.ReadLine("¿Deseas usar 'Discernimiento' o 'Paciencia'? (s/n): ")
		if err != nil {
			result.Attempts = g.Attempts()
			return result, err
		}
		if !IsYes(decision) {
			g.Decline()
			io.Show(MsgBreathe)
			continue
		}
		choice, err := io.ReadLine("Elige la virtud: ")
		if err != nil {
			result.Attempts = g.Attempts()
			return result, err
		}
		assist, err := g.Assist(spender, content.TokenKind(choice))
		if err != nil {
			result.Attempts = g.Attempts()
			return result, err
		}
		result.Assists = append(result.Assists, assist)
		io.Show(DescribeAssist(assist))
	}
}

// DescribeAssist renders an assist outcome as the single line shown to the player.
func DescribeAssist(a AssistResult) string {
	if a.Used && a.Hint != "" {
		return a.Message + " " + a.Hint
	}
	return a.Message
}

// holder is a Spender that can list its whole virtue stock.
type holder interface {
	Snapshot() player.Snapshot
}

// AssistStock lists the virtues the player holds. Spenders that expose a
// snapshot show every kind; others show only the assist virtues.
func AssistStock(spender Spender) string {
	var counts []player.TokenCount
	if h, ok := spender.(holder); ok {
		counts = h.Snapshot().Tokens
	} else {
		for _, kind := range AssistKinds {
			counts = append(counts, player.TokenCount{Kind: kind, Count: spender.Tokens(kind)})
		}
	}
	lines := make([]string, 0, len(counts))
	for _, tc := range counts {
		lines = append(lines, fmt.Sprintf("- %s: %d", tc.Kind, tc.Count))
	}
	return strings.Join(lines, "\n")
}

// IsYes accepts the affirmative answers a Spanish speaker would type.
func IsYes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}
