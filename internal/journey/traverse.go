// internal/journey/traverse.go

package journey

import (
	"fmt"

	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/gate"
)

// Console is the blocking display/input surface Traverse needs.
type Console interface {
	gate.Prompter
}

// Traverse plays path from start to finish on a blocking console. The gate
// always ends correct, so the only early exit is an input error such as an
// interrupted or closed stdin.
func Traverse(path content.Path, traveler Traveler, io Console, opts ...Option) error {
	j := Start(path, traveler, opts...)
	io.Show(fmt.Sprintf("*** Inicias el camino de %s ***", path.Name))
	for !j.Done() {
		ch := j.Chapter()
		io.Show(fmt.Sprintf("--- %s ---", ch.Title))
		io.Show(j.Narrative())

		if _, err := gate.Run(tracked{j}, traveler, io); err != nil {
			return err
		}
		if receipts := j.Receipts(); len(receipts) > 0 {
			for _, line := range receipts[len(receipts)-1].Lines() {
				io.Show(line)
			}
		}

		io.Show("Árbol de Testimonios - Comparte algo breve.")
		if ch.ReflectionPrompt != "" {
			io.Show(ch.ReflectionPrompt)
		}
		text, err := io.ReadLine("Escribe tu respuesta (o pulsa Enter para omitir): ")
		if err != nil {
			return err
		}
		recorded, err := j.Reflect(text)
		if err != nil {
			return err
		}
		if recorded {
			io.Show("Tu testimonio ha sido añadido al Árbol de Testimonios.")
		} else {
			io.Show("Tal vez más adelante quieras dejar un testimonio.")
		}
	}
	io.Show(CompletionMessage(path))
	return nil
}

// tracked routes the blocking gate loop through the journey so every attempt
// and assist reaches the observers and the reward settles on the opening answer.
type tracked struct{ j *Journey }

func (t tracked) Chapter() content.Chapter { return t.j.Chapter() }
func (t tracked) Attempts() int            { return t.j.gate.Attempts() }
func (t tracked) Decline()                 { t.j.Decline() }

func (t tracked) Submit(answer string) (gate.Verdict, error) {
	v, _, err := t.j.Answer(answer)
	return v, err
}

func (t tracked) Assist(_ gate.Spender, kind content.TokenKind) (gate.AssistResult, error) {
	return t.j.Assist(kind)
}

// CompletionMessage is shown once every chapter of path is done.
func CompletionMessage(path content.Path) string {
	return fmt.Sprintf("Camino %s completado. Respira y celebra lo aprendido.", path.Name)
}
