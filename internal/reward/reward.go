// internal/reward/reward.go
//
// Applies a chapter's reward to the player and reports what was granted.

package reward

import (
	"fmt"

	"github.com/kingrea/senderos/internal/content"
)

// Receiver is the part of player state a reward touches.
type Receiver interface {
	AddCurrency(n int)
	AddToken(kind content.TokenKind)
	Currency() int
}

// Receipt records what a reward did so the shell can announce it.
type Receipt struct {
	PathName       string
	ChapterTitle   string
	CurrencyGained int
	CurrencyTotal  int
	Token          content.TokenKind
	Memento        string
}

// Empty reports whether the reward granted nothing worth announcing.
func (r Receipt) Empty() bool {
	return r.CurrencyGained == 0 && r.Token == "" && r.Memento == ""
}

// Lines renders the receipt as the notices shown to the player.
func (r Receipt) Lines() []string {
	var lines []string
	if r.CurrencyGained > 0 {
		lines = append(lines, fmt.Sprintf("Has ganado %d Gemas de Esperanza. Total actual: %d.", r.CurrencyGained, r.CurrencyTotal))
	}
	if r.Token != "" {
		lines = append(lines, fmt.Sprintf("Recibiste la virtud '%s' para apoyar a otros caminos.", r.Token))
	}
	if r.Memento != "" {
		lines = append(lines, "Cofre de Recuerdos abierto:", r.Memento)
	}
	return lines
}

// Dispenser applies chapter rewards. It has no failure modes and does not
// guard against double application; callers apply once per passed gate.
type Dispenser struct{}

// Apply grants reward to the receiver and returns what changed.
func (Dispenser) Apply(reward content.Reward, to Receiver, pathName, chapterTitle string) Receipt {
	receipt := Receipt{
		PathName:      pathName,
		ChapterTitle:  chapterTitle,
		CurrencyTotal: to.Currency(),
	}
	if reward.Currency > 0 {
		to.AddCurrency(reward.Currency)
		receipt.CurrencyGained = reward.Currency
		receipt.CurrencyTotal = to.Currency()
	}
	if reward.Token != "" {
		to.AddToken(reward.Token)
		receipt.Token = reward.Token
	}
	if reward.Memento != "" {
		receipt.Memento = reward.Memento
	}
	return receipt
}
