// internal/player/player.go
//
// Player holds one participant's progress for the length of a session:
// gems, virtue tokens and the testimony tree. Nothing here is persisted.

package player

import (
	"sort"
	"strings"

	"github.com/kingrea/senderos/internal/content"
)

const (
	// DefaultName is used when the player leaves their name blank.
	DefaultName = "Peregrino"

	startingCurrency = 1
)

// Testimony is a reflection attached to a completed chapter.
type Testimony struct {
	PathName     string
	ChapterTitle string
	Text         string
}

// TokenCount is one entry of a token listing.
type TokenCount struct {
	Kind  content.TokenKind
	Count int
}

// Snapshot is a read-only view of a player's state.
type Snapshot struct {
	Name        string
	AgeGroup    content.AgeGroup
	Mode        content.Mode
	Currency    int
	Tokens      []TokenCount
	Testimonies int
}

// Player is mutated only by the session goroutine; it is not safe for
// concurrent use.
type Player struct {
	name        string
	ageGroup    content.AgeGroup
	mode        content.Mode
	currency    int
	tokens      map[content.TokenKind]int
	testimonies []Testimony
}

// New creates a player with one of each base token and a starting gem.
func New(name string, ageGroup content.AgeGroup, mode content.Mode) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if mode == "" {
		mode = content.DefaultMode
	}
	p := &Player{
		name:     name,
		ageGroup: ageGroup,
		mode:     mode,
		tokens:   make(map[content.TokenKind]int, len(content.BaseTokens)),
	}
	for _, kind := range content.BaseTokens {
		p.tokens[kind] = 1
	}
	p.AddCurrency(startingCurrency)
	return p
}

func (p *Player) Name() string               { return p.name }
func (p *Player) AgeGroup() content.AgeGroup { return p.ageGroup }
func (p *Player) Mode() content.Mode         { return p.mode }
func (p *Player) Currency() int              { return p.currency }

// Tokens returns the stock of a single kind; absent kinds count as zero.
func (p *Player) Tokens(kind content.TokenKind) int {
	return p.tokens[kind]
}

// AddCurrency adds n gems. Negative amounts are ignored.
func (p *Player) AddCurrency(n int) {
	if n <= 0 {
		return
	}
	p.currency += n
}

// AddToken grants one token of kind.
func (p *Player) AddToken(kind content.TokenKind) {
	if kind == "" {
		return
	}
	p.tokens[kind]++
}

// SpendToken consumes one token of kind if any are left. It is the only way
// tokens go down, and it never takes a count below zero.
func (p *Player) SpendToken(kind content.TokenKind) bool {
	if p.tokens[kind] <= 0 {
		return false
	}
	p.tokens[kind]--
	return true
}

// RecordTestimony appends a reflection with its text trimmed. Blank text is
// never recorded.
func (p *Player) RecordTestimony(pathName, chapterTitle, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	p.testimonies = append(p.testimonies, Testimony{
		PathName:     pathName,
		ChapterTitle: chapterTitle,
		Text:         text,
	})
	return true
}

// Testimonies returns the testimony tree in recorded order.
func (p *Player) Testimonies() []Testimony {
	out := make([]Testimony, len(p.testimonies))
	copy(out, p.testimonies)
	return out
}

// Snapshot lists base tokens first in deck order, then any other kinds
// alphabetically.
func (p *Player) Snapshot() Snapshot {
	tokens := make([]TokenCount, 0, len(p.tokens))
	seen := make(map[content.TokenKind]struct{}, len(content.BaseTokens))
	for _, kind := range content.BaseTokens {
		seen[kind] = struct{}{}
		tokens = append(tokens, TokenCount{Kind: kind, Count: p.tokens[kind]})
	}
	var extra []content.TokenKind
	for kind := range p.tokens {
		if _, ok := seen[kind]; !ok {
			extra = append(extra, kind)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, kind := range extra {
		tokens = append(tokens, TokenCount{Kind: kind, Count: p.tokens[kind]})
	}
	return Snapshot{
		Name:        p.name,
		AgeGroup:    p.ageGroup,
		Mode:        p.mode,
		Currency:    p.currency,
		Tokens:      tokens,
		Testimonies: len(p.testimonies),
	}
}
