// internal/content/model.go
//
// The content model: paths, chapters and rewards. Everything here is
// immutable data handed to the game core by a Catalog.

package content

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects which narrative variant of a chapter is shown.
type Mode string

const (
	ModeStory      Mode = "cuento"
	ModeStrategy   Mode = "estrategia"
	ModeReflection Mode = "reflexion"

	// DefaultMode is the baseline every chapter must provide narrative for.
	DefaultMode = ModeStory
)

// Modes lists the selectable modes in menu order.
var Modes = []Mode{ModeStory, ModeStrategy, ModeReflection}

// Description returns the intake menu label for the mode.
func (m Mode) Description() string {
	switch m {
	case ModeStory:
		return "Modo cuento ilustrado (lectura breve y lenguaje sencillo)."
	case ModeStrategy:
		return "Modo estrategia ligera (más detalles y retos)."
	case ModeReflection:
		return "Modo reflexión profunda (enfoque contemplativo)."
	default:
		return string(m)
	}
}

// ParseMode resolves a mode by key, accepting any casing or surrounding space.
func ParseMode(value string) (Mode, error) {
	key := Mode(foldKey(value))
	for _, m := range Modes {
		if m == key {
			return m, nil
		}
	}
	return "", fmt.Errorf("content: unknown mode %q", value)
}

// AgeGroup adjusts the accompaniment offered to a player.
type AgeGroup string

const (
	AgeChild AgeGroup = "Niño"
	AgeAdult AgeGroup = "Adulto"
	AgeElder AgeGroup = "Anciano"
)

// AgeGroups lists the selectable age groups in menu order.
var AgeGroups = []AgeGroup{AgeChild, AgeAdult, AgeElder}

// ParseAgeGroup resolves an age group by name, ignoring case and accents.
func ParseAgeGroup(value string) (AgeGroup, error) {
	key := foldKey(value)
	for _, g := range AgeGroups {
		if foldKey(string(g)) == key {
			return g, nil
		}
	}
	return "", fmt.Errorf("content: unknown age group %q", value)
}

// TokenKind names a virtue token. The set is open: rewards may introduce
// kinds nobody declared up front.
type TokenKind string

const (
	TokenPatience    TokenKind = "Paciencia"
	TokenDiscernment TokenKind = "Discernimiento"
	TokenService     TokenKind = "Servicio"
)

// BaseTokens is the starting deck, one of each.
var BaseTokens = []TokenKind{TokenPatience, TokenDiscernment, TokenService}

// CanonicalToken trims and title-cases a virtue name so "  discernimiento"
// and "DISCERNIMIENTO" resolve to the same kind.
func CanonicalToken(value string) TokenKind {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	lower := cases.Lower(language.Spanish).String(trimmed)
	return TokenKind(cases.Title(language.Spanish).String(lower))
}

// Reward is granted once a chapter's gate is passed.
type Reward struct {
	Currency int       `json:"gems,omitempty" yaml:"gems,omitempty"`
	Token    TokenKind `json:"virtue,omitempty" yaml:"virtue,omitempty"`
	Memento  string    `json:"memento,omitempty" yaml:"memento,omitempty"`
}

// Chapter is one narrative unit guarded by a Wisdom Gate.
type Chapter struct {
	Title            string          `json:"title" yaml:"title"`
	Narrative        map[Mode]string `json:"narrative" yaml:"narrative"`
	Question         string          `json:"question" yaml:"question"`
	Options          []string        `json:"options" yaml:"options"`
	CorrectLabel     string          `json:"answer" yaml:"answer"`
	Hint             string          `json:"hint,omitempty" yaml:"hint,omitempty"`
	Explanation      string          `json:"explanation" yaml:"explanation"`
	GatePrompt       string          `json:"gate,omitempty" yaml:"gate,omitempty"`
	ReflectionPrompt string          `json:"reflection,omitempty" yaml:"reflection,omitempty"`
	Reward           Reward          `json:"reward,omitempty" yaml:"reward,omitempty"`
}

// Path is a themed, ordered sequence of chapters.
type Path struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Chapters    []Chapter `json:"chapters" yaml:"chapters"`
}

// OptionLabel returns the leading label character of an option such as
// "C) Un acto de confianza", upper-cased.
func OptionLabel(option string) string {
	trimmed := strings.TrimSpace(option)
	if trimmed == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return NormalizeLabel(string(r))
}

// NormalizeLabel upper-cases the first letter of value and drops the rest.
// An empty or blank value yields "".
func NormalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return cases.Upper(language.Spanish).String(string(r))
}

// NormalizeAnswer trims value and upper-cases all of it. Unlike
// NormalizeLabel nothing is dropped, so "cx" stays "CX".
func NormalizeAnswer(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return cases.Upper(language.Spanish).String(trimmed)
}

// Normalized returns a trimmed copy of the path with a derived ID when none
// was declared.
func (p Path) Normalized() Path {
	clone := Path{
		ID:          strings.TrimSpace(p.ID),
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
	}
	if clone.ID == "" {
		clone.ID = Slug(clone.Name)
	} else {
		clone.ID = Slug(clone.ID)
	}
	if len(p.Chapters) > 0 {
		clone.Chapters = make([]Chapter, len(p.Chapters))
		for i, ch := range p.Chapters {
			clone.Chapters[i] = ch.normalized()
		}
	}
	return clone
}

// Clone returns a copy of p that shares no slices or maps with it.
func (p Path) Clone() Path {
	clone := p
	if p.Chapters != nil {
		clone.Chapters = make([]Chapter, len(p.Chapters))
		for i, ch := range p.Chapters {
			clone.Chapters[i] = ch.Clone()
		}
	}
	return clone
}

// Clone returns a copy of ch with its own narrative map and options.
func (ch Chapter) Clone() Chapter {
	clone := ch
	if ch.Narrative != nil {
		clone.Narrative = make(map[Mode]string, len(ch.Narrative))
		for mode, text := range ch.Narrative {
			clone.Narrative[mode] = text
		}
	}
	if ch.Options != nil {
		clone.Options = append([]string(nil), ch.Options...)
	}
	return clone
}

// Validate checks the path and every chapter.
func (p Path) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("path name is required")
	}
	if len(p.Chapters) == 0 {
		return fmt.Errorf("path %s: at least one chapter is required", p.Name)
	}
	for i, ch := range p.Chapters {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("path %s: chapters[%d]: %w", p.Name, i, err)
		}
	}
	return nil
}

func (ch Chapter) normalized() Chapter {
	clone := Chapter{
		Title:            strings.TrimSpace(ch.Title),
		Question:         strings.TrimSpace(ch.Question),
		CorrectLabel:     NormalizeLabel(ch.CorrectLabel),
		Hint:             strings.TrimSpace(ch.Hint),
		Explanation:      strings.TrimSpace(ch.Explanation),
		GatePrompt:       strings.TrimSpace(ch.GatePrompt),
		ReflectionPrompt: strings.TrimSpace(ch.ReflectionPrompt),
		Reward: Reward{
			Currency: ch.Reward.Currency,
			Token:    CanonicalToken(string(ch.Reward.Token)),
			Memento:  strings.TrimSpace(ch.Reward.Memento),
		},
	}
	if len(ch.Narrative) > 0 {
		clone.Narrative = make(map[Mode]string, len(ch.Narrative))
		for mode, text := range ch.Narrative {
			clone.Narrative[Mode(foldKey(string(mode)))] = strings.TrimSpace(text)
		}
	}
	if len(ch.Options) > 0 {
		clone.Options = make([]string, len(ch.Options))
		for i, option := range ch.Options {
			clone.Options[i] = strings.TrimSpace(option)
		}
	}
	return clone
}

// Validate enforces the chapter invariants. The correct label must match
// exactly one option by its leading label character.
func (ch Chapter) Validate() error {
	if strings.TrimSpace(ch.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(ch.Narrative[DefaultMode]) == "" {
		return fmt.Errorf("chapter %q: narrative for %s mode is required", ch.Title, DefaultMode)
	}
	if strings.TrimSpace(ch.Question) == "" {
		return fmt.Errorf("chapter %q: question is required", ch.Title)
	}
	if len(ch.Options) < 2 {
		return fmt.Errorf("chapter %q: at least two options are required", ch.Title)
	}
	label := NormalizeLabel(ch.CorrectLabel)
	if label == "" || utf8.RuneCountInString(strings.TrimSpace(ch.CorrectLabel)) != 1 {
		return fmt.Errorf("chapter %q: answer must be a single label character", ch.Title)
	}
	matches := 0
	seen := map[string]struct{}{}
	for _, option := range ch.Options {
		optLabel := OptionLabel(option)
		if _, dup := seen[optLabel]; dup {
			return fmt.Errorf("chapter %q: duplicate option label %s", ch.Title, optLabel)
		}
		seen[optLabel] = struct{}{}
		if optLabel == label {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("chapter %q: answer %s matches %d options, want exactly 1", ch.Title, label, matches)
	}
	if strings.TrimSpace(ch.Explanation) == "" {
		return fmt.Errorf("chapter %q: explanation is required", ch.Title)
	}
	if ch.Reward.Currency < 0 {
		return fmt.Errorf("chapter %q: reward gems must be >= 0", ch.Title)
	}
	return nil
}

// Slug lower-cases value, strips accents and joins words with dashes.
func Slug(value string) string {
	folded := foldKey(value)
	var b strings.Builder
	dash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// foldKey lower-cases and strips combining marks, so "Niño" and "nino" compare equal.
func foldKey(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(value))
	if err != nil {
		stripped = strings.TrimSpace(value)
	}
	return cases.Lower(language.Und).String(stripped)
}
