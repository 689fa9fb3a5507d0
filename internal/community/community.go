// internal/community/community.go
//
// Community Missions are small real-world tasks drawn at random from a
// deck. Accepting one earns gems and either spends a Servicio token or, for
// players who have none left, grants one for their willingness.

package community

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/senderos/internal/content"
)

const (
	// MissionsFilename is the deck file looked up in content directories.
	MissionsFilename = "missions.yaml"

	// MissionReward is the number of gems for accepting a mission.
	MissionReward = 2
)

//go:embed missions.yaml
var defaultDeckYAML []byte

// DeckConfig models the on-disk missions.yaml schema.
type DeckConfig struct {
	Missions []string `yaml:"missions"`
}

// Deck holds the mission prompts a session draws from.
type Deck struct {
	Source   string
	missions []string
	pick     func(n int) int
}

// Option customizes a Deck.
type Option func(*Deck)

// WithPicker replaces the uniform random index picker.
func WithPicker(pick func(n int) int) Option {
	return func(d *Deck) {
		if pick != nil {
			d.pick = pick
		}
	}
}

// Parse decodes and validates a missions payload.
func Parse(data []byte, opts ...Option) (*Deck, error) {
	var cfg DeckConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("community: parse missions: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("community: %w", err)
	}
	d := &Deck{missions: cfg.Missions, pick: rand.Intn}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Default returns the deck embedded in the binary.
func Default(opts ...Option) (*Deck, error) {
	d, err := Parse(defaultDeckYAML, opts...)
	if err != nil {
		return nil, err
	}
	d.Source = "embedded"
	return d, nil
}

// Load reads missions.yaml from dir, falling back to the embedded deck when
// the file does not exist.
func Load(dir string, opts ...Option) (*Deck, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return Default(opts...)
	}
	path := filepath.Join(trimmed, MissionsFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(opts...)
		}
		return nil, fmt.Errorf("community: read %s: %w", path, err)
	}
	d, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("community: %s: %w", path, err)
	}
	d.Source = filepath.Clean(path)
	return d, nil
}

// Missions returns every prompt in the deck.
func (d *Deck) Missions() []string {
	out := make([]string, len(d.missions))
	copy(out, d.missions)
	return out
}

// Draw picks one mission uniformly at random.
func (d *Deck) Draw() string {
	idx := d.pick(len(d.missions))
	if idx < 0 || idx >= len(d.missions) {
		idx = 0
	}
	return d.missions[idx]
}

// Member is the player state a mission touches.
type Member interface {
	AddCurrency(n int)
	AddToken(kind content.TokenKind)
	SpendToken(kind content.TokenKind) bool
	Currency() int
}

// Outcome describes what accepting a mission did.
type Outcome struct {
	Mission        string
	CurrencyGained int
	CurrencyTotal  int
	SpentService   bool
	GrantedService bool
}

// Accept commits member to mission: two gems, and a Servicio token is spent
// or, when none is left, granted.
func Accept(member Member, mission string) Outcome {
	out := Outcome{Mission: mission, CurrencyGained: MissionReward}
	member.AddCurrency(MissionReward)
	if member.SpendToken(content.TokenService) {
		out.SpentService = true
	} else {
		member.AddToken(content.TokenService)
		out.GrantedService = true
	}
	out.CurrencyTotal = member.Currency()
	return out
}

// Lines renders the outcome as the notices shown to the player.
func (o Outcome) Lines() []string {
	var lines []string
	if o.SpentService {
		lines = append(lines, "Has usado la virtud 'Servicio' para animar a otros.")
	}
	if o.GrantedService {
		lines = append(lines, "Aún no tenías la virtud 'Servicio', ¡recibe una por tu disposición!")
	}
	lines = append(lines, fmt.Sprintf("Recibes %d Gemas de Esperanza por tu compromiso. ¡Gracias por servir!", o.CurrencyGained))
	return lines
}

// DeclineMessage is shown when the player passes on a mission.
const DeclineMessage = "Quizá otro día. La misión seguirá esperándote."

func (cfg *DeckConfig) normalize() {
	kept := cfg.Missions[:0]
	for _, m := range cfg.Missions {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	cfg.Missions = kept
}

func (cfg *DeckConfig) validate() error {
	if len(cfg.Missions) == 0 {
		return fmt.Errorf("missions must list at least one prompt")
	}
	return nil
}
