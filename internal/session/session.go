// internal/session/session.go
//
// Session is the entry point both shells talk to. It owns the injected
// catalog and mission deck and forwards journey events to the journey log
// and the diagnostic logger. Player state lives in *player.Player and is
// passed explicitly to each call.

package session

import (
	"errors"
	"fmt"

	"github.com/kingrea/senderos/internal/community"
	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/journey"
	"github.com/kingrea/senderos/internal/logbook"
	"github.com/kingrea/senderos/internal/logging"
	"github.com/kingrea/senderos/internal/player"
)

var (
	ErrUnknownPath = errors.New("session: unknown path")
	ErrNoCatalog   = errors.New("session: catalog is required")
)

// PathSummary is the menu view of a path.
type PathSummary struct {
	ID          string
	Name        string
	Description string
	Chapters    int
}

// Option customizes a Session.
type Option func(*Session)

// WithDeck replaces the embedded mission deck.
func WithDeck(deck *community.Deck) Option {
	return func(s *Session) {
		if deck != nil {
			s.deck = deck
		}
	}
}

// WithLogbook records journey events in book.
func WithLogbook(book *logbook.Logbook) Option {
	return func(s *Session) {
		s.book = book
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// Session ties one run of the game to its content.
type Session struct {
	catalog *content.Catalog
	deck    *community.Deck
	book    *logbook.Logbook
	log     *logging.Logger
}

// New builds a session over catalog.
func New(catalog *content.Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, ErrNoCatalog
	}
	s := &Session{catalog: catalog, log: logging.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.deck == nil {
		deck, err := community.Default()
		if err != nil {
			return nil, fmt.Errorf("session: load missions: %w", err)
		}
		s.deck = deck
	}
	if s.book != nil {
		s.log = s.log.With("session", s.book.Session())
	}
	return s, nil
}

// CreatePlayer registers a new participant. A blank name becomes
// player.DefaultName.
func (s *Session) CreatePlayer(name string, ageGroup content.AgeGroup, mode content.Mode) *player.Player {
	p := player.New(name, ageGroup, mode)
	s.book.Info("%s se une al viaje (%s, modo %s)", p.Name(), p.AgeGroup(), p.Mode())
	s.log.Info("player created", "age_group", string(p.AgeGroup()), "mode", string(p.Mode()))
	return p
}

// ListPaths returns the catalog in its stable order.
func (s *Session) ListPaths() []PathSummary {
	paths := s.catalog.Paths()
	out := make([]PathSummary, 0, len(paths))
	for _, p := range paths {
		out = append(out, PathSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Chapters:    len(p.Chapters),
		})
	}
	return out
}

// Path looks a path up by ID.
func (s *Session) Path(id string) (content.Path, error) {
	p, ok := s.catalog.Path(id)
	if !ok {
		return content.Path{}, fmt.Errorf("%w: %q", ErrUnknownPath, id)
	}
	return p, nil
}

// Begin starts an event-driven journey for the full-screen shell.
func (s *Session) Begin(pathID string, p *player.Player) (*journey.Journey, error) {
	path, err := s.Path(pathID)
	if err != nil {
		return nil, err
	}
	return journey.Start(path, p, journey.WithObserver(s.observe)), nil
}

// Traverse plays pathID to completion on a blocking console.
func (s *Session) Traverse(pathID string, p *player.Player, io journey.Console) error {
	path, err := s.Path(pathID)
	if err != nil {
		return err
	}
	if err := journey.Traverse(path, p, io, journey.WithObserver(s.observe)); err != nil {
		s.log.Warn("traverse interrupted", "path", path.ID, "error", err)
		return fmt.Errorf("session: traverse %s: %w", path.ID, err)
	}
	return nil
}

// Testimonies returns the player's testimony tree in insertion order.
func (s *Session) Testimonies(p *player.Player) []player.Testimony {
	return p.Testimonies()
}

// Status returns a read-only view of the player.
func (s *Session) Status(p *player.Player) player.Snapshot {
	return p.Snapshot()
}

// DrawMission picks a community mission at random.
func (s *Session) DrawMission() string {
	mission := s.deck.Draw()
	s.log.Debug("mission drawn", "source", s.deck.Source)
	return mission
}

// AcceptMission commits p to mission.
func (s *Session) AcceptMission(p *player.Player, mission string) community.Outcome {
	out := community.Accept(p, mission)
	s.book.Info("%s acepta una misión: %s", p.Name(), mission)
	s.log.Info("mission accepted", "gems", out.CurrencyTotal, "spent_service", out.SpentService)
	return out
}

// DeclineMission records that p passed on mission. Nothing changes.
func (s *Session) DeclineMission(p *player.Player, mission string) string {
	s.book.Info("%s deja la misión para otro día", p.Name())
	return community.DeclineMessage
}

// Logbook returns the journey log, which may be nil.
func (s *Session) Logbook() *logbook.Logbook {
	return s.book
}

func (s *Session) observe(e journey.Event) {
	switch e.Kind {
	case journey.EventStarted:
		s.book.Info("Camino %s iniciado", e.Path)
		s.log.Info("path started", "path", e.Path)
	case journey.EventAttempt:
		s.book.Info("%s / %s: intento %d (%s)", e.Path, e.Chapter, e.Attempt, e.Detail)
		s.log.Debug("gate attempt", "path", e.Path, "chapter", e.Chapter, "attempt", e.Attempt)
	case journey.EventAssist:
		s.book.Info("%s / %s: ayuda %s", e.Path, e.Chapter, e.Detail)
		s.log.Info("assist", "path", e.Path, "chapter", e.Chapter, "detail", e.Detail)
	case journey.EventRewarded:
		s.book.Info("%s / %s: puerta abierta en %d intento(s). %s", e.Path, e.Chapter, e.Attempt, e.Detail)
		s.log.Info("chapter rewarded", "path", e.Path, "chapter", e.Chapter, "attempts", e.Attempt)
	case journey.EventTestimony:
		s.book.Info("%s / %s: testimonio añadido", e.Path, e.Chapter)
	case journey.EventCompleted:
		s.book.Info("Camino %s completado", e.Path)
		s.log.Info("path completed", "path", e.Path)
	}
}
