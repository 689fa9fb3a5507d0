package console

import (
	"context"
	"fmt"

	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/gate"
	"github.com/kingrea/senderos/internal/player"
	"github.com/kingrea/senderos/internal/session"
)

// Shell is the plain menu-driven game loop.
type Shell struct {
	session     *session.Session
	io          Console
	defaultMode content.Mode
}

// ShellOption customizes a Shell.
type ShellOption func(*Shell)

// WithDefaultMode preselects mode during intake.
func WithDefaultMode(mode content.Mode) ShellOption {
	return func(sh *Shell) {
		sh.defaultMode = mode
	}
}

// NewShell builds a shell over s talking to io.
func NewShell(s *session.Session, io Console, opts ...ShellOption) *Shell {
	sh := &Shell{session: s, io: io, defaultMode: content.DefaultMode}
	for _, opt := range opts {
		if opt != nil {
			opt(sh)
		}
	}
	return sh
}

// Run plays intake and then the main menu until the player exits, input
// fails or ctx is cancelled between menu turns.
func (sh *Shell) Run(ctx context.Context) error {
	p, err := sh.Intake()
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := sh.menu()
		if err != nil {
			return err
		}
		switch action {
		case session.ActionTraverse:
			if err := sh.choosePath(p); err != nil {
				return err
			}
		case session.ActionTestimonies:
			sh.showTestimonies(p)
		case session.ActionMission:
			if err := sh.mission(p); err != nil {
				return err
			}
		case session.ActionStatus:
			sh.showStatus(p)
		case session.ActionExit:
			sh.io.Show(session.FarewellMessage)
			return nil
		}
	}
}

// Intake asks for name, age group and mode and creates the player.
func (sh *Shell) Intake() (*player.Player, error) {
	sh.io.Show(session.WelcomeMessage)
	name, err := sh.io.ReadLine("¿Cómo te llamas? ")
	if err != nil {
		return nil, err
	}

	sh.io.Show("Elige tu grupo de edad (esto ajusta el acompañamiento):")
	groups := make([]string, len(content.AgeGroups))
	for i, g := range content.AgeGroups {
		groups[i] = fmt.Sprintf("%d. %s", i+1, g)
	}
	sh.io.ShowOptions(groups)
	ageIdx, err := Choice{
		Prompt:  "Tu opción: ",
		Invalid: "Selecciona una opción válida (1-3).",
		Count:   len(content.AgeGroups),
	}.Ask(sh.io)
	if err != nil {
		return nil, err
	}

	sh.io.Show("Elige tu modo de viaje espiritual:")
	modes := make([]string, len(content.Modes))
	def := 0
	for i, m := range content.Modes {
		modes[i] = fmt.Sprintf("%d. %s", i+1, m.Description())
		if m == sh.defaultMode {
			def = i + 1
		}
	}
	sh.io.ShowOptions(modes)
	prompt := "Tu opción: "
	if def > 0 {
		prompt = fmt.Sprintf("Tu opción [%d]: ", def)
	}
	modeIdx, err := Choice{
		Prompt:  prompt,
		Invalid: "Selecciona una opción válida (1-3).",
		Count:   len(content.Modes),
		Default: def,
	}.Ask(sh.io)
	if err != nil {
		return nil, err
	}

	sh.io.Show(session.StartingDeckMessage)
	return sh.session.CreatePlayer(name, content.AgeGroups[ageIdx-1], content.Modes[modeIdx-1]), nil
}

func (sh *Shell) menu() (session.MenuAction, error) {
	sh.io.Show("=== Menú Principal ===")
	items := make([]string, len(session.MainMenu))
	for i, item := range session.MainMenu {
		items[i] = fmt.Sprintf("%d. %s", i+1, item.Label)
	}
	sh.io.ShowOptions(items)
	idx, err := Choice{
		Prompt:  "Elige una opción: ",
		Invalid: "Opción no reconocida. Intenta de nuevo.",
		Count:   len(session.MainMenu),
	}.Ask(sh.io)
	if err != nil {
		return 0, err
	}
	return session.MainMenu[idx-1].Action, nil
}

func (sh *Shell) choosePath(p *player.Player) error {
	paths := sh.session.ListPaths()
	sh.io.Show("=== Caminos disponibles ===")
	items := make([]string, 0, len(paths)+1)
	for i, summary := range paths {
		items = append(items, fmt.Sprintf("%d. %s - %s", i+1, summary.Name, summary.Description))
	}
	items = append(items, "0. Volver al menú principal")
	sh.io.ShowOptions(items)
	idx, err := Choice{
		Prompt:    "Elige un camino: ",
		Invalid:   "Opción no válida. Intenta nuevamente.",
		Count:     len(paths),
		AllowBack: true,
	}.Ask(sh.io)
	if err != nil || idx == 0 {
		return err
	}
	return sh.session.Traverse(paths[idx-1].ID, p, sh.io)
}

func (sh *Shell) showTestimonies(p *player.Player) {
	sh.io.Show("=== Árbol de Testimonios Familiar ===")
	tree := session.TestimonyTree(sh.session.Testimonies(p))
	if len(tree) == 0 {
		sh.io.Show(session.EmptyTreeMessage)
		return
	}
	for _, entry := range tree {
		sh.io.ShowOptions([]string{entry.Heading})
		sh.io.Show("   " + entry.Text)
	}
	sh.io.Show("=====================================")
}

func (sh *Shell) mission(p *player.Player) error {
	mission := sh.session.DrawMission()
	sh.io.Show("=== Misión de Comunidad ===")
	sh.io.Show(mission)
	decision, err := sh.io.ReadLine(session.MissionQuestion)
	if err != nil {
		return err
	}
	if !gate.IsYes(decision) {
		sh.io.Show(sh.session.DeclineMission(p, mission))
		return nil
	}
	for _, line := range sh.session.AcceptMission(p, mission).Lines() {
		sh.io.Show(line)
	}
	return nil
}

func (sh *Shell) showStatus(p *player.Player) {
	sh.io.Show("=== Estado Actual ===")
	sh.io.ShowOptions(session.StatusLines(sh.session.Status(p)))
	sh.io.Show("======================")
}
