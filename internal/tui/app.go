// internal/tui/app.go
//
// This is the full-screen shell for Senderos de Luz.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the screen we are on plus the player and the active journey
// 2. Update: key presses move the journey step machine forward
// 3. View: the current screen, the player panel and the journey log
//
// The journey itself lives in internal/journey; this file only maps keys to
// Answer / Assist / Reflect calls and renders what they return.

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/gate"
	"github.com/kingrea/senderos/internal/journey"
	"github.com/kingrea/senderos/internal/player"
	"github.com/kingrea/senderos/internal/session"
)

// appState represents which "screen" we're on
type appState int

const (
	stateIntakeName  appState = iota // Asking the player's name
	stateIntakeAge                   // Age group picker
	stateIntakeMode                  // Narrative mode picker
	stateMainMenu                    // Main menu
	statePathSelect                  // Path picker
	stateGate                        // Wisdom Gate answer input
	stateAssistOffer                 // Virtue offer after repeated misses
	stateReflection                  // Testimony input
	stateTestimonies                 // Testimony tree
	stateStatus                      // Player status
	stateMission                     // Community mission prompt
)

const (
	logPanelLines = 8
	defaultWidth  = 78
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithDefaultMode preselects mode in the intake picker.
func WithDefaultMode(mode content.Mode) AppOption {
	return func(a *App) {
		a.defaultMode = mode
	}
}

// WithTextWidth caps the width narrative text is wrapped to.
func WithTextWidth(width int) AppOption {
	return func(a *App) {
		if width > 0 {
			a.textWidth = width
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	session *session.Session
	player  *player.Player
	journey *journey.Journey

	defaultMode content.Mode
	textWidth   int

	// UI components
	input      textinput.Model
	ageMenu    list.Model
	modeMenu   list.Model
	mainMenu   list.Model
	pathMenu   list.Model
	assistMenu list.Model

	pendingName string
	paths       []session.PathSummary
	mission     string
	notices     []string // feedback shown under the current screen
	statusMsg   string   // footer line
	err         error

	interrupted bool
	exited      bool

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance over s.
func NewApp(s *session.Session, opts ...AppOption) *App {
	input := textinput.New()
	input.CharLimit = 280
	input.Prompt = "› "

	app := &App{
		state:       stateIntakeName,
		session:     s,
		defaultMode: content.DefaultMode,
		textWidth:   defaultWidth,
		input:       input,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	ageItems := make([]list.Item, len(content.AgeGroups))
	for i, g := range content.AgeGroups {
		ageItems[i] = menuItem{title: string(g), desc: "Esto ajusta el acompañamiento"}
	}
	app.ageMenu = newMenu("Elige tu grupo de edad", ageItems)

	modeItems := make([]list.Item, len(content.Modes))
	defaultIdx := 0
	for i, m := range content.Modes {
		modeItems[i] = menuItem{title: string(m), desc: m.Description()}
		if m == app.defaultMode {
			defaultIdx = i
		}
	}
	app.modeMenu = newMenu("Elige tu modo de viaje espiritual", modeItems)
	app.modeMenu.Select(defaultIdx)

	menuItems := make([]list.Item, len(session.MainMenu))
	for i, item := range session.MainMenu {
		menuItems[i] = menuItem{title: item.Label, desc: mainMenuHint(item.Action)}
	}
	app.mainMenu = newMenu("🌟 SENDEROS DE LUZ", menuItems)

	app.paths = s.ListPaths()
	pathItems := make([]list.Item, len(app.paths))
	for i, p := range app.paths {
		pathItems[i] = menuItem{title: p.Name, desc: p.Description}
	}
	app.pathMenu = newMenu("Caminos disponibles", pathItems)
	app.assistMenu = newMenu("¿Deseas usar una virtud?", nil)

	app.focusInput("Tu nombre (Enter para Peregrino)")
	return app
}

func newMenu(title string, items []list.Item) list.Model {
	menu := list.New(items, list.NewDefaultDelegate(), 60, 20)
	menu.Title = title
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.KeyMap.Quit.SetEnabled(false)
	menu.KeyMap.ForceQuit.SetEnabled(false)
	return menu
}

func mainMenuHint(action session.MenuAction) string {
	switch action {
	case session.ActionTraverse:
		return "Elige un camino y cruza sus Puertas de Sabiduría"
	case session.ActionTestimonies:
		return "Lee las reflexiones que has compartido"
	case session.ActionMission:
		return "Un pequeño servicio para hoy"
	case session.ActionStatus:
		return "Gemas y virtudes"
	default:
		return "Terminar por hoy"
	}
}

// Player returns the player created during intake, or nil.
func (a *App) Player() *player.Player { return a.player }

// Interrupted reports whether the program ended on ctrl+c.
func (a *App) Interrupted() bool { return a.interrupted }

// Exited reports whether the player chose to leave from the main menu.
func (a *App) Exited() bool { return a.exited }

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		w, h := max(20, msg.Width-6), max(10, msg.Height-12)
		for _, menu := range []*list.Model{&a.ageMenu, &a.modeMenu, &a.mainMenu, &a.pathMenu, &a.assistMenu} {
			menu.SetSize(w, h)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.interrupted = true
			return a, tea.Quit
		}
		if model, cmd, handled := a.handleKey(msg); handled {
			return model, cmd
		}
	}

	return a, a.updateActive(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()
	switch a.state {
	case stateIntakeName:
		if key == "enter" {
			a.pendingName = a.input.Value()
			a.input.Blur()
			a.state = stateIntakeAge
			return a, nil, true
		}
	case stateIntakeAge:
		if key == "enter" {
			a.state = stateIntakeMode
			return a, nil, true
		}
	case stateIntakeMode:
		if key == "enter" {
			age := content.AgeGroups[a.ageMenu.Index()]
			mode := content.Modes[a.modeMenu.Index()]
			a.player = a.session.CreatePlayer(a.pendingName, age, mode)
			a.statusMsg = session.StartingDeckMessage
			a.state = stateMainMenu
			return a, nil, true
		}
		if key == "esc" {
			a.state = stateIntakeAge
			return a, nil, true
		}
	case stateMainMenu:
		switch key {
		case "q":
			a.exited = true
			return a, tea.Quit, true
		case "enter":
			return a.handleMainMenuSelection()
		}
	case statePathSelect:
		switch key {
		case "esc", "0":
			return a.returnToMainMenu()
		case "enter":
			return a.beginJourney()
		}
	case stateGate:
		if key == "enter" {
			return a.submitAnswer()
		}
	case stateAssistOffer:
		switch key {
		case "enter":
			return a.resolveAssist(a.assistMenu.Index())
		case "esc", "n":
			return a.resolveAssist(len(gate.AssistKinds))
		}
	case stateReflection:
		if key == "enter" {
			return a.submitReflection()
		}
	case stateTestimonies, stateStatus:
		if key == "enter" || key == "esc" || key == "q" {
			return a.returnToMainMenu()
		}
	case stateMission:
		switch {
		case gate.IsYes(key):
			out := a.session.AcceptMission(a.player, a.mission)
			a.statusMsg = strings.Join(out.Lines(), " ")
			return a.returnToMainMenu()
		case key == "n" || key == "esc":
			a.statusMsg = a.session.DeclineMission(a.player, a.mission)
			return a.returnToMainMenu()
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.state {
	case stateIntakeName, stateGate, stateReflection:
		a.input, cmd = a.input.Update(msg)
	case stateIntakeAge:
		a.ageMenu, cmd = a.ageMenu.Update(msg)
	case stateIntakeMode:
		a.modeMenu, cmd = a.modeMenu.Update(msg)
	case stateMainMenu:
		a.mainMenu, cmd = a.mainMenu.Update(msg)
	case statePathSelect:
		a.pathMenu, cmd = a.pathMenu.Update(msg)
	case stateAssistOffer:
		a.assistMenu, cmd = a.assistMenu.Update(msg)
	}
	return cmd
}

// handleMainMenuSelection processes the selected main menu item
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd, bool) {
	idx := a.mainMenu.Index()
	if idx < 0 || idx >= len(session.MainMenu) {
		return a, nil, true
	}
	a.statusMsg = ""
	a.notices = nil
	switch session.MainMenu[idx].Action {
	case session.ActionTraverse:
		a.state = statePathSelect
	case session.ActionTestimonies:
		a.state = stateTestimonies
	case session.ActionMission:
		a.mission = a.session.DrawMission()
		a.state = stateMission
	case session.ActionStatus:
		a.state = stateStatus
	case session.ActionExit:
		a.exited = true
		return a, tea.Quit, true
	}
	return a, nil, true
}

func (a *App) returnToMainMenu() (tea.Model, tea.Cmd, bool) {
	a.state = stateMainMenu
	a.notices = nil
	a.input.Blur()
	return a, nil, true
}

func (a *App) beginJourney() (tea.Model, tea.Cmd, bool) {
	idx := a.pathMenu.Index()
	if idx < 0 || idx >= len(a.paths) {
		return a, nil, true
	}
	j, err := a.session.Begin(a.paths[idx].ID, a.player)
	if err != nil {
		a.err = err
		return a.returnToMainMenu()
	}
	a.err = nil
	a.journey = j
	a.notices = nil
	a.state = stateGate
	return a, a.focusInput("Tu respuesta (letra)"), true
}

func (a *App) submitAnswer() (tea.Model, tea.Cmd, bool) {
	v, receipt, err := a.journey.Answer(a.input.Value())
	a.input.Reset()
	switch {
	case errors.Is(err, gate.ErrEmptyAnswer):
		a.notices = []string{gate.MsgEnterLetter}
		return a, nil, true
	case err != nil:
		a.err = err
		return a, nil, true
	}
	if v.Correct {
		a.notices = []string{gate.MsgCorrectIntro + " " + v.Explanation}
		if receipt != nil {
			a.notices = append(a.notices, receipt.Lines()...)
		}
		a.state = stateReflection
		return a, a.focusInput("Comparte algo breve (Enter para omitir)"), true
	}
	a.notices = []string{gate.MsgIncorrect}
	if !v.AssistOffered {
		a.notices = append(a.notices, gate.MsgTryAgain)
		return a, nil, true
	}
	a.notices = append(a.notices, gate.MsgAssistOffer, gate.AssistStock(a.player))
	a.assistMenu.SetItems(a.assistItems())
	a.assistMenu.Select(0)
	a.input.Blur()
	a.state = stateAssistOffer
	return a, nil, true
}

func (a *App) assistItems() []list.Item {
	items := make([]list.Item, 0, len(gate.AssistKinds)+1)
	for _, kind := range gate.AssistKinds {
		desc := "Un momento para pensar otra vez"
		if kind == content.TokenDiscernment {
			desc = "Revela una pista"
		}
		items = append(items, menuItem{
			title: string(kind),
			desc:  fmt.Sprintf("%s · tienes %d", desc, a.player.Tokens(kind)),
		})
	}
	return append(items, menuItem{title: "No, gracias", desc: gate.MsgBreathe})
}

// resolveAssist spends the virtue at idx, or declines when idx is past the
// virtue entries.
func (a *App) resolveAssist(idx int) (tea.Model, tea.Cmd, bool) {
	if idx >= 0 && idx < len(gate.AssistKinds) {
		res, err := a.journey.Assist(gate.AssistKinds[idx])
		if err != nil {
			a.err = err
		} else {
			a.notices = []string{gate.DescribeAssist(res)}
		}
	} else {
		a.journey.Decline()
		a.notices = []string{gate.MsgBreathe}
	}
	a.state = stateGate
	return a, a.focusInput("Tu respuesta (letra)"), true
}

func (a *App) submitReflection() (tea.Model, tea.Cmd, bool) {
	recorded, err := a.journey.Reflect(a.input.Value())
	a.input.Reset()
	if err != nil {
		a.err = err
		return a, nil, true
	}
	notice := "Tal vez más adelante quieras dejar un testimonio."
	if recorded {
		notice = "Tu testimonio ha sido añadido al Árbol de Testimonios."
	}
	if a.journey.Done() {
		a.statusMsg = notice + " " + journey.CompletionMessage(a.journey.Path())
		a.journey = nil
		return a.returnToMainMenu()
	}
	a.notices = []string{notice}
	a.state = stateGate
	return a, a.focusInput("Tu respuesta (letra)"), true
}

func (a *App) focusInput(placeholder string) tea.Cmd {
	a.input.Reset()
	a.input.Placeholder = placeholder
	return a.input.Focus()
}

// View renders the current state to a string
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	var body string
	switch a.state {
	case stateIntakeName:
		body = a.renderIntakeName()
	case stateIntakeAge:
		body = a.ageMenu.View()
	case stateIntakeMode:
		body = a.modeMenu.View()
	case stateMainMenu:
		body = a.mainMenu.View()
	case statePathSelect:
		body = a.pathMenu.View() + "\n" + hintStyle.Render("Esc/0: volver al menú principal")
	case stateGate, stateAssistOffer, stateReflection:
		body = a.renderJourney(leftWidth - 4)
	case stateTestimonies:
		body = a.renderTestimonies(leftWidth - 4)
	case stateStatus:
		body = strings.Join(session.StatusLines(a.session.Status(a.player)), "\n")
	case stateMission:
		body = a.renderMission(leftWidth - 4)
	}
	return a.renderBoard(body, leftWidth, rightWidth)
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801")).MarginBottom(1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	optionsStyle = lipgloss.NewStyle().PaddingLeft(2)
)

func (a *App) renderBoard(mainContent string, leftWidth, rightWidth int) string {
	header := headerStyle.Render("🌟 SENDEROS DE LUZ")
	leftBox := boxStyle.Width(max(20, leftWidth)).Render(mainContent)
	body := leftBox
	if rightWidth > 0 && a.player != nil {
		rightBox := boxStyle.Width(max(20, rightWidth)).Render(a.renderPlayerPanel())
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := a.statusMsg
	if a.err != nil {
		footer = errorStyle.Render("⚠ " + a.err.Error())
	}
	sections = append(sections, footerStyle.Render(footer))
	return strings.Join(sections, "\n")
}

func (a *App) renderIntakeName() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(session.WelcomeMessage),
		"",
		"¿Cómo te llamas?",
		a.input.View(),
	)
}

func (a *App) renderPlayerPanel() string {
	lines := session.StatusLines(a.session.Status(a.player))
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Peregrino"), strings.Join(lines, "\n"))
}

func (a *App) renderJourney(width int) string {
	wrap := lipgloss.NewStyle().Width(min(max(20, width), a.textWidth))
	ch := a.journey.Chapter()
	path := a.journey.Path()
	parts := []string{
		titleStyle.Render(fmt.Sprintf("%s · %s (%d/%d)", path.Name, ch.Title, a.journey.Index()+1, len(path.Chapters))),
		"",
		wrap.Render(a.journey.Narrative()),
		"",
	}
	if a.state != stateReflection {
		if ch.GatePrompt != "" {
			parts = append(parts, wrap.Render(ch.GatePrompt))
		}
		parts = append(parts,
			wrap.Render(ch.Question),
			optionsStyle.Render(strings.Join(ch.Options, "\n")),
		)
	}
	for _, n := range a.notices {
		parts = append(parts, noticeStyle.Render(wrap.Render(n)))
	}
	switch a.state {
	case stateGate:
		parts = append(parts, "", a.input.View())
	case stateAssistOffer:
		parts = append(parts, "", a.assistMenu.View())
	case stateReflection:
		parts = append(parts, "", titleStyle.Render("Árbol de Testimonios - Comparte algo breve."))
		if ch.ReflectionPrompt != "" {
			parts = append(parts, wrap.Render(ch.ReflectionPrompt))
		}
		parts = append(parts, a.input.View())
	}
	return strings.Join(parts, "\n")
}

func (a *App) renderTestimonies(width int) string {
	wrap := lipgloss.NewStyle().Width(min(max(20, width), a.textWidth)).PaddingLeft(3)
	parts := []string{titleStyle.Render("Árbol de Testimonios Familiar"), ""}
	tree := session.TestimonyTree(a.session.Testimonies(a.player))
	if len(tree) == 0 {
		parts = append(parts, session.EmptyTreeMessage)
	}
	for _, entry := range tree {
		parts = append(parts, entry.Heading, wrap.Render(entry.Text))
	}
	parts = append(parts, "", hintStyle.Render("Enter/Esc: volver"))
	return strings.Join(parts, "\n")
}

func (a *App) renderMission(width int) string {
	wrap := lipgloss.NewStyle().Width(min(max(20, width), a.textWidth))
	return strings.Join([]string{
		titleStyle.Render("Misión de Comunidad"),
		"",
		wrap.Render(a.mission),
		"",
		"¿Te comprometes a intentarlo hoy? (s/n)",
	}, "\n")
}

func (a *App) renderLogPanel() string {
	book := a.session.Logbook()
	if book == nil {
		return ""
	}
	lines, total := book.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(book.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := titleStyle.Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := hintStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}
