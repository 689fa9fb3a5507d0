// internal/session/views.go
//
// Texts and listings shared by the plain console and the full-screen UI.

package session

import (
	"fmt"

	"github.com/kingrea/senderos/internal/player"
)

const (
	WelcomeMessage      = "Bienvenido a Senderos de Luz 🌟"
	StartingDeckMessage = "Recibes un mazo inicial de virtudes y 1 Gema de Esperanza por tu valentía."
	FarewellMessage     = "Gracias por caminar por Senderos de Luz. ¡Hasta pronto!"
	InterruptMessage    = "Juego interrumpido. Que la paz te acompañe."
	EmptyTreeMessage    = "Todavía no hay testimonios. Cada capítulo ofrece la oportunidad de añadir uno."
	MissionQuestion     = "¿Te comprometes a intentarlo hoy? (s/n): "
)

// MenuAction is an entry of the main menu.
type MenuAction int

const (
	ActionTraverse MenuAction = iota + 1
	ActionTestimonies
	ActionMission
	ActionStatus
	ActionExit
)

// MenuItem pairs an action with its label.
type MenuItem struct {
	Action MenuAction
	Label  string
}

// MainMenu lists the main menu in display order.
var MainMenu = []MenuItem{
	{ActionTraverse, "Recorrer un camino bíblico"},
	{ActionTestimonies, "Ver Árbol de Testimonios"},
	{ActionMission, "Activar una Misión de Comunidad"},
	{ActionStatus, "Mostrar estado actual"},
	{ActionExit, "Salir del juego"},
}

// TestimonyEntry is one numbered testimony ready for display.
type TestimonyEntry struct {
	Heading string
	Text    string
}

// TestimonyTree numbers testimonies as "n. Path / Chapter".
func TestimonyTree(testimonies []player.Testimony) []TestimonyEntry {
	out := make([]TestimonyEntry, 0, len(testimonies))
	for i, t := range testimonies {
		out = append(out, TestimonyEntry{
			Heading: fmt.Sprintf("%d. %s / %s", i+1, t.PathName, t.ChapterTitle),
			Text:    t.Text,
		})
	}
	return out
}

// StatusLines renders a snapshot the way the status screen shows it.
func StatusLines(s player.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("Jugador: %s | Grupo: %s | Modo: %s", s.Name, s.AgeGroup, s.Mode),
		fmt.Sprintf("Gemas de Esperanza: %d", s.Currency),
		"Virtudes:",
	}
	for _, tc := range s.Tokens {
		lines = append(lines, fmt.Sprintf("  - %s: %d", tc.Kind, tc.Count))
	}
	return lines
}
