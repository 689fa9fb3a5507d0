// Package console is the line-oriented Display/Input surface used by the
// plain shell and by tests that drive the blocking journey.
package console

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Console shows text and reads one line at a time.
type Console interface {
	Show(text string)
	ShowOptions(options []string)
	ReadLine(prompt string) (string, error)
}

// Terminal is a Console over any reader and writer, usually stdin/stdout.
type Terminal struct {
	in   *bufio.Reader
	out  io.Writer
	wrap lipgloss.Style
}

// New returns a Terminal wrapping shown text at width columns. A width of
// zero or less disables wrapping.
func New(in io.Reader, out io.Writer, width int) *Terminal {
	style := lipgloss.NewStyle()
	if width > 0 {
		style = style.Width(width)
	}
	return &Terminal{in: bufio.NewReader(in), out: out, wrap: style}
}

// NewScripted returns a Terminal that answers ReadLine with lines in order
// and then reports io.EOF. Everything written is captured in the buffer.
func NewScripted(width int, lines ...string) (*Terminal, *bytes.Buffer) {
	var input string
	if len(lines) > 0 {
		input = strings.Join(lines, "\n") + "\n"
	}
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, width), out
}

// Show prints text wrapped to the terminal width.
func (t *Terminal) Show(text string) {
	fmt.Fprintln(t.out, Wrap(t.wrap, text))
}

// ShowOptions prints each option on its own line, unwrapped.
func (t *Terminal) ShowOptions(options []string) {
	for _, opt := range options {
		fmt.Fprintln(t.out, opt)
	}
}

// ReadLine prints prompt and returns the next line without its terminator.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(t.out, prompt)
	}
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Wrap renders text through style and strips the padding lipgloss adds to
// reach the block width.
func Wrap(style lipgloss.Style, text string) string {
	lines := strings.Split(style.Render(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// Choice describes a numbered selection.
type Choice struct {
	Prompt    string
	Invalid   string
	Count     int
	AllowBack bool
	Default   int
}

// Ask reads until the answer is a number in [1, Count], or 0 when AllowBack
// is set. A blank answer selects Default when it is in range.
func (c Choice) Ask(con Console) (int, error) {
	for {
		line, err := con.ReadLine(c.Prompt)
		if err != nil {
			return 0, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && c.Default >= 1 && c.Default <= c.Count {
			return c.Default, nil
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			if n >= 1 && n <= c.Count {
				return n, nil
			}
			if n == 0 && c.AllowBack {
				return 0, nil
			}
		}
		con.Show(c.Invalid)
	}
}
