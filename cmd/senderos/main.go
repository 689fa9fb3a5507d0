// cmd/senderos/main.go
//
// This is the entry point for Senderos de Luz.
//
// Flow:
// 1. Prepare .senderos/ in the chosen directory and load config.yaml
// 2. Load the path catalog (embedded paths plus any content packs) and the mission deck
// 3. Run the full-screen UI, or the plain console when -plain / SENDEROS_PLAIN is set
//
// Interrupting the game at any point prints a farewell and exits 0.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/senderos/internal/community"
	"github.com/kingrea/senderos/internal/config"
	"github.com/kingrea/senderos/internal/console"
	"github.com/kingrea/senderos/internal/content"
	"github.com/kingrea/senderos/internal/logbook"
	"github.com/kingrea/senderos/internal/logging"
	"github.com/kingrea/senderos/internal/session"
	"github.com/kingrea/senderos/internal/tui"
)

func main() {
	projectDir := flag.String("dir", "", "directory holding .senderos/ (defaults to cwd)")
	plain := flag.Bool("plain", false, "use the line-by-line console instead of the full-screen UI")
	width := flag.Int("width", 0, "wrap width for narrative text")
	flag.Parse()

	dir := *projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
		dir = cwd
	}
	absoluteDir, err := filepath.Abs(dir)
	if err != nil {
		die("resolve directory: %v", err)
	}
	if err := config.InitDir(absoluteDir); err != nil {
		die("init %s: %v", config.Dir, err)
	}
	cfg, err := config.NewConfig(absoluteDir)
	if err != nil {
		die("load config: %v", err)
	}
	if *plain {
		cfg.Project.Display.Plain = true
	}
	if *width > 0 {
		cfg.Project.Display.Width = *width
	}

	log, err := logging.New(cfg.DiagnosticsLogPath(), cfg.LogLevel())
	if err != nil {
		die("open log: %v", err)
	}
	defer log.Sync()

	catalog, err := content.Load(cfg.IncludeDefaultContent(), cfg.ContentDirs()...)
	if err != nil {
		log.Error("content load failed", "error", err)
		die("load paths: %v", err)
	}
	deck, err := community.Load(cfg.ContentDir())
	if err != nil {
		log.Error("mission deck load failed", "error", err)
		die("load missions: %v", err)
	}
	book, err := logbook.New(cfg.JourneyLogPath())
	if err != nil {
		die("open journey log: %v", err)
	}
	sess, err := session.New(catalog,
		session.WithDeck(deck),
		session.WithLogbook(book),
		session.WithLogger(log),
	)
	if err != nil {
		die("start session: %v", err)
	}
	log.Info("senderos started",
		"session", book.Session(),
		"paths", catalog.Len(),
		"missions", deck.Source,
		"plain", cfg.Plain(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Plain() {
		runPlain(ctx, sess, cfg, log)
		return
	}
	runTUI(ctx, sess, cfg, log)
}

// runPlain plays on stdin/stdout. The shell blocks on reads, so it runs on
// its own goroutine and an interrupt ends the process from here.
func runPlain(ctx context.Context, sess *session.Session, cfg *config.Config, log *logging.Logger) {
	term := console.New(os.Stdin, os.Stdout, cfg.Width())
	shell := console.NewShell(sess, term, console.WithDefaultMode(cfg.DefaultMode()))

	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()

	select {
	case <-ctx.Done():
		fmt.Println()
		fmt.Println(session.InterruptMessage)
		log.Info("interrupted")
	case err := <-done:
		switch {
		case err == nil:
			log.Info("player exited")
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			fmt.Println()
			fmt.Println(session.InterruptMessage)
			log.Info("input closed")
		default:
			log.Error("console failed", "error", err)
			log.Sync()
			die("%v", err)
		}
	}
}

func runTUI(ctx context.Context, sess *session.Session, cfg *config.Config, log *logging.Logger) {
	app := tui.NewApp(sess,
		tui.WithDefaultMode(cfg.DefaultMode()),
		tui.WithTextWidth(cfg.Width()),
	)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error("tui failed", "error", err)
		log.Sync()
		die("run UI: %v", err)
	}
	switch {
	case app.Exited():
		fmt.Println(session.FarewellMessage)
		log.Info("player exited")
	default:
		fmt.Println(session.InterruptMessage)
		log.Info("interrupted")
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "senderos: "+format+"\n", args...)
	os.Exit(1)
}
