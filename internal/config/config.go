// internal/config/config.go
//
// This package handles configuration and the .senderos directory structure.
// Every directory the game is launched from gets a .senderos/ folder holding
// config.yaml, logs and optional content packs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/senderos/internal/content"
)

const (
	// Dir is the name of the directory created in the launch directory
	Dir = ".senderos"

	defaultWidth    = 78
	minWidth        = 20
	maxWidth        = 400
	defaultLogLevel = "info"
)

const defaultProjectConfigYAML = `# senderos configuration
version: 1

player:
  # cuento, estrategia or reflexion; preselected during intake
  default_mode: cuento

display:
  width: 78
  # plain: true uses the line-by-line console instead of the full-screen UI
  plain: false

# Extra content packs (*.yaml, *.yml or *.go). .senderos/content is always scanned.
content:
  include_default: true
  dirs: []

logging:
  level: info
`

// PlayerConfig captures intake preferences.
type PlayerConfig struct {
	DefaultMode string `yaml:"default_mode"`
}

// DisplayConfig captures rendering preferences.
type DisplayConfig struct {
	Width int  `yaml:"width"`
	Plain bool `yaml:"plain"`
}

// ContentConfig lists where paths are loaded from.
type ContentConfig struct {
	IncludeDefault *bool    `yaml:"include_default,omitempty"`
	Dirs           []string `yaml:"dirs,omitempty"`
}

// LoggingConfig controls the diagnostic log.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ProjectConfig models .senderos/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Player  PlayerConfig  `yaml:"player"`
	Display DisplayConfig `yaml:"display"`
	Content ContentConfig `yaml:"content"`
	Logging LoggingConfig `yaml:"logging"`
}

// EnvOverrides are read from the environment after config.yaml.
type EnvOverrides struct {
	Plain    *bool  `env:"SENDEROS_PLAIN"`
	Width    int    `env:"SENDEROS_WIDTH"`
	Mode     string `env:"SENDEROS_MODE"`
	LogLevel string `env:"SENDEROS_LOG_LEVEL"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the game was launched from
	ProjectDir string

	// SenderosDir is ProjectDir/.senderos
	SenderosDir string

	Project ProjectConfig
}

// InitDir creates the .senderos directory structure in projectDir.
//
// Structure created:
// .senderos/
// ├── config.yaml
// ├── logs/      <- senderos.log (diagnostics) and journey.log
// └── content/   <- optional content packs and missions.yaml
func InitDir(projectDir string) error {
	root := filepath.Join(projectDir, Dir)
	dirs := []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "content"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig loads config.yaml (if any) and applies environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:  projectDir,
		SenderosDir: filepath.Join(projectDir, Dir),
		Project:     defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.SenderosDir, "logs")
}

// ContentDir returns the project-local content pack directory
func (c *Config) ContentDir() string {
	return filepath.Join(c.SenderosDir, "content")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.SenderosDir, "config.yaml")
}

// DiagnosticsLogPath is where the structured log is written.
func (c *Config) DiagnosticsLogPath() string {
	return filepath.Join(c.LogsDir(), "senderos.log")
}

// JourneyLogPath is where the human-readable journey log is written.
func (c *Config) JourneyLogPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// ContentDirs returns every directory scanned for content packs, the
// project-local one first.
func (c *Config) ContentDirs() []string {
	dirs := []string{c.ContentDir()}
	for _, dir := range c.Project.Content.Dirs {
		if !contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// IncludeDefaultContent reports whether the embedded paths are loaded.
func (c *Config) IncludeDefaultContent() bool {
	if c.Project.Content.IncludeDefault == nil {
		return true
	}
	return *c.Project.Content.IncludeDefault
}

// DefaultMode returns the preselected narrative mode.
func (c *Config) DefaultMode() content.Mode {
	mode, err := content.ParseMode(c.Project.Player.DefaultMode)
	if err != nil {
		return content.DefaultMode
	}
	return mode
}

// Width returns the wrap width for narrative text.
func (c *Config) Width() int {
	return c.Project.Display.Width
}

// Plain reports whether the line console should be used.
func (c *Config) Plain() bool {
	return c.Project.Display.Plain
}

// LogLevel returns the diagnostic log level.
func (c *Config) LogLevel() string {
	return c.Project.Logging.Level
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnv() error {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	if overrides.Plain != nil {
		c.Project.Display.Plain = *overrides.Plain
	}
	if overrides.Width != 0 {
		c.Project.Display.Width = overrides.Width
	}
	if overrides.Mode != "" {
		c.Project.Player.DefaultMode = overrides.Mode
	}
	if overrides.LogLevel != "" {
		c.Project.Logging.Level = overrides.LogLevel
	}
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Player.DefaultMode) == "" {
		pc.Player.DefaultMode = string(content.DefaultMode)
	}
	if pc.Display.Width == 0 {
		pc.Display.Width = defaultWidth
	}
	if strings.TrimSpace(pc.Logging.Level) == "" {
		pc.Logging.Level = defaultLogLevel
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Player.DefaultMode = strings.ToLower(strings.TrimSpace(pc.Player.DefaultMode))
	pc.Logging.Level = strings.ToLower(strings.TrimSpace(pc.Logging.Level))
	var dirs []string
	for _, dir := range pc.Content.Dirs {
		if resolved := resolvePath(base, dir); resolved != "" && !contains(dirs, resolved) {
			dirs = append(dirs, resolved)
		}
	}
	pc.Content.Dirs = dirs
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, err := content.ParseMode(pc.Player.DefaultMode); err != nil {
		return fmt.Errorf("player.default_mode: %w", err)
	}
	if pc.Display.Width < minWidth || pc.Display.Width > maxWidth {
		return fmt.Errorf("display.width must be between %d and %d", minWidth, maxWidth)
	}
	switch pc.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
