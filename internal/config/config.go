package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Lint          LintConfig          `toml:"lint"`
	Opencode      OpencodeConfig      `toml:"opencode"`
	Parser        PhaseConfig         `toml:"parser"`
	Fixer         FixerConfig         `toml:"fixer"`
	History       HistoryConfig       `toml:"history"`
	Notifications NotificationsConfig `toml:"notifications"`
	Prompts       PromptsConfig       `toml:"prompts"`
}

// LintConfig holds lint command settings. Command is consulted only when
// neither an argument nor ACC_LINT_COMMAND supplies one.
type LintConfig struct {
	Command string `toml:"command"`
	Shell   string `toml:"shell" validate:"required"`
	Cwd     string `toml:"cwd"`
}

// OpencodeConfig holds the opencode binary and its base arguments
type OpencodeConfig struct {
	Bin  string   `toml:"bin" validate:"required"`
	Args []string `toml:"args"`
}

// PhaseConfig holds model settings of one opencode phase
type PhaseConfig struct {
	Model     string   `toml:"model"`
	ExtraArgs []string `toml:"extra_args"`
}

// FixerConfig holds fix phase settings
type FixerConfig struct {
	PhaseConfig
	Concurrency int `toml:"concurrency" validate:"gte=1"`
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled      bool   `toml:"enabled"`
	DatabasePath string `toml:"database_path" validate:"required_if=Enabled true"`
}

// NotificationsConfig holds notification settings
type NotificationsConfig struct {
	Desktop      bool   `toml:"desktop"`
	SlackWebhook string `toml:"slack_webhook" validate:"omitempty,url"`
}

// PromptsConfig holds prompt template settings
type PromptsConfig struct {
	OverrideDir string `toml:"override_dir"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Lint: LintConfig{
			Shell: "bash",
		},
		Opencode: OpencodeConfig{
			Bin:  "opencode",
			Args: []string{"run"},
		},
		Fixer: FixerConfig{
			Concurrency: 1,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(home, ".local", "share", "acc", "history.db"),
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Expand paths
	cfg.Lint.Cwd = ExpandPath(cfg.Lint.Cwd)
	cfg.History.DatabasePath = ExpandPath(cfg.History.DatabasePath)
	cfg.Prompts.OverrideDir = ExpandPath(cfg.Prompts.OverrideDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
	})
	return v
}

// Validate checks field constraints and reports the first violation with
// its TOML key, e.g. fixer.concurrency.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}
	return fmt.Errorf("%s: failed %q check (value %v)", key, fe.Tag(), fe.Value())
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// LocalConfigName is the project-local config file searched for upwards
// from the working directory.
const LocalConfigName = ".acc.toml"

// FindLocalConfig returns the nearest LocalConfigName in the working
// directory or one of its parents, or "" if there is none.
func FindLocalConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, LocalConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadWithLocalFallback loads path if given, else the nearest project-local
// config, else the user config at DefaultConfigPath.
func LoadWithLocalFallback(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if local := FindLocalConfig(); local != "" {
		return Load(local)
	}
	return Load(DefaultConfigPath())
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "acc", "config.toml")
}
