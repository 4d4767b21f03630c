// Package config loads the optional YAML settings file of the clc driver.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	EnvVar          = "CLC_CONFIG"
	defaultFile     = ".clc.yml"
	defaultHistory  = ".clc_history"
	defaultPrompt   = "> "
	defaultLogLevel = "info"
)

// Config holds the driver settings after defaults have been applied.
type Config struct {
	Path        string
	Prompt      string
	HistoryFile string
	LogLevel    string
	Color       bool
}

// configDisk mirrors the file; pointers tell absent keys from zero values.
type configDisk struct {
	Prompt      *string `yaml:"prompt"`
	HistoryFile *string `yaml:"history_file"`
	LogLevel    *string `yaml:"log_level"`
	Color       *bool   `yaml:"color"`
}

// stderrIsTerminal decides the color default: escape codes only when
// errors go to a terminal.
var stderrIsTerminal = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }

func Default() *Config {
	cfg := &Config{
		Prompt:   defaultPrompt,
		LogLevel: defaultLogLevel,
		Color:    stderrIsTerminal(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, defaultHistory)
	}
	return cfg
}

// DefaultPath is $CLC_CONFIG when set, otherwise ~/.clc.yml. It is empty
// when neither can be determined.
func DefaultPath() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultFile)
}

// Load reads the file at path over the defaults. A missing file or an
// empty path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	var raw configDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	raw.apply(cfg)
	return cfg, nil
}

func (d configDisk) apply(cfg *Config) {
	if d.Prompt != nil {
		cfg.Prompt = *d.Prompt
	}
	if d.HistoryFile != nil {
		cfg.HistoryFile = expandHome(*d.HistoryFile)
	}
	if d.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*d.LogLevel)
	}
	if d.Color != nil {
		cfg.Color = *d.Color
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}
