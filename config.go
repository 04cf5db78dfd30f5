package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultConfigName = ".todo.toml"
	defaultTaskName   = "todo.txt"
)

// ErrNoTaskPath is returned when neither the config nor --path names a task file.
var ErrNoTaskPath = errors.New("no task file path configured")

type Config struct {
	Path  string      `toml:"path"`
	Theme ThemeConfig `toml:"theme"`
}

type ThemeConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Accent     string `toml:"accent"`
	Priority   string `toml:"priority"`
	Done       string `toml:"done"`
}

func DefaultConfig() Config {
	return Config{
		Theme: ThemeConfig{
			Foreground: "0",
			Background: "15",
			Accent:     "#7571F9",
			Priority:   "#E5C07B",
			Done:       "#02BF87",
		},
	}
}

// DefaultConfigPath returns ~/.todo.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no config path supplied and couldn't find home: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

// LoadConfig reads the config at path, writing a default one pointing at
// ~/todo.txt first if the file is missing.
func LoadConfig(path string) (Config, error) {
	cfg, _, err := loadConfig(path)
	return cfg, err
}

func loadConfig(path string) (cfg Config, created bool, err error) {
	cfg = DefaultConfig()

	created, err = ensureConfig(path)
	if err != nil {
		return cfg, false, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, created, fmt.Errorf("parsing config %s: %w", path, err)
	}

	expanded, err := expandHome(cfg.Path)
	if err != nil {
		return cfg, created, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = expanded
	return cfg, created, nil
}

// ensureConfig writes a config holding only the default path key when none
// exists at path.
func ensureConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config %s: %w", path, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return false, fmt.Errorf("couldn't find home: %w", err)
	}

	doc := struct {
		Path string `toml:"path"`
	}{Path: filepath.Join(home, defaultTaskName)}
	if err := writeConfigFile(path, doc); err != nil {
		return false, err
	}
	return true, nil
}

// writeConfigFile encodes doc into a new file at path. A partly written
// file is removed so the next run does not mistake it for a config.
func writeConfigFile(path string, doc any) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("couldn't create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("couldn't write to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("couldn't write to %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
