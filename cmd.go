package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "0.1.0"

// ErrNotImplemented is returned by subcommands that are accepted but not built yet.
var ErrNotImplemented = errors.New("not implemented")

// app carries global flags and the state resolved before any subcommand runs.
type app struct {
	configPath string
	taskPath   string
	verbose    bool

	out    io.Writer
	logger *log.Logger
	cfg    Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "todo.txt",
		Short:         "todo.txt CLI for everywhere",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(errOut, a.verbose)
			return a.resolve()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "set a custom config file (default ~/.todo.toml)")
	flags.StringVarP(&a.taskPath, "path", "p", "", "override the todo.txt path from the config")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "add <task description>",
			Short: "add a new todo item",
			Long:  "Add a new todo item. The description may include +projects and @contexts.",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.add(strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "search <search terms>",
			Short: "search for a todo item",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.search(strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "browse",
			Short: "browse tasks interactively, reloading on change",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.browse()
			},
		},
	)

	return root
}

// resolve loads the config, applies --path and makes sure the task file exists.
func (a *app) resolve() error {
	if a.configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		a.configPath = p
	}

	cfg, created, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("created default config", "path", a.configPath)
	}
	a.logger.Debug("loaded config", "path", a.configPath, "tasks", cfg.Path)

	if a.taskPath != "" {
		if cfg.Path, err = expandHome(a.taskPath); err != nil {
			return err
		}
	}
	if cfg.Path == "" {
		return fmt.Errorf("config %s: %w", a.configPath, ErrNoTaskPath)
	}
	a.cfg = cfg

	created, err = EnsureTaskFile(cfg.Path)
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("created task file", "path", cfg.Path)
	}
	return nil
}

func (a *app) list() error {
	tasks, err := ParseFile(a.cfg.Path)
	if err != nil {
		return err
	}
	a.logger.Debug("parsed tasks", "path", a.cfg.Path, "count", len(tasks))
	return NewRenderer(a.out, a.cfg.Theme).Render(tasks)
}

func (a *app) add(description string) error {
	return fmt.Errorf("add %q: %w", description, ErrNotImplemented)
}

func (a *app) search(terms string) error {
	return fmt.Errorf("search %q: %w", terms, ErrNotImplemented)
}

func (a *app) browse() error {
	tasks, err := ParseFile(a.cfg.Path)
	if err != nil {
		return err
	}

	watcher, err := watchTaskFile(a.cfg.Path)
	if err != nil {
		// Browsing still works without live reload.
		a.logger.Warn("file watching disabled", "path", a.cfg.Path, "err", err)
	} else {
		defer watcher.Close()
	}

	model := NewModel(a.cfg, tasks, watcher)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
