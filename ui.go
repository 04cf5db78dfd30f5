package main

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Reload, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type fileChangedMsg struct{}

type Model struct {
	cfg        Config
	tasks      []Task
	cursor     int
	watcher    *fsnotify.Watcher
	help       help.Model
	width      int
	height     int
	err        error
	statusMsg  string
	statusTime time.Time
}

// tagColor returns a consistent color for a given project or context.
func tagColor(tag string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(tag))
	colors := []string{
		"#E06C75", "#98C379", "#E5C07B", "#61AFEF",
		"#C678DD", "#56B6C2", "#D19A66", "#BE5046",
	}
	return lipgloss.Color(colors[h.Sum32()%uint32(len(colors))])
}

// NewModel builds the browser. watcher may be nil, in which case the list
// only reloads on demand.
func NewModel(cfg Config, tasks []Task, watcher *fsnotify.Watcher) Model {
	return Model{
		cfg:     cfg,
		tasks:   tasks,
		watcher: watcher,
		help:    help.New(),
	}
}

// watchTaskFile watches the directory holding path, since editors often
// replace files rather than writing them in place.
func watchTaskFile(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func waitForFileChange(watcher *fsnotify.Watcher, path string) tea.Cmd {
	if watcher == nil {
		return nil
	}
	target := filepath.Clean(path)
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					// Let bursts of writes settle.
					time.Sleep(100 * time.Millisecond)
					return fileChangedMsg{}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForFileChange(m.watcher, m.cfg.Path)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case fileChangedMsg:
		m = m.reload()
		if m.err == nil {
			m.statusMsg = "File changed, reloaded"
			m.statusTime = time.Now()
		}
		return m, waitForFileChange(m.watcher, m.cfg.Path)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, keys.Down):
			if len(m.tasks) > 0 {
				m.cursor = min(m.cursor+1, len(m.tasks)-1)
			}
		case key.Matches(msg, keys.Reload):
			m = m.reload()
			if m.err == nil {
				m.statusMsg = "Reloaded"
				m.statusTime = time.Now()
			}
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// reload re-parses the task file. On failure the previous tasks are kept.
func (m Model) reload() Model {
	tasks, err := ParseFile(m.cfg.Path)
	if err != nil {
		m.err = err
		m.statusMsg = "Reload error: " + err.Error()
		return m
	}
	m.err = nil
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}
	return m
}

var appStyle = lipgloss.NewStyle().Padding(1, 2)

func (m Model) View() string {
	accent := lipgloss.Color(m.cfg.Theme.Accent)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1a1a2e")).
		Background(accent).
		Padding(0, 1).
		Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("todo.txt · %d tasks", len(m.tasks))))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks in " + m.cfg.Path))
		b.WriteString("\n")
	}

	for i, t := range m.tasks {
		b.WriteString(m.renderTaskRow(t, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		statusColor := accent
		if m.err != nil {
			statusColor = lipgloss.Color("#FE5F86")
		}
		b.WriteString(lipgloss.NewStyle().Foreground(statusColor).Render(m.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))

	return appStyle.Render(b.String())
}

func (m Model) renderTaskRow(task Task, selected bool) string {
	bullet := "○"
	bulletColor := lipgloss.Color("#888888")
	if task.Done {
		bullet = "●"
		bulletColor = lipgloss.Color(m.cfg.Theme.Done)
	}
	parts := []string{lipgloss.NewStyle().Foreground(bulletColor).Render(bullet)}

	if task.Priority != "" {
		prioStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.cfg.Theme.Priority)).
			Bold(true)
		parts = append(parts, prioStyle.Render("("+task.Priority+")"))
	}

	for _, word := range strings.Fields(task.Subject) {
		style := lipgloss.NewStyle()
		if len(word) > 1 && (word[0] == '+' || word[0] == '@') {
			style = style.Foreground(tagColor(word[1:]))
		}
		if task.Done {
			style = style.Strikethrough(true).Foreground(lipgloss.Color(m.cfg.Theme.Done))
		}
		parts = append(parts, style.Render(word))
	}

	if !task.Due.IsZero() {
		dueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
		parts = append(parts, dueStyle.Render("due "+task.Due.Format("Jan 02")))
	}

	row := strings.Join(parts, " ")
	rowStyle := lipgloss.NewStyle()
	if selected {
		rowStyle = rowStyle.
			Background(lipgloss.Color("#2a2a3a")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(m.cfg.Theme.Accent))
	} else {
		rowStyle = rowStyle.PaddingLeft(1)
	}
	return rowStyle.Render(row)
}
