package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, taskPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.toml")
	if err := os.WriteFile(path, []byte(`path = "`+taskPath+`"`), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListEndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	taskPath := filepath.Join(t.TempDir(), "t.txt")
	if err := os.WriteFile(taskPath, []byte("(A) 2023-01-01 Buy milk +errands @store\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, taskPath)

	stdout, _, err := runCLI(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "Buy milk +errands @store") {
		t.Errorf("stdout: got %q", stdout)
	}
}

func TestListCreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	stdout, stderr, err := runCLI(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout: got %q, want empty", stdout)
	}

	cfg, err := LoadConfig(filepath.Join(home, ".todo.toml"))
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if want := filepath.Join(home, "todo.txt"); cfg.Path != want {
		t.Errorf("config path: got %q, want %q", cfg.Path, want)
	}
	fi, err := os.Stat(filepath.Join(home, "todo.txt"))
	if err != nil {
		t.Fatalf("task file: %v", err)
	}
	if fi.Size() != 0 {
		t.Errorf("task file size: got %d, want 0", fi.Size())
	}
	if !strings.Contains(stderr, "created default config") {
		t.Errorf("stderr: got %q, want creation notice", stderr)
	}
}

func TestPathOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := writeConfig(t, filepath.Join(t.TempDir(), "unused.txt"))
	override := filepath.Join(t.TempDir(), "other.txt")
	if err := os.WriteFile(override, []byte("From override\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "-c", cfgPath, "-p", override)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout, "From override") {
		t.Errorf("stdout: got %q", stdout)
	}
}

func TestListMalformedRendersNothing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	taskPath := filepath.Join(t.TempDir(), "t.txt")
	content := "Fine task\nx 2023-13-01 broken\n"
	if err := os.WriteFile(taskPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "--config", writeConfig(t, taskPath))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if stdout != "" {
		t.Errorf("stdout: got %q, want nothing rendered", stdout)
	}
}

func TestMissingTaskPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "todo.toml")
	if err := os.WriteFile(cfgPath, []byte("[theme]\naccent = \"#ffffff\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "--config", cfgPath)
	if !errors.Is(err, ErrNoTaskPath) {
		t.Errorf("got %v, want ErrNoTaskPath", err)
	}
}

func TestPlaceholderSubcommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	taskPath := filepath.Join(t.TempDir(), "t.txt")
	cfgPath := writeConfig(t, taskPath)

	tests := []struct {
		name string
		args []string
	}{
		{"add", []string{"add", "Buy milk +errands"}},
		{"add unquoted", []string{"add", "Buy", "milk"}},
		{"search", []string{"search", "milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if !errors.Is(err, ErrNotImplemented) {
				t.Errorf("got %v, want ErrNotImplemented", err)
			}
			if stdout != "" {
				t.Errorf("stdout: got %q, want empty", stdout)
			}
		})
	}

	// The task file is still ensured before the placeholder runs.
	if _, err := os.Stat(taskPath); err != nil {
		t.Errorf("task file not created: %v", err)
	}
}

func TestSubcommandsRequireArgument(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := writeConfig(t, filepath.Join(t.TempDir(), "t.txt"))

	for _, sub := range []string{"add", "search"} {
		t.Run(sub, func(t *testing.T) {
			_, _, err := runCLI(t, "--config", cfgPath, sub)
			if err == nil {
				t.Fatal("expected error for missing argument")
			}
			if errors.Is(err, ErrNotImplemented) {
				t.Errorf("argument check should fail first, got %v", err)
			}
		})
	}
}

func TestVerboseLogsDebug(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	taskPath := filepath.Join(t.TempDir(), "t.txt")
	if err := os.WriteFile(taskPath, []byte("One\nTwo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, "-v", "--config", writeConfig(t, taskPath))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "parsed tasks") {
		t.Errorf("stderr: got %q, want debug output", stderr)
	}
}
