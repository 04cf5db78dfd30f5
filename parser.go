package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const dateLayout = "2006-01-02"

// ErrEmptySubject is returned for a line that has markers but no task text.
var ErrEmptySubject = errors.New("task has no subject")

// Task represents a single parsed todo.txt line.
type Task struct {
	Raw            string // original line text
	Line           int    // 1-based line number in the file, 0 if not from a file
	Done           bool
	Priority       string // "A" through "Z", empty when unset
	CompletionDate time.Time
	CreationDate   time.Time
	Subject        string
	Projects       []string
	Contexts       []string
	Tags           map[string]string
	Due            time.Time
}

// ParseError reports a line of the task file that could not be parsed.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	priorityRe  = regexp.MustCompile(`^\(([A-Z])\)(\s+|$)`)
	dateShapeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	tagKeyRe    = regexp.MustCompile(`^[A-Za-z][\w-]*$`)
)

// ParseTask parses a single todo.txt line into a Task.
func ParseTask(line string) (Task, error) {
	t := Task{Raw: line}
	rest := strings.TrimSpace(line)

	if strings.HasPrefix(rest, "x ") {
		t.Done = true
		rest = strings.TrimLeft(rest[2:], " \t")
	}

	if m := priorityRe.FindStringSubmatch(rest); m != nil {
		t.Priority = m[1]
		rest = rest[len(m[0]):]
	}

	// Completed tasks carry the completion date first, then the creation date.
	date, rest, err := leadingDate(rest)
	if err != nil {
		return t, err
	}
	if t.Done {
		t.CompletionDate = date
		if !date.IsZero() {
			t.CreationDate, rest, err = leadingDate(rest)
			if err != nil {
				return t, err
			}
		}
	} else {
		t.CreationDate = date
	}

	t.Subject = strings.TrimSpace(rest)
	if t.Subject == "" {
		return t, ErrEmptySubject
	}

	for _, word := range strings.Fields(t.Subject) {
		switch {
		case len(word) > 1 && word[0] == '+':
			t.Projects = append(t.Projects, word[1:])
		case len(word) > 1 && word[0] == '@':
			t.Contexts = append(t.Contexts, word[1:])
		default:
			key, value, ok := strings.Cut(word, ":")
			if !ok || !tagKeyRe.MatchString(key) || value == "" || strings.HasPrefix(value, "/") {
				continue
			}
			if t.Tags == nil {
				t.Tags = make(map[string]string)
			}
			t.Tags[key] = value
		}
	}

	// A due value that is not a date stays a plain tag.
	if d, err := time.Parse(dateLayout, t.Tags["due"]); err == nil {
		t.Due = d
	}

	return t, nil
}

// leadingDate consumes a YYYY-MM-DD token at the start of s. A zero time is
// returned when s does not start with something date-shaped.
func leadingDate(s string) (time.Time, string, error) {
	tok, rest := s, ""
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		tok, rest = s[:i], s[i:]
	}
	if !dateShapeRe.MatchString(tok) {
		return time.Time{}, s, nil
	}
	d, err := time.Parse(dateLayout, tok)
	if err != nil {
		return time.Time{}, s, fmt.Errorf("invalid date %q", tok)
	}
	return d, strings.TrimLeftFunc(rest, unicode.IsSpace), nil
}

// ParseFile reads a todo.txt file and parses every non-blank line. Any bad
// line fails the whole file.
func ParseFile(path string) ([]Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %w", path, err)
	}
	defer f.Close()

	var tasks []Task
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := ParseTask(line)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNum, Err: err}
		}
		t.Line = lineNum
		tasks = append(tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return tasks, nil
}
