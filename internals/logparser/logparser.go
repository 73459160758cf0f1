// Package logparser understands the game's log line format. It is
// used to tail the error log after a crashed launch.
package logparser

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// matches lines like
// [13:46:33] [main/INFO] [FML]: Forge bla bla for Minecraft 1.12.2 loading
var lineRe = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})\] \[([^/\]]+)/([A-Z]+)\](?: \[([^\]]+)\])?: (.*)$`)

// Line is a single parsed log line. Lines that do not match the known
// format only have Message (and Raw) set.
type Line struct {
	Time    string
	Thread  string
	Level   string
	Source  string
	Message string

	raw string
}

// ParseLine parses a single log line
func ParseLine(s string) Line {
	match := lineRe.FindStringSubmatch(s)
	if match == nil {
		return Line{Message: s, raw: s}
	}
	return Line{
		Time:    match[1],
		Thread:  match[2],
		Level:   match[3],
		Source:  match[4],
		Message: match[5],
		raw:     s,
	}
}

// String returns the line as it appeared in the log
func (l Line) String() string {
	return l.raw
}

// IsProblem reports if this line has WARN or worse severity
func (l Line) IsProblem() bool {
	switch l.Level {
	case "WARN", "ERROR", "FATAL":
		return true
	}
	return false
}

// Tail returns the last n non-empty lines of the given log file.
// A missing or empty file returns nil.
func Tail(path string, n int) []Line {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	// crash logs can contain very long stack trace lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if text := strings.TrimRight(scanner.Text(), "\r"); text != "" {
			lines = append(lines, text)
		}
	}

	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	parsed := make([]Line, len(lines))
	for i, line := range lines {
		parsed[i] = ParseLine(line)
	}
	return parsed
}

// Render joins parsed lines back into a printable block
func Render(lines []Line) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return strings.Join(out, "\n")
}
