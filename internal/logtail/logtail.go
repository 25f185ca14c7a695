package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/five82/readaloud/internal/logging"
)

// Read returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. A missing file is not an
// error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed log line.
type Entry struct {
	Raw     string
	Time    time.Time
	Level   string // DEBUG, INFO, WARN, ERROR; empty when unknown
	Message string
	Fields  string // trailing key=value pairs, verbatim
}

var (
	levels = map[string]string{
		"DEBU": "DEBUG", "DEBUG": "DEBUG",
		"INFO": "INFO",
		"WARN": "WARN",
		"ERRO": "ERROR", "ERROR": "ERROR",
		"FATA": "FATAL", "FATAL": "FATAL",
	}
	fieldStart = regexp.MustCompile(`(^|\s)[A-Za-z_][\w.-]*=`)
)

// Parse splits a panel log line into timestamp, level, message and fields.
// Lines that do not follow the layout come back with only Raw and Message
// set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	rest := line

	if len(rest) >= len(logging.TimeFormat) {
		if ts, err := time.ParseInLocation(logging.TimeFormat, rest[:len(logging.TimeFormat)], time.Local); err == nil {
			e.Time = ts
			rest = strings.TrimLeft(rest[len(logging.TimeFormat):], " ")
		}
	}

	if token, tail, ok := strings.Cut(rest, " "); ok {
		if lvl, known := levels[token]; known {
			e.Level = lvl
			rest = tail
		}
	} else if lvl, known := levels[rest]; known {
		e.Level = lvl
		rest = ""
	}

	if loc := fieldStart.FindStringIndex(rest); loc != nil {
		e.Message = strings.TrimSpace(rest[:loc[0]])
		e.Fields = strings.TrimSpace(rest[loc[0]:])
	} else {
		e.Message = strings.TrimSpace(rest)
	}
	return e
}

// ParseLines parses every line in order.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line))
	}
	return out
}
