package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "panel.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 14, 2, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "empty line",
			input: "",
			want:  Entry{},
		},
		{
			name:  "warn with fields",
			input: `2026-10-18 09:14:02 WARN status poll failed err="connection refused"`,
			want: Entry{
				Time:    ts,
				Level:   "WARN",
				Message: "status poll failed",
				Fields:  `err="connection refused"`,
			},
		},
		{
			name:  "short level names",
			input: "2026-10-18 09:14:02 ERRO action failed action=test",
			want:  Entry{Time: ts, Level: "ERROR", Message: "action failed", Fields: "action=test"},
		},
		{
			name:  "debug without fields",
			input: "2026-10-18 09:14:02 DEBU panel ready",
			want:  Entry{Time: ts, Level: "DEBUG", Message: "panel ready"},
		},
		{
			name:  "free text",
			input: "panic: something odd",
			want:  Entry{Message: "panic: something odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Raw = tt.input
			got := Parse(tt.input)
			if !got.Time.Equal(tt.want.Time) {
				t.Fatalf("Time = %v, want %v", got.Time, tt.want.Time)
			}
			got.Time, tt.want.Time = time.Time{}, time.Time{}
			if got != tt.want {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseLines_KeepsOrder(t *testing.T) {
	lines := []string{
		"2026-10-18 09:14:02 INFO panel started",
		"2026-10-18 09:14:03 INFO config loaded engine=higgs_audio",
	}
	entries := ParseLines(lines)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[1].Fields != "engine=higgs_audio" {
		t.Fatalf("Fields = %q", entries[1].Fields)
	}
}
