package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/five82/readaloud/internal/readaloud"
)

// field identifies a focusable control, in focus order.
type field int

const (
	fieldEngine field = iota
	fieldVoice
	fieldTemperature
	fieldVolume
	fieldSpeed
	fieldOutputPath
	fieldSave
	fieldReset
	fieldTestText
	fieldTest
	fieldReadClipboard
	fieldReadSelection
	fieldStop
	fieldStartService
	fieldStopService
	fieldCount
)

func (f field) next() field {
	return (f + 1) % fieldCount
}

func (f field) prev() field {
	return (f + fieldCount - 1) % fieldCount
}

func (f field) isText() bool {
	return f == fieldOutputPath || f == fieldTestText
}

var (
	engineOptions = []string{"higgs_audio", "coqui", "system"}
	voiceOptions  = []string{"default", "male", "female", "narrator", "casual"}
)

// selector cycles through a fixed list of options. Values the server sends
// that are not in the list are appended so they survive a round-trip.
type selector struct {
	options []string
	index   int
}

func newSelector(options []string, initial string) selector {
	s := selector{options: append([]string(nil), options...)}
	s.set(initial)
	return s
}

func (s *selector) set(value string) {
	for i, opt := range s.options {
		if opt == value {
			s.index = i
			return
		}
	}
	s.options = append(s.options, value)
	s.index = len(s.options) - 1
}

func (s *selector) step(delta int) string {
	n := len(s.options)
	s.index = ((s.index+delta)%n + n) % n
	return s.value()
}

func (s selector) value() string {
	return s.options[s.index]
}

// slider is a bounded numeric control with a fixed step.
type slider struct {
	min, max, step float64
	value          float64
}

func (s *slider) set(v float64) {
	s.value = math.Min(s.max, math.Max(s.min, v))
}

func (s *slider) nudge(dir int) float64 {
	v := s.value + float64(dir)*s.step
	// Two decimals keep 0.1+0.2 style drift out of the payload.
	s.set(math.Round(v*100) / 100)
	return s.value
}

// fraction returns the position of the value within the range.
func (s slider) fraction() float64 {
	if s.max <= s.min {
		return 0
	}
	return (s.value - s.min) / (s.max - s.min)
}

// shown returns the value a readout displays: the mirror when defined, so a
// server value outside the slider range is shown as sent.
func (s slider) shown(mirror *float64) float64 {
	if mirror != nil {
		return *mirror
	}
	return s.value
}

func formatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}

func formatSpeed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "x"
}

// controls holds the on-screen form state. It is a projection of the
// configuration mirror plus the test text, which is not part of the mirror.
type controls struct {
	engine      selector
	voice       selector
	temperature slider
	volume      slider
	speed       slider
	outputPath  textinput.Model
	testText    textinput.Model
}

func newControls(testText string) controls {
	d := readaloud.DefaultSettings()

	out := textinput.New()
	out.Prompt = ""
	out.Placeholder = d.AudioOutputPath
	out.CharLimit = 1024

	tt := textinput.New()
	tt.Prompt = ""
	tt.Placeholder = "Enter text to speak..."
	tt.CharLimit = 4096
	tt.SetValue(testText)

	c := controls{
		engine:      newSelector(engineOptions, d.TTSEngine),
		voice:       newSelector(voiceOptions, d.Voice),
		temperature: slider{min: 0, max: 1, step: 0.05},
		volume:      slider{min: 0, max: 1, step: 0.05},
		speed:       slider{min: 0.5, max: 2, step: 0.1},
		outputPath:  out,
		testText:    tt,
	}
	c.temperature.set(*d.Temperature)
	c.volume.set(*d.Volume)
	c.speed.set(*d.Speed)
	return c
}

// syncControls projects the mirror onto the controls. A control is only
// touched when its field is defined.
func (m *Model) syncControls() {
	s := m.settings
	if s.TTSEngine != "" {
		m.controls.engine.set(s.TTSEngine)
	}
	if s.Voice != "" {
		m.controls.voice.set(s.Voice)
	}
	if s.Temperature != nil {
		m.controls.temperature.set(*s.Temperature)
	}
	if s.Volume != nil {
		m.controls.volume.set(*s.Volume)
	}
	if s.Speed != nil {
		m.controls.speed.set(*s.Speed)
	}
	if s.AudioOutputPath != "" {
		m.controls.outputPath.SetValue(s.AudioOutputPath)
	}
}

// adjust applies a left/right press on the focused selector or slider and
// writes the new value into the mirror.
func (m *Model) adjust(dir int) bool {
	switch m.focus {
	case fieldEngine:
		m.settings.TTSEngine = m.controls.engine.step(dir)
	case fieldVoice:
		m.settings.Voice = m.controls.voice.step(dir)
	case fieldTemperature:
		m.settings.Temperature = readaloud.Float(m.controls.temperature.nudge(dir))
	case fieldVolume:
		m.settings.Volume = readaloud.Float(m.controls.volume.nudge(dir))
	case fieldSpeed:
		m.settings.Speed = readaloud.Float(m.controls.speed.nudge(dir))
	default:
		return false
	}
	return true
}

// currentReadout formats a "current value" label, "Not set" when undefined.
func currentReadout(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not set"
	}
	return v
}
