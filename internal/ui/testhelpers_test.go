package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/readaloud/internal/logging"
	"github.com/five82/readaloud/internal/readaloud"
	"github.com/five82/readaloud/internal/state"
)

var errOffline = errors.New("dial tcp 127.0.0.1:5000: connection refused")

type fakeAPI struct {
	mu sync.Mutex

	settings readaloud.Settings
	getErr   error
	gets     int

	saveReply readaloud.Envelope
	saveErr   error
	saved     []readaloud.Settings

	actReply readaloud.ActionResponse
	actErr   error
	acts     []readaloud.ActionRequest

	serviceReply readaloud.Envelope
	serviceErr   error
	starts       int
	stops        int
}

func (f *fakeAPI) GetConfig(ctx context.Context) (readaloud.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return readaloud.Settings{}, f.getErr
	}
	return f.settings.Clone(), nil
}

func (f *fakeAPI) SaveConfig(ctx context.Context, s readaloud.Settings) (readaloud.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return f.saveReply, f.saveErr
}

func (f *fakeAPI) Status(ctx context.Context) (*readaloud.StatusResponse, error) {
	return nil, errOffline
}

func (f *fakeAPI) Act(ctx context.Context, req readaloud.ActionRequest) (readaloud.ActionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acts = append(f.acts, req)
	return f.actReply, f.actErr
}

func (f *fakeAPI) StartService(ctx context.Context) (readaloud.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	return f.serviceReply, f.serviceErr
}

func (f *fakeAPI) StopService(ctx context.Context) (readaloud.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return f.serviceReply, f.serviceErr
}

func (f *fakeAPI) actions() []readaloud.ActionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]readaloud.ActionRequest(nil), f.acts...)
}

func newTestModel(t *testing.T, api readaloud.API, opts ...func(*Options)) Model {
	t.Helper()
	o := Options{
		Client:    api,
		Store:     &state.Store{},
		Logger:    logging.Discard(),
		Random:    func() float64 { return 0.5 },
		Clipboard: func() (string, error) { return "pasted text", nil },
	}
	for _, fn := range opts {
		fn(&o)
	}
	m := New(o)
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 48})
}

// send applies msg and returns the updated model, dropping the command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func sendCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// collect runs cmd, expanding batches, and gathers the messages that arrive
// within a short window. Timer commands (ticks, toast expiry) do not fire in
// that window and are left behind.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 64)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, inner := range batch {
					if inner != nil {
						run(inner)
					}
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	deadline := time.After(150 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-deadline:
			return msgs
		}
	}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func mustFind[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	v, ok := find[T](msgs)
	if !ok {
		t.Fatalf("no %T among %d messages: %#v", v, len(msgs), msgs)
	}
	return v
}

func currentToast(t *testing.T, m Model) string {
	t.Helper()
	toast, ok := m.toasts.Current()
	if !ok {
		t.Fatal("expected a visible toast")
	}
	return toast.Text
}
