package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/readaloud/internal/loading"
	"github.com/five82/readaloud/internal/logtail"
	"github.com/five82/readaloud/internal/readaloud"
	"github.com/five82/readaloud/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type configLoadedMsg struct {
	settings readaloud.Settings
	err      error
}

type configSavedMsg struct {
	reply readaloud.Envelope
	err   error
}

type resetConfirmedMsg struct{}

type actionDoneMsg struct {
	action  string
	session uint64 // loading session to close; zero for short actions
	reply   readaloud.ActionResponse
	err     error
}

type serviceDoneMsg struct {
	start bool
	reply readaloud.Envelope
	err   error
}

type toastExpiredMsg struct{ id uint64 }

type loadingTickMsg struct{ id uint64 }

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

type pasteMsg struct {
	text string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func toastExpiryCmd(id uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func loadingTickCmd(id uint64) tea.Cmd {
	return tea.Tick(loading.TickInterval, func(time.Time) tea.Msg {
		return loadingTickMsg{id: id}
	})
}

func loadConfigCmd(ctx context.Context, api readaloud.API) tea.Cmd {
	return func() tea.Msg {
		settings, err := api.GetConfig(ctx)
		return configLoadedMsg{settings: settings, err: err}
	}
}

func saveConfigCmd(ctx context.Context, api readaloud.API, settings readaloud.Settings) tea.Cmd {
	return func() tea.Msg {
		reply, err := api.SaveConfig(ctx, settings)
		return configSavedMsg{reply: reply, err: err}
	}
}

func actionCmd(ctx context.Context, api readaloud.API, req readaloud.ActionRequest, session uint64) tea.Cmd {
	return func() tea.Msg {
		reply, err := api.Act(ctx, req)
		return actionDoneMsg{action: req.Action, session: session, reply: reply, err: err}
	}
}

func serviceCmd(ctx context.Context, api readaloud.API, start bool) tea.Cmd {
	return func() tea.Msg {
		var (
			reply readaloud.Envelope
			err   error
		)
		if start {
			reply, err = api.StartService(ctx)
		} else {
			reply, err = api.StopService(ctx)
		}
		return serviceDoneMsg{start: start, reply: reply, err: err}
	}
}

// recheckStatusCmd runs an out-of-band status check and hands the fresh
// snapshot to the model.
func recheckStatusCmd(ctx context.Context, refresh func(context.Context) error, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		if refresh != nil {
			_ = refresh(ctx)
		}
		return snapshotMsg(store.Snapshot())
	}
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLines)
		return activityMsg{entries: logtail.ParseLines(lines), err: err}
	}
}

func pasteCmd(read func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := read()
		return pasteMsg{text: text, err: err}
	}
}
