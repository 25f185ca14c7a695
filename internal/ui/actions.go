package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/readaloud/internal/notify"
	"github.com/five82/readaloud/internal/readaloud"
)

const (
	msgLoadFailed  = "Failed to load configuration"
	msgSaved       = "Configuration saved successfully!"
	msgSaveFailed  = "Failed to save configuration"
	msgResetDone   = "Configuration reset to defaults"
	msgResetPrompt = "Are you sure you want to reset all settings to defaults?"
	msgEmptyTest   = "Please enter some text to test"

	msgServiceStarting    = "TTS service is starting"
	msgServiceStopped     = "TTS service stopped"
	msgServiceStartFailed = "Failed to start service"
	msgServiceStopFailed  = "Failed to stop service"
)

// actionInfo describes how one TTS action is presented.
type actionInfo struct {
	label    string // used for "<label> completed"
	failure  string
	title    string // loading overlay title; empty for short actions
	progress string
}

var actions = map[string]actionInfo{
	readaloud.ActionReadClipboard: {
		label:    "Clipboard reading",
		failure:  "Failed to read clipboard",
		title:    "Reading Clipboard",
		progress: "Sending clipboard text to the TTS engine...",
	},
	readaloud.ActionReadSelection: {
		label:    "Selection reading",
		failure:  "Failed to read selection",
		title:    "Reading Selection",
		progress: "Capturing the selected text...",
	},
	readaloud.ActionTest: {
		label:    "Test",
		failure:  "Failed to test TTS",
		title:    "Testing TTS",
		progress: "Generating speech for the test text...",
	},
	readaloud.ActionStop: {
		label:   "Stop",
		failure: "Failed to stop audio",
	},
}

// actionToast picks the toast for a finished action. The server message is
// shown verbatim; a per-action text stands in when it is missing.
func actionToast(action string, reply readaloud.ActionResponse, err error) (string, notify.Severity) {
	info := actions[action]
	if err != nil {
		return info.failure, notify.Error
	}
	msg := strings.TrimSpace(reply.Message)
	if reply.OK() {
		if msg == "" {
			msg = info.label + " completed"
		}
		return msg, notify.Success
	}
	if msg == "" {
		msg = info.failure
	}
	return msg, notify.Error
}

func (m Model) handleConfigLoaded(msg configLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("load config failed", "err", msg.err)
		return m.toast(msgLoadFailed, notify.Error)
	}
	m.settings = msg.settings
	m.syncControls()
	m.logger.Info("config loaded", "engine", m.settings.TTSEngine, "voice", m.settings.Voice)
	return m, nil
}

func (m Model) saveConfig() (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m.toast(msgSaveFailed, notify.Error)
	}
	return m, saveConfigCmd(m.ctx, m.client, m.settings.Clone())
}

func (m Model) handleConfigSaved(msg configSavedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.logger.Error("save config failed", "err", msg.err)
		return m.toast(msgSaveFailed, notify.Error)
	case msg.reply.OK():
		m.logger.Info("config saved")
		return m.toast(msgSaved, notify.Success)
	default:
		text := strings.TrimSpace(msg.reply.Message)
		if text == "" {
			text = msgSaveFailed
		}
		m.logger.Warn("save config rejected", "status", msg.reply.Status, "message", msg.reply.Message)
		return m.toast(text, notify.Error)
	}
}

func (m Model) confirmReset() (tea.Model, tea.Cmd) {
	m.dialog = newConfirmDialog("Reset configuration", msgResetPrompt, resetConfirmedMsg{})
	return m, nil
}

// handleReset replaces the mirror with the defaults. Nothing is sent to the
// server until the user saves.
func (m Model) handleReset() (tea.Model, tea.Cmd) {
	m.settings = readaloud.DefaultSettings()
	m.syncControls()
	m.logger.Info("config reset to defaults")
	return m.toast(msgResetDone, notify.Info)
}

func (m Model) testTTS() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.controls.testText.Value())
	if text == "" {
		return m.toast(msgEmptyTest, notify.Error)
	}
	m.savePrefs()
	return m.longAction(readaloud.ActionTest, text)
}

// longAction opens a loading session, then dispatches. The session ID rides
// along with the request so the reply closes exactly the session it opened.
func (m Model) longAction(action, text string) (tea.Model, tea.Cmd) {
	info := actions[action]
	if m.client == nil {
		return m.toast(info.failure, notify.Error)
	}
	id := m.loading.Show(info.title, info.progress)
	m.logger.Info("action dispatched", "action", action, "session", id)
	req := readaloud.ActionRequest{Action: action, Text: text}
	return m, tea.Batch(
		loadingTickCmd(id),
		m.spinner.Tick,
		actionCmd(m.ctx, m.client, req, id),
	)
}

func (m Model) stopAudio() (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m.toast(actions[readaloud.ActionStop].failure, notify.Error)
	}
	req := readaloud.ActionRequest{Action: readaloud.ActionStop}
	return m, actionCmd(m.ctx, m.client, req, 0)
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.session != 0 {
		m.loading.Hide(msg.session)
	}
	text, sev := actionToast(msg.action, msg.reply, msg.err)
	if msg.err != nil {
		m.logger.Error("action failed", "action", msg.action, "err", msg.err)
	} else {
		m.logger.Info("action finished", "action", msg.action, "status", msg.reply.Status, "audio_file", msg.reply.AudioFile)
	}
	return m.toast(text, sev)
}

// serviceButtons reports which service controls are enabled. Before the
// first service record arrives both are offered.
func (m Model) serviceButtons() (start, stop bool) {
	st, ok := m.snapshot.ServiceState()
	if !ok {
		return true, true
	}
	return st == readaloud.ServiceStopped, st != readaloud.ServiceStopped
}

func (m Model) startService() (tea.Model, tea.Cmd) {
	if start, _ := m.serviceButtons(); !start || m.client == nil {
		return m, nil
	}
	m.logger.Info("service start requested")
	return m, serviceCmd(m.ctx, m.client, true)
}

func (m Model) stopService() (tea.Model, tea.Cmd) {
	if _, stop := m.serviceButtons(); !stop || m.client == nil {
		return m, nil
	}
	m.logger.Info("service stop requested")
	return m, serviceCmd(m.ctx, m.client, false)
}

func (m Model) handleServiceDone(msg serviceDoneMsg) (tea.Model, tea.Cmd) {
	success, failure := msgServiceStarting, msgServiceStartFailed
	if !msg.start {
		success, failure = msgServiceStopped, msgServiceStopFailed
	}

	if msg.err == nil && msg.reply.OK() {
		return m, tea.Batch(
			m.pushToast(success, notify.Success),
			recheckStatusCmd(m.ctx, m.refresh, m.store),
		)
	}

	text := failure
	if msg.err != nil {
		m.logger.Error("service call failed", "start", msg.start, "err", msg.err)
	} else if reply := strings.TrimSpace(msg.reply.Message); reply != "" {
		text = reply
	}
	return m.toast(text, notify.Error)
}
