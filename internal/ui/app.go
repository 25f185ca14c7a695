package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/readaloud/internal/loading"
	"github.com/five82/readaloud/internal/notify"
	"github.com/five82/readaloud/internal/prefs"
	"github.com/five82/readaloud/internal/readaloud"
	"github.com/five82/readaloud/internal/state"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Client  readaloud.API
	Store   *state.Store

	// Refresh runs an immediate status check, typically Poller.Refresh.
	Refresh func(context.Context) error

	Logger        *log.Logger
	LogPath       string // panel log shown in the activity overlay
	UITick        time.Duration
	ToastDuration time.Duration
	ThemeName     string
	TestText      string
	PrefsPath     string // empty disables persisting preferences

	// Clipboard reads the local clipboard; nil uses atotto/clipboard.
	Clipboard func() (string, error)
	// Random feeds the progress simulation; nil uses math/rand.
	Random func() float64
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    readaloud.API
	store     *state.Store
	refresh   func(context.Context) error
	logger    *log.Logger
	logPath   string
	prefsPath string
	uiTick    time.Duration
	toastTTL  time.Duration
	clipboard func() (string, error)

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool
	focus  field

	// Configuration mirror and its projection
	settings readaloud.Settings
	controls controls

	// Status
	snapshot state.Snapshot

	// Feedback
	toasts   *notify.Queue
	loading  *loading.Modal
	progress progress.Model
	spinner  spinner.Model

	// Overlays
	dialog       Modal
	showHelp     bool
	showActivity bool
	activity     viewport.Model
	activityErr  error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	uiTick := opts.UITick
	if uiTick <= 0 {
		uiTick = DefaultUIInterval
	}
	toastTTL := opts.ToastDuration
	if toastTTL <= 0 {
		toastTTL = DefaultToastDuration
	}
	readClipboard := opts.Clipboard
	if readClipboard == nil {
		readClipboard = clipboard.ReadAll
	}
	testText := opts.TestText
	if testText == "" {
		testText = prefs.Defaults().TestText
	}
	theme := GetTheme(opts.ThemeName)

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     store,
		refresh:   opts.Refresh,
		logger:    logger,
		logPath:   opts.LogPath,
		prefsPath: opts.PrefsPath,
		uiTick:    uiTick,
		toastTTL:  toastTTL,
		clipboard: readClipboard,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		controls:  newControls(testText),
		toasts:    notify.NewQueue(notify.DefaultCapacity),
		loading:   loading.NewModal(opts.Random),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		activity:  viewport.New(0, 0),
	}
	m.applyTheme()
	m.focusField(fieldEngine)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.uiTick),
		fetchSnapshotCmd(m.store),
	}
	if m.client != nil {
		cmds = append(cmds, loadConfigCmd(m.ctx, m.client))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.uiTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case configLoadedMsg:
		return m.handleConfigLoaded(msg)

	case configSavedMsg:
		return m.handleConfigSaved(msg)

	case resetConfirmedMsg:
		return m.handleReset()

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case serviceDoneMsg:
		return m.handleServiceDone(msg)

	case toastExpiredMsg:
		if next, ok := m.toasts.Expire(msg.id); ok {
			return m, toastExpiryCmd(next.ID, m.toastTTL)
		}
		return m, nil

	case loadingTickMsg:
		if m.loading.Tick(msg.id) {
			return m, loadingTickCmd(msg.id)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading.Visible() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case activityMsg:
		m.activityErr = msg.err
		m.activity.SetContent(m.renderActivityLines(msg.entries))
		m.activity.GotoBottom()
		return m, nil

	case pasteMsg:
		return m.handlePaste(msg)
	}

	return m, m.updateFocusedInput(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderScreen()
}

// handleKey processes keyboard input. Overlays take keys before the form.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dialog != nil {
		dialog, cmd, closed := m.dialog.Update(msg, m.keys)
		if closed {
			m.dialog = nil
		} else {
			m.dialog = dialog
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showActivity {
		if key.Matches(msg, m.keys.Activity) || msg.String() == "esc" || msg.String() == "q" {
			m.showActivity = false
			return m, nil
		}
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd
	}

	// The loading overlay holds attention; only stopping audio gets through.
	if m.loading.Visible() {
		if key.Matches(msg, m.keys.StopAudio) {
			return m.stopAudio()
		}
		return m, nil
	}

	// Text inputs keep ctrl+e (line end) and ctrl+k (delete to end).
	if m.focus.isText() && key.Matches(msg, m.keys.ReadSelection, m.keys.StopService) {
		return m, m.updateFocusedInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help) && (msg.String() == "f1" || !m.focus.isText()):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		return m, loadActivityCmd(m.logPath)

	case key.Matches(msg, m.keys.Save):
		return m.saveConfig()
	case key.Matches(msg, m.keys.Reset):
		return m.confirmReset()

	case key.Matches(msg, m.keys.Test):
		return m.testTTS()
	case key.Matches(msg, m.keys.ReadClipboard):
		return m.longAction(readaloud.ActionReadClipboard, "")
	case key.Matches(msg, m.keys.ReadSelection):
		return m.longAction(readaloud.ActionReadSelection, "")
	case key.Matches(msg, m.keys.StopAudio):
		return m.stopAudio()
	case key.Matches(msg, m.keys.Paste):
		return m, pasteCmd(m.clipboard)

	case key.Matches(msg, m.keys.StartService):
		return m.startService()
	case key.Matches(msg, m.keys.StopService):
		return m.stopService()

	case key.Matches(msg, m.keys.Next):
		return m, m.focusField(m.focus.next())
	case key.Matches(msg, m.keys.Prev):
		return m, m.focusField(m.focus.prev())

	case key.Matches(msg, m.keys.Decrease, m.keys.Increase) && !m.focus.isText():
		dir := 1
		if key.Matches(msg, m.keys.Decrease) {
			dir = -1
		}
		m.adjust(dir)
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		return m.activate()
	}

	return m, m.updateFocusedInput(msg)
}

// activate runs the focused button. Enter in the test text field runs the test.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case fieldSave:
		return m.saveConfig()
	case fieldReset:
		return m.confirmReset()
	case fieldTestText, fieldTest:
		return m.testTTS()
	case fieldReadClipboard:
		return m.longAction(readaloud.ActionReadClipboard, "")
	case fieldReadSelection:
		return m.longAction(readaloud.ActionReadSelection, "")
	case fieldStop:
		return m.stopAudio()
	case fieldStartService:
		return m.startService()
	case fieldStopService:
		return m.stopService()
	}
	return m, nil
}

// focusField moves focus and keeps the text inputs' cursor state in step.
func (m *Model) focusField(f field) tea.Cmd {
	m.focus = f
	m.controls.outputPath.Blur()
	m.controls.testText.Blur()
	switch f {
	case fieldOutputPath:
		return m.controls.outputPath.Focus()
	case fieldTestText:
		return m.controls.testText.Focus()
	}
	return nil
}

// updateFocusedInput forwards msg to the focused text input. Edits to the
// output path are written into the mirror.
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldOutputPath:
		before := m.controls.outputPath.Value()
		m.controls.outputPath, cmd = m.controls.outputPath.Update(msg)
		if after := m.controls.outputPath.Value(); after != before {
			m.settings.AudioOutputPath = after
		}
	case fieldTestText:
		m.controls.testText, cmd = m.controls.testText.Update(msg)
	}
	return cmd
}

func (m *Model) resize() {
	w := m.panelWidth()
	m.help.Width = m.width
	m.progress.Width = min(modalWidth-6, w)
	m.controls.outputPath.Width = max(10, w-labelWidth-6)
	m.controls.testText.Width = max(10, w-labelWidth-6)
	m.activity.Width = max(20, m.width-8)
	m.activity.Height = max(3, m.height-8)
}

func (m *Model) applyTheme() {
	m.progress = progress.New(
		progress.WithSolidFill(m.theme.Accent),
		progress.WithoutPercentage(),
		progress.WithWidth(modalWidth-6),
	)
	m.spinner.Style = m.theme.Styles().AccentText
	m.resize()
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.applyTheme()
	m.savePrefs()
	return m, nil
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, TestText: m.controls.testText.Value()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "err", err)
	}
}

func (m Model) handlePaste(msg pasteMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("local clipboard read failed", "err", msg.err)
		return m.toast("Failed to read local clipboard", notify.Error)
	}
	if msg.text == "" {
		return m.toast("Local clipboard is empty", notify.Warning)
	}
	m.controls.testText.SetValue(msg.text)
	cmd := m.focusField(fieldTestText)
	m.controls.testText.CursorEnd()
	return m, cmd
}

// toast queues a notification and schedules its expiry if it became visible.
func (m Model) toast(text string, sev notify.Severity) (tea.Model, tea.Cmd) {
	return m, m.pushToast(text, sev)
}

func (m *Model) pushToast(text string, sev notify.Severity) tea.Cmd {
	shown, visible := m.toasts.Push(text, sev)
	if !visible {
		return nil
	}
	return toastExpiryCmd(shown.ID, m.toastTTL)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, programOpts...).Run()
	return err
}
