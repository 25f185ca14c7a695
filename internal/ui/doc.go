// Package ui is the Bubble Tea front end of the ReadAloud control panel.
//
// Model owns the configuration mirror, the form controls that project it,
// the toast queue and the loading overlay. Every backend call runs as a
// tea.Cmd and comes back as a message, so all state changes happen on the
// Bubble Tea update loop. Status comes from state.Store, which the poller in
// internal/app writes; the model copies a snapshot on each UI tick.
//
// Timers are messages tagged with the ID of what they belong to: a toast
// expiry carries the toast ID and a progress tick carries the loading
// session ID. A tick whose ID no longer matches is dropped, which is what
// stops a stale timer from hiding a newer toast or advancing a closed
// overlay.
//
// Files:
//
//   - app.go: Model, Options, Init/Update/View, key routing, Run
//   - actions.go: load/save/reset, TTS actions, service start/stop
//   - commands.go: messages and the commands that produce them
//   - form.go: focus order, selectors, sliders, mirror projection
//   - view.go, header.go, help.go, activity.go: rendering
//   - modal.go: confirmation dialog
//   - theme.go, style_helpers.go, layout.go: palette and geometry
package ui
