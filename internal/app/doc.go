// Package app wires the ReadAloud panel together.
//
// Run is the composition root for the interactive panel:
//
//  1. LoadConfig reads panel.toml, READALOUD_* environment variables and
//     command-line overrides
//  2. the panel log is opened (the TUI owns the terminal)
//  3. a readaloud.Client and a shared state.Store are created
//  4. a Poller checks /api/status once and then on every interval
//  5. ui.Run blocks until the user quits or the context is cancelled
//
// The poller goroutine is bound to a context that Run cancels on the way
// out, and Run waits for it to exit before returning. The UI triggers
// out-of-band checks through Poller.Refresh after starting or stopping the
// inference service.
package app
