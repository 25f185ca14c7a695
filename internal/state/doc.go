// Package state provides thread-safe status storage for the ReadAloud panel.
//
// # Overview
//
// The poller goroutine writes the outcome of each /api/status check into a
// Store; the UI reads copies on its own schedule:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ client.Status()│            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  wait tick     │            │  render header  │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	// Success: connection up, engine flag replaced, service record
//	// replaced only when the reply carries one.
//	store.Update(status, nil)
//
//	// Failure: connection forced down, engine and service data kept.
//	store.Update(nil, err)
//
// Transport errors, undecodable bodies and replies without the success
// discriminator are all failures; the store does not distinguish them.
//
// # Copying
//
// Snapshot returns copies of the service record and error so the UI cannot
// mutate stored state. The zero Store is ready to use.
package state
