package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 80

	// MinPanelWidth is the narrowest the form panels are drawn.
	MinPanelWidth = 50

	// MaxPanelWidth caps panel width on very wide terminals.
	MaxPanelWidth = 96
)

// Control geometry.
const (
	labelWidth  = 14
	sliderWidth = 24
	modalWidth  = 56
)

// Activity overlay limits.
const (
	// ActivityLines is how many log lines the activity overlay reads.
	ActivityLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model pulls a snapshot from the store.
	DefaultUIInterval = time.Second

	// DefaultToastDuration is how long a toast stays visible.
	DefaultToastDuration = 3 * time.Second
)
