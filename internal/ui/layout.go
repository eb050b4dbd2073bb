package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show original titles in the list.
	LayoutWideWidth = 150
)

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the log view keeps.
	LogTailLines = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the shared store.
	DefaultUIInterval = time.Second

	// FlashDuration is how long a status message stays in the footer.
	FlashDuration = 4 * time.Second

	// HotListSize is how many titles the trending screen's hot strip shows.
	HotListSize = 5
)
