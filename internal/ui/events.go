package ui

import "time"

// Mode selects the UI output mode.
type Mode int

const (
	ModeTUI    Mode = iota // full bubbletea progress display
	ModeText               // simple \r status line
	ModeSilent             // no terminal output
)

// RangeStat is the per-range progress snapshot shown in the TUI table.
type RangeStat struct {
	Label   string // CIDR notation
	Emitted uint64 // capped at the range size, saturates at 2^64-1
	Share   float64
}

// EnumStats contains periodic stats pushed from the enumeration loop.
type EnumStats struct {
	Emitted  uint64
	Total    float64 // may exceed 2^64 for IPv6 sets; float is fine for a bar
	Progress float64 // 0.0 - 1.0
	Rate     float64 // addresses per second
	Elapsed  time.Duration
	Ranges   []RangeStat
}

// EnumDone signals the end of the enumeration to the UI.
type EnumDone struct{}
