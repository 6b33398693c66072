package ui

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxRangeRows caps the per-range table so huge target lists stay readable.
const maxRangeRows = 16

// Model is the bubbletea progress display for a running enumeration.
type Model struct {
	// Config
	Order   string // interleave, shuffle, linear
	NRanges int

	stats EnumStats

	width, height int
	done          bool
	quitting      bool

	Running *int32
}

// NewModel builds the TUI model for an enumeration over n ranges.
func NewModel(order string, n int, running *int32) Model {
	return Model{
		Order:   order,
		NRanges: n,
		Running: running,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.Running != nil {
				atomic.StoreInt32(m.Running, 0)
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case EnumStats:
		m.stats = msg

	case EnumDone:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting || m.done {
		return ""
	}

	w := m.width
	if w < 40 {
		w = 80
	}

	var b strings.Builder

	m.renderHeader(&b, w)
	m.renderProgress(&b, w)
	m.renderRanges(&b, w)
	m.renderHelp(&b, w)

	return b.String()
}

func (m Model) renderHeader(b *strings.Builder, w int) {
	title := styleAccent.Render("netenum")
	meta := styleDim.Render(fmt.Sprintf(" %s · %d ranges", m.Order, m.NRanges))
	b.WriteString(" " + title + meta + "\n")
}

func (m Model) renderProgress(b *strings.Builder, w int) {
	barW := 20
	if w > 120 {
		barW = 30
	}
	filled := int(m.stats.Progress * float64(barW))
	if filled > barW {
		filled = barW
	}
	empty := barW - filled
	bar := styleBar.Render(strings.Repeat("█", filled)) + styleBarTrail.Render(strings.Repeat("░", empty))

	pct := fmt.Sprintf("%3.0f%%", m.stats.Progress*100)

	eta := ""
	if m.stats.Progress > 0.001 && m.stats.Progress < 1 && m.stats.Rate > 0 {
		rem := m.stats.Elapsed.Seconds() * (1 - m.stats.Progress) / m.stats.Progress
		if rem < 60 {
			eta = fmt.Sprintf(" ETA %0.0fs", rem)
		} else {
			eta = fmt.Sprintf(" ETA %dm%02ds", int(rem)/60, int(rem)%60)
		}
	}
	if m.stats.Progress >= 1 {
		eta = " done"
	}

	stats := fmt.Sprintf("  %s/s  Emitted %s", fmtCompact(uint64(m.stats.Rate)), fmtCompact(m.stats.Emitted))

	elapsed := m.stats.Elapsed.Truncate(time.Second).String()

	line := fmt.Sprintf(" %s %s%s%s  %s", bar, pct, eta, styleDim.Render(stats), styleDim.Render(elapsed))
	b.WriteString(line + "\n")
}

func (m Model) renderRanges(b *strings.Builder, w int) {
	rows := m.stats.Ranges
	if len(rows) > maxRangeRows {
		rows = rows[:maxRangeRows]
	}
	labelW := 0
	for _, r := range rows {
		if len(r.Label) > labelW {
			labelW = len(r.Label)
		}
	}
	if labelW > 42 {
		labelW = 42
	}
	for _, r := range rows {
		share := fmt.Sprintf("%5.1f%%", r.Share*100)
		line := fmt.Sprintf("   %s %s %s",
			styleLabel.Render(padRight(r.Label, labelW)),
			padRight(fmtCompact(r.Emitted), 8),
			styleDim.Render(share))
		b.WriteString(line + "\n")
	}
	if len(m.stats.Ranges) > maxRangeRows {
		b.WriteString(styleDim.Render(fmt.Sprintf("   … %d more", len(m.stats.Ranges)-maxRangeRows)) + "\n")
	}
}

func (m Model) renderHelp(b *strings.Builder, w int) {
	b.WriteString(styleHelp.Render(" q quit") + "\n")
}

// ── Formatting helpers ────────────────────────────────────────────────

func fmtCompact(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 10_000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	if n < 1_000_000 {
		return fmt.Sprintf("%.0fk", float64(n)/1000)
	}
	if n < 10_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n < 1_000_000_000 {
		return fmt.Sprintf("%.0fM", float64(n)/1_000_000)
	}
	return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}

// ── TextPrinter (non-TUI mode) ───────────────────────────────────────

// TextPrinter writes a single updating status line when no terminal UI is
// available. Out should be stderr when addresses go to stdout.
type TextPrinter struct {
	Out io.Writer
}

func (p *TextPrinter) PrintStats(s EnumStats) {
	fmt.Fprintf(p.Out, "\r%.0f/s | Emitted: %d | %3.0f%%", s.Rate, s.Emitted, s.Progress*100)
}

func (p *TextPrinter) PrintDone(s EnumStats) {
	fmt.Fprintf(p.Out, "\rEmitted %d addresses in %s\n", s.Emitted, s.Elapsed.Truncate(time.Millisecond))
}
