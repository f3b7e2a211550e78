package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/storybrowser/internal/browser"
	"github.com/abelbrown/storybrowser/internal/hn"
	"github.com/abelbrown/storybrowser/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel: the live browser state, counters
// derived from the ring buffer, and as many recent events as fit. log and
// sel may be nil. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, log *otel.Logger, sel *hn.Story, s browser.State, width, height int) string {
	if ring == nil {
		return ""
	}

	lines := sessionLines(s, sel)
	lines = append(lines, "")
	lines = append(lines, loadStatLines(ring, log)...)
	lines = append(lines, "")
	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))

	room := height - debugPanelChrome - len(lines)
	if room > 0 {
		for _, e := range ring.Last(room) {
			lines = append(lines, eventLine(e))
		}
	}
	if limit := height - debugPanelChrome; limit >= 1 && len(lines) > limit {
		lines = lines[:limit]
	}

	panelWidth := min(76, width-4)
	if panelWidth < 20 {
		panelWidth = 20
	}
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func sessionLines(s browser.State, sel *hn.Story) []string {
	page := "-"
	if n := s.PageCount(); n > 0 {
		page = fmt.Sprintf("%d/%d (items from %d)", s.Page+1, n, s.ItemsPage+1)
	}
	inFlight := "idle"
	if s.Loading {
		inFlight = fmt.Sprintf("loading gen %d", s.Generation)
	}
	lastErr := "none"
	if s.LastErr != nil {
		lastErr = truncateRunes(s.LastErr.Error(), 50)
	}
	selected := "-"
	if sel != nil {
		selected = sel.DiscussionURL()
	}

	return []string{
		DebugHeaderStyle.Render("Session"),
		statRow("Phase", s.Phase.String()),
		statRow("Page", page),
		statRow("Generation", fmt.Sprintf("%d", s.Generation)),
		statRow("Request", inFlight),
		statRow("Last error", lastErr),
		statRow("Selected", selected),
	}
}

func loadStatLines(ring *otel.RingBuffer, log *otel.Logger) []string {
	stats := ring.Stats()
	return []string{
		DebugHeaderStyle.Render("Load Stats"),
		statRow("Listing", fmt.Sprintf("%d ok, %d failed",
			stats[otel.KindIDsComplete], stats[otel.KindIDsError])),
		statRow("Pages", fmt.Sprintf("%d requested, %d ok, %d failed, %d stale",
			stats[otel.KindPageStart], stats[otel.KindPageComplete],
			stats[otel.KindPageError], stats[otel.KindPageStale])),
		statRow("Input", fmt.Sprintf("%d moves from %d keys",
			stats[otel.KindNavigate], stats[otel.KindKeyPress])),
		statRow("Buffer", fmt.Sprintf("%d / %d events", ring.Len(), ring.Cap())),
		statRow("Log", logSummary(log)),
	}
}

func logSummary(log *otel.Logger) string {
	if log == nil {
		return "off"
	}
	return fmt.Sprintf("session %s, %d dropped", log.SessionID(), log.Dropped())
}

func statRow(label, value string) string {
	return fmt.Sprintf("  %-11s %s", label+":", value)
}

func eventLine(e otel.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %6s  %-16s", formatAge(time.Since(e.Time)), e.Kind)
	if e.Gen > 0 {
		fmt.Fprintf(&b, "  gen:%d", e.Gen)
	}
	if e.Kind == otel.KindNavigate || strings.HasPrefix(string(e.Kind), "page.") {
		fmt.Fprintf(&b, "  p%d", e.Page+1)
	}
	if e.Msg != "" {
		b.WriteString("  " + truncateRunes(e.Msg, 36))
	}
	if e.Err != "" {
		b.WriteString("  ERR:" + truncateRunes(e.Err, 30))
	}
	return b.String()
}

// formatAge formats a duration as a compact human string.
// Negative durations from clock skew clamp to "0ms".
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
