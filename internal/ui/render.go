package ui

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/storybrowser/internal/hn"
)

// linesPerItem is the height of one rendered story: title line + meta line.
const linesPerItem = 2

// pagerSpan is the maximum number of page numbers shown in the pager strip.
const pagerSpan = 7

// RenderItems renders the stories of the current page. firstRank is the
// 1-based listing position of items[0].
func RenderItems(items []hn.Story, firstRank, cursor, width, height int) string {
	if len(items) == 0 {
		return ""
	}

	offset := calcScrollOffset(len(items), cursor, height)
	maxItems := height / linesPerItem
	if maxItems < 1 {
		maxItems = 1
	}

	var b strings.Builder
	for i := offset; i < len(items) && i < offset+maxItems; i++ {
		b.WriteString(renderItem(items[i], firstRank+i, i == cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

// calcScrollOffset returns the first item index to draw so the cursor stays
// visible in availableHeight lines.
func calcScrollOffset(n, cursor, availableHeight int) int {
	visible := availableHeight / linesPerItem
	if visible < 1 {
		visible = 1
	}
	if n <= visible || cursor < visible {
		return 0
	}
	offset := cursor - visible + 1
	if offset > n-visible {
		offset = n - visible
	}
	return offset
}

func renderItem(s hn.Story, rank int, selected bool, width int) string {
	rankStr := RankStyle.Render(fmt.Sprintf("%d.", rank))

	host := hostname(s.URL)
	titleWidth := width - lipgloss.Width(rankStr) - 4
	if host != "" {
		titleWidth -= utf8.RuneCountInString(host) + 3
	}
	if titleWidth < 20 {
		titleWidth = 20
	}
	title := truncateRunes(s.Title, titleWidth)

	var titleStyle lipgloss.Style
	switch {
	case selected:
		titleStyle = SelectedItem
	case s.Deleted || s.Dead:
		titleStyle = DeletedItem
	default:
		titleStyle = NormalItem
	}

	line := rankStr + titleStyle.Render(title)
	if host != "" {
		line += MetaItem.Render(" (" + host + ")")
	}

	indent := strings.Repeat(" ", lipgloss.Width(rankStr)+1)
	return line + "\n" + indent + MetaItem.Render(metaLine(s))
}

// metaLine renders "N points by X 3h ago | M comments".
func metaLine(s hn.Story) string {
	if s.Deleted && s.By == "" {
		return ""
	}

	var parts []string
	head := ""
	if s.Type == "job" {
		head = s.Type
	} else {
		head = pluralize(s.Score, "point")
	}
	if s.By != "" {
		head += " by " + s.By
	}
	if !s.Published().IsZero() {
		head += " " + formatAgeShort(s.Published())
	}
	parts = append(parts, head)
	if s.Type != "job" {
		parts = append(parts, pluralize(s.Descendants, "comment"))
	}
	return strings.Join(parts, " | ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// hostname returns the story link's host without a leading "www.".
// Text posts (Ask HN etc.) have no URL and return "".
func hostname(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func formatAgeShort(published time.Time) string {
	age := time.Since(published)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

// truncateRunes shortens s to at most n runes, ending in "..." when cut.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// pageWindow returns the half-open range [from, to) of page indexes shown
// in the pager, centered on page where possible.
func pageWindow(page, count, span int) (from, to int) {
	if count <= span {
		return 0, count
	}
	from = page - span/2
	if from < 0 {
		from = 0
	}
	to = from + span
	if to > count {
		to = count
		from = to - span
	}
	return from, to
}

// RenderPager renders "‹ prev  1 … 4 [5] 6 …  12  next ›". Page numbers are
// 1-based on screen. Prev/next are dimmed when they would not move.
func RenderPager(page, count int, hasPrev, hasNext bool, width int) string {
	if count == 0 {
		return ""
	}

	prev := PagerDisabled.Render("‹ prev")
	if hasPrev {
		prev = PagerControl.Render("‹ prev")
	}
	next := PagerDisabled.Render("next ›")
	if hasNext {
		next = PagerControl.Render("next ›")
	}

	from, to := pageWindow(page, count, pagerSpan)
	var nums []string
	if from > 0 {
		nums = append(nums, PagerPage.Render("1"))
		if from > 1 {
			nums = append(nums, MetaItem.Render("…"))
		}
	}
	for i := from; i < to; i++ {
		label := fmt.Sprintf("%d", i+1)
		if i == page {
			nums = append(nums, PagerActive.Render(label))
		} else {
			nums = append(nums, PagerPage.Render(label))
		}
	}
	if to < count {
		if to < count-1 {
			nums = append(nums, MetaItem.Render("…"))
		}
		nums = append(nums, PagerPage.Render(fmt.Sprintf("%d", count)))
	}

	bar := prev + "  " + strings.Join(nums, "") + "  " + next
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar)
}

// RenderStatusBar renders the bottom bar: position or input on the left,
// key hints on the right.
func RenderStatusBar(left string, width int) string {
	keys := []string{
		StatusBarKey.Render("h/l") + StatusBarText.Render(":page"),
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("0-9") + StatusBarText.Render(":jump"),
		StatusBarKey.Render("?") + StatusBarText.Render(":help"),
		StatusBarKey.Render("D") + StatusBarText.Render(":debug"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(keyHints)
	padding := width - leftWidth - rightWidth - 2
	if padding < 0 {
		padding = 0
	}

	bar := left + strings.Repeat(" ", padding) + keyHints
	return StatusBar.Width(width).Render(bar)
}
