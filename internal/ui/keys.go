package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// keyMap holds the app's bindings. It implements help.KeyMap.
type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	First     key.Binding
	Last      key.Binding
	Up        key.Binding
	Down      key.Binding
	Digit     key.Binding
	Jump      key.Binding
	Backspace key.Binding
	Escape    key.Binding
	Debug     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Prev: key.NewBinding(
		key.WithKeys("h", "left", "p"),
		key.WithHelp("h/←/p", "prev page"),
	),
	Next: key.NewBinding(
		key.WithKeys("l", "right", "n"),
		key.WithHelp("l/→/n", "next page"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g/home", "first page"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G/end", "last page"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Digit: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("0-9", "page number"),
	),
	Jump: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to page"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel page number"),
	),
	Debug: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "debug"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last},
		{k.Up, k.Down},
		{k.Digit, k.Jump, k.Escape},
		{k.Debug, k.Help, k.Quit},
	}
}

// KeyHelp lists every documented binding, one per line, for --help output.
func KeyHelp() string {
	var b strings.Builder
	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			if h.Key == "" {
				continue
			}
			pad := max(1, 14-lipgloss.Width(h.Key))
			fmt.Fprintf(&b, "  %s%s%s\n", h.Key, strings.Repeat(" ", pad), h.Desc)
		}
	}
	return b.String()
}
