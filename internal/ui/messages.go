// Package ui provides the Bubble Tea TUI for storybrowser.
package ui

import "github.com/abelbrown/storybrowser/internal/browser"

// BrowserEvent carries a browser.Event into Update. Effects run as tea.Cmds
// and deliver their outcome as a BrowserEvent.
type BrowserEvent struct {
	Event browser.Event
}
