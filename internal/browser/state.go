// Package browser holds the story browser's navigation state machine.
//
// State is an immutable value. Reduce maps (State, Event) to a new State and
// at most one Effect; it performs no I/O. The Driver executes Effects against
// the upstream API and turns their results back into Events, so the same
// reducer serves the terminal UI and the plain stdout mode.
//
// Phases:
//
//	Uninitialized --Start--> Loading --IdentifiersLoaded--> Ready(page)
//	                                  \--IdentifiersFailed--> Failed
//
// Every change of the selected page bumps Generation. Page results carry
// the generation they were requested under and are dropped when it is no
// longer current, so a slow response for an abandoned page never replaces
// the items of the page the user is looking at.
package browser

import (
	"github.com/abelbrown/storybrowser/internal/hn"
	"github.com/abelbrown/storybrowser/internal/paginate"
)

// Phase is the coarse lifecycle of a browsing session.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading             // identifier list in flight
	PhaseReady               // pages known, a page is selected
	PhaseFailed              // identifier list could not be fetched
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the full browsing state. Values are never mutated in place;
// Reduce returns a copy. Items is replaced wholesale, never merged.
type State struct {
	Phase      Phase
	PageSize   int
	Pages      [][]int // computed once from the identifier list
	Page       int     // selected page index
	Items      []hn.Story
	ItemsPage  int // page index Items were loaded for; lags Page while Loading
	Loading    bool
	Generation uint64
	LastErr    error
}

// New returns an uninitialized state. initialPage is the page selected once
// identifiers arrive; it is clamped to the valid range at that point.
func New(initialPage int) State {
	if initialPage < 0 {
		initialPage = 0
	}
	return State{
		Phase:    PhaseUninitialized,
		PageSize: paginate.PageSize,
		Page:     initialPage,
	}
}

// PageCount returns the number of pages, 0 until identifiers are loaded.
func (s State) PageCount() int {
	return len(s.Pages)
}

// HasPrev reports whether Previous would change the selected page.
func (s State) HasPrev() bool {
	return s.Phase == PhaseReady && s.Page > 0
}

// HasNext reports whether Next would change the selected page.
func (s State) HasNext() bool {
	return s.Phase == PhaseReady && s.Page < s.PageCount()-1
}

// CurrentIDs returns the identifiers of the selected page.
func (s State) CurrentIDs() []int {
	if s.Page < 0 || s.Page >= len(s.Pages) {
		return nil
	}
	return s.Pages[s.Page]
}

// TotalIDs returns the length of the identifier list.
func (s State) TotalIDs() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p)
	}
	return n
}

// IsCurrent reports whether a page result tagged gen belongs to the most
// recent page request.
func (s State) IsCurrent(gen uint64) bool {
	return gen == s.Generation
}

// clamp limits i to [0, PageCount-1]. Returns 0 when there are no pages.
func (s State) clamp(i int) int {
	if i >= s.PageCount() {
		i = s.PageCount() - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
