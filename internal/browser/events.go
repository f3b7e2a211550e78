package browser

import "github.com/abelbrown/storybrowser/internal/hn"

// Event is an input to Reduce.
type Event interface {
	event()
}

// Start begins the session by requesting the identifier list.
type Start struct{}

// IdentifiersLoaded carries the listing endpoint's ids.
type IdentifiersLoaded struct {
	IDs []int
}

// IdentifiersFailed reports that the listing could not be fetched.
type IdentifiersFailed struct {
	Err error
}

// Previous selects the page before the current one, floored at 0.
type Previous struct{}

// Next selects the page after the current one, capped at the last page.
type Next struct{}

// Jump selects a page directly. Out-of-range indexes are clamped.
type Jump struct {
	Index int
}

// PageLoaded carries the stories of a page request.
type PageLoaded struct {
	Gen   uint64
	Index int
	Items []hn.Story
}

// PageFailed reports that a page request failed.
type PageFailed struct {
	Gen   uint64
	Index int
	Err   error
}

// DismissError clears LastErr.
type DismissError struct{}

func (Start) event()             {}
func (IdentifiersLoaded) event() {}
func (IdentifiersFailed) event() {}
func (Previous) event()          {}
func (Next) event()              {}
func (Jump) event()              {}
func (PageLoaded) event()        {}
func (PageFailed) event()        {}
func (DismissError) event()      {}

// Effect is a side effect Reduce asks the driver to perform.
type Effect interface {
	effect()
}

// FetchIdentifiers requests the listing endpoint.
type FetchIdentifiers struct{}

// LoadPage requests the stories for one page.
type LoadPage struct {
	Gen   uint64
	Index int
	IDs   []int
}

func (FetchIdentifiers) effect() {}
func (LoadPage) effect()         {}
