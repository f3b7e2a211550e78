package browser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/abelbrown/storybrowser/internal/hn"
)

func ids(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ready returns a state with n identifiers loaded and the first page shown.
func ready(t *testing.T, n int) State {
	t.Helper()
	s, _ := Reduce(New(0), Start{})
	s, eff := Reduce(s, IdentifiersLoaded{IDs: ids(n)})
	if lp, ok := eff.(LoadPage); ok {
		s, _ = Reduce(s, PageLoaded{Gen: lp.Gen, Index: lp.Index, Items: stories(lp.IDs)})
	}
	return s
}

func stories(ids []int) []hn.Story {
	out := make([]hn.Story, len(ids))
	for i, id := range ids {
		out[i] = hn.Story{ID: id, Title: "t"}
	}
	return out
}

func TestStartRequestsIdentifiers(t *testing.T) {
	s, eff := Reduce(New(0), Start{})

	if _, ok := eff.(FetchIdentifiers); !ok {
		t.Fatalf("expected FetchIdentifiers effect, got %T", eff)
	}
	if s.Phase != PhaseLoading || !s.Loading {
		t.Errorf("expected loading phase with flag set, got %v loading=%v", s.Phase, s.Loading)
	}

	// A second Start is ignored.
	s2, eff := Reduce(s, Start{})
	if eff != nil {
		t.Errorf("second Start should not fetch again, got %T", eff)
	}
	if s2.Phase != PhaseLoading {
		t.Errorf("phase changed on second Start: %v", s2.Phase)
	}
}

func TestIdentifiersLoadedRequestsFirstPage(t *testing.T) {
	s, _ := Reduce(New(0), Start{})
	s, eff := Reduce(s, IdentifiersLoaded{IDs: ids(25)})

	lp, ok := eff.(LoadPage)
	if !ok {
		t.Fatalf("expected LoadPage effect, got %T", eff)
	}
	if lp.Index != 0 || lp.Gen != 1 {
		t.Errorf("expected page 0 gen 1, got page %d gen %d", lp.Index, lp.Gen)
	}
	if !reflect.DeepEqual(lp.IDs, ids(10)) {
		t.Errorf("unexpected first page ids: %v", lp.IDs)
	}
	if s.Phase != PhaseReady || !s.Loading {
		t.Errorf("expected ready+loading, got %v loading=%v", s.Phase, s.Loading)
	}
	if s.PageCount() != 3 {
		t.Errorf("expected 3 pages, got %d", s.PageCount())
	}
	if s.TotalIDs() != 25 {
		t.Errorf("expected 25 ids, got %d", s.TotalIDs())
	}
}

func TestIdentifiersLoadedEmpty(t *testing.T) {
	s, _ := Reduce(New(0), Start{})
	s, eff := Reduce(s, IdentifiersLoaded{IDs: nil})

	if eff != nil {
		t.Errorf("empty listing should not load a page, got %T", eff)
	}
	if s.Phase != PhaseReady || s.Loading {
		t.Errorf("expected ready and not loading, got %v loading=%v", s.Phase, s.Loading)
	}
	if s.PageCount() != 0 || s.HasNext() || s.HasPrev() {
		t.Error("empty listing should have no pages and no navigation")
	}

	// Navigation on an empty listing does nothing.
	for _, ev := range []Event{Next{}, Previous{}, Jump{Index: 3}} {
		if _, eff := Reduce(s, ev); eff != nil {
			t.Errorf("%T on empty listing produced %T", ev, eff)
		}
	}
}

func TestIdentifiersFailed(t *testing.T) {
	boom := errors.New("boom")
	s, _ := Reduce(New(0), Start{})
	s, eff := Reduce(s, IdentifiersFailed{Err: boom})

	if eff != nil {
		t.Errorf("failure should not produce an effect (no retry), got %T", eff)
	}
	if s.Phase != PhaseFailed || s.Loading {
		t.Errorf("expected failed and not loading, got %v loading=%v", s.Phase, s.Loading)
	}
	if !errors.Is(s.LastErr, boom) {
		t.Errorf("expected LastErr boom, got %v", s.LastErr)
	}
	if len(s.Items) != 0 {
		t.Error("items should stay empty")
	}
}

func TestInitialPageClamped(t *testing.T) {
	s, _ := Reduce(New(7), Start{})
	s, eff := Reduce(s, IdentifiersLoaded{IDs: ids(23)})

	lp := eff.(LoadPage)
	if lp.Index != 2 || s.Page != 2 {
		t.Errorf("initial page 7 with 3 pages should clamp to 2, got effect %d state %d", lp.Index, s.Page)
	}
	if New(-4).Page != 0 {
		t.Error("negative initial page should clamp to 0")
	}
}

func TestPreviousAtFirstPage(t *testing.T) {
	s := ready(t, 25)
	gen := s.Generation

	s2, eff := Reduce(s, Previous{})
	if s2.Page != 0 {
		t.Errorf("Previous at 0 should stay at 0, got %d", s2.Page)
	}
	if eff != nil {
		t.Errorf("Previous at 0 should not reload, got %T", eff)
	}
	if s2.Generation != gen {
		t.Error("generation should not change on a no-op")
	}
	if s.HasPrev() {
		t.Error("HasPrev should be false on first page")
	}
}

func TestNextAtLastPage(t *testing.T) {
	s := ready(t, 25)
	s, _ = Reduce(s, Jump{Index: 2})

	s2, eff := Reduce(s, Next{})
	if s2.Page != 2 {
		t.Errorf("Next at last page should stay at 2, got %d", s2.Page)
	}
	if eff != nil {
		t.Errorf("Next at last page should not reload, got %T", eff)
	}
	if s.HasNext() {
		t.Error("HasNext should be false on last page")
	}
}

func TestNavigationRequestsPage(t *testing.T) {
	s := ready(t, 25)
	prevItems := s.Items

	s, eff := Reduce(s, Next{})
	lp := eff.(LoadPage)
	if lp.Index != 1 || !reflect.DeepEqual(lp.IDs, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}) {
		t.Errorf("unexpected LoadPage: %+v", lp)
	}
	if !s.Loading {
		t.Error("loading flag should be set while page is in flight")
	}
	if !reflect.DeepEqual(s.Items, prevItems) {
		t.Error("previous items should stay until the new page arrives")
	}
	if s.ItemsPage != 0 {
		t.Errorf("ItemsPage should lag at 0 while page 1 loads, got %d", s.ItemsPage)
	}

	s, eff = Reduce(s, Previous{})
	if eff.(LoadPage).Index != 0 || s.Page != 0 {
		t.Errorf("Previous should go back to 0, got %d", s.Page)
	}
}

func TestLoadPageUsesSelectedPageIDs(t *testing.T) {
	s := ready(t, 25)
	s, eff := Reduce(s, Jump{Index: 2})

	want := []int{21, 22, 23, 24, 25}
	if !reflect.DeepEqual(s.CurrentIDs(), want) {
		t.Errorf("CurrentIDs = %v, want %v", s.CurrentIDs(), want)
	}
	if lp, ok := eff.(LoadPage); !ok || !reflect.DeepEqual(lp.IDs, want) {
		t.Errorf("effect = %#v, want LoadPage for %v", eff, want)
	}
	if (State{}).CurrentIDs() != nil {
		t.Error("CurrentIDs should be nil without pages")
	}
}

func TestJumpClamps(t *testing.T) {
	tests := []struct {
		jump int
		want int
	}{
		{-5, 0},
		{1, 1},
		{2, 2},
		{99, 2},
	}

	for _, tt := range tests {
		s := ready(t, 25)
		s, _ = Reduce(s, Jump{Index: tt.jump})
		if s.Page != tt.want {
			t.Errorf("Jump(%d): page = %d, want %d", tt.jump, s.Page, tt.want)
		}
	}
}

func TestPageLoadedReplacesItems(t *testing.T) {
	s := ready(t, 25)
	s, eff := Reduce(s, Jump{Index: 2})
	lp := eff.(LoadPage)

	items := []hn.Story{{ID: 21, Title: "a"}, {ID: 22, Title: "b"}}
	s, _ = Reduce(s, PageLoaded{Gen: lp.Gen, Index: lp.Index, Items: items})

	if !reflect.DeepEqual(s.Items, items) {
		t.Errorf("items not replaced: %+v", s.Items)
	}
	if s.Loading {
		t.Error("loading flag should clear after page loads")
	}
	if s.ItemsPage != 2 {
		t.Errorf("ItemsPage = %d, want 2", s.ItemsPage)
	}
}

func TestStalePageDiscarded(t *testing.T) {
	s := ready(t, 35)

	s, eff1 := Reduce(s, Next{}) // page 1
	s, eff2 := Reduce(s, Next{}) // page 2, supersedes page 1
	lp1, lp2 := eff1.(LoadPage), eff2.(LoadPage)
	if lp2.Gen <= lp1.Gen {
		t.Fatalf("generation should increase: %d then %d", lp1.Gen, lp2.Gen)
	}

	fresh := []hn.Story{{ID: 21, Title: "fresh"}}
	stale := []hn.Story{{ID: 11, Title: "stale"}}

	// Fresh result arrives first, stale one last: the stale one must not win.
	s, _ = Reduce(s, PageLoaded{Gen: lp2.Gen, Index: 2, Items: fresh})
	s, _ = Reduce(s, PageLoaded{Gen: lp1.Gen, Index: 1, Items: stale})

	if !reflect.DeepEqual(s.Items, fresh) {
		t.Errorf("stale result overwrote items: %+v", s.Items)
	}
	if s.Page != 2 {
		t.Errorf("page should remain 2, got %d", s.Page)
	}
}

func TestStaleResultKeepsLoading(t *testing.T) {
	s := ready(t, 35)
	s, eff1 := Reduce(s, Next{})
	s, _ = Reduce(s, Next{})

	s, _ = Reduce(s, PageLoaded{Gen: eff1.(LoadPage).Gen, Index: 1, Items: nil})
	if !s.Loading {
		t.Error("stale completion must not clear the loading flag of the current request")
	}

	s, _ = Reduce(s, PageFailed{Gen: eff1.(LoadPage).Gen, Index: 1, Err: errors.New("late")})
	if s.LastErr != nil || !s.Loading {
		t.Error("stale failure must be ignored")
	}
}

func TestPageFailedKeepsItems(t *testing.T) {
	s := ready(t, 25)
	before := s.Items

	s, eff := Reduce(s, Next{})
	boom := errors.New("item 12 failed")
	s, _ = Reduce(s, PageFailed{Gen: eff.(LoadPage).Gen, Index: 1, Err: boom})

	if s.Loading {
		t.Error("loading flag should clear on failure")
	}
	if !reflect.DeepEqual(s.Items, before) {
		t.Error("previous items should remain visible after failure")
	}
	if !errors.Is(s.LastErr, boom) {
		t.Errorf("expected LastErr, got %v", s.LastErr)
	}
	if s.Page != 1 {
		t.Errorf("selected page stays 1 after failure, got %d", s.Page)
	}

	s, _ = Reduce(s, DismissError{})
	if s.LastErr != nil {
		t.Error("DismissError should clear LastErr")
	}
}

func TestNavigationIgnoredBeforeReady(t *testing.T) {
	s := New(0)
	for _, ev := range []Event{Next{}, Previous{}, Jump{Index: 1}, PageLoaded{Gen: 0}} {
		next, eff := Reduce(s, ev)
		if eff != nil || next.Phase != PhaseUninitialized {
			t.Errorf("%T before Start should be ignored", ev)
		}
	}

	s, _ = Reduce(s, Start{})
	if _, eff := Reduce(s, Next{}); eff != nil {
		t.Error("Next while identifiers are loading should be ignored")
	}
}

func TestPagesComputedOnce(t *testing.T) {
	s := ready(t, 25)
	pages := s.Pages

	s, eff := Reduce(s, IdentifiersLoaded{IDs: ids(3)})
	if eff != nil {
		t.Errorf("late IdentifiersLoaded should be ignored, got %T", eff)
	}
	if !reflect.DeepEqual(s.Pages, pages) {
		t.Error("pages must not be recomputed after initial load")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := ready(t, 25)
	snapshot := s

	_, _ = Reduce(s, Next{})
	_, _ = Reduce(s, PageFailed{Gen: s.Generation, Err: errors.New("x")})

	if !reflect.DeepEqual(s, snapshot) {
		t.Error("Reduce mutated its input state")
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseUninitialized: "uninitialized",
		PhaseLoading:       "loading",
		PhaseReady:         "ready",
		PhaseFailed:        "failed",
		Phase(42):          "unknown",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}
