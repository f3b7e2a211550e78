package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/storybrowser/internal/hn"
	"github.com/abelbrown/storybrowser/internal/metrics"
	"github.com/abelbrown/storybrowser/internal/otel"
)

// IdentifierSource fetches the ordered story id list. Implemented by *hn.Client.
type IdentifierSource interface {
	FetchIdentifiers(ctx context.Context) ([]int, error)
}

// PageLoader fetches all stories for a page. Implemented by *loader.Loader.
type PageLoader interface {
	LoadPage(ctx context.Context, page []int) ([]hn.Story, error)
}

// Driver runs Effects and feeds their results back through Reduce.
// Errors are logged and folded into state; nothing is retried.
type Driver struct {
	ids   IdentifierSource
	pages PageLoader
	log   *otel.Logger // nil disables logging
}

// NewDriver creates a Driver. log may be nil.
func NewDriver(ids IdentifierSource, pages PageLoader, log *otel.Logger) *Driver {
	return &Driver{ids: ids, pages: pages, log: log}
}

// Apply reduces ev into s. Page results for a superseded generation are
// logged and counted before Reduce drops them.
func (d *Driver) Apply(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case PageLoaded:
		if !s.IsCurrent(ev.Gen) {
			d.stale(s, ev.Gen, ev.Index)
		}
	case PageFailed:
		if !s.IsCurrent(ev.Gen) {
			d.stale(s, ev.Gen, ev.Index)
		}
	}

	next, eff := Reduce(s, ev)
	if next.Page != s.Page && next.Phase == PhaseReady && s.Phase == PhaseReady {
		d.log.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindNavigate,
			Comp:  "browser",
			Gen:   next.Generation,
			Page:  next.Page,
			Msg:   fmt.Sprintf("%d -> %d", s.Page, next.Page),
		})
	}
	return next, eff
}

func (d *Driver) stale(s State, gen uint64, index int) {
	metrics.StalePagesTotal.Inc()
	d.log.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindPageStale,
		Comp:  "browser",
		Gen:   gen,
		Page:  index,
		Msg:   fmt.Sprintf("superseded by gen %d", s.Generation),
	})
}

// Run executes one effect and returns the event describing its outcome.
// Blocks until the upstream calls finish.
func (d *Driver) Run(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case FetchIdentifiers:
		return d.fetchIdentifiers(ctx)
	case LoadPage:
		return d.loadPage(ctx, eff)
	}
	return nil
}

func (d *Driver) fetchIdentifiers(ctx context.Context) Event {
	start := time.Now()
	d.log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindIDsStart, Comp: "browser"})

	ids, err := d.ids.FetchIdentifiers(ctx)
	if err != nil {
		d.log.Emit(otel.Event{
			Level: otel.LevelError,
			Kind:  otel.KindIDsError,
			Comp:  "browser",
			Dur:   time.Since(start),
			Err:   err.Error(),
			Extra: errorKind(err),
		})
		return IdentifiersFailed{Err: err}
	}

	d.log.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindIDsComplete,
		Comp:  "browser",
		Dur:   time.Since(start),
		Count: len(ids),
	})
	return IdentifiersLoaded{IDs: ids}
}

func (d *Driver) loadPage(ctx context.Context, eff LoadPage) Event {
	start := time.Now()
	d.log.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindPageStart,
		Comp:  "browser",
		Gen:   eff.Gen,
		Page:  eff.Index,
		Count: len(eff.IDs),
	})

	items, err := d.pages.LoadPage(ctx, eff.IDs)
	metrics.PageLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PageLoadsTotal.WithLabelValues("error").Inc()
		d.log.Emit(otel.Event{
			Level: otel.LevelError,
			Kind:  otel.KindPageError,
			Comp:  "browser",
			Gen:   eff.Gen,
			Page:  eff.Index,
			Dur:   time.Since(start),
			Err:   err.Error(),
			Extra: errorKind(err),
		})
		return PageFailed{Gen: eff.Gen, Index: eff.Index, Err: err}
	}

	metrics.PageLoadsTotal.WithLabelValues("ok").Inc()
	d.log.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindPageComplete,
		Comp:  "browser",
		Gen:   eff.Gen,
		Page:  eff.Index,
		Dur:   time.Since(start),
		Count: len(items),
	})
	return PageLoaded{Gen: eff.Gen, Index: eff.Index, Items: items}
}

// errorKind tags upstream failures with their hn.ErrorKind.
func errorKind(err error) map[string]any {
	if kind := hn.KindOf(err); kind != "" {
		return map[string]any{"kind": string(kind)}
	}
	return nil
}

// Drive applies ev and then runs effects sequentially until none remain.
// It is the synchronous outer loop used outside the terminal UI.
func (d *Driver) Drive(ctx context.Context, s State, ev Event) State {
	s, eff := d.Apply(s, ev)
	for eff != nil {
		if ctx.Err() != nil {
			return s
		}
		s, eff = d.Apply(s, d.Run(ctx, eff))
	}
	return s
}
