package controller

import (
	"context"
	"sync"
)

// SectionObserver reports how much of each watched section is on screen.
// Each receive is one observation batch. Observation stops when ctx is done.
type SectionObserver interface {
	ObserveSections(ctx context.Context, ids []string) (<-chan []SectionEntry, error)
}

// BreakpointObserver reports whether the viewport is at most maxWidth wide.
// The current result is sent first, then one value per change. Observation
// stops when ctx is done.
type BreakpointObserver interface {
	ObserveBreakpoint(ctx context.Context, maxWidth int) (<-chan bool, error)
}

// Viewport is an in-process viewport driven by Resize and Scroll calls. It
// satisfies both observer interfaces and stands in for a browser.
type Viewport struct {
	mu          sync.Mutex
	width       int
	breakpoints []*breakpointSub
	sections    []*sectionSub
}

type breakpointSub struct {
	ctx      context.Context
	maxWidth int
	narrow   bool
	ch       chan bool
}

type sectionSub struct {
	ctx context.Context
	ids map[string]struct{}
	ch  chan []SectionEntry
}

// NewViewport returns a viewport of the given width.
func NewViewport(width int) *Viewport {
	return &Viewport{width: width}
}

// Width returns the current width.
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// ObserveBreakpoint implements BreakpointObserver.
func (v *Viewport) ObserveBreakpoint(ctx context.Context, maxWidth int) (<-chan bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	sub := &breakpointSub{
		ctx:      ctx,
		maxWidth: maxWidth,
		narrow:   v.width <= maxWidth,
		ch:       make(chan bool, 8),
	}
	sub.ch <- sub.narrow
	v.breakpoints = append(v.breakpoints, sub)
	return sub.ch, nil
}

// ObserveSections implements SectionObserver.
func (v *Viewport) ObserveSections(ctx context.Context, ids []string) (<-chan []SectionEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	sub := &sectionSub{
		ctx: ctx,
		ids: make(map[string]struct{}, len(ids)),
		ch:  make(chan []SectionEntry, 8),
	}
	for _, id := range ids {
		sub.ids[id] = struct{}{}
	}
	v.sections = append(v.sections, sub)
	return sub.ch, nil
}

// Resize changes the width and notifies observers whose breakpoint result flipped.
func (v *Viewport) Resize(width int) {
	type send struct {
		sub    *breakpointSub
		narrow bool
	}
	var sends []send

	v.mu.Lock()
	v.width = width
	live := v.breakpoints[:0]
	for _, sub := range v.breakpoints {
		if sub.ctx.Err() != nil {
			continue
		}
		live = append(live, sub)
		narrow := width <= sub.maxWidth
		if narrow != sub.narrow {
			sub.narrow = narrow
			sends = append(sends, send{sub, narrow})
		}
	}
	v.breakpoints = live
	v.mu.Unlock()

	for _, s := range sends {
		select {
		case s.sub.ch <- s.narrow:
		case <-s.sub.ctx.Done():
		}
	}
}

// Scroll delivers one observation batch. Entries for sections an observer
// did not ask for are left out of its batch.
func (v *Viewport) Scroll(entries ...SectionEntry) {
	type send struct {
		sub   *sectionSub
		batch []SectionEntry
	}
	var sends []send

	v.mu.Lock()
	live := v.sections[:0]
	for _, sub := range v.sections {
		if sub.ctx.Err() != nil {
			continue
		}
		live = append(live, sub)
		var batch []SectionEntry
		for _, e := range entries {
			if _, ok := sub.ids[e.ID]; ok {
				batch = append(batch, e)
			}
		}
		if len(batch) > 0 {
			sends = append(sends, send{sub, batch})
		}
	}
	v.sections = live
	v.mu.Unlock()

	for _, s := range sends {
		select {
		case s.sub.ch <- s.batch:
		case <-s.sub.ctx.Done():
		}
	}
}
