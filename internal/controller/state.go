// Package controller owns the page's interactive state: the mobile menu, the
// active section highlight, the pricing view mode, the review modal and the
// two form submissions. Transitions are pure functions of (state, event);
// Controller runs them on a single event loop fed by viewport observers and
// user events.
package controller

import (
	"time"

	"calebs/ccsWebsite/internal/models"
)

const (
	// TableMaxWidth is the widest viewport, in CSS pixels, that defaults to the table view.
	TableMaxWidth = 639

	// ReviewCloseDelay keeps the review confirmation visible before the modal closes.
	ReviewCloseDelay = 800 * time.Millisecond

	// DefaultSectionID is the section highlighted before any scrolling is observed.
	DefaultSectionID = "home"
)

// PricingView is how the pricing packages are laid out.
type PricingView string

const (
	PricingCards PricingView = "cards"
	PricingTable PricingView = "table"
)

// Valid reports whether v is one of the two layouts.
func (v PricingView) Valid() bool {
	return v == PricingCards || v == PricingTable
}

// ViewForWidth is the default layout for a viewport width.
func ViewForWidth(width int) PricingView {
	return viewFor(width <= TableMaxWidth)
}

func viewFor(narrow bool) PricingView {
	if narrow {
		return PricingTable
	}
	return PricingCards
}

// State is the full interactive state of the page.
type State struct {
	MenuOpen        bool
	ActiveSectionID string
	PricingView     PricingView
	ReviewModalOpen bool
	EnquirySent     bool
	ReviewSent      bool

	// Drafts of the two forms, cleared after each submission attempt.
	Enquiry models.EnquiryForm
	Review  models.ReviewForm
}

// Initial is the state at mount for a viewport that is (or is not) below the breakpoint.
func Initial(narrow bool) State {
	return State{
		ActiveSectionID: DefaultSectionID,
		PricingView:     viewFor(narrow),
		Review:          models.NewReviewForm(),
	}
}

// Reducer applies events to a State. It knows the set of section ids so
// that the active section can only ever be a declared one.
type Reducer struct {
	sections map[string]struct{}
}

// NewReducer returns a Reducer for the given navigation.
func NewReducer(nav []models.NavItem) Reducer {
	sections := make(map[string]struct{}, len(nav))
	for _, n := range nav {
		sections[n.ID] = struct{}{}
	}
	return Reducer{sections: sections}
}

// Known reports whether id is a declared section.
func (r Reducer) Known(id string) bool {
	_, ok := r.sections[id]
	return ok
}

// Reduce returns the state after ev. Unknown events leave s unchanged.
func (r Reducer) Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case MenuToggled:
		s.MenuOpen = !s.MenuOpen
	case NavLinkActivated:
		s.MenuOpen = false
	case SectionsObserved:
		if id, ok := r.mostVisible(ev.Entries); ok {
			s.ActiveSectionID = id
		}
	case BreakpointChanged:
		// Re-derives even when the visitor picked a view by hand.
		s.PricingView = viewFor(ev.Narrow)
	case PricingViewSelected:
		if ev.View.Valid() {
			s.PricingView = ev.View
		}
	case ReviewModalOpened:
		s.ReviewModalOpen = true
	case ReviewModalClosed:
		s.ReviewModalOpen = false
	case EnquiryEdited:
		s.Enquiry = ev.Form
	case ReviewEdited:
		s.Review = ev.Form
	case EnquiryCompleted:
		s.EnquirySent = true
		s.Enquiry = models.EnquiryForm{}
	case ReviewCompleted:
		s.ReviewSent = true
		s.Review = models.NewReviewForm()
	}
	return s
}

// mostVisible picks the intersecting, declared section with the highest
// ratio. The first entry reported wins a tie.
func (r Reducer) mostVisible(entries []SectionEntry) (string, bool) {
	var (
		best  SectionEntry
		found bool
	)
	for _, e := range entries {
		if !e.Intersecting || !r.Known(e.ID) {
			continue
		}
		if !found || e.Ratio > best.Ratio {
			best, found = e, true
		}
	}
	return best.ID, found
}
