package controller

import (
	"calebs/ccsWebsite/internal/models"
	"calebs/ccsWebsite/internal/relay"
)

// Event is anything that can change the page state.
type Event interface {
	isEvent()
}

// SectionEntry is one section's visibility from an observation batch.
type SectionEntry struct {
	ID           string
	Ratio        float64
	Intersecting bool
}

// CloseReason records what dismissed the review modal.
type CloseReason int

const (
	CloseBackdrop CloseReason = iota
	CloseButton
	CloseAuto
)

type (
	// MenuToggled is the hamburger button.
	MenuToggled struct{}

	// NavLinkActivated is a click on any navigation link, desktop or mobile.
	NavLinkActivated struct{ ID string }

	// SectionsObserved is one batch from the section observer.
	SectionsObserved struct{ Entries []SectionEntry }

	// BreakpointChanged carries the breakpoint check's new result.
	BreakpointChanged struct{ Narrow bool }

	// PricingViewSelected is one of the Cards/Table toggle buttons.
	PricingViewSelected struct{ View PricingView }

	ReviewModalOpened struct{}
	ReviewModalClosed struct{ Reason CloseReason }

	EnquiryEdited struct{ Form models.EnquiryForm }
	ReviewEdited  struct{ Form models.ReviewForm }

	// EnquiryCompleted and ReviewCompleted arrive when a submission attempt
	// finishes, whichever channel it used.
	EnquiryCompleted struct{ Result relay.Result }
	ReviewCompleted  struct{ Result relay.Result }
)

func (MenuToggled) isEvent()         {}
func (NavLinkActivated) isEvent()    {}
func (SectionsObserved) isEvent()    {}
func (BreakpointChanged) isEvent()   {}
func (PricingViewSelected) isEvent() {}
func (ReviewModalOpened) isEvent()   {}
func (ReviewModalClosed) isEvent()   {}
func (EnquiryEdited) isEvent()       {}
func (ReviewEdited) isEvent()        {}
func (EnquiryCompleted) isEvent()    {}
func (ReviewCompleted) isEvent()     {}
