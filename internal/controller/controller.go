package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/models"
	"calebs/ccsWebsite/internal/relay"
)

var (
	ErrMissingField = errors.New("controller: required field missing")
	ErrNotMounted   = errors.New("controller: not mounted")
	ErrMounted      = errors.New("controller: already mounted")
)

// Submitter sends the two forms. relay.Client implements it.
type Submitter interface {
	SubmitEnquiry(ctx context.Context, f models.EnquiryForm) relay.Result
	SubmitReview(ctx context.Context, f models.ReviewForm) relay.Result
}

// Navigator opens a URL on the visitor's behalf, e.g. a mailto link.
type Navigator interface {
	Open(url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string) error

func (f NavigatorFunc) Open(url string) error { return f(url) }

// Options wires a Controller to its capabilities.
type Options struct {
	Nav        []models.NavItem
	Sections   SectionObserver
	Breakpoint BreakpointObserver
	Submitter  Submitter
	Navigator  Navigator
	Logger     *zap.Logger

	// CloseDelay overrides ReviewCloseDelay.
	CloseDelay time.Duration

	// OnChange is called on the event loop after every state change.
	OnChange func(State)
}

// Controller runs the page state machine. It is mounted once; after
// Unmount every dispatch is a no-op.
type Controller struct {
	nav        []models.NavItem
	reducer    Reducer
	sections   SectionObserver
	breakpoint BreakpointObserver
	submitter  Submitter
	navigator  Navigator
	log        *zap.Logger
	closeDelay time.Duration
	onChange   func(State)

	events chan Event
	done   chan struct{}
	loop   sync.WaitGroup

	mu      sync.RWMutex
	state   State
	mounted bool
	cancel  context.CancelFunc
	// submissions outlive unmount, so they run on a context that is never cancelled.
	submitCtx context.Context

	timersMu sync.Mutex
	timers   map[*time.Timer]struct{}

	teardownOnce sync.Once
}

// New validates opts and returns an unmounted Controller.
func New(opts Options) (*Controller, error) {
	if len(opts.Nav) == 0 {
		return nil, errors.New("controller: no navigation items")
	}
	if opts.Sections == nil || opts.Breakpoint == nil {
		return nil, errors.New("controller: viewport observers are required")
	}
	if opts.Submitter == nil {
		return nil, errors.New("controller: submitter is required")
	}

	c := &Controller{
		nav:        opts.Nav,
		reducer:    NewReducer(opts.Nav),
		sections:   opts.Sections,
		breakpoint: opts.Breakpoint,
		submitter:  opts.Submitter,
		navigator:  opts.Navigator,
		log:        opts.Logger,
		closeDelay: opts.CloseDelay,
		onChange:   opts.OnChange,
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
		timers:     make(map[*time.Timer]struct{}),
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.closeDelay <= 0 {
		c.closeDelay = ReviewCloseDelay
	}
	return c, nil
}

// Mount registers both observers, derives the initial state from the
// breakpoint observer's first value and starts the event loop. Cancelling
// ctx has the same effect as Unmount.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.unmountedLocked() {
		c.mu.Unlock()
		return ErrNotMounted
	}
	if c.mounted || c.cancel != nil {
		c.mu.Unlock()
		return ErrMounted
	}
	obsCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	bp, err := c.breakpoint.ObserveBreakpoint(obsCtx, TableMaxWidth)
	if err != nil {
		c.abortMount(cancel)
		return fmt.Errorf("observe breakpoint: %w", err)
	}

	ids := make([]string, len(c.nav))
	for i, n := range c.nav {
		ids[i] = n.ID
	}
	secs, err := c.sections.ObserveSections(obsCtx, ids)
	if err != nil {
		c.abortMount(cancel)
		return fmt.Errorf("observe sections: %w", err)
	}

	var narrow bool
	select {
	case narrow = <-bp:
	case <-obsCtx.Done():
		c.abortMount(cancel)
		return obsCtx.Err()
	}

	c.mu.Lock()
	if c.unmountedLocked() {
		c.mu.Unlock()
		cancel()
		return ErrNotMounted
	}
	c.state = Initial(narrow)
	c.mounted = true
	c.submitCtx = context.WithoutCancel(ctx)
	c.mu.Unlock()

	c.log.Debug("page mounted",
		zap.Bool("narrow", narrow),
		zap.String("pricing_view", string(viewFor(narrow))))

	c.loop.Add(1)
	go c.run(obsCtx, bp, secs)
	return nil
}

// abortMount undoes a Mount that failed before the loop started, so it can be retried.
func (c *Controller) abortMount(cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	c.cancel = nil
	c.mu.Unlock()
}

// unmountedLocked reports whether Unmount has run. Callers hold c.mu.
func (c *Controller) unmountedLocked() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Unmount tears down the observers and pending timers and waits for the
// event loop to exit.
func (c *Controller) Unmount() {
	c.teardown()
	c.loop.Wait()
}

func (c *Controller) teardown() {
	c.teardownOnce.Do(func() {
		c.mu.Lock()
		c.mounted = false
		cancel := c.cancel
		close(c.done)
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}

		c.timersMu.Lock()
		for t := range c.timers {
			t.Stop()
		}
		c.timers = nil
		c.timersMu.Unlock()
	})
}

func (c *Controller) run(ctx context.Context, bp <-chan bool, secs <-chan []SectionEntry) {
	defer c.loop.Done()
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.teardown()
			return
		case ev := <-c.events:
			c.apply(ev)
		case narrow, ok := <-bp:
			if !ok {
				bp = nil
				continue
			}
			c.apply(BreakpointChanged{Narrow: narrow})
		case entries, ok := <-secs:
			if !ok {
				secs = nil
				continue
			}
			c.apply(SectionsObserved{Entries: entries})
		}
	}
}

func (c *Controller) apply(ev Event) {
	c.mu.Lock()
	prev := c.state
	next := c.reducer.Reduce(prev, ev)
	c.state = next
	c.mu.Unlock()

	if _, ok := ev.(ReviewCompleted); ok {
		c.after(c.closeDelay, ReviewModalClosed{Reason: CloseAuto})
	}
	if c.onChange != nil && next != prev {
		c.onChange(next)
	}
}

// after dispatches ev once d has elapsed, unless the controller is unmounted first.
func (c *Controller) after(d time.Duration, ev Event) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	if c.timers == nil {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		c.timersMu.Lock()
		if c.timers != nil {
			delete(c.timers, t)
		}
		c.timersMu.Unlock()
		c.Dispatch(ev)
	})
	c.timers[t] = struct{}{}
}

// Dispatch queues ev for the event loop. It returns false, doing nothing,
// when the controller is not mounted.
func (c *Controller) Dispatch(ev Event) bool {
	if !c.Mounted() {
		return false
	}
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

// Mounted reports whether the event loop is running.
func (c *Controller) Mounted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mounted
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// ToggleMenu flips the mobile menu.
func (c *Controller) ToggleMenu() { c.Dispatch(MenuToggled{}) }

// Navigate records a nav link activation, which closes the mobile menu.
func (c *Controller) Navigate(id string) { c.Dispatch(NavLinkActivated{ID: id}) }

// SelectPricingView applies one of the pricing toggle buttons.
func (c *Controller) SelectPricingView(v PricingView) { c.Dispatch(PricingViewSelected{View: v}) }

// OpenReview opens the review modal.
func (c *Controller) OpenReview() { c.Dispatch(ReviewModalOpened{}) }

// CloseReview closes the review modal.
func (c *Controller) CloseReview(reason CloseReason) { c.Dispatch(ReviewModalClosed{Reason: reason}) }

// EditEnquiry replaces the contact form draft.
func (c *Controller) EditEnquiry(f models.EnquiryForm) { c.Dispatch(EnquiryEdited{Form: f}) }

// EditReview replaces the review form draft.
func (c *Controller) EditReview(f models.ReviewForm) { c.Dispatch(ReviewEdited{Form: f}) }

// SubmitEnquiry sends the current contact form draft in the background.
// Only missing required fields are reported; delivery problems end in the
// mailto fallback and still mark the enquiry as sent.
func (c *Controller) SubmitEnquiry() error {
	if !c.Mounted() {
		return ErrNotMounted
	}
	form := c.State().Enquiry
	if missing := form.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	ctx := c.currentSubmitCtx()
	go func() {
		res := c.submitter.SubmitEnquiry(ctx, form)
		c.fallback(res)
		c.Dispatch(EnquiryCompleted{Result: res})
	}()
	return nil
}

// SubmitReview sends the current review draft in the background. The
// modal closes CloseDelay after the attempt completes.
func (c *Controller) SubmitReview() error {
	if !c.Mounted() {
		return ErrNotMounted
	}
	form := c.State().Review
	if missing := form.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	ctx := c.currentSubmitCtx()
	go func() {
		res := c.submitter.SubmitReview(ctx, form)
		c.fallback(res)
		c.Dispatch(ReviewCompleted{Result: res})
	}()
	return nil
}

func (c *Controller) currentSubmitCtx() context.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.submitCtx
}

func (c *Controller) fallback(res relay.Result) {
	if res.Channel != relay.ChannelFallback || c.navigator == nil || !c.Mounted() {
		return
	}
	if err := c.navigator.Open(res.MailtoURL); err != nil {
		c.log.Warn("mailto fallback failed to open",
			zap.String("submission", res.ID), zap.Error(err))
	}
}
