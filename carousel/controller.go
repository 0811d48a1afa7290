// Package carousel implements the rotating showcase: which item is on display, the
// autoplay loop, manual navigation with its resume cooldown, and the two-phase fade
// transition a rendering surface animates against.
//
// Controller is a pure state machine driven by explicit instants, so every timer is a
// deadline field it owns. Player hosts a Controller on its own goroutine and turns those
// deadlines into real timers.
package carousel

import "time"

// State is the observable part of a controller.
type State struct {
	CurrentIndex    int  `json:"current_index"`
	TargetIndex     int  `json:"target_index"`
	Total           int  `json:"total"`
	IsAutoPlaying   bool `json:"is_auto_playing"`
	IsTransitioning bool `json:"is_transitioning"`
}

type EventKind string

const (
	EventTransitionStarted EventKind = "transition_started"
	EventIndexCommitted    EventKind = "index_committed"
	EventTransitionSettled EventKind = "transition_settled"
	EventAutoplayPaused    EventKind = "autoplay_paused"
	EventAutoplayResumed   EventKind = "autoplay_resumed"
)

// Event records a state change and the instant it was scheduled for.
type Event struct {
	Kind   EventKind
	At     time.Time
	Index  int
	Manual bool
}

// timer identifiers, in firing priority for equal deadlines
type timer int

const (
	timerCommit timer = iota
	timerSettle
	timerResume
	timerAutoplay
	numTimers
)

// Controller owns the current index, autoplay flag and transition flag of one mounted
// showcase. It is not safe for concurrent use; Player serialises access.
type Controller struct {
	cfg   Config
	total int

	current int
	// target is where the in-flight transition lands; equal to current when idle
	target int

	autoplaying   bool
	transitioning bool
	// manual marks the in-flight transition as viewer-initiated
	manual bool
	// cooldownPending arms the resume timer once the manual transition settles
	cooldownPending bool

	deadlines     [numTimers]time.Time
	autoplaySince time.Time

	closed bool
	events []Event
}

// NewController mounts a showcase of total items at instant now.
func NewController(total int, cfg Config, now time.Time) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if total < 0 {
		total = 0
	}
	c := &Controller{cfg: cfg, total: total, autoplaying: cfg.Autoplay}
	c.armAutoplay(now)
	return c, nil
}

func (c *Controller) State() State {
	return State{
		CurrentIndex:    c.current,
		TargetIndex:     c.target,
		Total:           c.total,
		IsAutoPlaying:   c.autoplaying,
		IsTransitioning: c.transitioning,
	}
}

// Next moves one item forward, wrapping at the end. It reports whether a transition started.
func (c *Controller) Next(now time.Time) bool {
	return c.navigate(now, c.relative(1))
}

// Previous moves one item back, wrapping at the start.
func (c *Controller) Previous(now time.Time) bool {
	return c.navigate(now, c.relative(-1))
}

// GoTo jumps to index i. Jumping to the displayed item does nothing. Picking the item a
// transition is already heading for keeps that transition but still counts as manual.
func (c *Controller) GoTo(i int, now time.Time) (bool, error) {
	if c.closed || c.total == 0 {
		return false, nil
	}
	if i < 0 || i >= c.total {
		return false, ErrIndexOutOfRange{Index: i, Total: c.total}
	}
	if i == c.current {
		return false, nil
	}
	return c.navigate(now, i), nil
}

// relative resolves a step against the pending target so rapid presses accumulate.
func (c *Controller) relative(step int) int {
	if c.total == 0 {
		return -1
	}
	return ((c.target+step)%c.total + c.total) % c.total
}

func (c *Controller) navigate(now time.Time, to int) bool {
	if c.closed || to < 0 {
		return false
	}
	started := to != c.target
	switch {
	case started:
		c.begin(now, to, true)
	case c.transitioning:
		c.manual = true
	default:
		return false
	}
	if c.autoplaying {
		c.autoplaying = false
		c.disarm(timerAutoplay)
		c.emit(EventAutoplayPaused, now, c.current)
	}
	// only the most recent cooldown counts
	c.disarm(timerResume)
	c.cooldownPending = true
	return started
}

// begin starts a transition towards to. A transition already in flight is overridden:
// its commit and settle timers are replaced by the new ones.
func (c *Controller) begin(now time.Time, to int, manual bool) {
	c.target = to
	c.transitioning = true
	c.manual = manual
	c.disarm(timerSettle)
	c.deadlines[timerCommit] = now.Add(c.cfg.TransitionDelay)
	c.emit(EventTransitionStarted, now, to)
}

// Tick fires every timer due at or before now, in deadline order, and returns how many fired.
// Each timer fires at its own deadline so follow-up timers do not drift with late ticks.
func (c *Controller) Tick(now time.Time) int {
	fired := 0
	for !c.closed {
		id, at, ok := c.earliest()
		if !ok || at.After(now) {
			break
		}
		c.disarm(id)
		c.fire(id, at)
		fired++
	}
	return fired
}

func (c *Controller) fire(id timer, at time.Time) {
	switch id {
	case timerCommit:
		c.current = c.target
		c.deadlines[timerSettle] = at.Add(c.cfg.SettleDelay)
		c.emit(EventIndexCommitted, at, c.current)
	case timerSettle:
		c.transitioning = false
		c.emit(EventTransitionSettled, at, c.current)
		if c.cooldownPending {
			c.cooldownPending = false
			c.deadlines[timerResume] = at.Add(c.cfg.ResumeCooldown)
		}
		c.manual = false
	case timerResume:
		c.autoplaying = true
		c.armAutoplay(at)
		c.emit(EventAutoplayResumed, at, c.current)
	case timerAutoplay:
		c.armAutoplay(at)
		if next := c.relative(1); next >= 0 && next != c.target {
			c.begin(at, next, false)
		}
	}
}

// SetTotal swaps in a list of n items while mounted. The displayed index is clamped into
// range and a transition whose destination disappeared is abandoned. An empty list tears
// every timer down and returns the controller to its mount defaults.
func (c *Controller) SetTotal(n int, now time.Time) {
	if c.closed {
		return
	}
	if n < 0 {
		n = 0
	}
	c.total = n
	if n == 0 {
		c.teardown()
		c.current, c.target = 0, 0
		c.transitioning, c.manual, c.cooldownPending = false, false, false
		c.autoplaying = c.cfg.Autoplay
		return
	}
	if c.current >= n {
		c.current = n - 1
	}
	if c.target >= n {
		c.disarm(timerCommit)
		c.disarm(timerSettle)
		c.target = c.current
		c.transitioning = false
		c.manual = false
		if c.cooldownPending {
			c.cooldownPending = false
			c.deadlines[timerResume] = now.Add(c.cfg.ResumeCooldown)
		}
	}
	if n < 2 {
		c.disarm(timerAutoplay)
	} else if c.autoplaying && c.deadlines[timerAutoplay].IsZero() {
		c.armAutoplay(now)
	}
}

// NextDeadline reports the earliest armed timer.
func (c *Controller) NextDeadline() (time.Time, bool) {
	_, at, ok := c.earliest()
	return at, ok
}

// Progress is the fraction of the running autoplay interval that has elapsed, 0 when paused.
func (c *Controller) Progress(now time.Time) float64 {
	if !c.autoplaying || c.deadlines[timerAutoplay].IsZero() {
		return 0
	}
	p := float64(now.Sub(c.autoplaySince)) / float64(c.cfg.AutoplayInterval)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Drain returns the events recorded since the previous call.
func (c *Controller) Drain() []Event {
	ev := c.events
	c.events = nil
	return ev
}

// Close cancels every timer. A closed controller ignores all further input.
func (c *Controller) Close() {
	c.teardown()
	c.closed = true
}

func (c *Controller) Closed() bool { return c.closed }

func (c *Controller) armAutoplay(now time.Time) {
	if c.closed || !c.autoplaying || c.total < 2 {
		c.disarm(timerAutoplay)
		return
	}
	c.deadlines[timerAutoplay] = now.Add(c.cfg.AutoplayInterval)
	c.autoplaySince = now
}

func (c *Controller) earliest() (timer, time.Time, bool) {
	var (
		best  timer
		at    time.Time
		found bool
	)
	for id := timerCommit; id < numTimers; id++ {
		d := c.deadlines[id]
		if d.IsZero() {
			continue
		}
		if !found || d.Before(at) {
			best, at, found = id, d, true
		}
	}
	return best, at, found
}

func (c *Controller) disarm(id timer) { c.deadlines[id] = time.Time{} }

func (c *Controller) teardown() {
	for id := range c.deadlines {
		c.deadlines[id] = time.Time{}
	}
}

func (c *Controller) emit(kind EventKind, at time.Time, index int) {
	c.events = append(c.events, Event{Kind: kind, At: at, Index: index, Manual: c.manual})
}
