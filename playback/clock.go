package playback

import "time"

// ClockState is the run state of the playback clock.
type ClockState int

const (
	Stopped ClockState = iota
	Playing
)

func (c ClockState) String() string {
	if c == Playing {
		return "playing"
	}
	return "stopped"
}

// StopReason records why the clock last left the Playing state.
type StopReason int

const (
	ReasonNone StopReason = iota
	ReasonPaused
	ReasonEnded
	ReasonStalled
	ReasonSeeking
	ReasonClosed
)

func (r StopReason) String() string {
	switch r {
	case ReasonPaused:
		return "paused"
	case ReasonEnded:
		return "ended"
	case ReasonStalled:
		return "stalled"
	case ReasonSeeking:
		return "seeking"
	case ReasonClosed:
		return "closed"
	default:
		return ""
	}
}

// TickResult is the outcome of one clock tick.
type TickResult int

const (
	// TickIgnored means the clock was not playing.
	TickIgnored TickResult = iota
	// TickSuppressed means the user is dragging; nothing changed.
	TickSuppressed
	// TickAdvanced means the cursor moved forward by one.
	TickAdvanced
	// TickEnded means the cursor reached the last frame and the clock stopped.
	TickEnded
	// TickStalled means the frame at the cursor was missing and the clock stopped.
	TickStalled
)

// Clock is the playback state machine. It owns no timer; the session
// schedules ticks at Interval and feeds them in.
type Clock struct {
	state    ClockState
	reason   StopReason
	interval time.Duration
}

// NewClock returns a stopped clock ticking every interval once started.
func NewClock(interval time.Duration) (*Clock, error) {
	if interval <= 0 {
		return nil, ErrInvalidSpeed
	}
	return &Clock{interval: interval}, nil
}

// Start moves to Playing. Starting from the last frame rewinds the cursor to
// 0 first; reset reports whether that happened.
func (c *Clock) Start(st *state) (reset bool) {
	if c.state == Playing {
		return false
	}
	if st.total() > 0 && st.cursor >= st.last() {
		st.cursor = 0
		reset = true
	}
	c.state = Playing
	c.reason = ReasonNone
	return reset
}

// Stop moves to Stopped, leaving the cursor untouched. It reports whether
// the clock was playing.
func (c *Clock) Stop(reason StopReason) bool {
	if c.state != Playing {
		return false
	}
	c.state = Stopped
	c.reason = reason
	return true
}

// Tick applies one timer tick.
//
// A stall stops the clock for good: it does not resume when the missing
// frame arrives later, the user has to start it again.
func (c *Clock) Tick(st *state) TickResult {
	if c.state != Playing {
		return TickIgnored
	}
	if st.sliding {
		return TickSuppressed
	}
	if st.cursor >= st.total()-1 {
		c.Stop(ReasonEnded)
		return TickEnded
	}
	if !st.buf.Has(st.cursor) {
		c.Stop(ReasonStalled)
		return TickStalled
	}
	st.cursor++
	return TickAdvanced
}

// SetInterval changes the delay used when the next tick is scheduled.
func (c *Clock) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidSpeed
	}
	c.interval = interval
	return nil
}

func (c *Clock) Interval() time.Duration { return c.interval }
func (c *Clock) State() ClockState       { return c.state }
func (c *Clock) Reason() StopReason      { return c.reason }
func (c *Clock) Playing() bool           { return c.state == Playing }
