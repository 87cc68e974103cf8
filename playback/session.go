// Package playback replays a server-computed simulation frame by frame while
// fetching frames lazily over a single bidirectional stream.
//
// A Session combines four parts that share one lock: the Sequencer picks
// which frame to request next, the buffer stores what arrived, the Clock
// advances the cursor while playing and the SeekController handles scrubbing.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/simplay-cli/simplay/buffer"
	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the terminal message sent when a session ends.
const shutdownTimeout = time.Second

// FrameChannel carries requests out and frames back in. Responses may arrive
// in any order and more than once.
type FrameChannel interface {
	Send(ctx context.Context, req frame.Request) error
	Recv(ctx context.Context) (frame.Frame, error)
}

// Options configures a Session.
type Options struct {
	SimulationID string
	// TotalFrames may be zero and supplied later through SetTotalFrames.
	TotalFrames int
	Window      int
	Interval    time.Duration
}

// Status is a consistent snapshot of a session for renderers.
type Status struct {
	SessionID    string
	SimulationID string
	Cursor       int
	Total        int
	State        ClockState
	Reason       StopReason
	Sliding      bool
	Epoch        int
	Buffered     int
	Requested    int
	Window       int
	Interval     time.Duration
	Health       float64
}

type timer interface {
	Stop() bool
}

// Session is one playback of one simulation.
type Session struct {
	id    string
	simID string
	ch    FrameChannel
	log   *logrus.Entry

	mu      sync.Mutex
	st      state
	seq     *Sequencer
	clock   *Clock
	seek    SeekController
	changed chan struct{}
	timer   timer
	tickGen int
	running bool
	closed  bool
	cancel  context.CancelFunc

	listeners []func(Status)

	afterFunc func(time.Duration, func()) timer
}

// New creates a session reading from ch. Nothing is requested until Run.
func New(ch FrameChannel, opts Options) (*Session, error) {
	seq, err := NewSequencer(opts.Window)
	if err != nil {
		return nil, err
	}
	clock, err := NewClock(opts.Interval)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		id:      id,
		simID:   opts.SimulationID,
		ch:      ch,
		log:     log.WithFields(log.Fields{"session": id, "simulation": opts.SimulationID}),
		st:      state{buf: buffer.New(opts.TotalFrames)},
		seq:     seq,
		clock:   clock,
		changed: make(chan struct{}),
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
	return s, nil
}

// ID returns the unique identifier of this session.
func (s *Session) ID() string {
	return s.id
}

// OnChange registers fn to be called with a fresh snapshot after every
// state change. Callbacks run outside the session lock.
func (s *Session) OnChange(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Run drives the stream until ctx is cancelled, Close is called or the
// channel fails. A channel failure is returned and ends the session; it is
// never retried.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.running:
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	s.cancel = cancel
	s.mu.Unlock()

	s.log.Info("playback session started")
	defer s.teardown()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.sendLoop(gctx) })
	g.Go(func() error { return s.receiveLoop(gctx) })

	err := g.Wait()
	if err != nil {
		s.log.WithError(err).Error("playback session failed")
	}
	return err
}

// Close ends the session. It is safe to call more than once and before Run.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.cancel
	running := s.running
	s.mu.Unlock()

	if running && cancel != nil {
		cancel()
		return
	}
	s.teardown()
}

func (s *Session) teardown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.running = false
	s.clock.Stop(ReasonClosed)
	s.stopTimerLocked()
	s.notifyLocked()
	status, listeners := s.statusLocked(), s.listeners
	s.mu.Unlock()

	s.log.WithField("cursor", status.Cursor).Info("playback session ended")
	emit(listeners, status)
}

// sendLoop pulls the sequencer and writes requests until the context ends.
// It suspends whenever the sequencer has nothing to request.
func (s *Session) sendLoop(ctx context.Context) error {
	defer s.sendShutdown()

	for {
		s.mu.Lock()
		n, step := s.seq.Next(&s.st)
		wake := s.changed
		s.mu.Unlock()

		if step == StepRequest {
			if err := s.ch.Send(ctx, frame.Request{SimulationID: s.simID, Number: n}); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("send request for frame %d: %w", n, err)
			}
			s.log.WithField("frame", n).Debug("frame requested")
			s.publish()
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		}
	}
}

func (s *Session) sendShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.ch.Send(ctx, frame.Request{SimulationID: s.simID, Shutdown: true}); err != nil {
		s.log.WithError(err).Debug("shutdown message not delivered")
	}
}

func (s *Session) receiveLoop(ctx context.Context) error {
	for {
		f, err := s.ch.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return ErrChannelClosed
			}
			return fmt.Errorf("%w: %w", ErrChannelClosed, err)
		}
		s.deliver(f)
	}
}

// deliver stores one inbound frame. Duplicates and late arrivals are dropped.
func (s *Session) deliver(f frame.Frame) {
	s.mu.Lock()
	stored := s.st.buf.Put(f)
	if stored {
		s.notifyLocked()
	}
	s.mu.Unlock()

	if !stored {
		s.log.WithField("frame", f.Number).Debug("duplicate or out of range frame ignored")
		return
	}
	s.publish()
}

// SetTotalFrames supplies the frame count once. Repeating the same value is
// a no-op; a different value is rejected.
func (s *Session) SetTotalFrames(total int) error {
	if total <= 0 {
		return ErrInvalidTotal
	}

	s.mu.Lock()
	if known := s.st.total(); known > 0 {
		s.mu.Unlock()
		if known == total {
			return nil
		}
		return ErrTotalFramesKnown
	}
	s.st.buf.SetTotal(total)
	s.st.cursor = lo.Clamp(s.st.cursor, 0, s.st.last())
	s.notifyLocked()
	s.mu.Unlock()

	s.publish()
	return nil
}

// StartPlayback starts or resumes the clock. From the last frame it
// restarts at frame 0.
func (s *Session) StartPlayback() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.st.total() <= 0 {
		s.mu.Unlock()
		return ErrTotalFramesUnknown
	}
	if s.clock.Playing() {
		s.mu.Unlock()
		return nil
	}
	if s.clock.Start(&s.st) {
		s.seq.Retarget(s.st.cursor)
	}
	s.scheduleLocked()
	s.notifyLocked()
	s.mu.Unlock()

	s.log.Info("playback started")
	s.publish()
	return nil
}

// PausePlayback stops the clock and cancels the pending tick.
func (s *Session) PausePlayback() {
	s.mu.Lock()
	paused := s.clock.Stop(ReasonPaused)
	if paused {
		s.stopTimerLocked()
		s.notifyLocked()
	}
	s.mu.Unlock()

	if paused {
		s.publish()
	}
}

// BeginSeek starts a scrub gesture. Playback pauses and does not resume by
// itself afterwards.
func (s *Session) BeginSeek() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.seek.Begin(&s.st, s.clock) {
		s.stopTimerLocked()
	}
	s.notifyLocked()
	s.mu.Unlock()

	s.publish()
}

// SeekTo moves the cursor to n, clamped to the valid range. Outside a
// BeginSeek/EndSeek pair it acts as a complete jump.
func (s *Session) SeekTo(n int) {
	s.mu.Lock()
	dragging := s.seek.Dragging()
	s.mu.Unlock()

	if !dragging {
		s.BeginSeek()
		defer s.EndSeek()
	}

	s.mu.Lock()
	if !s.closed {
		s.seek.To(&s.st, n)
		s.notifyLocked()
	}
	s.mu.Unlock()

	s.publish()
}

// EndSeek finishes a scrub gesture and redirects prefetching to the cursor.
func (s *Session) EndSeek() {
	s.mu.Lock()
	ended := s.seek.End(&s.st, s.seq)
	if ended {
		s.notifyLocked()
		s.log.WithFields(log.Fields{"cursor": s.st.cursor, "epoch": s.seq.Epoch()}).Debug("prefetch re-targeted")
	}
	s.mu.Unlock()

	if ended {
		s.publish()
	}
}

// SetPlaybackSpeed changes the tick interval. A pending tick keeps its
// original deadline; the new interval applies from the next one.
func (s *Session) SetPlaybackSpeed(ms int) error {
	s.mu.Lock()
	err := s.clock.SetInterval(time.Duration(ms) * time.Millisecond)
	s.mu.Unlock()

	if err == nil {
		s.publish()
	}
	return err
}

// SetLookaheadWindow changes how far ahead of the cursor frames are requested.
func (s *Session) SetLookaheadWindow(w int) error {
	s.mu.Lock()
	err := s.seq.SetWindow(w)
	if err == nil {
		s.notifyLocked()
	}
	s.mu.Unlock()

	if err == nil {
		s.publish()
	}
	return err
}

// CurrentFrame returns the frame at the cursor, if loaded.
func (s *Session) CurrentFrame() mo.Option[frame.Frame] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.buf.Get(s.st.cursor)
}

// Frame returns the frame n, if loaded.
func (s *Session) Frame(n int) mo.Option[frame.Frame] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.buf.Get(n)
}

// BufferHealth returns the share of the next window frames, starting at the
// cursor, that are loaded. A non-positive window uses the lookahead window.
func (s *Session) BufferHealth(window int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthLocked(window)
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) healthLocked(window int) float64 {
	if window <= 0 {
		window = s.seq.Window()
	}
	remaining := s.st.total() - s.st.cursor
	if remaining <= 0 {
		return 0
	}
	span := lo.Min([]int{window, remaining})
	return float64(s.st.buf.CoverageCount(s.st.cursor, span)) / float64(span)
}

func (s *Session) statusLocked() Status {
	return Status{
		SessionID:    s.id,
		SimulationID: s.simID,
		Cursor:       s.st.cursor,
		Total:        s.st.total(),
		State:        s.clock.State(),
		Reason:       s.clock.Reason(),
		Sliding:      s.st.sliding,
		Epoch:        s.seq.Epoch(),
		Buffered:     s.st.buf.Len(),
		Requested:    s.seq.Issued(),
		Window:       s.seq.Window(),
		Interval:     s.clock.Interval(),
		Health:       s.healthLocked(0),
	}
}

// scheduleLocked arms the next tick with the current interval. Each arming
// gets a generation so a tick that fires after being superseded is dropped.
func (s *Session) scheduleLocked() {
	s.stopTimerLocked()
	gen := s.tickGen
	s.timer = s.afterFunc(s.clock.Interval(), func() { s.tick(gen) })
}

func (s *Session) stopTimerLocked() {
	s.tickGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) tick(gen int) {
	s.mu.Lock()
	if s.closed || gen != s.tickGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	result := s.clock.Tick(&s.st)
	if s.clock.Playing() {
		s.scheduleLocked()
	}
	if result == TickAdvanced || result == TickEnded || result == TickStalled {
		s.notifyLocked()
	}
	cursor := s.st.cursor
	s.mu.Unlock()

	switch result {
	case TickStalled:
		s.log.WithField("cursor", cursor).Warn("playback stalled, frame not loaded")
	case TickEnded:
		s.log.WithField("cursor", cursor).Info("playback reached the last frame")
	}
	if result != TickIgnored && result != TickSuppressed {
		s.publish()
	}
}

// notifyLocked wakes everything suspended on the previous state.
func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Session) publish() {
	s.mu.Lock()
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	status, listeners := s.statusLocked(), s.listeners
	s.mu.Unlock()

	emit(listeners, status)
}

func emit(listeners []func(Status), status Status) {
	for _, fn := range listeners {
		fn(status)
	}
}
