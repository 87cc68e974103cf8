package playback

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/simplay-cli/simplay/frame"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeChannel records requests and replays whatever the test pushes inbound.
type fakeChannel struct {
	sent    chan frame.Request
	inbound chan frame.Frame
	fail    chan error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		sent:    make(chan frame.Request, 64),
		inbound: make(chan frame.Frame, 64),
		fail:    make(chan error, 1),
	}
}

func (c *fakeChannel) Send(ctx context.Context, req frame.Request) error {
	select {
	case c.sent <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeChannel) Recv(ctx context.Context) (frame.Frame, error) {
	select {
	case f, ok := <-c.inbound:
		if !ok {
			return frame.Frame{}, io.EOF
		}
		return f, nil
	case err := <-c.fail:
		return frame.Frame{}, err
	case <-ctx.Done():
		return frame.Frame{}, ctx.Err()
	}
}

// next waits for the next outbound request.
func (c *fakeChannel) next() (frame.Request, bool) {
	select {
	case req := <-c.sent:
		return req, true
	case <-time.After(2 * time.Second):
		return frame.Request{}, false
	}
}

// quiet reports whether nothing was sent for a short while.
func (c *fakeChannel) quiet() bool {
	select {
	case <-c.sent:
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}

// manualTimer replaces time.AfterFunc so that ticks fire only when told to.
type manualTimer struct {
	mu      sync.Mutex
	pending func()
	delays  []time.Duration
}

type manualHandle struct {
	m *manualTimer
}

func (h manualHandle) Stop() bool {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	stopped := h.m.pending != nil
	h.m.pending = nil
	return stopped
}

func (m *manualTimer) afterFunc(d time.Duration, f func()) timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = f
	m.delays = append(m.delays, d)
	return manualHandle{m: m}
}

func (m *manualTimer) fire() bool {
	m.mu.Lock()
	f := m.pending
	m.pending = nil
	m.mu.Unlock()

	if f == nil {
		return false
	}
	f()
	return true
}

func (m *manualTimer) armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func newTestSession(total, window int) (*Session, *fakeChannel, *manualTimer) {
	ch := newFakeChannel()
	s, err := New(ch, Options{
		SimulationID: "sim-1",
		TotalFrames:  total,
		Window:       window,
		Interval:     100 * time.Millisecond,
	})
	if err != nil {
		panic(err)
	}
	clock := &manualTimer{}
	s.afterFunc = clock.afterFunc
	return s, ch, clock
}

func runSession(s *Session) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	return done
}

func TestSessionEndToEnd(t *testing.T) {
	Convey("Given a session over 3 frames with window 2", t, func() {
		s, ch, clock := newTestSession(3, 2)
		done := runSession(s)

		Convey("It plays through out of order responses and stops at the end", func() {
			first, ok := ch.next()
			So(ok, ShouldBeTrue)
			second, ok := ch.next()
			So(ok, ShouldBeTrue)
			So([]int{first.Number, second.Number}, ShouldResemble, []int{0, 1})
			So(first.SimulationID, ShouldEqual, "sim-1")
			So(ch.quiet(), ShouldBeTrue)

			ch.inbound <- frame.Frame{Number: 1}
			ch.inbound <- frame.Frame{Number: 0}
			So(waitFor(func() bool { return s.Status().Buffered == 2 }), ShouldBeTrue)

			So(s.StartPlayback(), ShouldBeNil)
			So(clock.armed(), ShouldBeTrue)

			So(clock.fire(), ShouldBeTrue)
			So(s.Status().Cursor, ShouldEqual, 1)
			third, ok := ch.next()
			So(ok, ShouldBeTrue)
			So(third.Number, ShouldEqual, 2)

			So(clock.fire(), ShouldBeTrue)
			So(s.Status().Cursor, ShouldEqual, 2)

			So(clock.fire(), ShouldBeTrue)
			status := s.Status()
			So(status.Cursor, ShouldEqual, 2)
			So(status.State, ShouldEqual, Stopped)
			So(status.Reason, ShouldEqual, ReasonEnded)
			So(clock.armed(), ShouldBeFalse)

			s.Close()
			So(<-done, ShouldBeNil)

			shutdown, ok := ch.next()
			So(ok, ShouldBeTrue)
			So(shutdown.Shutdown, ShouldBeTrue)
		})

		Reset(func() {
			s.Close()
		})
	})
}

func TestSessionPlayback(t *testing.T) {
	Convey("Given a running session over 10 frames with window 3", t, func() {
		s, ch, clock := newTestSession(10, 3)
		done := runSession(s)
		for i := 0; i < 3; i++ {
			_, ok := ch.next()
			So(ok, ShouldBeTrue)
		}

		Convey("Playback stalls on a missing frame and stays stopped", func() {
			So(s.StartPlayback(), ShouldBeNil)
			So(clock.fire(), ShouldBeTrue)
			status := s.Status()
			So(status.Cursor, ShouldEqual, 0)
			So(status.Reason, ShouldEqual, ReasonStalled)

			ch.inbound <- frame.Frame{Number: 0}
			So(waitFor(func() bool { return s.CurrentFrame().IsPresent() }), ShouldBeTrue)
			So(s.Status().State, ShouldEqual, Stopped)
			So(clock.armed(), ShouldBeFalse)
		})

		Convey("Starting at the last frame rewinds before the first tick", func() {
			s.SeekTo(9)
			So(s.Status().Cursor, ShouldEqual, 9)
			So(s.StartPlayback(), ShouldBeNil)
			So(s.Status().Cursor, ShouldEqual, 0)
		})

		Convey("A jump re-targets prefetching at the new cursor", func() {
			s.SeekTo(7)
			status := s.Status()
			So(status.Cursor, ShouldEqual, 7)
			So(status.Epoch, ShouldEqual, 1)
			So(status.Sliding, ShouldBeFalse)

			var got []int
			for i := 0; i < 3; i++ {
				req, ok := ch.next()
				So(ok, ShouldBeTrue)
				got = append(got, req.Number)
			}
			So(got, ShouldResemble, []int{7, 8, 9})
		})

		Convey("A drag re-targets once and requests nothing until it ends", func() {
			So(s.StartPlayback(), ShouldBeNil)
			s.BeginSeek()
			So(s.Status().State, ShouldEqual, Stopped)
			So(clock.armed(), ShouldBeFalse)

			for _, n := range []int{3, 4, 5} {
				s.SeekTo(n)
			}
			So(ch.quiet(), ShouldBeTrue)
			So(s.Status().Epoch, ShouldEqual, 0)

			s.EndSeek()
			So(s.Status().Epoch, ShouldEqual, 1)
			req, ok := ch.next()
			So(ok, ShouldBeTrue)
			So(req.Number, ShouldEqual, 5)
			So(s.Status().State, ShouldEqual, Stopped)
		})

		Convey("Pausing cancels the pending tick", func() {
			So(s.StartPlayback(), ShouldBeNil)
			So(clock.armed(), ShouldBeTrue)
			s.PausePlayback()
			So(clock.armed(), ShouldBeFalse)
			So(s.Status().Reason, ShouldEqual, ReasonPaused)
		})

		Convey("A speed change applies from the next scheduled tick", func() {
			ch.inbound <- frame.Frame{Number: 0}
			So(waitFor(func() bool { return s.Status().Buffered == 1 }), ShouldBeTrue)
			So(s.StartPlayback(), ShouldBeNil)
			So(s.SetPlaybackSpeed(40), ShouldBeNil)
			So(clock.fire(), ShouldBeTrue)
			So(clock.delays, ShouldResemble, []time.Duration{100 * time.Millisecond, 40 * time.Millisecond})
			So(s.SetPlaybackSpeed(0), ShouldEqual, ErrInvalidSpeed)
		})

		Convey("Widening the window requests more frames", func() {
			So(s.SetLookaheadWindow(5), ShouldBeNil)
			var got []int
			for i := 0; i < 2; i++ {
				req, ok := ch.next()
				So(ok, ShouldBeTrue)
				got = append(got, req.Number)
			}
			So(got, ShouldResemble, []int{3, 4})
			So(s.SetLookaheadWindow(0), ShouldEqual, ErrInvalidWindow)
		})

		Convey("Buffer health reports coverage ahead of the cursor", func() {
			ch.inbound <- frame.Frame{Number: 0}
			ch.inbound <- frame.Frame{Number: 2}
			ch.inbound <- frame.Frame{Number: 2}
			So(waitFor(func() bool { return s.Status().Buffered == 2 }), ShouldBeTrue)
			So(s.BufferHealth(4), ShouldAlmostEqual, 0.5)
			So(s.BufferHealth(0), ShouldAlmostEqual, 2.0/3.0)
		})

		Reset(func() {
			s.Close()
			<-done
		})
	})
}

func TestSessionLifecycle(t *testing.T) {
	Convey("Given a session", t, func() {
		s, ch, _ := newTestSession(0, 2)

		Convey("It cannot start before the frame count is known", func() {
			So(s.StartPlayback(), ShouldEqual, ErrTotalFramesUnknown)
		})

		Convey("The frame count is accepted once", func() {
			So(s.SetTotalFrames(0), ShouldEqual, ErrInvalidTotal)
			So(s.SetTotalFrames(4), ShouldBeNil)
			So(s.SetTotalFrames(4), ShouldBeNil)
			So(s.SetTotalFrames(5), ShouldEqual, ErrTotalFramesKnown)
			So(s.Status().Total, ShouldEqual, 4)
		})

		Convey("Requests begin once the frame count arrives", func() {
			done := runSession(s)
			So(ch.quiet(), ShouldBeTrue)
			So(s.SetTotalFrames(4), ShouldBeNil)
			req, ok := ch.next()
			So(ok, ShouldBeTrue)
			So(req.Number, ShouldEqual, 0)
			s.Close()
			So(<-done, ShouldBeNil)
		})

		Convey("A closed inbound stream ends the session with an error", func() {
			s.SetTotalFrames(4)
			done := runSession(s)
			close(ch.inbound)
			err := <-done
			So(errors.Is(err, ErrChannelClosed), ShouldBeTrue)
			So(s.StartPlayback(), ShouldEqual, ErrClosed)
		})

		Convey("A transport error is reported and wraps the cause", func() {
			cause := errors.New("connection reset")
			done := runSession(s)
			ch.fail <- cause
			err := <-done
			So(errors.Is(err, ErrChannelClosed), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("Run after Close is refused", func() {
			s.Close()
			So(s.Run(context.Background()), ShouldEqual, ErrClosed)
		})

		Convey("Listeners observe changes", func() {
			var mu sync.Mutex
			var seen []Status
			s.OnChange(func(st Status) {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, st)
			})
			So(s.SetTotalFrames(4), ShouldBeNil)
			s.SeekTo(2)

			mu.Lock()
			defer mu.Unlock()
			So(len(seen), ShouldBeGreaterThanOrEqualTo, 2)
			So(seen[len(seen)-1].Cursor, ShouldEqual, 2)
			So(seen[len(seen)-1].SessionID, ShouldEqual, s.ID())
		})

		Reset(func() {
			s.Close()
		})
	})
}
