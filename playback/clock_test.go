package playback

import (
	"testing"
	"time"

	"github.com/simplay-cli/simplay/frame"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClock(t *testing.T) {
	Convey("Given a stopped clock over 5 frames", t, func() {
		clock, err := NewClock(100 * time.Millisecond)
		So(err, ShouldBeNil)
		st := newState(5)

		Convey("A tick while stopped is ignored", func() {
			So(clock.Tick(st), ShouldEqual, TickIgnored)
			So(st.cursor, ShouldEqual, 0)
		})

		Convey("Starting at the last frame rewinds to 0", func() {
			st.cursor = 4
			So(clock.Start(st), ShouldBeTrue)
			So(st.cursor, ShouldEqual, 0)
			So(clock.Playing(), ShouldBeTrue)
		})

		Convey("Starting mid-way keeps the cursor", func() {
			st.cursor = 2
			So(clock.Start(st), ShouldBeFalse)
			So(st.cursor, ShouldEqual, 2)
		})

		Convey("When playing with frames 0 and 1 loaded", func() {
			st.buf.Put(frame.Frame{Number: 0})
			st.buf.Put(frame.Frame{Number: 1})
			clock.Start(st)

			Convey("Ticks advance over loaded frames", func() {
				So(clock.Tick(st), ShouldEqual, TickAdvanced)
				So(st.cursor, ShouldEqual, 1)
				So(clock.Tick(st), ShouldEqual, TickAdvanced)
				So(st.cursor, ShouldEqual, 2)
			})

			Convey("A missing frame stalls without moving the cursor", func() {
				clock.Tick(st)
				clock.Tick(st)
				So(clock.Tick(st), ShouldEqual, TickStalled)
				So(st.cursor, ShouldEqual, 2)
				So(clock.State(), ShouldEqual, Stopped)
				So(clock.Reason(), ShouldEqual, ReasonStalled)

				Convey("The clock stays stopped when the frame arrives later", func() {
					st.buf.Put(frame.Frame{Number: 2})
					So(clock.Tick(st), ShouldEqual, TickIgnored)
					So(st.cursor, ShouldEqual, 2)
				})
			})

			Convey("Ticks are suppressed while dragging", func() {
				st.sliding = true
				So(clock.Tick(st), ShouldEqual, TickSuppressed)
				So(st.cursor, ShouldEqual, 0)
				So(clock.Playing(), ShouldBeTrue)
			})

			Convey("Pausing keeps the cursor", func() {
				clock.Tick(st)
				So(clock.Stop(ReasonPaused), ShouldBeTrue)
				So(st.cursor, ShouldEqual, 1)
				So(clock.Reason().String(), ShouldEqual, "paused")
				So(clock.Stop(ReasonPaused), ShouldBeFalse)
			})
		})

		Convey("At the last frame a tick ends playback", func() {
			st.cursor = 3
			clock.Start(st)
			st.cursor = 4
			So(clock.Tick(st), ShouldEqual, TickEnded)
			So(st.cursor, ShouldEqual, 4)
			So(clock.Reason(), ShouldEqual, ReasonEnded)
		})

		Convey("The interval can change but must stay positive", func() {
			So(clock.SetInterval(50*time.Millisecond), ShouldBeNil)
			So(clock.Interval(), ShouldEqual, 50*time.Millisecond)
			So(clock.SetInterval(0), ShouldEqual, ErrInvalidSpeed)
			So(clock.Interval(), ShouldEqual, 50*time.Millisecond)
		})
	})

	Convey("A non-positive interval is rejected", t, func() {
		_, err := NewClock(0)
		So(err, ShouldEqual, ErrInvalidSpeed)
	})
}
