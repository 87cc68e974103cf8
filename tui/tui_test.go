package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/playback"
	"github.com/simplay-cli/simplay/simulation"
	. "github.com/smartystreets/goconvey/convey"
)

type silentChannel struct{}

func (silentChannel) Send(context.Context, frame.Request) error { return nil }

func (silentChannel) Recv(ctx context.Context) (frame.Frame, error) {
	<-ctx.Done()
	return frame.Frame{}, ctx.Err()
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestBubble() (*statefulBubble, *playback.Session) {
	options := &Options{
		Simulation: simulation.Simulation{ID: "1", Name: "ring", FramesLoaded: 50},
		Channel:    silentChannel{},
		Window:     4,
		Interval:   100 * time.Millisecond,
	}
	session, err := playback.New(options.Channel, playback.Options{
		SimulationID: "1",
		TotalFrames:  50,
		Window:       4,
		Interval:     100 * time.Millisecond,
	})
	if err != nil {
		panic(err)
	}
	return newBubble(session, options), session
}

func TestBubble(t *testing.T) {
	Convey("Given a player bubble", t, func() {
		b, session := newTestBubble()
		Reset(session.Close)

		Convey("It waits for the first frame", func() {
			So(b.state, ShouldEqual, loadingState)
			So(b.View(), ShouldContainSubstring, "Loading frame 1")

			b.Update(statusMsg(session.Status()))
			So(b.state, ShouldEqual, loadingState)
		})

		Convey("When the first frame is shown", func() {
			b.setState(playerState)

			Convey("Arrow keys step one frame", func() {
				b.Update(keyPress("l"))
				b.Update(keyPress("l"))
				b.Update(keyPress("h"))
				So(session.Status().Cursor, ShouldEqual, 1)
			})

			Convey("Scrubbing is one drag that ends when the keys stop", func() {
				b.Update(keyPress("L"))
				b.Update(keyPress("L"))
				st := session.Status()
				So(st.Cursor, ShouldEqual, 20)
				So(st.Sliding, ShouldBeTrue)
				So(st.Epoch, ShouldEqual, 0)

				b.Update(dragEndMsg{generation: 1})
				So(session.Status().Sliding, ShouldBeTrue)

				b.Update(dragEndMsg{generation: 2})
				st = session.Status()
				So(st.Sliding, ShouldBeFalse)
				So(st.Epoch, ShouldEqual, 1)
			})

			Convey("Home and end jump to the bounds", func() {
				b.Update(keyPress("G"))
				So(session.Status().Cursor, ShouldEqual, 49)
				b.Update(keyPress("g"))
				So(session.Status().Cursor, ShouldEqual, 0)
			})

			Convey("Speed and window keys adjust the session", func() {
				b.Update(keyPress("+"))
				So(session.Status().Interval, ShouldEqual, 75*time.Millisecond)
				b.Update(keyPress("-"))
				b.Update(keyPress("-"))
				So(session.Status().Interval, ShouldEqual, 125*time.Millisecond)

				b.Update(keyPress("]"))
				So(session.Status().Window, ShouldEqual, 5)
				for i := 0; i < 10; i++ {
					b.Update(keyPress("["))
				}
				So(session.Status().Window, ShouldEqual, 1)
			})

			Convey("Space toggles playback", func() {
				b.Update(keyPress(" "))
				So(session.Status().State, ShouldEqual, playback.Playing)
				b.Update(keyPress(" "))
				st := session.Status()
				So(st.State, ShouldEqual, playback.Stopped)
				So(st.Reason, ShouldEqual, playback.ReasonPaused)
			})

			Convey("The view shows the position and a missing frame", func() {
				b.Update(statusMsg(session.Status()))
				view := b.View()
				So(view, ShouldContainSubstring, "frame 1/50")
				So(view, ShouldContainSubstring, "waiting for frame")
			})
		})

		Convey("Errors switch to the error view", func() {
			b.Update(playback.ErrChannelClosed)
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "frame channel closed")
		})
	})
}

func TestViewHelpers(t *testing.T) {
	Convey("Frames render their globals in name order", t, func() {
		b, session := newTestBubble()
		defer session.Close()

		lines := b.viewFrame(frame.Frame{State: frame.State{
			Graph:   frame.Graph{Nodes: make([]frame.Node, 3)},
			Globals: map[string]any{"time": 5, "step": 2},
		}})
		So(lines, ShouldHaveLength, 3)
		So(lines[0], ShouldContainSubstring, "3 nodes")
		So(strings.Index(lines[1], "step"), ShouldBeGreaterThanOrEqualTo, 0)
		So(lines[2], ShouldContainSubstring, "time")
	})

	Convey("State labels follow the stop reason", t, func() {
		So(stateLabel(playback.Status{Sliding: true}), ShouldEqual, "seeking")
		So(stateLabel(playback.Status{State: playback.Playing}), ShouldEqual, "playing")
		So(stateLabel(playback.Status{Reason: playback.ReasonStalled}), ShouldEqual, "stalled")
		So(stateLabel(playback.Status{}), ShouldEqual, "stopped")
	})
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

func TestProgram(t *testing.T) {
	Convey("Given a running player wired to its session", t, func() {
		b, session := newTestBubble()
		Reset(session.Close)
		b.setState(playerState)
		session.OnChange(b.pushStatus)

		program := tea.NewProgram(b, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
		done := make(chan tea.Model, 1)
		go func() {
			model, _ := program.Run()
			done <- model
		}()

		Convey("Key presses keep the loop responsive", func() {
			program.Send(keyPress("l"))
			So(waitFor(func() bool { return session.Status().Cursor == 1 }), ShouldBeTrue)

			program.Send(keyPress("l"))
			So(waitFor(func() bool { return session.Status().Cursor == 2 }), ShouldBeTrue)

			program.Send(keyPress("+"))
			So(waitFor(func() bool { return session.Status().Interval == 75*time.Millisecond }), ShouldBeTrue)

			program.Quit()
			select {
			case model := <-done:
				So(model, ShouldNotBeNil)
			case <-time.After(2 * time.Second):
				So("player did not quit", ShouldBeEmpty)
			}
		})
	})
}

func TestPushStatus(t *testing.T) {
	Convey("Given nobody reads the status channel", t, func() {
		b, session := newTestBubble()
		defer session.Close()

		Convey("Then pushes never block and the latest snapshot wins", func() {
			for i := 0; i < 5; i++ {
				b.pushStatus(playback.Status{Cursor: i})
			}
			So(len(b.statusChannel), ShouldEqual, 1)
			So((<-b.statusChannel).Cursor, ShouldEqual, 4)
		})
	})
}
