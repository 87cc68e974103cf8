package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/simplay-cli/simplay/channel"
	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/playback"
	"github.com/simplay-cli/simplay/simulation"
	. "github.com/smartystreets/goconvey/convey"
)

func wsURL(httpURL, path string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + path
}

func TestSynthetic(t *testing.T) {
	Convey("Given a synthetic source of 5 frames", t, func() {
		src := NewSynthetic(5)

		Convey("It describes one finished simulation", func() {
			sims := src.Simulations()
			So(sims, ShouldHaveLength, 1)
			So(sims[0].ID, ShouldEqual, "1")
			So(sims[0].TotalFrames(), ShouldEqual, 5)
			So(sims[0].Status, ShouldEqual, simulation.Finished)
		})

		Convey("States are deterministic", func() {
			a, err := src.State("1", 3)
			So(err, ShouldBeNil)
			b, _ := src.State("1", 3)
			So(a, ShouldResemble, b)
			So(a.Graph.Nodes, ShouldHaveLength, 6)
			So(a.Graph.Edges[5].To, ShouldEqual, 0)
			So(a.Globals["step"], ShouldEqual, 3)
		})

		Convey("Unknown simulations and frames fail", func() {
			_, err := src.State("1", 5)
			So(errors.Is(err, ErrFrameOutOfRange), ShouldBeTrue)
			_, err = src.State("9", 0)
			So(errors.Is(err, ErrUnknownSimulation), ShouldBeTrue)
		})

		Convey("Added simulations are listed in order", func() {
			id := src.Add("second", 10, 1)
			So(id, ShouldEqual, "2")
			sims := src.Simulations()
			So(sims, ShouldHaveLength, 2)
			So(sims[1].Name, ShouldEqual, "second")
			st, _ := src.State(id, 0)
			So(st.Graph.Nodes, ShouldHaveLength, 2)
		})
	})
}

func TestServer(t *testing.T) {
	Convey("Given a running demo server", t, func() {
		srv := httptest.NewServer(New(NewSynthetic(4), Config{Token: "t0ken"}).Handler())
		Reset(srv.Close)

		Convey("Metadata needs the token", func() {
			resp, err := http.Get(srv.URL + "/simulations")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("The metadata client reads it", func() {
			client := simulation.NewClient(srv.URL, "t0ken")
			sim, err := client.Get(context.Background(), "1")
			So(err, ShouldBeNil)
			So(sim.FramesLoaded, ShouldEqual, 4)

			_, err = client.Get(context.Background(), "7")
			So(err, ShouldEqual, simulation.ErrNotFound)
		})

		Convey("Frames are answered in request order until shutdown", func() {
			ctx := context.Background()
			ch, err := channel.Dial(ctx, wsURL(srv.URL, "/simulations/1/frames"), "t0ken")
			So(err, ShouldBeNil)
			defer ch.Close()

			for _, n := range []int{2, 0, 9, 1} {
				So(ch.Send(ctx, frame.Request{SimulationID: "1", Number: n}), ShouldBeNil)
			}
			var got []int
			for i := 0; i < 3; i++ {
				f, err := ch.Recv(ctx)
				So(err, ShouldBeNil)
				got = append(got, f.Number)
			}
			So(got, ShouldResemble, []int{2, 0, 1})

			So(ch.Send(ctx, frame.Request{SimulationID: "1", Shutdown: true}), ShouldBeNil)
			_, err = ch.Recv(ctx)
			So(err, ShouldEqual, io.EOF)
		})

		Convey("Responses use the wire field names", func() {
			src := NewSynthetic(1)
			st, _ := src.State("1", 0)
			data, err := json.Marshal(frame.Response{Request: frame.Request{SimulationID: "1"}, State: st})
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"simulationId":"1"`)
			So(string(data), ShouldContainSubstring, `"frameNr":0`)
			So(string(data), ShouldContainSubstring, `"globalComponents"`)
			So(string(data), ShouldContainSubstring, `"edge"`)
		})

		Convey("A playback session plays the whole simulation", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			ch, err := channel.Dial(ctx, wsURL(srv.URL, "/simulations/1/frames"), "t0ken")
			So(err, ShouldBeNil)
			defer ch.Close()

			session, err := playback.New(ch, playback.Options{
				SimulationID: "1",
				TotalFrames:  4,
				Window:       4,
				Interval:     5 * time.Millisecond,
			})
			So(err, ShouldBeNil)

			ended := make(chan struct{})
			session.OnChange(func(st playback.Status) {
				if st.Reason == playback.ReasonEnded {
					select {
					case <-ended:
					default:
						close(ended)
					}
				}
			})

			done := make(chan error, 1)
			go func() { done <- session.Run(ctx) }()

			deadline := time.Now().Add(5 * time.Second)
			for session.Status().Buffered < 4 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			So(session.StartPlayback(), ShouldBeNil)

			select {
			case <-ended:
			case <-time.After(5 * time.Second):
			}
			status := session.Status()
			So(status.Cursor, ShouldEqual, 3)
			So(status.Reason, ShouldEqual, playback.ReasonEnded)

			session.Close()
			So(<-done, ShouldBeNil)
		})
	})
}
