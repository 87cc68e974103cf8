package channel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/simplay-cli/simplay/frame"
	. "github.com/smartystreets/goconvey/convey"
)

// echoServer answers each request with a frame of the same number, and
// closes normally on shutdown.
func echoServer(auth chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case auth <- r.Header.Get("Authorization"):
		default:
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req frame.Request
			if err := json.Unmarshal(payload, &req); err != nil {
				return
			}
			if req.Shutdown {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				return
			}
			if req.Number == 99 {
				_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
				continue
			}
			data, _ := json.Marshal(frame.Response{
				Request: req,
				State:   frame.State{Globals: map[string]any{"echo": req.Number}},
			})
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
	}))
}

func TestChannel(t *testing.T) {
	Convey("Given a channel to an echo server", t, func() {
		auth := make(chan string, 1)
		srv := echoServer(auth)
		Reset(srv.Close)

		ctx := context.Background()
		ch, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), "abc")
		So(err, ShouldBeNil)
		Reset(func() { _ = ch.Close() })

		Convey("It carries the bearer token", func() {
			So(<-auth, ShouldEqual, "Bearer abc")
		})

		Convey("A request comes back as a frame", func() {
			So(ch.Send(ctx, frame.Request{SimulationID: "s", Number: 4}), ShouldBeNil)
			f, err := ch.Recv(ctx)
			So(err, ShouldBeNil)
			So(f.Number, ShouldEqual, 4)
			So(f.State.Globals["echo"], ShouldEqual, 4)
		})

		Convey("Malformed messages are skipped", func() {
			So(ch.Send(ctx, frame.Request{Number: 99}), ShouldBeNil)
			So(ch.Send(ctx, frame.Request{Number: 1}), ShouldBeNil)
			f, err := ch.Recv(ctx)
			So(err, ShouldBeNil)
			So(f.Number, ShouldEqual, 1)
		})

		Convey("A normal close ends the stream with io.EOF", func() {
			So(ch.Send(ctx, frame.Request{Shutdown: true}), ShouldBeNil)
			_, err := ch.Recv(ctx)
			So(err, ShouldEqual, io.EOF)
		})

		Convey("Cancelling the context unblocks Recv", func() {
			cctx, cancel := context.WithCancel(ctx)
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()
			_, err := ch.Recv(cctx)
			So(err, ShouldEqual, context.Canceled)
		})

		Convey("Close can be called twice", func() {
			So(ch.Close(), ShouldBeNil)
			So(ch.Close(), ShouldBeNil)
		})
	})

	Convey("Dialing a closed port fails", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := Dial(ctx, "ws://127.0.0.1:1/none", "")
		So(err, ShouldNotBeNil)
	})
}
