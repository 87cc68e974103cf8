// Package channel carries frame requests and frames over a websocket.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/simplay-cli/simplay/constant"
	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/log"
)

const writeTimeout = 5 * time.Second

// Channel is the client side of one frame stream.
type Channel struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	once    sync.Once
}

// Dial opens a frame stream. The token, when set, is sent as a bearer credential.
func Dial(ctx context.Context, url, token string) (*Channel, error) {
	header := http.Header{}
	header.Set("User-Agent", constant.UserAgent)
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	log.Infof("frame channel connected to %s", url)
	return &Channel{conn: conn}, nil
}

// Send writes one request. Writes are serialized.
func (c *Channel) Send(ctx context.Context, req frame.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Recv blocks for the next frame. A normal close from the server is io.EOF.
// Cancelling ctx unblocks the read and leaves the connection unusable.
func (c *Channel) Recv(ctx context.Context) (frame.Frame, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		kind, payload, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return frame.Frame{}, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return frame.Frame{}, io.EOF
			}
			return frame.Frame{}, err
		}
		if kind != websocket.TextMessage {
			continue
		}

		var resp frame.Response
		if err := json.Unmarshal(payload, &resp); err != nil {
			log.Warnf("discarding malformed frame message: %v", err)
			continue
		}
		return resp.Frame(), nil
	}
}

// Close says goodbye to the server and releases the connection.
func (c *Channel) Close() error {
	var err error
	c.once.Do(func() {
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
