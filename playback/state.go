package playback

import (
	"github.com/simplay-cli/simplay/buffer"
)

// state is the mutable playback state shared by the clock, the sequencer and
// the seek controller. Every access happens under Session.mu.
type state struct {
	cursor  int
	sliding bool
	buf     *buffer.Buffer
}

func (s *state) total() int {
	return s.buf.Total()
}

// last returns the highest valid cursor, 0 while the frame count is unknown.
func (s *state) last() int {
	if s.total() <= 0 {
		return 0
	}
	return s.total() - 1
}
