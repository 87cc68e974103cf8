package playback

import "github.com/samber/lo"

// SeekController turns scrub gestures into cursor jumps. Intermediate drag
// positions only move the cursor; the sequencer is re-targeted once, when
// the gesture ends.
type SeekController struct {
	dragging  bool
	retargets int
}

// Begin marks the start of a drag. A playing clock is paused and stays
// paused after the drag ends.
func (s *SeekController) Begin(st *state, clock *Clock) (paused bool) {
	st.sliding = true
	s.dragging = true
	return clock.Stop(ReasonSeeking)
}

// To moves the cursor to n clamped to the valid frame range and returns the
// clamped value.
func (s *SeekController) To(st *state, n int) int {
	st.cursor = lo.Clamp(n, 0, st.last())
	return st.cursor
}

// End finishes the drag and re-targets the sequencer at the final cursor.
// It reports false when no drag was in progress.
func (s *SeekController) End(st *state, seq *Sequencer) bool {
	if !s.dragging {
		return false
	}
	st.sliding = false
	s.dragging = false
	seq.Retarget(st.cursor)
	s.retargets++
	return true
}

// Dragging reports whether a drag is in progress.
func (s *SeekController) Dragging() bool {
	return s.dragging
}

// Retargets counts finished drags.
func (s *SeekController) Retargets() int {
	return s.retargets
}
