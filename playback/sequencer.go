package playback

// Step is the outcome of asking the Sequencer for its next request.
type Step int

const (
	// StepRequest means the returned frame number must be requested now.
	StepRequest Step = iota
	// StepWait means the window is full or the user is dragging the cursor.
	StepWait
	// StepIdle means the frame count is not known yet.
	StepIdle
	// StepDone means every frame up to the end has been walked in this epoch.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepRequest:
		return "request"
	case StepWait:
		return "wait"
	case StepIdle:
		return "idle"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Sequencer decides which frame to request next so that at most window
// frames are outstanding ahead of the cursor.
//
// Within an epoch it walks loadFrame upwards from where the epoch began and
// never issues the same number twice. Frames already in the buffer are
// skipped, so walking back over covered ground costs no traffic.
type Sequencer struct {
	window    int
	loadFrame int
	epoch     int
	requested map[int]struct{}
	issued    int
}

// NewSequencer returns a sequencer starting at frame 0 in epoch 0.
func NewSequencer(window int) (*Sequencer, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}
	return &Sequencer{
		window:    window,
		requested: make(map[int]struct{}),
	}, nil
}

// Next advances the walk by at most one request.
func (q *Sequencer) Next(st *state) (int, Step) {
	total := st.total()
	if total <= 0 {
		return 0, StepIdle
	}
	if st.sliding {
		return 0, StepWait
	}

	if q.loadFrame < st.cursor {
		q.loadFrame = st.cursor
	}

	for {
		if q.loadFrame >= total {
			return 0, StepDone
		}
		if st.cursor+q.window <= q.loadFrame {
			return 0, StepWait
		}

		n := q.loadFrame
		q.loadFrame++

		if _, ok := q.requested[n]; ok || st.buf.Has(n) {
			continue
		}
		q.requested[n] = struct{}{}
		q.issued++
		return n, StepRequest
	}
}

// Retarget starts a new epoch walking from cursor. Requests of the previous
// epoch are forgotten; frames that did arrive stay buffered and are skipped.
func (q *Sequencer) Retarget(cursor int) {
	q.epoch++
	q.loadFrame = cursor
	q.requested = make(map[int]struct{})
}

// SetWindow changes the lookahead used by the next gate check.
func (q *Sequencer) SetWindow(window int) error {
	if window < 1 {
		return ErrInvalidWindow
	}
	q.window = window
	return nil
}

// Window returns the lookahead window.
func (q *Sequencer) Window() int {
	return q.window
}

// Epoch returns the number of re-targets so far.
func (q *Sequencer) Epoch() int {
	return q.epoch
}

// Issued returns the number of requests issued across all epochs.
func (q *Sequencer) Issued() int {
	return q.issued
}
