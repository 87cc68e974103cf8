package playback

import "errors"

var (
	// ErrInvalidWindow is returned for a lookahead window below one frame.
	ErrInvalidWindow = errors.New("lookahead window must be at least 1")
	// ErrInvalidSpeed is returned for a non-positive tick interval.
	ErrInvalidSpeed = errors.New("playback speed must be a positive number of milliseconds")
	// ErrInvalidTotal is returned for a non-positive frame count.
	ErrInvalidTotal = errors.New("total frames must be positive")
	// ErrTotalFramesKnown is returned when the frame count is changed after it was set.
	ErrTotalFramesKnown = errors.New("total frames already set for this session")
	// ErrTotalFramesUnknown is returned when playback starts before the frame count is known.
	ErrTotalFramesUnknown = errors.New("total frames not known yet")
	// ErrChannelClosed marks an inbound stream that ended while the session was still open.
	ErrChannelClosed = errors.New("frame channel closed")
	// ErrClosed is returned by operations on a session that has ended.
	ErrClosed = errors.New("playback session closed")
	// ErrRunning is returned when Run is called twice.
	ErrRunning = errors.New("playback session already running")
)
