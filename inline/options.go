package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/playback"
	"github.com/simplay-cli/simplay/simulation"
)

// Options configures a headless run.
type Options struct {
	Out        io.Writer
	Channel    playback.FrameChannel
	Simulation simulation.Simulation
	Window     int
	Interval   time.Duration
	Range      Range
	Json       bool
	// Resume restarts playback when a stalled frame arrives.
	Resume bool
}

// Range is an inclusive span of frame numbers.
type Range struct {
	From, To int
}

// Len returns the number of frames in the range.
func (r Range) Len() int {
	return lo.Max([]int{r.To - r.From + 1, 0})
}

// ParseRange reads a frame selection for a simulation of total frames.
// Accepted forms are "all", "first", "last", "N", "A-B", "A-" and "-B".
// Bounds are clamped to the simulation.
func ParseRange(description string, total int) (Range, error) {
	if total <= 0 {
		return Range{}, fmt.Errorf("simulation has no frames")
	}
	last := total - 1
	clamp := func(n int) int { return lo.Clamp(n, 0, last) }

	description = strings.TrimSpace(description)
	switch description {
	case "", "all":
		return Range{From: 0, To: last}, nil
	case "first":
		return Range{From: 0, To: 0}, nil
	case "last":
		return Range{From: last, To: last}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		r := Range{From: 0, To: last}
		if from != "" {
			n, err := strconv.Atoi(from)
			if err != nil {
				return Range{}, fmt.Errorf("invalid frame range: %s", description)
			}
			r.From = clamp(n)
		}
		if to != "" {
			n, err := strconv.Atoi(to)
			if err != nil {
				return Range{}, fmt.Errorf("invalid frame range: %s", description)
			}
			r.To = clamp(n)
		}
		if r.From > r.To {
			return Range{}, fmt.Errorf("empty frame range: %s", description)
		}
		return r, nil
	}

	n, err := strconv.Atoi(description)
	if err != nil {
		return Range{}, fmt.Errorf("invalid frame range: %s", description)
	}
	n = clamp(n)
	return Range{From: n, To: n}, nil
}
