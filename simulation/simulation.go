// Package simulation reads simulation metadata from the simulation API.
package simulation

import (
	"time"

	"github.com/samber/lo"
)

// Status is the computation state of a simulation.
type Status string

const (
	Pending   Status = "pending"
	Computing Status = "computing"
	Finished  Status = "finished"
	Failed    Status = "failed"
)

// Playable reports whether frames of a simulation in this state can be streamed.
func (s Status) Playable() bool {
	return s == Computing || s == Finished
}

// Simulation describes one simulation run.
type Simulation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       Status    `json:"status"`
	StatusInfo   string    `json:"statusInfo,omitempty"`
	FramesLoaded int       `json:"framesLoaded"`
	MaxFrames    int       `json:"maxFrames,omitempty"`
	StepDelta    float64   `json:"stepDelta,omitempty"`
	StartTime    time.Time `json:"startDateTime,omitzero"`
	EndTime      time.Time `json:"endDateTime,omitzero"`
	CreatedAt    time.Time `json:"creationDateTime,omitzero"`
}

// TotalFrames is the number of frames that can be played right now.
func (s Simulation) TotalFrames() int {
	return lo.Max([]int{s.FramesLoaded, 0})
}

// Progress returns the share of the computation that is done, or 1 when the
// maximum is unknown.
func (s Simulation) Progress() float64 {
	if s.MaxFrames <= 0 {
		return 1
	}
	return float64(lo.Min([]int{s.FramesLoaded, s.MaxFrames})) / float64(s.MaxFrames)
}
