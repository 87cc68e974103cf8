package server

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/simulation"
)

// ErrUnknownSimulation is returned for a simulation the source does not hold.
var ErrUnknownSimulation = errors.New("unknown simulation")

// ErrFrameOutOfRange is returned for a frame past the computed timesteps.
var ErrFrameOutOfRange = errors.New("frame out of range")

// Source produces simulation metadata and frame states.
type Source interface {
	Simulations() []simulation.Simulation
	Simulation(id string) (simulation.Simulation, error)
	State(id string, n int) (frame.State, error)
}

// Synthetic is a deterministic in-memory Source. Every simulation is a ring
// of nodes whose temperatures and line loads follow smooth waves over time.
type Synthetic struct {
	mu   sync.RWMutex
	sims map[string]synthetic
}

type synthetic struct {
	meta  simulation.Simulation
	nodes int
}

// NewSynthetic returns a source holding a single finished simulation "1"
// of the given number of frames.
func NewSynthetic(frames int) *Synthetic {
	s := &Synthetic{sims: make(map[string]synthetic)}
	s.Add("Synthetic ring", frames, 6)
	return s
}

// Add registers another finished simulation and returns its id.
func (s *Synthetic) Add(name string, frames, nodes int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(len(s.sims) + 1)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.sims[id] = synthetic{
		meta: simulation.Simulation{
			ID:           id,
			Name:         name,
			Status:       simulation.Finished,
			FramesLoaded: frames,
			MaxFrames:    frames,
			StepDelta:    60,
			StartTime:    start,
			EndTime:      start.Add(time.Duration(frames) * time.Minute),
			CreatedAt:    start,
		},
		nodes: max(nodes, 2),
	}
	return id
}

func (s *Synthetic) Simulations() []simulation.Simulation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]simulation.Simulation, 0, len(s.sims))
	for _, sim := range s.sims {
		list = append(list, sim.meta)
	}
	sort.Slice(list, func(i, j int) bool {
		a, _ := strconv.Atoi(list[i].ID)
		b, _ := strconv.Atoi(list[j].ID)
		return a < b
	})
	return list
}

func (s *Synthetic) Simulation(id string) (simulation.Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sim, ok := s.sims[id]
	if !ok {
		return simulation.Simulation{}, fmt.Errorf("%w: %s", ErrUnknownSimulation, id)
	}
	return sim.meta, nil
}

func (s *Synthetic) State(id string, n int) (frame.State, error) {
	s.mu.RLock()
	sim, ok := s.sims[id]
	s.mu.RUnlock()

	if !ok {
		return frame.State{}, fmt.Errorf("%w: %s", ErrUnknownSimulation, id)
	}
	if n < 0 || n >= sim.meta.FramesLoaded {
		return frame.State{}, fmt.Errorf("%w: %d", ErrFrameOutOfRange, n)
	}

	t := float64(n) * sim.meta.StepDelta
	nodes := make([]frame.Node, sim.nodes)
	edges := make([]frame.Edge, sim.nodes)
	for i := range nodes {
		phase := 2 * math.Pi * float64(i) / float64(sim.nodes)
		nodes[i] = frame.Node{
			ID:        uint64(i),
			Longitude: 4.35 + 0.01*math.Cos(phase),
			Latitude:  50.85 + 0.01*math.Sin(phase),
			Components: map[string]any{
				"temperature": round(15+5*math.Sin(phase+float64(n)/10), 2),
			},
		}
		edges[i] = frame.Edge{
			ID:            uint64(i),
			From:          uint64(i),
			To:            uint64((i + 1) % sim.nodes),
			ComponentType: "transmission-line",
			ComponentData: map[string]any{
				"load": round(0.5+0.5*math.Cos(phase-float64(n)/7), 3),
			},
		}
	}

	return frame.State{
		Graph: frame.Graph{Nodes: nodes, Edges: edges},
		Globals: map[string]any{
			"time": map[string]any{"unix_timestamp_millis": sim.meta.StartTime.UnixMilli() + int64(t*1000)},
			"step": n,
		},
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
