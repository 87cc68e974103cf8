// Package tui is the interactive terminal player.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simplay-cli/simplay/playback"
	"github.com/simplay-cli/simplay/simulation"
)

// Options configures the player.
type Options struct {
	Simulation simulation.Simulation
	Channel    playback.FrameChannel
	Window     int
	Interval   time.Duration
	// StartAt is the frame shown first.
	StartAt  int
	Autoplay bool
}

// Run plays the simulation until the user quits or the stream fails, and
// returns where playback was left.
func Run(ctx context.Context, options *Options) (playback.Status, error) {
	session, err := playback.New(options.Channel, playback.Options{
		SimulationID: options.Simulation.ID,
		TotalFrames:  options.Simulation.TotalFrames(),
		Window:       options.Window,
		Interval:     options.Interval,
	})
	if err != nil {
		return playback.Status{}, err
	}
	if options.StartAt > 0 {
		session.SeekTo(options.StartAt)
	}

	bubble := newBubble(session, options)
	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))
	session.OnChange(bubble.pushStatus)

	go func() {
		if err := session.Run(ctx); err != nil {
			bubble.errorChannel <- err
		}
	}()

	_, err = program.Run()
	session.Close()
	if err != nil && ctx.Err() != nil {
		err = nil
	}
	if bubble.lastError != nil && err == nil {
		err = bubble.lastError
	}
	return session.Status(), err
}
