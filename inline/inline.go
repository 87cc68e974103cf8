// Package inline plays a simulation without a terminal UI and writes every
// displayed frame to an output stream.
package inline

import (
	"context"
	"errors"
	"os"

	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/playback"
)

// ErrStalled is returned when playback stalls and Resume is off.
var ErrStalled = errors.New("playback stalled waiting for a frame")

// Run plays opts.Range of the simulation at the configured speed. It
// returns once the last frame of the range was written.
func Run(ctx context.Context, opts *Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	total := opts.Simulation.TotalFrames()
	session, err := playback.New(opts.Channel, playback.Options{
		SimulationID: opts.Simulation.ID,
		TotalFrames:  total,
		Window:       opts.Window,
		Interval:     opts.Interval,
	})
	if err != nil {
		return err
	}
	logger := log.WithFields(log.Fields{"session": session.ID(), "simulation": opts.Simulation.ID})

	kick := make(chan struct{}, 1)
	session.OnChange(func(playback.Status) {
		select {
		case kick <- struct{}{}:
		default:
		}
	})
	session.SeekTo(opts.Range.From)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- session.Run(ctx) }()

	finish := func(result error) error {
		session.Close()
		if err := <-errc; err != nil {
			return err
		}
		return result
	}

	write := func(f frame.Frame) error {
		if opts.Json {
			return writeJson(opts.Out, opts.Simulation.ID, total, f)
		}
		return writeText(opts.Out, opts.Simulation.Name, total, f)
	}

	next := opts.Range.From
	started := false
	for {
		select {
		case err := <-errc:
			if err == nil {
				err = ctx.Err()
			}
			return err
		case <-ctx.Done():
			return finish(ctx.Err())
		case <-kick:
		}

		status := session.Status()

		for next <= status.Cursor && next <= opts.Range.To {
			f, ok := session.Frame(next).Get()
			if !ok {
				break
			}
			if err := write(f); err != nil {
				return finish(err)
			}
			next++
		}
		if next > opts.Range.To {
			logger.WithField("frames", opts.Range.Len()).Info("headless playback finished")
			return finish(nil)
		}

		switch {
		case !started:
			if !session.Frame(status.Cursor).IsPresent() {
				continue
			}
			if err := session.StartPlayback(); err != nil {
				return finish(err)
			}
			started = true
		case status.State == playback.Stopped && status.Reason == playback.ReasonStalled:
			if !opts.Resume {
				return finish(ErrStalled)
			}
			if session.Frame(status.Cursor).IsPresent() {
				logger.WithField("frame", status.Cursor).Info("resuming after stall")
				if err := session.StartPlayback(); err != nil {
					return finish(err)
				}
			}
		}
	}
}
