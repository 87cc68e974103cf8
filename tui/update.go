package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/internal/ui"
	"github.com/simplay-cli/simplay/playback"
)

const (
	scrubStep  = 10
	speedStep  = 25 * time.Millisecond
	minSpeed   = 25 * time.Millisecond
	maxSpeed   = 5 * time.Second
	maxWindow  = 500
	dragIdle   = 300 * time.Millisecond
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case statusMsg:
		cmds = append(cmds, b.onStatus(playback.Status(msg)), b.waitForStatus())
	case dragEndMsg:
		if b.dragging && msg.generation == b.dragGen {
			b.dragging = false
			b.session.EndSeek()
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	case progress.FrameMsg:
		model, cmd := b.positionC.Update(msg)
		b.positionC = model.(progress.Model)
		cmds = append(cmds, cmd)
		model, cmd = b.healthC.Update(msg)
		b.healthC = model.(progress.Model)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}

		if b.state == playerState {
			cmds = append(cmds, b.updatePlayer(msg))
		}
	}

	return b, tea.Batch(cmds...)
}

func (b *statefulBubble) onStatus(st playback.Status) tea.Cmd {
	b.status = st

	if b.state == loadingState && b.session.CurrentFrame().IsPresent() {
		b.setState(playerState)
		if b.options.Autoplay && !b.autoplayed {
			b.autoplayed = true
			if err := b.session.StartPlayback(); err != nil {
				return ui.Notify(err.Error())
			}
		}
	}

	if st.Total <= 0 {
		return nil
	}
	return tea.Batch(
		b.positionC.SetPercent(float64(st.Cursor+1)/float64(st.Total)),
		b.healthC.SetPercent(st.Health),
	)
}

func (b *statefulBubble) updatePlayer(msg tea.KeyMsg) tea.Cmd {
	st := b.session.Status()

	switch {
	case key.Matches(msg, b.keymap.playPause):
		if st.State == playback.Playing {
			b.session.PausePlayback()
			return nil
		}
		if err := b.session.StartPlayback(); err != nil {
			return ui.Notify(err.Error())
		}
	case key.Matches(msg, b.keymap.stepBack):
		b.session.SeekTo(st.Cursor - 1)
	case key.Matches(msg, b.keymap.stepForward):
		b.session.SeekTo(st.Cursor + 1)
	case key.Matches(msg, b.keymap.jumpBack):
		return b.scrub(st.Cursor - scrubStep)
	case key.Matches(msg, b.keymap.jumpForward):
		return b.scrub(st.Cursor + scrubStep)
	case key.Matches(msg, b.keymap.first):
		b.session.SeekTo(0)
	case key.Matches(msg, b.keymap.last):
		b.session.SeekTo(st.Total - 1)
	case key.Matches(msg, b.keymap.faster):
		return b.setSpeed(st.Interval - speedStep)
	case key.Matches(msg, b.keymap.slower):
		return b.setSpeed(st.Interval + speedStep)
	case key.Matches(msg, b.keymap.widen):
		return b.setWindow(st.Window + 1)
	case key.Matches(msg, b.keymap.narrow):
		return b.setWindow(st.Window - 1)
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

// scrub moves the cursor as part of a drag. Repeated scrub keys extend the
// same drag, which ends once the keys stop for dragIdle.
func (b *statefulBubble) scrub(target int) tea.Cmd {
	if !b.dragging {
		b.dragging = true
		b.session.BeginSeek()
	}
	b.session.SeekTo(target)

	b.dragGen++
	gen := b.dragGen
	return tea.Tick(dragIdle, func(time.Time) tea.Msg {
		return dragEndMsg{generation: gen}
	})
}

func (b *statefulBubble) setSpeed(interval time.Duration) tea.Cmd {
	interval = lo.Clamp(interval, minSpeed, maxSpeed)
	if err := b.session.SetPlaybackSpeed(int(interval.Milliseconds())); err != nil {
		return ui.Notify(err.Error())
	}
	return ui.Notify(fmt.Sprintf("%s per frame", interval))
}

func (b *statefulBubble) setWindow(window int) tea.Cmd {
	window = lo.Clamp(window, 1, maxWindow)
	if err := b.session.SetLookaheadWindow(window); err != nil {
		return ui.Notify(err.Error())
	}
	return ui.Notify(fmt.Sprintf("prefetching %d frames", window))
}
