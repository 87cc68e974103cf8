package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/style"
)

// statefulKeymap holds the bindings of the player and which of them apply
// in the current state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause,
	stepBack, stepForward,
	jumpBack, jumpForward,
	first, last,
	faster, slower,
	widen, narrow,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		stepBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous frame"),
		),
		stepForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next frame"),
		),
		jumpBack: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("shift+←", "scrub back"),
		),
		jumpForward: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("shift+→", "scrub forward"),
		),
		first: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first frame"),
		),
		last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last frame"),
		),
		faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		widen: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "prefetch more"),
		),
		narrow: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prefetch less"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.quit))
	case playerState:
		return h(k.playPause, k.stepBack, k.stepForward, k.showHelp, k.quit),
			h(k.playPause, k.stepBack, k.stepForward, k.jumpBack, k.jumpForward, k.first, k.last, k.faster, k.slower, k.widen, k.narrow, k.quit)
	case errorState:
		return to2(h(k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
