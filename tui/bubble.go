package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/internal/ui"
	"github.com/simplay-cli/simplay/playback"
	"github.com/simplay-cli/simplay/util"
)

// statusMsg carries a session snapshot into the update loop.
type statusMsg playback.Status

// dragEndMsg finishes a scrub once no scrub key arrived for dragIdle.
type dragEndMsg struct {
	generation int
}

type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	session *playback.Session
	status  playback.Status
	started bool

	dragging   bool
	dragGen    int
	lastError  error
	autoplayed bool

	positionC progress.Model
	healthC   progress.Model
	spinnerC  spinner.Model
	helpC     help.Model
	notifier  *ui.Model

	errorChannel  chan error
	statusChannel chan playback.Status

	width, height int

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

// pushStatus hands a snapshot to the update loop without blocking. Session
// calls made from Update publish synchronously, so an unread older snapshot
// is replaced rather than waited on.
func (b *statefulBubble) pushStatus(st playback.Status) {
	for {
		select {
		case b.statusChannel <- st:
			return
		default:
		}

		select {
		case <-b.statusChannel:
		default:
		}
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	b.width = width - x
	b.height = height - y
	b.positionC.Width = b.width
	b.healthC.Width = b.width
	b.helpC.Width = b.width
}

func newBubble(session *playback.Session, options *Options) *statefulBubble {
	bubble := &statefulBubble{
		keymap:        newStatefulKeymap(),
		session:       session,
		status:        session.Status(),
		notifier:      &ui.Model{},
		errorChannel:  make(chan error, 1),
		statusChannel: make(chan playback.Status, 1),
		options:       options,
	}
	bubble.setState(loadingState)

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.positionC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bubble.healthC = progress.New(progress.WithSolidFill(string(color.Health)))

	bubble.resize(util.TerminalWidth(80), 24)
	return bubble
}
