package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/color"
	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/icon"
	"github.com/simplay-cli/simplay/playback"
	"github.com/simplay-cli/simplay/style"
	"github.com/simplay-cli/simplay/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title(b.options.Simulation.Name),
			"",
			fmt.Sprintf("%s Loading frame %d", b.spinnerC.View(), b.status.Cursor+1),
		},
	)
}

func (b *statefulBubble) viewPlayer() string {
	st := b.status
	truncate := style.Truncate(b.width)

	lines := []string{
		style.Title(b.options.Simulation.Name),
		"",
		truncate(fmt.Sprintf("%s %s  %s",
			stateIcon(st),
			style.Bold(fmt.Sprintf("frame %d/%d", st.Cursor+1, st.Total)),
			style.Faint(stateLabel(st)),
		)),
		b.positionC.View(),
		"",
		truncate(style.Faint(fmt.Sprintf("buffer  %d loaded  %s ahead  %s per frame",
			st.Buffered,
			util.Quantify(st.Window, "frame", "frames"),
			st.Interval,
		))),
		b.healthC.View(),
		"",
	}

	f, ok := b.session.CurrentFrame().Get()
	if !ok {
		lines = append(lines, b.spinnerC.View()+" "+style.Fg(color.Orange)("waiting for frame"))
	} else {
		lines = append(lines, b.viewFrame(f)...)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewFrame(f frame.Frame) []string {
	sum := f.Summary()
	lines := []string{
		style.Fg(color.Purple)(fmt.Sprintf("%s  %s",
			util.Quantify(sum.Nodes, "node", "nodes"),
			util.Quantify(sum.Edges, "edge", "edges"),
		)),
	}

	for _, name := range sortedKeys(f.State.Globals) {
		line := fmt.Sprintf("%s %v", style.Bold(name+":"), f.State.Globals[name])
		lines = append(lines, wrap.String(line, b.width))
	}
	return lines
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(color.Red).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Playback ended:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := strings.Count(strings.Join(lines, "\n"), "\n") + 1
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+1 {
			l += strings.Repeat("\n", b.height-h-1)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func stateIcon(st playback.Status) string {
	switch {
	case st.Sliding:
		return icon.Get(icon.Seek)
	case st.State == playback.Playing:
		return icon.Get(icon.Play)
	case st.Reason == playback.ReasonStalled:
		return style.Fg(color.Orange)(icon.Get(icon.Stall))
	default:
		return icon.Get(icon.Pause)
	}
}

func stateLabel(st playback.Status) string {
	switch {
	case st.Sliding:
		return "seeking"
	case st.State == playback.Playing:
		return "playing"
	case st.Reason == playback.ReasonNone:
		return "stopped"
	default:
		return st.Reason.String()
	}
}

func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
