package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForError(), b.waitForStatus())
}

func (b *statefulBubble) waitForError() tea.Cmd {
	return func() tea.Msg {
		return <-b.errorChannel
	}
}

func (b *statefulBubble) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-b.statusChannel)
	}
}
