// Package icon renders UI symbols in the variant chosen by the icons.variant setting.
package icon

import (
	"github.com/simplay-cli/simplay/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Pause
	Stall
	Seek
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "\uf00c", plain: "✓", squares: "🟩"},
	Fail:     {emoji: "💀", nerd: "\uf00d", plain: "✗", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "\uf110", plain: "…", squares: "🟦"},
	Play:     {emoji: "▶️", nerd: "\uf04b", plain: ">", squares: "🟩"},
	Pause:    {emoji: "⏸️", nerd: "\uf04c", plain: "||", squares: "🟨"},
	Stall:    {emoji: "🧊", nerd: "\uf2dc", plain: "!", squares: "🟧"},
	Seek:     {emoji: "⏩", nerd: "\uf04e", plain: ">>", squares: "🟪"},
}

func (d *iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

// Get returns the rendered string for the icon in the configured variant.
func Get(i Icon) string {
	if d, ok := icons[i]; ok {
		return d.get()
	}
	return ""
}
