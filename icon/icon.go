// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, or plain ASCII depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vidstack/elements/key"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a single renderable UI symbol.
type Icon int

const (
	Play Icon = iota + 1
	Pause
	Stop
	Buffering
	Muted
	Volume
	Fullscreen
	Loop
	Success
	Fail
	Progress
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji string
	nerd  string
	plain string
}

// icons is the global registry mapping identifiers to their variant definitions.
var icons = map[Icon]iconDef{
	Play:       {emoji: "▶️", nerd: "", plain: ">"},
	Pause:      {emoji: "⏸️", nerd: "", plain: "||"},
	Stop:       {emoji: "⏹️", nerd: "", plain: "[]"},
	Buffering:  {emoji: "⏳", nerd: "", plain: "..."},
	Muted:      {emoji: "🔇", nerd: "婢", plain: "mx"},
	Volume:     {emoji: "🔊", nerd: "墳", plain: "vol"},
	Fullscreen: {emoji: "🖥️", nerd: "", plain: "[+]"},
	Loop:       {emoji: "🔁", nerd: "", plain: "(loop)"},
	Success:    {emoji: "✅", nerd: "", plain: "+"},
	Fail:       {emoji: "❌", nerd: "", plain: "x"},
	Progress:   {emoji: "⏳", nerd: "", plain: "*"},
}

// Get retrieves the visual representation for the receiver iconDef based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	d := icons[i]
	return d.Get()
}
