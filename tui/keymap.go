package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// transportKeymap defines the keyboard interactions of the transport view.
type transportKeymap struct {
	quit, forceQuit,
	playPause,
	seekForward, seekBackward,
	volumeUp, volumeDown,
	mute,
	fullscreen,
	loop,
	openURL,
	showHelp key.Binding
}

func newTransportKeymap() *transportKeymap {
	return &transportKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "play/pause"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek forward"),
		),
		seekBackward: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek back"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "+"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		loop: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "repeat"),
		),
		openURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open url"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k *transportKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.seekBackward, k.seekForward, k.showHelp, k.quit}
}

// FullHelp implements help.KeyMap.
func (k *transportKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.seekBackward, k.seekForward},
		{k.volumeUp, k.volumeDown, k.mute},
		{k.fullscreen, k.loop, k.openURL, k.quit},
	}
}
