package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/vidstack/elements/internal/ui"
	keys "github.com/vidstack/elements/key"
	"github.com/vidstack/elements/open"
	"github.com/vidstack/elements/util"
)

func (b *transportBubble) Init() tea.Cmd {
	return b.waitRefresh()
}

// waitRefresh turns coalesced field-change signals into view refreshes.
func (b *transportBubble) waitRefresh() tea.Cmd {
	return func() tea.Msg {
		<-b.refresh
		return refreshMsg{}
	}
}

func (b *transportBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if b.sessionGone() {
			return b, tea.Quit
		}
		return b, b.waitRefresh()

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.helpC.Width = msg.Width
		b.progressC.Width = util.Clamp(viper.GetInt(keys.TUIProgressWidth), 10, util.Max(10, msg.Width-4))
		return b, nil

	case tea.KeyMsg:
		return b.handleKey(msg)

	case progress.FrameMsg:
		model, cmd := b.progressC.Update(msg)
		b.progressC = model.(progress.Model)
		return b, cmd

	case string, ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)
	}

	return b, nil
}

func (b *transportBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := b.keymap

	switch {
	case key.Matches(msg, k.forceQuit), key.Matches(msg, k.quit):
		return b, tea.Quit

	case key.Matches(msg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return b, nil
	}

	state, remote := b.snapshot()

	if key.Matches(msg, k.openURL) {
		if state == nil || state.CurrentSrc.Get() == "" {
			return b, ui.Notify("nothing to open")
		}
		if err := open.Start(state.CurrentSrc.Get()); err != nil {
			return b, ui.Notify(err.Error())
		}
		return b, nil
	}

	if remote == nil {
		return b, ui.Notify("no session bound")
	}

	seekStep := viper.GetFloat64(keys.PlayerSeekStep)
	volumeStep := viper.GetFloat64(keys.PlayerVolumeStep) / 100

	switch {
	case key.Matches(msg, k.playPause):
		remote.TogglePaused()
	case key.Matches(msg, k.seekForward):
		remote.SeekBy(seekStep)
	case key.Matches(msg, k.seekBackward):
		remote.SeekBy(-seekStep)
	case key.Matches(msg, k.volumeUp):
		remote.ChangeVolumeBy(volumeStep)
	case key.Matches(msg, k.volumeDown):
		remote.ChangeVolumeBy(-volumeStep)
	case key.Matches(msg, k.mute):
		remote.ToggleMuted()
	case key.Matches(msg, k.fullscreen):
		remote.ToggleFullscreen()
	case key.Matches(msg, k.loop):
		remote.ToggleLoop()
	}

	return b, nil
}
