package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/viper"
	"github.com/vidstack/elements/color"
	"github.com/vidstack/elements/icon"
	keys "github.com/vidstack/elements/key"
	"github.com/vidstack/elements/media"
	"github.com/vidstack/elements/style"
	"github.com/vidstack/elements/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *transportBubble) View() string {
	state, _ := b.snapshot()

	if state == nil {
		return paddingStyle.Render(
			style.Title("vidstack") + "\n\n" + style.Fg(color.HiBlack)("waiting for a session..."),
		)
	}

	lines := []string{
		style.Title("vidstack"),
		"",
	}

	if viper.GetBool(keys.TUIShowSource) {
		if src := state.CurrentSrc.Get(); src != "" {
			width := uint(util.Max(20, b.width-6))
			lines = append(lines, style.Fg(color.HiBlack)(truncate.StringWithTail(src, width, "…")), "")
		}
	}

	lines = append(lines,
		b.viewTransport(state),
		b.viewProgress(state),
		b.viewVolume(state),
	)

	if err := b.viewErrors(state); err != "" {
		lines = append(lines, "", err)
	}

	lines = append(lines, "", b.helpC.View(b.keymap))

	return b.notifier.View(paddingStyle.Render(strings.Join(lines, "\n")))
}

func (b *transportBubble) viewTransport(state *media.State) string {
	current := state.CurrentTime.Get()
	duration := state.Duration.Get()

	return fmt.Sprintf("%s  %s / %s",
		b.statusIcon(state),
		util.FormatTime(current),
		util.FormatTime(duration),
	)
}

func (b *transportBubble) statusIcon(state *media.State) string {
	switch {
	case state.Ended.Get():
		return icon.Get(icon.Stop)
	case state.Waiting.Get() || state.Seeking.Get():
		return icon.Get(icon.Buffering)
	case state.Paused.Get():
		return icon.Get(icon.Pause)
	default:
		return icon.Get(icon.Play)
	}
}

func (b *transportBubble) viewProgress(state *media.State) string {
	duration := state.Duration.Get()

	var played float64
	if !math.IsNaN(duration) && duration > 0 {
		played = util.Clamp(state.CurrentTime.Get()/duration, 0, 1)
	}

	bar := b.progressC.ViewAs(played)

	buffered := state.BufferedAmount.Get()
	if buffered <= 0 {
		return bar
	}

	return fmt.Sprintf("%s  %s", bar,
		style.Fg(color.HiBlack)("buffered "+util.FormatTime(buffered)))
}

func (b *transportBubble) viewVolume(state *media.State) string {
	var parts []string

	if state.Muted.Get() {
		parts = append(parts, icon.Get(icon.Muted)+" muted")
	} else {
		parts = append(parts, fmt.Sprintf("%s %3.0f%%", icon.Get(icon.Volume), state.Volume.Get()*100))
	}

	if state.Loop.Get() {
		parts = append(parts, icon.Get(icon.Loop))
	}

	if state.Fullscreen.Get() {
		parts = append(parts, icon.Get(icon.Fullscreen))
	}

	return strings.Join(parts, "  ")
}

func (b *transportBubble) viewErrors(state *media.State) string {
	if err := state.Error.Get(); err != nil {
		return style.Fg(color.Red)(icon.Get(icon.Fail) + " " + err.Error())
	}

	if err := state.AutoplayError.Get(); err != nil {
		return style.Fg(color.Yellow)(icon.Get(icon.Fail) + " autoplay: " + err.Error())
	}

	return ""
}
