// Package cmd implements the command-line interface for vidstack.
package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidstack/elements/controller"
	"github.com/vidstack/elements/engine"
	"github.com/vidstack/elements/history"
	"github.com/vidstack/elements/key"
	"github.com/vidstack/elements/log"
	"github.com/vidstack/elements/scope"
	"github.com/vidstack/elements/tui"
	"github.com/vidstack/elements/util"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("title", "t", "", "Display title for the playback window")
	playCmd.Flags().StringSliceP("header", "H", []string{}, "HTTP header for streaming, as 'Name: Value'")
	playCmd.Flags().StringP("engine", "e", "", "Playback engine to prefer")
	lo.Must0(viper.BindPFlag(key.PlayerEngine, playCmd.Flags().Lookup("engine")))

	playCmd.Flags().Float64("volume", -1, "Initial volume from 0 to 1")
	playCmd.Flags().Bool("muted", false, "Start muted")
	playCmd.Flags().Bool("loop", false, "Restart playback when the source ends")
	playCmd.Flags().BoolP("fullscreen", "f", false, "Start in fullscreen")
	playCmd.Flags().Bool("paused", false, "Attach without starting playback")

	playCmd.Flags().BoolP("resume", "c", true, "Resume from the last saved position")
	lo.Must0(viper.BindPFlag(key.PlayerResume, playCmd.Flags().Lookup("resume")))
}

// playCmd drives one full playback session: resolve an engine for the source,
// wire a session around it, provide the session on a scope, and hand the
// terminal over to the transport view.
var playCmd = &cobra.Command{
	Use:     "play [source]",
	Short:   "Play a local file or stream URL",
	Args:    cobra.ExactArgs(1),
	Example: "  vidstack play ./clip.mp4\n  vidstack play https://example.com/live.m3u8 -H 'Referer: https://example.com'",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		src := engine.Source{
			URL:     args[0],
			Title:   lo.Must(cmd.Flags().GetString("title")),
			Headers: parseHeaders(lo.Must(cmd.Flags().GetStringSlice("header"))),
		}
		if src.Title == "" {
			src.Title = src.URL
		}

		registry := engine.Default()
		factory, mediaType, err := registry.Resolve(src)
		handleErr(err)
		log.Infof("resolved engine %q for %s source", factory.Name, mediaType)

		c := controller.New(factory.Create())
		defer util.Ignore(c.Close)

		root := scope.New()
		c.Attach(root)

		applySessionDefaults(cmd, c.Remote())

		if viper.GetBool(key.PlayerResume) {
			if saved, ok := history.Lookup(src.URL).Get(); ok {
				log.Infof("resuming %q at %s", src.URL, util.FormatTime(saved.Position))
				c.Remote().Seek(saved.Position)
			}
		}

		handleErr(c.ChangeSource(src))

		handleErr(tui.Run(&tui.Options{Scope: root.Child()}))

		savePosition(c, src)
	},
}

// savePosition records where playback stopped once the transport view exits.
func savePosition(c *controller.Controller, src engine.Source) {
	state := c.State()

	if state.Ended.Get() {
		_ = history.Remove(src.URL)
		return
	}

	if err := history.Save(&history.SavedPosition{
		URL:      src.URL,
		Title:    src.Title,
		Position: state.CurrentTime.Get(),
		Duration: state.Duration.Get(),
	}); err != nil {
		log.Error("save position: ", err)
	}
}

// applySessionDefaults issues the configured startup intents. The session is
// not ready yet, so they queue and flush together once the engine reports the
// source playable.
func applySessionDefaults(cmd *cobra.Command, remote *controller.Remote) {
	volume := viper.GetFloat64(key.PlayerVolume)
	if cmd.Flags().Changed("volume") {
		volume = lo.Must(cmd.Flags().GetFloat64("volume"))
	}
	if volume >= 0 {
		remote.SetVolume(volume)
	}

	if lo.Must(cmd.Flags().GetBool("muted")) || viper.GetBool(key.PlayerMuted) {
		remote.Mute()
	}

	if lo.Must(cmd.Flags().GetBool("loop")) || viper.GetBool(key.PlayerLoop) {
		remote.SetLoop(true)
	}

	if lo.Must(cmd.Flags().GetBool("fullscreen")) || viper.GetBool(key.PlayerFullscreen) {
		remote.EnterFullscreen()
	}

	if !lo.Must(cmd.Flags().GetBool("paused")) {
		remote.Play()
	}
}

func parseHeaders(raw []string) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, found := strings.Cut(h, ":")
		if !found {
			handleErr(fmt.Errorf("invalid header %q, expected 'Name: Value'", h))
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers
}
