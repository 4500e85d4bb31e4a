// Package cmd implements the command-line interface for vidstack.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidstack/elements/color"
	"github.com/vidstack/elements/engine"
	"github.com/vidstack/elements/style"
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	probeCmd.Flags().Bool("no-cache", false, "Bypass the persistent probe cache")
	probeCmd.Flags().Bool("engines", false, "List the registered playback engines instead of probing")
}

// probeCmd classifies a source without playing it.
var probeCmd = &cobra.Command{
	Use:     "probe [source]",
	Short:   "Detect the media type of a file or stream URL",
	Args:    cobra.MaximumNArgs(1),
	Example: "  vidstack probe https://example.com/live.m3u8",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("engines")) {
			for _, factory := range engine.Default().Factories() {
				capability := ""
				if factory.HLS {
					capability = style.Fg(color.Green)(" [hls]")
				}
				fmt.Println(style.Fg(color.Purple)(factory.Name) + capability)
			}
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		prober := engine.NewProber()
		if lo.Must(cmd.Flags().GetBool("no-cache")) {
			prober.Cache = engine.NewMemoryProbeCache()
		}

		src := engine.Source{URL: args[0]}
		mediaType := prober.Detect(src)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(map[string]string{
				"url":  src.URL,
				"type": mediaType.String(),
			}))
			return
		}

		fmt.Printf("%s %s\n",
			style.Fg(color.Purple)(src.URL),
			style.Fg(color.Green)(mediaType.String()),
		)
	},
}
