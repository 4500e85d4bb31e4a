// Package main is the entry point for the vidstack application.
package main

import (
	"github.com/samber/lo"
	"github.com/vidstack/elements/cmd"
	"github.com/vidstack/elements/config"
	"github.com/vidstack/elements/internal/cache"
	"github.com/vidstack/elements/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Expired probe and version cache entries are swept in the background.
	go cache.CollectGarbage()

	cmd.Execute()
}
