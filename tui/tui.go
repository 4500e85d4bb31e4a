// Package tui provides the terminal transport view. It is a pure consumer: the
// session state and remote are resolved through scope bindings, every intent
// goes through the remote, and no engine reference ever reaches this package.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidstack/elements/controller"
	"github.com/vidstack/elements/media"
	"github.com/vidstack/elements/scope"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Scope is where the session state and remote are looked up.
	Scope *scope.Scope
}

// Run initializes and executes the transport view loop. It blocks until the
// user quits or the bound session disconnects.
func Run(options *Options) error {
	bubble := newBubble()
	program := tea.NewProgram(bubble)

	stateBinding := controller.StateKey.Bind(options.Scope, func(s *media.State) func() {
		return bubble.attachState(s)
	})
	defer stateBinding.Close()

	remoteBinding := controller.RemoteKey.Bind(options.Scope, func(r *controller.Remote) func() {
		return bubble.attachRemote(r)
	})
	defer remoteBinding.Close()

	_, err := program.Run()
	return err
}
