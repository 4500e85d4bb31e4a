package engine

import (
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidstack/elements/key"
	"github.com/vidstack/elements/media"
)

// Factory describes an available playback backend.
type Factory struct {
	Name string

	// CanPlay reports whether the backend supports the detected media type.
	// A nil CanPlay accepts every type.
	CanPlay func(t media.Type) bool

	// HLS marks backends with native HLS support. When a source probes as a
	// stream manifest, HLS-capable factories win over generic ones.
	HLS bool

	Create func() Engine
}

func (f *Factory) String() string {
	return f.Name
}

func (f *Factory) canPlay(t media.Type) bool {
	return f.CanPlay == nil || f.CanPlay(t)
}

// Registry resolves a playback backend for a source.
type Registry struct {
	prober    *Prober
	factories []*Factory
}

func NewRegistry(prober *Prober) *Registry {
	return &Registry{prober: prober}
}

func (r *Registry) Register(f *Factory) {
	r.factories = append(r.factories, f)
}

// Factories returns all registered backends in registration order.
func (r *Registry) Factories() []*Factory {
	return r.factories
}

// Get finds a factory by name.
func (r *Registry) Get(name string) (*Factory, bool) {
	for _, f := range r.factories {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Resolve picks the backend for the given source. The configured engine is
// preferred when it can play the source; streaming manifests then prefer
// HLS-capable backends before falling back to registration order.
func (r *Registry) Resolve(src Source) (*Factory, media.Type, error) {
	t := r.prober.Detect(src)

	if preferred, ok := r.Get(viper.GetString(key.PlayerEngine)); ok && preferred.canPlay(t) {
		return preferred, t, nil
	}

	if t == media.TypeHLS {
		if f := r.first(func(f *Factory) bool { return f.HLS && f.canPlay(t) }); f.IsPresent() {
			return f.MustGet(), t, nil
		}
	}

	if f := r.first(func(f *Factory) bool { return f.canPlay(t) }); f.IsPresent() {
		return f.MustGet(), t, nil
	}

	return nil, t, ErrNoEngine
}

func (r *Registry) first(matches func(*Factory) bool) mo.Option[*Factory] {
	for _, f := range r.factories {
		if matches(f) {
			return mo.Some(f)
		}
	}
	return mo.None[*Factory]()
}

// Default builds the registry of built-in backends.
func Default() *Registry {
	r := NewRegistry(NewProber())
	r.Register(&Factory{
		Name: "mpv",
		HLS:  true,
		Create: func() Engine {
			return NewMPV()
		},
	})
	return r
}
