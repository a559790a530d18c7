package dateparse

import (
	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

// Resolver parses with a primary locale and falls back to every other
// registered locale, so text written in another language still resolves.
type Resolver struct {
	registry *locale.Registry
}

// NewResolver creates a resolver over registry, or the built-in registry
// when registry is nil.
func NewResolver(registry *locale.Registry) *Resolver {
	if registry == nil {
		registry = locale.Default()
	}
	return &Resolver{registry: registry}
}

// Registry returns the locales the resolver tries
func (r *Resolver) Registry() *locale.Registry {
	return r.registry
}

// ParseAnyLocale tries primary first, then the remaining locales in registry
// order, and returns the first success.
func (r *Resolver) ParseAnyLocale(text string, format model.DateFormat, primary *locale.Config) (Result, bool) {
	if primary == nil {
		primary = r.registry.Lookup(locale.DefaultCode)
	}
	if res, ok := Parse(text, format, primary); ok {
		return res, true
	}
	for _, loc := range r.registry.All() {
		if loc == primary {
			continue
		}
		if res, ok := Parse(text, format, loc); ok {
			return res, true
		}
	}
	return Result{}, false
}

// ParseAnyLocale resolves text against the built-in registry
func ParseAnyLocale(text string, format model.DateFormat, primary *locale.Config) (Result, bool) {
	return NewResolver(nil).ParseAnyLocale(text, format, primary)
}
