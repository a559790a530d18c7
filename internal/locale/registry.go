package locale

import (
	"strings"
	"sync"
)

// DefaultCode is used when a requested language is not registered
const DefaultCode = "en"

// Registry is an ordered, read-only set of locales. It is safe for
// concurrent use because nothing in it changes after construction.
type Registry struct {
	locales  []*Config
	byCode   map[string]*Config
	fallback *Config
	months   string
}

// NewRegistry builds a registry from locales in iteration order. The locale
// with DefaultCode, or the first one, becomes the fallback.
func NewRegistry(locales ...*Config) *Registry {
	r := &Registry{
		locales: locales,
		byCode:  make(map[string]*Config, len(locales)),
	}

	var all []string
	for _, c := range locales {
		r.byCode[c.Code] = c
		for key := range c.months {
			all = append(all, key)
		}
	}
	if len(locales) > 0 {
		r.fallback = locales[0]
	}
	if c, ok := r.byCode[DefaultCode]; ok {
		r.fallback = c
	}
	r.months = alternation(dedupe(all))
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of built-in locales: en, es, fr, ja
func Default() *Registry {
	defaultOnce.Do(func() {
		locales := make([]*Config, 0, len(builtinTables))
		for _, t := range builtinTables {
			locales = append(locales, newConfig(t))
		}
		defaultRegistry = NewRegistry(locales...)
	})
	return defaultRegistry
}

// Lookup returns the locale for code, or the fallback locale when the code
// is unknown.
func (r *Registry) Lookup(code string) *Config {
	if c, ok := r.byCode[strings.ToLower(strings.TrimSpace(code))]; ok {
		return c
	}
	return r.fallback
}

// Has reports whether code is registered
func (r *Registry) Has(code string) bool {
	_, ok := r.byCode[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// All returns the locales in registry order
func (r *Registry) All() []*Config {
	return r.locales
}

// Codes returns the registered language codes in registry order
func (r *Registry) Codes() []string {
	codes := make([]string, len(r.locales))
	for i, c := range r.locales {
		codes[i] = c.Code
	}
	return codes
}

// MonthAlternation is a regexp alternation of every month spelling of every
// locale, case-folded, longest first.
func (r *Registry) MonthAlternation() string {
	return r.months
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
