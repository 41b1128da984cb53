package plparser

import (
	"slices"

	"plparse/internal/config"
)

const (
	defaultMaxDepth   = 4
	defaultSampleSize = 8192
)

// Config holds the resolution switches. A Parser copies it on every Resolve
// call, so changes through AddIgnoredScheme or AddIgnoredMimeType never affect
// a pass that is already running.
type Config struct {
	Recurse          bool
	Force            bool
	DisableUnsafe    bool
	MaxDepth         int
	SampleSize       int
	IgnoredSchemes   []string
	IgnoredMimeTypes []string
	PreferredSchemes []string
}

// DefaultConfig returns the settings used when New gets no Config.
func DefaultConfig() Config {
	return Config{
		Recurse:    true,
		MaxDepth:   defaultMaxDepth,
		SampleSize: defaultSampleSize,
	}
}

// ConfigFromSettings maps the [resolver] section of the application config.
func ConfigFromSettings(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	r := cfg.Resolver
	return Config{
		Recurse:          r.Recurse,
		Force:            r.Force,
		DisableUnsafe:    r.DisableUnsafe,
		MaxDepth:         r.MaxDepth,
		SampleSize:       r.SampleBytes,
		IgnoredSchemes:   slices.Clone(r.IgnoredSchemes),
		IgnoredMimeTypes: slices.Clone(r.IgnoredMimeTypes),
		PreferredSchemes: slices.Clone(r.PreferredSchemes),
	}
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.SampleSize <= 0 {
		c.SampleSize = defaultSampleSize
	}
	return c
}

func (c Config) clone() Config {
	c.IgnoredSchemes = slices.Clone(c.IgnoredSchemes)
	c.IgnoredMimeTypes = slices.Clone(c.IgnoredMimeTypes)
	c.PreferredSchemes = slices.Clone(c.PreferredSchemes)
	return c
}

// ResolutionContext travels with every recursive call of one top-level
// resolution.
type ResolutionContext struct {
	// Depth is 0 for the URI passed to Resolve and grows by one each time a
	// decoder resolves a child.
	Depth int
	// Fallback reports unparseable URIs as plain entries.
	Fallback bool
	// BaseURI resolves relative references. Empty means the reference's
	// own location is used.
	BaseURI string
}
