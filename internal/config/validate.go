package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxResolverDepth = 32
	minSampleBytes   = 512
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDisc(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateResolver() error {
	r := c.Resolver
	if r.MaxDepth < 1 || r.MaxDepth > maxResolverDepth {
		return fmt.Errorf("resolver.max_depth must be between 1 and %d", maxResolverDepth)
	}
	if r.SampleBytes < minSampleBytes {
		return fmt.Errorf("resolver.sample_bytes must be at least %d", minSampleBytes)
	}
	if c.Fetch.MaxBytes > 0 && int64(r.SampleBytes) > c.Fetch.MaxBytes {
		return errors.New("resolver.sample_bytes must not exceed fetch.max_bytes")
	}
	for _, scheme := range append(append([]string{}, r.IgnoredSchemes...), r.PreferredSchemes...) {
		if !validScheme(scheme) {
			return fmt.Errorf("resolver: invalid uri scheme %q", scheme)
		}
	}
	for _, pattern := range r.IgnoredMimeTypes {
		major, minor, ok := strings.Cut(pattern, "/")
		if major == "" || (ok && minor == "") {
			return fmt.Errorf("resolver.ignored_mime_types: invalid pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateFetch() error {
	if err := ensurePositiveMap(map[string]int{
		"fetch.timeout_seconds": c.Fetch.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Fetch.MaxBytes <= 0 {
		return errors.New("fetch.max_bytes must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.API.Bind) == "" {
		return errors.New("api.bind must be set")
	}
	return nil
}

func (c *Config) validateDisc() error {
	if c.Disc.Watch && c.Disc.Device == "" {
		return errors.New("disc.device must be set when disc.watch is true")
	}
	if c.Disc.Device != "" && !strings.HasPrefix(c.Disc.Device, "/dev/") {
		return fmt.Errorf("disc.device must be a /dev path, got %q", c.Disc.Device)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn or error)", c.Logging.Level)
	}
}

func validScheme(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
