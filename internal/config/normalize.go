package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResolver()
	c.normalizeFetch()
	c.normalizeAPI()
	c.normalizeDisc()
	c.normalizeLogging()
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeResolver() {
	if c.Resolver.MaxDepth == 0 {
		c.Resolver.MaxDepth = defaultMaxDepth
	}
	if c.Resolver.SampleBytes == 0 {
		c.Resolver.SampleBytes = defaultSampleBytes
	}
	c.Resolver.IgnoredSchemes = normalizeList(c.Resolver.IgnoredSchemes, func(s string) string {
		return strings.TrimSuffix(s, "://")
	})
	c.Resolver.IgnoredMimeTypes = normalizeList(c.Resolver.IgnoredMimeTypes, nil)
	c.Resolver.PreferredSchemes = normalizeList(c.Resolver.PreferredSchemes, func(s string) string {
		return strings.TrimSuffix(s, "://")
	})
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = defaultFetchMaxBytes
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		if value, ok := os.LookupEnv("PLPARSE_USER_AGENT"); ok {
			c.Fetch.UserAgent = strings.TrimSpace(value)
		}
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeAPI() {
	if value, ok := os.LookupEnv("PLPARSE_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.API.Bind = strings.TrimSpace(value)
	}
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
}

func (c *Config) normalizeDisc() {
	c.Disc.Device = strings.TrimSpace(c.Disc.Device)
	if c.Disc.ReadyPolls <= 0 {
		c.Disc.ReadyPolls = defaultDiscReadyPolls
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// normalizeList lower-cases, trims and de-duplicates values, keeping order.
func normalizeList(values []string, fn func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if fn != nil {
			normalized = fn(normalized)
		}
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
