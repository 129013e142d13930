package config

import (
	"fmt"
	"strings"

	"github.com/gavinmcnair/datesort/pkg/media"
)

// Normalize trims and lowercases values, expands the root path and fills
// empty logging fields with defaults.
func (c *Config) Normalize() error {
	c.Organize.Root = strings.TrimSpace(c.Organize.Root)
	if c.Organize.Root != "" {
		root, err := expandPath(c.Organize.Root)
		if err != nil {
			return err
		}
		c.Organize.Root = root
	}

	c.Media.ImageExtensions = normalizeExtensions(c.Media.ImageExtensions)
	c.Media.VideoExtensions = normalizeExtensions(c.Media.VideoExtensions)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateDedupe(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMedia() error {
	for _, ext := range c.Media.ImageExtensions {
		for _, other := range c.Media.VideoExtensions {
			if ext == other {
				return fmt.Errorf("media: extension %q listed as both image and video", ext)
			}
		}
	}
	return nil
}

func (c *Config) validateDedupe() error {
	if c.Dedupe.MaxDistance < -1 || c.Dedupe.MaxDistance > 64 {
		return fmt.Errorf("dedupe.max_distance must be between -1 and 64, got %d", c.Dedupe.MaxDistance)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = media.NormalizeExt(ext)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}
