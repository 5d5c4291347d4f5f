package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeAnnotate(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeAnnotate() error {
	c.Annotate.Output = strings.TrimSpace(c.Annotate.Output)
	if c.Annotate.Output == "" {
		c.Annotate.Output = defaultOutput
	}
	var err error
	if c.Annotate.Output, err = expandPath(c.Annotate.Output); err != nil {
		return fmt.Errorf("annotate.output: %w", err)
	}
	if c.Annotate.DropdownThreshold == 0 {
		c.Annotate.DropdownThreshold = defaultDropdownThreshold
	}
	if c.Annotate.MaxTextWidth == 0 {
		c.Annotate.MaxTextWidth = defaultMaxTextWidth
	}

	seen := make(map[string]struct{}, len(c.Annotate.ImageExtensions))
	exts := make([]string, 0, len(c.Annotate.ImageExtensions))
	for _, ext := range c.Annotate.ImageExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultImageExtensions...)
	}
	c.Annotate.ImageExtensions = exts
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv(logLevelEnv); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
