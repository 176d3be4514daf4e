package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		return errors.New("paths.catalog_path must be set")
	}
	if strings.TrimSpace(c.Paths.HTTPBind) == "" {
		return errors.New("paths.http_bind must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Ordering {
	case "source", "alphabetical":
		return nil
	default:
		return fmt.Errorf("catalog.ordering must be %q or %q, got %q", "source", "alphabetical", c.Catalog.Ordering)
	}
}

func (c *Config) validateReview() error {
	if c.Review.CookieName == "" {
		return errors.New("review.cookie_name must be set")
	}
	if c.Review.SessionTTLMinutes <= 0 {
		return errors.New("review.session_ttl_minutes must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
