package openapi

import "os"

const (
	defaultTitle       = "Accord API"
	defaultDescription = "Pairwise voting-alignment statistics over uploaded vote tables."
)

// Config carries the info block of the generated document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	License     string `toml:"license"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
	License     string
}

// Finalize fills the title and description when unset, then applies env overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if env == nil {
		return nil
	}

	for key, dst := range map[string]*string{
		env.Title:       &c.Title,
		env.Description: &c.Description,
		env.License:     &c.License,
	} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.License != "" {
		c.License = overlay.License
	}
}

func (c *Config) info(version string) *Info {
	info := &Info{
		Title:       c.Title,
		Description: c.Description,
		Version:     version,
	}
	if c.License != "" {
		info.License = &License{Name: c.License}
	}
	return info
}
