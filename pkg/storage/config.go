package storage

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Azure container names: 3-63 lowercase letters, digits and single hyphens,
// starting and ending with a letter or digit.
var containerName = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,62}$`)

// Config locates the blob container holding uploaded vote tables.
// ConnectionString wins when both it and AccountURL are set; AccountURL alone
// authenticates with the Azure identity found in the environment.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env names the environment variables that override Config.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

func (c *Config) UsesCredential() bool {
	return c.ConnectionString == "" && c.AccountURL != ""
}

// Finalize defaults the container to "datasets", applies env overrides, and validates.
func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "datasets"
	}

	if env != nil {
		for key, dst := range map[string]*string{
			env.ContainerName:    &c.ContainerName,
			env.ConnectionString: &c.ConnectionString,
			env.AccountURL:       &c.AccountURL,
		} {
			if key == "" {
				continue
			}
			if v := os.Getenv(key); v != "" {
				*dst = v
			}
		}
	}

	if !containerName.MatchString(c.ContainerName) {
		return fmt.Errorf("invalid container_name %q", c.ContainerName)
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return errors.New("connection_string or account_url required")
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}
