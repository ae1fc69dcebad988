package middleware

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
)

// AnyOrigin in CORSConfig.Origins allows every origin. It cannot be combined
// with AllowCredentials.
const AnyOrigin = "*"

type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig.
// List values are comma separated.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}

	if env != nil {
		envList(env.Origins, &c.Origins)
		envList(env.AllowedMethods, &c.AllowedMethods)
		envList(env.AllowedHeaders, &c.AllowedHeaders)
		if err := errors.Join(
			envBool(env.Enabled, &c.Enabled),
			envBool(env.AllowCredentials, &c.AllowCredentials),
			envInt(env.MaxAge, &c.MaxAge),
		); err != nil {
			return err
		}
	}

	if c.AllowCredentials && slices.Contains(c.Origins, AnyOrigin) {
		return errors.New("allow_credentials cannot be used with origin \"*\"")
	}
	return nil
}

func (c *CORSConfig) allows(origin string) bool {
	if origin == "" {
		return false
	}
	return slices.Contains(c.Origins, AnyOrigin) || slices.Contains(c.Origins, origin)
}

// Merge takes both booleans from overlay unconditionally; lists and MaxAge
// only when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	for _, pair := range [][2]*[]string{
		{&c.Origins, &overlay.Origins},
		{&c.AllowedMethods, &overlay.AllowedMethods},
		{&c.AllowedHeaders, &overlay.AllowedHeaders},
	} {
		if *pair[1] != nil {
			*pair[0] = *pair[1]
		}
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

// AuthConfig turns on OIDC bearer-token checks. Exempt lists module-relative
// paths that skip the check.
type AuthConfig struct {
	Enabled  bool     `toml:"enabled"`
	Issuer   string   `toml:"issuer"`
	Audience string   `toml:"audience"`
	Exempt   []string `toml:"exempt"`
}

type AuthEnv struct {
	Enabled  string
	Issuer   string
	Audience string
	Exempt   string
}

func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		if err := envBool(env.Enabled, &c.Enabled); err != nil {
			return err
		}
		envString(env.Issuer, &c.Issuer)
		envString(env.Audience, &c.Audience)
		envList(env.Exempt, &c.Exempt)
	}

	for _, p := range c.Exempt {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("exempt path %q must start with /", p)
		}
	}
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return errors.New("issuer required when auth is enabled")
	}
	if u, err := url.Parse(c.Issuer); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("issuer %q must be an absolute URL", c.Issuer)
	}
	if c.Audience == "" {
		return errors.New("audience required when auth is enabled")
	}
	return nil
}

func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if overlay.Exempt != nil {
		c.Exempt = overlay.Exempt
	}
}

func envString(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) error {
	var raw string
	if envString(key, &raw); raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%s: %q is not a boolean", key, raw)
	}
	*dst = b
	return nil
}

func envInt(key string, dst *int) error {
	var raw string
	if envString(key, &raw); raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	*dst = n
	return nil
}

func envList(key string, dst *[]string) {
	var raw string
	if envString(key, &raw); raw == "" {
		return
	}

	var list []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	*dst = list
}
