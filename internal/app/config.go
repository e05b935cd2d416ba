package app

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	configEnvVar  = "DATABRICKS_MCP_CONFIG"
	hostEnvVar    = "DATABRICKS_HOST"
	tokenEnvVar   = "DATABRICKS_TOKEN"
	profileEnvVar = "DATABRICKS_CONFIG_PROFILE"
)

// Config is the on-disk TOML configuration with named workspace profiles.
type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	Profiles       map[string]Profile `toml:"profiles"`
}

// Profile holds the connection settings for one workspace. A personal
// access token yields a Bearer authorization header; the legacy
// username/password pair yields Basic.
type Profile struct {
	Host          string `toml:"host"`
	Token         string `toml:"token"`
	Username      string `toml:"username"`
	Password      string `toml:"password"`
	ExpirySeconds int    `toml:"expiry_seconds"`
}

// ProfileOverrides carries flag-level overrides that win over both the
// environment and the config file.
type ProfileOverrides struct {
	Profile string
	Host    string
	Token   string
}

func (p Profile) authorizationHeader() (string, error) {
	if p.Token != "" {
		return "Bearer " + p.Token, nil
	}
	if p.Username != "" && p.Password != "" {
		basic := base64.StdEncoding.EncodeToString([]byte(p.Username + ":" + p.Password))
		return "Basic " + basic, nil
	}
	return "", fmt.Errorf("profile has no token or username/password configured")
}

func resolveConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	raw := firstNonEmpty(
		os.Getenv(configEnvVar),
		filepath.Join(home, ".config", "databricks-mcp", "config.toml"),
	)
	return resolvePathWithHome(raw, home), nil
}

// loadConfig reads the TOML config. A missing file is not an error; flags
// and environment variables can supply everything.
func loadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// resolve picks the effective profile: named profile from the file, then
// environment overrides, then flag overrides. Returns the profile and the
// name it resolved from ("" when built purely from overrides).
func (c Config) resolve(o ProfileOverrides) (Profile, string, error) {
	name := firstNonEmpty(o.Profile, os.Getenv(profileEnvVar), c.DefaultProfile)

	var profile Profile
	if name != "" {
		if err := validateProfileName(name); err != nil {
			return Profile{}, "", err
		}
		found, ok := c.Profiles[name]
		if !ok {
			// A default_profile that is absent is tolerated when the
			// caller supplied the connection settings another way.
			if o.Profile != "" || os.Getenv(profileEnvVar) != "" {
				return Profile{}, "", fmt.Errorf("profile %q not found in config", name)
			}
			name = ""
		} else {
			profile = found
		}
	}

	if host := strings.TrimSpace(os.Getenv(hostEnvVar)); host != "" {
		profile.Host = host
	}
	if token := strings.TrimSpace(os.Getenv(tokenEnvVar)); token != "" {
		profile.Token = token
	}
	if o.Host != "" {
		profile.Host = o.Host
	}
	if o.Token != "" {
		profile.Token = o.Token
	}

	if strings.TrimSpace(profile.Host) == "" {
		return Profile{}, "", fmt.Errorf("workspace host is required (set --host, %s, or a config profile)", hostEnvVar)
	}
	return profile, name, nil
}

func (c Config) profileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resolvePathWithHome(raw string, home string) string {
	if strings.HasPrefix(raw, "~/") {
		return filepath.Join(home, strings.TrimPrefix(raw, "~/"))
	}
	if strings.HasPrefix(raw, "~\\") {
		return filepath.Join(home, strings.TrimPrefix(raw, "~\\"))
	}
	if raw == "~" {
		return home
	}
	return filepath.Clean(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
