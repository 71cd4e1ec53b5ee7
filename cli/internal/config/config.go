package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultURL is the ingest service address used when no profile sets one.
const DefaultURL = "http://localhost:3000"

type Config struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	path           string
}

// Profile holds the connection settings for one ingest deployment.
type Profile struct {
	URL      string `yaml:"url" json:"url"`
	AdminKey string `yaml:"admin_key,omitempty" json:"admin_key,omitempty"`
	APIKey   string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
}

func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".seawatch", "config.yaml"), nil
}

// Load reads cfgFile, or ~/.seawatch/config.yaml when empty. A missing file
// yields the default config.
func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		cfgFile = p
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfgFile, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}

	return cfg, nil
}

func (c *Config) Save() error {
	if c.path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// SaveProfile stores p under name and makes it current.
func (c *Config) SaveProfile(name string, p *Profile) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}
	c.Profiles[name] = p
	c.CurrentProfile = name
	return c.Save()
}

func (c *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	return profile, nil
}

// Resolve returns the named profile, or an empty profile pointing at
// DefaultURL when it does not exist.
func (c *Config) Resolve(name string) Profile {
	p, err := c.GetProfile(name)
	if err != nil {
		return Profile{URL: DefaultURL}
	}
	out := *p
	if out.URL == "" {
		out.URL = DefaultURL
	}
	return out
}

func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}
	c.CurrentProfile = name
	return c.Save()
}

func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}

// ProfileNames lists profiles in name order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
