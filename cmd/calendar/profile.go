package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is the CLI's YAML configuration
type Profile struct {
	BaseURL   string        `yaml:"base_url"`
	TokenFile string        `yaml:"token_file"`
	Timeout   time.Duration `yaml:"timeout"`
	NoticeTTL time.Duration `yaml:"notice_ttl"`
	LogLevel  string        `yaml:"log_level"`
}

func defaultProfile() Profile {
	return Profile{
		BaseURL:   "http://localhost:5000/api",
		TokenFile: filepath.Join(configDir(), "token.json"),
		Timeout:   10 * time.Second,
		NoticeTTL: 3 * time.Second,
		LogLevel:  "warn",
	}
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "classbook")
	}
	return ".classbook"
}

// LoadProfile reads path over the defaults. A missing file is not an error.
func LoadProfile(path string) (Profile, error) {
	p := defaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	if p.BaseURL == "" {
		return p, fmt.Errorf("invalid profile %s: base_url is empty", path)
	}
	return p, nil
}
