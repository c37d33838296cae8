// Package store persists the panel settings blob.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the single persisted preferences object.
type Settings struct {
	Title       string `yaml:"title"`
	Favicon     string `yaml:"favicon,omitempty"`
	Logo        string `yaml:"logo,omitempty"`
	Copyright   string `yaml:"copyright"`
	Theme       string `yaml:"theme"`
	Language    string `yaml:"language"`
	Maintenance bool   `yaml:"maintenance"`
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{
		Title:     "Cyber Telegram Bot Admin Panel",
		Copyright: "CyberPanel v1.0 © 2024 Your Bot",
		Theme:     "dark",
		Language:  "en",
	}
}

var themes = map[string]bool{"dark": true, "light": true}

// Validate checks field values that have a closed set of options.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("title is required")
	}
	if !themes[s.Theme] {
		return fmt.Errorf("unknown theme %q (want dark or light)", s.Theme)
	}
	if s.Language == "" {
		return errors.New("language is required")
	}
	return nil
}

// normalize folds the closed-set fields to their canonical lower case.
func (s *Settings) normalize() {
	s.Theme = strings.ToLower(strings.TrimSpace(s.Theme))
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
}

// Keys lists the names accepted by Set, sorted.
func Keys() []string {
	keys := []string{"title", "favicon", "logo", "copyright", "theme", "language", "maintenance"}
	sort.Strings(keys)
	return keys
}

// Set updates one field by key. The value is validated before the field changes.
func (s *Settings) Set(key, value string) error {
	next := *s
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "title":
		next.Title = value
	case "favicon":
		next.Favicon = value
	case "logo":
		next.Logo = value
	case "copyright":
		next.Copyright = value
	case "theme":
		next.Theme = value
	case "language":
		next.Language = value
	case "maintenance":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("maintenance: %w", err)
		}
		next.Maintenance = b
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	next.normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// Load reads settings from path. A missing file yields Defaults.
func Load(path string) (Settings, error) {
	if path == "" {
		return Settings{}, errors.New("settings path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := Defaults()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	settings.normalize()
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, settings Settings) error {
	if path == "" {
		return errors.New("settings path is required")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/botpanel/settings.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "botpanel", "settings.yaml"), nil
}
