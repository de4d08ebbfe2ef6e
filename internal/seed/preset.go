package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Preset describes a deterministic set of named accounts and photos to
// create before any random filler. Presets let demo environments come up
// with recognizable users to log in as.
type Preset struct {
	Users []PresetUser `yaml:"users"`
	// Follows lists "follower -> following" username pairs.
	Follows []PresetFollow `yaml:"follows"`
}

type PresetUser struct {
	Username    string        `yaml:"username"`
	Email       string        `yaml:"email"`
	DisplayName string        `yaml:"display_name"`
	Bio         string        `yaml:"bio"`
	Photos      []PresetPhoto `yaml:"photos"`
}

type PresetPhoto struct {
	ImageURL string `yaml:"image_url"`
	Caption  string `yaml:"caption"`
}

type PresetFollow struct {
	Follower  string `yaml:"follower"`
	Following string `yaml:"following"`
}

//go:embed demo_preset.yaml
var demoPresetYAML []byte

// ParsePreset decodes a YAML preset document.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse seed preset: %w", err)
	}

	seen := make(map[string]struct{}, len(p.Users))
	for _, u := range p.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("parse seed preset: user with empty username")
		}
		if _, dup := seen[u.Username]; dup {
			return nil, fmt.Errorf("parse seed preset: duplicate username %q", u.Username)
		}
		seen[u.Username] = struct{}{}
	}
	for _, f := range p.Follows {
		if _, ok := seen[f.Follower]; !ok {
			return nil, fmt.Errorf("parse seed preset: unknown follower %q", f.Follower)
		}
		if _, ok := seen[f.Following]; !ok {
			return nil, fmt.Errorf("parse seed preset: unknown following %q", f.Following)
		}
		if f.Follower == f.Following {
			return nil, fmt.Errorf("parse seed preset: %q follows itself", f.Follower)
		}
	}
	return &p, nil
}

// DemoPreset returns the built-in demo preset.
func DemoPreset() (*Preset, error) {
	return ParsePreset(demoPresetYAML)
}
