package carousel

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Preset names used by the page sections.
const (
	Clients      = "clients"
	Services     = "services"
	Products     = "products"
	Testimonials = "testimonials"
	Blog         = "blog"
	Gallery      = "gallery"
)

// Presets maps a section name to its carousel configuration.
type Presets map[string]Config

// DefaultPresets returns the embedded presets.
func DefaultPresets() (Presets, error) {
	return parsePresets(defaultPresets)
}

// LoadPresets returns the embedded presets, with any section defined in the
// file at path replacing the embedded one. An empty path loads defaults only.
func LoadPresets(path string) (Presets, error) {
	presets, err := DefaultPresets()
	if err != nil {
		return nil, fmt.Errorf("embedded presets: %w", err)
	}
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carousel presets: %w", err)
	}
	overrides, err := parsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, cfg := range overrides {
		presets[name] = cfg
	}
	return presets, nil
}

func parsePresets(data []byte) (Presets, error) {
	var raw map[string]Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	presets := make(Presets, len(raw))
	for name, cfg := range raw {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		presets[name] = cfg
	}
	return presets, nil
}

// Get returns the named preset, or a single-slide carousel when unknown.
func (p Presets) Get(name string) Config {
	if cfg, ok := p[name]; ok {
		return cfg
	}
	return Config{SlidesPerView: 1}
}

// For fits the named preset to count items.
func (p Presets) For(name string, count int) View {
	return p.Get(name).Effective(count)
}
