// Package config holds the engine start-up parameters: window, resource
// search paths, timing and logging. Parameters come from defaults, an
// optional YAML file and command-line flags, applied in that order.
package config

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Parameters struct {
	WindowTitle  string `yaml:"window_title"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	FullScreen   bool   `yaml:"fullscreen"`
	Resizable    bool   `yaml:"resizable"`
	VSync        bool   `yaml:"vsync"`

	// ResourcePrefixPaths are searched in order; each is combined with every
	// entry of ResourcePaths.
	ResourcePrefixPaths []string `yaml:"resource_prefix_paths"`
	ResourcePaths       []string `yaml:"resource_paths"`

	// MaxTimeStep caps the per-frame time step in seconds.
	MaxTimeStep float32 `yaml:"max_timestep"`

	ShadowMapSize int    `yaml:"shadow_map_size"`
	LogLevel      string `yaml:"log_level"`
}

func Default() Parameters {
	return Parameters{
		WindowTitle:         "Terrain",
		WindowWidth:         1024,
		WindowHeight:        768,
		Resizable:           false,
		VSync:               true,
		ResourcePrefixPaths: []string{"."},
		ResourcePaths:       []string{"Data", "CoreData"},
		MaxTimeStep:         0.25,
		ShadowMapSize:       2048,
		LogLevel:            "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Parameters, error) {
	p := Default()
	err := p.LoadFile(path)
	return p, err
}

// LoadFile overlays the YAML file at path on p and validates the result. A
// missing file leaves p unchanged.
func (p *Parameters) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return p.Validate()
}

// Validate rejects values the engine cannot start with.
func (p *Parameters) Validate() error {
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		return errors.Errorf("invalid window size %dx%d", p.WindowWidth, p.WindowHeight)
	}
	if p.MaxTimeStep <= 0 {
		return errors.Errorf("max_timestep must be positive, got %g", p.MaxTimeStep)
	}
	if p.ShadowMapSize < 0 {
		return errors.Errorf("shadow_map_size must not be negative, got %d", p.ShadowMapSize)
	}
	return nil
}

// BindFlags registers overrides on fs. Values are applied to p when fs is
// parsed.
func (p *Parameters) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&p.WindowWidth, "width", p.WindowWidth, "window width")
	fs.IntVar(&p.WindowHeight, "height", p.WindowHeight, "window height")
	fs.BoolVar(&p.FullScreen, "fullscreen", p.FullScreen, "run fullscreen")
	fs.BoolVar(&p.VSync, "vsync", p.VSync, "wait for vertical sync")
	fs.StringVar(&p.LogLevel, "log-level", p.LogLevel, "log level (debug, info, warn, error)")
	fs.Func("prefix", "resource prefix paths separated by ';'", func(s string) error {
		p.ResourcePrefixPaths = ParsePathList(s)
		return nil
	})
	fs.Func("resources", "resource directories separated by ';'", func(s string) error {
		p.ResourcePaths = ParsePathList(s)
		return nil
	})
}

// ParsePathList splits a ';'-separated list and drops blank entries.
func ParsePathList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
