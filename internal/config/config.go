// Package config holds the settings of the demo: window, upload flow
// control, texture and shaders. Settings are read from TOML files on top of
// the defaults.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/irfansharif/glow/internal/flow"
	"github.com/irfansharif/glow/internal/resource"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Flow    FlowConfig    `toml:"flow"`
	Texture TextureConfig `toml:"texture"`
	Shader  ShaderConfig  `toml:"shader"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// Flow modes.
const (
	Unlimited = "unlimited"
	Capped    = "capped"
	Rationed  = "rationed"
	Bandwidth = "bandwidth"
)

// FlowConfig selects how many bytes of texture uploads a frame may carry.
type FlowConfig struct {
	Mode string `toml:"mode"`
	// Limit is the per-request cap of the capped mode, in bytes.
	Limit int `toml:"limit"`
	// Quota and MaxBite configure the rationed mode.
	Quota   int `toml:"quota"`
	MaxBite int `toml:"max_bite"`
	// Rate, in bytes per second, and the smallest and largest grants of the
	// bandwidth mode. A Max of zero leaves grants unbounded.
	Rate float64 `toml:"rate"`
	Min  int     `toml:"min"`
	Max  int     `toml:"max"`
}

// TextureConfig describes the streamed texture. Without a Path a gradient
// of Width x Height is generated from Seed.
type TextureConfig struct {
	Path      string `toml:"path"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Seed      int64  `toml:"seed"`
	MinFilter string `toml:"min_filter"`
	MagFilter string `toml:"mag_filter"`
	Wrap      string `toml:"wrap"`
	Mipmaps   bool   `toml:"mipmaps"`
}

// ShaderConfig points at shader files. Empty paths use the built-in
// shaders.
type ShaderConfig struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	Watch    bool   `toml:"watch"`
	Lenient  bool   `toml:"lenient"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{Title: "glow", Width: 1024, Height: 768, VSync: true},
		Flow: FlowConfig{
			Mode:  Bandwidth,
			Limit: 64 << 10,
			Quota: 16 << 20,
			Rate:  32 << 20,
			Min:   4 << 10,
			Max:   1 << 20,
		},
		Texture: TextureConfig{
			Width:     2048,
			Height:    2048,
			Seed:      1,
			MinFilter: "linear",
			MagFilter: "linear",
			Wrap:      "clamp",
		},
	}
}

// Parse reads TOML settings over the defaults. Unknown keys are errors.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown settings: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown setting %s", path, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (cfg Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}

func (cfg Config) Validate() error {
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window: invalid size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if _, err := cfg.Flow.Controller(); err != nil {
		return err
	}
	if cfg.Texture.Path == "" && (cfg.Texture.Width <= 0 || cfg.Texture.Height <= 0) {
		return fmt.Errorf("texture: invalid size %dx%d", cfg.Texture.Width, cfg.Texture.Height)
	}
	if _, _, err := cfg.Texture.Filters(); err != nil {
		return err
	}
	if _, err := cfg.Texture.WrapMode(); err != nil {
		return err
	}
	return nil
}

// Controller returns the flow controller the settings describe.
func (c FlowConfig) Controller() (flow.Controller, error) {
	switch c.Mode {
	case Unlimited, "":
		return flow.Unlimited{}, nil
	case Capped:
		if c.Limit <= 0 {
			return nil, fmt.Errorf("flow: capped mode needs a positive limit, got %d", c.Limit)
		}
		return flow.Capped{Limit: float64(c.Limit)}, nil
	case Rationed:
		if c.Quota < 0 {
			return nil, fmt.Errorf("flow: negative quota %d", c.Quota)
		}
		return flow.NewRationed(float64(c.Quota), float64(c.MaxBite)), nil
	case Bandwidth:
		if c.Rate <= 0 {
			return nil, fmt.Errorf("flow: bandwidth mode needs a positive rate, got %g", c.Rate)
		}
		if c.Max > 0 && c.Max < c.Min {
			return nil, fmt.Errorf("flow: max %d below min %d", c.Max, c.Min)
		}
		return flow.NewBandwidthLimited(c.Rate, float64(c.Min), float64(c.Max)), nil
	default:
		return nil, fmt.Errorf("flow: unknown mode %q", c.Mode)
	}
}

var filters = map[string]resource.Filter{
	"nearest":                resource.Nearest,
	"linear":                 resource.Linear,
	"nearest_mipmap_nearest": resource.NearestMipmapNearest,
	"linear_mipmap_nearest":  resource.LinearMipmapNearest,
	"nearest_mipmap_linear":  resource.NearestMipmapLinear,
	"linear_mipmap_linear":   resource.LinearMipmapLinear,
}

// Filters returns the minification and magnification filters.
func (c TextureConfig) Filters() (minFilter, magFilter resource.Filter, err error) {
	minFilter, ok := filters[c.MinFilter]
	if !ok {
		return 0, 0, fmt.Errorf("texture: unknown min filter %q", c.MinFilter)
	}
	magFilter, ok = filters[c.MagFilter]
	if !ok || (magFilter != resource.Nearest && magFilter != resource.Linear) {
		return 0, 0, fmt.Errorf("texture: unknown mag filter %q", c.MagFilter)
	}
	if minFilter != resource.Nearest && minFilter != resource.Linear && !c.Mipmaps {
		return 0, 0, fmt.Errorf("texture: min filter %q needs mipmaps", c.MinFilter)
	}
	return minFilter, magFilter, nil
}

// WrapMode returns the wrap mode used for all texture coordinates.
func (c TextureConfig) WrapMode() (resource.Wrap, error) {
	switch c.Wrap {
	case "repeat":
		return resource.Repeat, nil
	case "mirror":
		return resource.Mirror, nil
	case "clamp", "":
		return resource.ClampToEdge, nil
	}
	return 0, fmt.Errorf("texture: unknown wrap mode %q", c.Wrap)
}
