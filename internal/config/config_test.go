package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irfansharif/glow/internal/flow"
	"github.com/irfansharif/glow/internal/resource"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	c, err := cfg.Flow.Controller()
	require.NoError(t, err)
	require.IsType(t, &flow.BandwidthLimited{}, c)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[window]
width = 640

[flow]
mode = "capped"
limit = 4096

[texture]
path = "testdata/board.png"
min_filter = "linear_mipmap_linear"
mipmaps = true

[shader]
fragment = "quad.frag"
watch = true
`)
	require.NoError(t, err)
	require.Equal(t, 640, cfg.Window.Width)
	require.Equal(t, 768, cfg.Window.Height, "unset settings keep their default")
	require.Equal(t, "glow", cfg.Window.Title)
	require.Equal(t, "quad.frag", cfg.Shader.Fragment)
	require.True(t, cfg.Shader.Watch)

	c, err := cfg.Flow.Controller()
	require.NoError(t, err)
	require.Equal(t, flow.Capped{Limit: 4096}, c)

	minFilter, magFilter, err := cfg.Texture.Filters()
	require.NoError(t, err)
	require.Equal(t, resource.LinearMipmapLinear, minFilter)
	require.Equal(t, resource.Linear, magFilter)
}

func TestParseRejects(t *testing.T) {
	for _, tc := range []struct {
		name, data, err string
	}{
		{"unknown key", "[window]\nwidht = 3\n", "unknown settings: window.widht"},
		{"unknown section", "[audio]\nvolume = 3\n", "audio"},
		{"syntax", "[window\n", ""},
		{"size", "[window]\nheight = 0\n", "window: invalid size"},
		{"flow mode", "[flow]\nmode = \"fast\"\n", `unknown mode "fast"`},
		{"capped", "[flow]\nmode = \"capped\"\nlimit = 0\n", "positive limit"},
		{"bandwidth", "[flow]\nmin = 10\nmax = 5\n", "max 5 below min 10"},
		{"filter", "[texture]\nmag_filter = \"linear_mipmap_linear\"\n", "unknown mag filter"},
		{"mipmaps", "[texture]\nmin_filter = \"nearest_mipmap_nearest\"\n", "needs mipmaps"},
		{"wrap", "[texture]\nwrap = \"border\"\n", "unknown wrap mode"},
		{"gradient size", "[texture]\nwidth = -1\n", "texture: invalid size"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.data)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestControllers(t *testing.T) {
	c, err := FlowConfig{Mode: Unlimited}.Controller()
	require.NoError(t, err)
	require.Equal(t, 1e9, c.Allocate(1e9))

	c, err = FlowConfig{Mode: Rationed, Quota: 100, MaxBite: 30}.Controller()
	require.NoError(t, err)
	require.Equal(t, 30.0, c.Allocate(50))
	require.Equal(t, 70.0, c.(*flow.Rationed).Remaining())

	c, err = FlowConfig{Mode: Bandwidth, Rate: 1000, Min: 1, Max: 10}.Controller()
	require.NoError(t, err)
	require.Equal(t, 1000.0, c.(*flow.BandwidthLimited).Rate())
}

func TestLoadAndEncode(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Flow.Mode = Rationed
	cfg.Texture.Wrap = "repeat"

	var b strings.Builder
	require.NoError(t, cfg.Encode(&b))
	path := filepath.Join(dir, "glow.toml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
	wrap, err := loaded.Texture.WrapMode()
	require.NoError(t, err)
	require.Equal(t, resource.Repeat, wrap)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[flow]\nrate = -1\n"), 0o644))
	_, err = Load(bad)
	require.ErrorContains(t, err, "bad.toml: flow: bandwidth mode needs a positive rate")
}
