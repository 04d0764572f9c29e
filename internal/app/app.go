// Package app is the demo application: a textured quad whose texture is
// streamed through a flow controller, drawn by a program whose shaders may
// be edited while it runs.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/irfansharif/glow/internal/config"
	"github.com/irfansharif/glow/internal/flow"
	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/pixels"
	"github.com/irfansharif/glow/internal/resource"
	"github.com/irfansharif/glow/internal/shader"
	"github.com/irfansharif/glow/internal/shaderfile"
	"github.com/irfansharif/glow/internal/uniform"
	"github.com/irfansharif/glow/internal/vertex"
)

var appLogger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("GLOW_DEBUG_APP") == "1" {
		appLogger = log.New(os.Stdout, "[app] ", log.Ltime|log.Lmsgprefix)
	}
}

// Names of the globals the demo shaders read.
const (
	TimeGlobal      = "Time"
	TintGlobal      = "Tint"
	TransformGlobal = "Transform"
)

var flowModes = []string{config.Unlimited, config.Capped, config.Rationed, config.Bandwidth}

// App encapsulates the main application state and logic. Everything but
// View and the globals must be used from the goroutine owning the GPU
// context.
type App struct {
	fn  native.Functions
	cfg config.Config

	View    *View
	Globals *uniform.Registry
	clock   *uniform.Global
	tint    *uniform.Global

	Program  *shader.Program
	watchers []*shaderfile.Watcher
	image    *shader.Uniform
	position *shader.Attribute
	texcoord *shader.Attribute

	Texture   *resource.Texture
	source    resource.PixelSource
	seed      int64
	uploading bool

	quad *vertex.Arrays
}

// New builds the demo from cfg. Nothing touches the GPU before the first
// Frame.
func New(fn native.Functions, cfg config.Config, view *View) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{
		fn:      fn,
		cfg:     cfg,
		View:    view,
		Globals: uniform.NewRegistry(),
		seed:    cfg.Texture.Seed,
		quad:    vertex.NewArrays(fn),
	}
	var err error
	if app.clock, err = app.Globals.Declare(TimeGlobal); err != nil {
		return nil, err
	}
	if app.tint, err = app.Globals.Declare(TintGlobal); err != nil {
		return nil, err
	}
	if _, err = app.Globals.Declare(TransformGlobal); err != nil {
		return nil, err
	}
	app.tint.Set(uniform.OfVec4(1, 1, 1, 0))

	vs, err := app.shader(native.VERTEX_SHADER, cfg.Shader.Vertex, vertexShaderSource)
	if err != nil {
		app.Close()
		return nil, err
	}
	fs, err := app.shader(native.FRAGMENT_SHADER, cfg.Shader.Fragment, fragmentShaderSource)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Program = shader.NewProgram(fn, app.Globals, vs, fs)
	for _, name := range []string{TimeGlobal, TintGlobal, TransformGlobal} {
		app.Program.Uniform(name).SetLenient(cfg.Shader.Lenient)
	}
	app.image = app.Program.Uniform("image").SetLenient(true)
	app.position = app.Program.Attribute("position")
	app.texcoord = app.Program.Attribute("texcoord")

	controller, err := cfg.Flow.Controller()
	if err != nil {
		app.Close()
		return nil, err
	}
	minFilter, magFilter, err := cfg.Texture.Filters()
	if err != nil {
		app.Close()
		return nil, err
	}
	wrap, err := cfg.Texture.WrapMode()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Texture = resource.NewTexture(fn).
		SetFlow(controller).
		SendMinFilter(minFilter).
		SendMagFilter(magFilter).
		SendWrap(wrap)

	if cfg.Texture.Path != "" {
		img, err := pixels.Load(cfg.Texture.Path)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.stream(img)
	} else {
		app.Regenerate(0)
	}
	return app, nil
}

// shader returns a shader with the source at path, or the built-in source
// if there is no path.
func (app *App) shader(ty native.Enum, path, builtin string) (*shader.Shader, error) {
	if path == "" {
		return shader.New(ty, builtin), nil
	}
	if !app.cfg.Shader.Watch {
		return shaderfile.Open(ty, path)
	}
	s := shader.New(ty, "")
	w, err := shaderfile.Watch(path, s)
	if err != nil {
		return nil, err
	}
	app.watchers = append(app.watchers, w)
	return s, nil
}

func (app *App) stream(src resource.PixelSource) {
	app.source = src
	app.Texture.SendSource(src)
	app.uploading = true
}

// Regenerate streams a new gradient, from the seed delta away from the
// current one. Loaded images are replaced too.
func (app *App) Regenerate(delta int64) {
	app.seed += delta
	r := rand.New(rand.NewSource(app.seed))
	stops := pixels.RandomStops(r)
	app.stream(pixels.NewGradient(app.cfg.Texture.Width, app.cfg.Texture.Height, stops...))

	accent := stops[2].Color
	app.tint.Set(uniform.OfVec4(float32(accent.R), float32(accent.G), float32(accent.B), 1))
	appLogger.Printf("regenerated %dx%d texture from seed %d", app.cfg.Texture.Width, app.cfg.Texture.Height, app.seed)
}

// Seed returns the seed of the current gradient.
func (app *App) Seed() int64 { return app.seed }

// CycleFlow switches uploads to the next flow mode, and returns it.
func (app *App) CycleFlow() (string, error) {
	next := flowModes[0]
	for i, mode := range flowModes {
		if mode == app.cfg.Flow.Mode {
			next = flowModes[(i+1)%len(flowModes)]
		}
	}
	cfg := app.cfg.Flow
	cfg.Mode = next
	controller, err := cfg.Controller()
	if err != nil {
		return "", err
	}
	app.cfg.Flow = cfg
	app.Texture.SetFlow(controller)
	return next, nil
}

// Frame draws one frame at time now since start. The caller clears and
// sizes the viewport.
func (app *App) Frame(now time.Duration) error {
	app.clock.Set(uniform.OfFloat(float32(now.Seconds())))
	app.Globals.Get(TransformGlobal).Set(uniform.OfMat4(app.View.Transform()))

	// Rationed uploads get a fresh allowance every frame.
	if r, ok := app.Texture.Flow().(*flow.Rationed); ok && app.cfg.Flow.Limit > 0 {
		r.Permit(float64(app.cfg.Flow.Limit))
	}

	app.Texture.Bind(native.TEXTURE_2D)
	if app.uploading && len(app.Texture.Transfers()) == 0 {
		app.uploading = false
		if app.cfg.Texture.Mipmaps {
			app.Texture.SendGenerateMipmap()
		}
	}
	if status := app.Texture.Status(); status != "" {
		return fmt.Errorf("texture: %s", status)
	}

	var errs []error
	if err := app.Program.Use(); err != nil {
		errs = append(errs, err)
	}
	if err := app.image.Set(uniform.OfInt(0)); err != nil {
		errs = append(errs, err)
	}

	w, h := float32(app.source.Width())/2, float32(app.source.Height())/2
	err := app.quad.Begin(native.TRIANGLE_FAN).
		Attribute(app.position).Vec2(-w, -h).Vec2(w, -h).Vec2(w, h).Vec2(-w, h).
		Attribute(app.texcoord).Vec2(0, 0).Vec2(1, 0).Vec2(1, 1).Vec2(0, 1).
		Draw()
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Stats summarizes the state of the demo.
type Stats struct {
	Texture       resource.Stats
	Uploading     bool
	Vertex        vertex.Stats
	ProgramStatus string
	Reloads       int
	FlowMode      string
	Seed          int64
}

func (app *App) Stats() Stats {
	s := Stats{
		Texture:       app.Texture.Stats(),
		Uploading:     app.uploading,
		Vertex:        app.quad.Stats(),
		ProgramStatus: app.Program.Status(),
		FlowMode:      app.cfg.Flow.Mode,
		Seed:          app.seed,
	}
	for _, w := range app.watchers {
		s.Reloads += w.Reloads()
	}
	return s
}

// Close stops watching shader files and releases the native objects.
func (app *App) Close() {
	for _, w := range app.watchers {
		if err := w.Close(); err != nil {
			log.Printf("WARNING: closing watcher for %s: %v", w.Path(), err)
		}
	}
	app.watchers = nil
	if app.Program != nil {
		app.Program.Delete()
	}
	if app.Texture != nil {
		app.Texture.Delete()
	}
	app.quad.Delete()
}
