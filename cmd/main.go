package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/loov/hrtime"

	"github.com/irfansharif/glow/internal/app"
	"github.com/irfansharif/glow/internal/config"
	"github.com/irfansharif/glow/internal/native/opengl"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

var (
	configPath = flag.String("config", "", "path to a TOML config file")
	dumpConfig = flag.Bool("dump-config", false, "print the effective config and exit")
)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("GLOW_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

func makeTitle(title string, fps, avgFrameTime float64, stats app.Stats) string {
	progress := "done"
	if stats.Uploading {
		progress = fmt.Sprintf("%.1fMiB so far", float64(stats.Texture.BytesUploaded)/(1024.0*1024.0))
	}
	return fmt.Sprintf("%s (%.1f FPS, %.2fms/frame, seed %d, %s flow, upload %s, %d chunks, %d deferred)",
		title,
		fps,
		avgFrameTime,
		stats.Seed,
		stats.FlowMode,
		progress,
		stats.Texture.Chunks,
		stats.Texture.Deferred,
	)
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if s, ok := seed(); ok {
		cfg.Texture.Seed = s
	}
	if *dumpConfig {
		if err := cfg.Encode(os.Stdout); err != nil {
			log.Fatalf("Failed to encode config: %v", err)
		}
		return
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}
	runtimeLogger.Printf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	cw, ch := window.GetFramebufferSize()
	application, err := app.New(opengl.New(), cfg, app.NewView(cw, ch))
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer application.Close()

	// Initialize event handlers.
	eventHandlers := NewEventHandlers(window, application)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()
	lastStatus := ""
	start := hrtime.Now()

	// Main loop.
	for !window.ShouldClose() {
		frameStart := hrtime.Now()

		eventHandlers.handleContinuousRegeneration()
		eventHandlers.handleContinuousPanning()

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		if err := application.Frame(hrtime.Since(start)); err != nil {
			if status := err.Error(); status != lastStatus {
				log.Printf("WARNING: %s", status)
				lastStatus = status
			}
		} else {
			lastStatus = ""
		}
		window.SwapBuffers()
		glfw.PollEvents()

		frameTime := hrtime.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			stats := application.Stats()
			window.SetTitle(makeTitle(cfg.Window.Title, fps, avgFrameTime, stats))

			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame)", fps, avgFrameTime)
			runtimeLogger.Printf("Texture:        %d bytes in %d chunks, %d deferred, uploading=%t", stats.Texture.BytesUploaded, stats.Texture.Chunks, stats.Texture.Deferred, stats.Uploading)
			runtimeLogger.Printf("Vertices:       %d draws, %d vertices, %.2f KiB", stats.Vertex.Draws, stats.Vertex.Vertices, float64(stats.Vertex.Bytes)/1024.0)
			runtimeLogger.Printf("Shaders:        %d reloads, status %q", stats.Reloads, stats.ProgramStatus)
			runtimeLogger.Println("==============================")
		}
	}
}

// seed returns the gradient seed from GLOW_SEED, if set.
func seed() (int64, bool) {
	seedStr := os.Getenv("GLOW_SEED")
	if seedStr == "" {
		return 0, false
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid GLOW_SEED value '%s': %v", seedStr, err)
	}
	return seed, true
}
