// Package shaderfile loads shader sources from files, and keeps shaders in
// sync with files edited while the program runs.
package shaderfile

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/shader"
)

var shaderfileLogger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("GLOW_DEBUG_SHADERFILE") == "1" {
		shaderfileLogger = log.New(os.Stdout, "[shaderfile] ", log.Ltime|log.Lmsgprefix)
	}
}

// Load reads the shader source at path.
func Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loading shader: %w", err)
	}
	return string(b), nil
}

// Open returns a shader of type ty with the source at path.
func Open(ty native.Enum, path string) (*shader.Shader, error) {
	source, err := Load(path)
	if err != nil {
		return nil, err
	}
	return shader.New(ty, source), nil
}

// Watcher reloads a shader's source whenever its file changes.
type Watcher struct {
	path   string
	shader *shader.Shader

	fs        *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	reloads atomic.Int64
}

// Watch loads the file at path into s, and again every time it is written
// to or replaced, until the watcher is closed.
func Watch(path string, s *shader.Shader) (*Watcher, error) {
	path = filepath.Clean(path)
	source, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.SetSource(source)

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often save by replacing the file, which ends watches on the
	// file itself.
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{path: path, shader: s, fs: fs, done: make(chan struct{})}
	w.wg.Add(1)
	go w.loop()
	shaderfileLogger.Printf("watching %s", path)
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("WARNING: watching %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) reload() {
	source, err := Load(w.path)
	if err != nil {
		log.Printf("WARNING: reloading %s: %v", w.path, err)
		return
	}
	w.shader.SetSource(source)
	w.reloads.Add(1)
	shaderfileLogger.Printf("reloaded %s (%d bytes)", w.path, len(source))
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Shader returns the shader kept in sync with the file.
func (w *Watcher) Shader() *shader.Shader { return w.shader }

// Reloads returns how many times the file was read since the first load.
func (w *Watcher) Reloads() int { return int(w.reloads.Load()) }

// Close stops watching. The shader keeps its last source.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
