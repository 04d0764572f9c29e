package main

import (
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/glow/internal/app"
)

const repeatInterval = 125 * time.Millisecond // time between successive regenerations/pans when pressed down
const basePanDistance = 100.0

// EventHandlers manages all event handling for the application.
type EventHandlers struct {
	window      *glfw.Window
	application *app.App

	// Space, or shift+space triggers regenerating the texture (with the shift
	// allowing to go back). If held down, we do so continuously.
	spaceHeld, shiftHeld bool
	lastRegenTime        time.Time

	// J/K/H/L allow panning across through keypresses. They also do so
	// continuously if held.
	panKeyHeld                   bool
	panDirectionX, panDirectionY float64
	lastPanTime                  time.Time

	// Drag/pan state (per-gesture), captured on mouse press.
	isDragging                       bool
	dragStartMouseX, dragStartMouseY float64
	dragStartPanX, dragStartPanY     float64
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(window *glfw.Window, application *app.App) *EventHandlers {
	eh := &EventHandlers{
		window:        window,
		application:   application,
		lastRegenTime: time.Now(),
		lastPanTime:   time.Now(),
	}
	eh.SetupCallbacks(window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods)
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action) // for panning
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.updatePanning(xpos, ypos)
	})
	window.SetScrollCallback(func(wnd *glfw.Window, _, zoomDelta float64) {
		eh.performZoom(zoomDelta) // for zooming
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.application.View.SetViewport(newW, newH) // for window resize
	})
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	switch key {
	case glfw.KeyEscape:
		if action == glfw.Press {
			eh.window.SetShouldClose(true)
		}
	case glfw.KeySpace:
		eh.handleRegenerationKeys(action, mods)
	case glfw.KeyR:
		if action == glfw.Press {
			eh.application.View.Reset()
		}
	case glfw.KeyF:
		if action == glfw.Press {
			mode, err := eh.application.CycleFlow()
			if err != nil {
				log.Printf("WARNING: switching flow mode: %v", err)
				return
			}
			runtimeLogger.Printf("flow mode: %s", mode)
		}
	case glfw.KeyJ:
		eh.handlePanKeys(action, 0 /*dx*/, -1 /*dy*/) // pan down
	case glfw.KeyK:
		eh.handlePanKeys(action, 0 /*dx*/, 1 /*dy*/) // pan up
	case glfw.KeyH:
		eh.handlePanKeys(action, 1 /*dx*/, 0 /*dy*/) // pan right
	case glfw.KeyL:
		eh.handlePanKeys(action, -1 /*dx*/, 0 /*dy*/) // pan left
	case glfw.KeyEqual:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(1) // zoom in
		}
	case glfw.KeyMinus:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(-1) // zoom out
		}
	}
}

// handleRegenerationKeys handles space and shift+space presses/releases.
func (eh *EventHandlers) handleRegenerationKeys(action glfw.Action, mods glfw.ModifierKey) {
	shiftHeld := (mods & glfw.ModShift) != 0

	switch action {
	case glfw.Press:
		eh.shiftHeld = shiftHeld
		eh.spaceHeld = !shiftHeld
		eh.regenerate(!shiftHeld)
		eh.lastRegenTime = time.Now()

	case glfw.Release:
		eh.spaceHeld = false
		eh.shiftHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous regeneration ourselves to
		// ensure consistent timing.
	}
}

func (eh *EventHandlers) regenerate(increment bool) {
	if increment {
		eh.application.Regenerate(1)
	} else {
		eh.application.Regenerate(-1)
	}
}

// handlePanKeys handles j/k/h/l key presses, and also releases for
// continuous panning.
func (eh *EventHandlers) handlePanKeys(action glfw.Action, dx, dy float64) {
	switch action {
	case glfw.Press:
		eh.panKeyHeld = true
		eh.panDirectionX = dx
		eh.panDirectionY = dy
		eh.application.View.PanBy(dx*basePanDistance, dy*basePanDistance)
		eh.lastPanTime = time.Now()

	case glfw.Release:
		eh.panKeyHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous panning ourselves to
		// ensure consistent timing.
	}
}

// handleContinuousRegeneration handles continuous regeneration while space is held.
func (eh *EventHandlers) handleContinuousRegeneration() {
	if !(eh.spaceHeld || eh.shiftHeld) {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastRegenTime) < repeatInterval {
		return // not enough time has passed since the last regeneration
	}

	eh.regenerate(eh.spaceHeld /* increment */)
	eh.lastRegenTime = now
}

// handleContinuousPanning handles continuous panning while pan keys are held.
func (eh *EventHandlers) handleContinuousPanning() {
	if !eh.panKeyHeld {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastPanTime) < repeatInterval {
		return // not enough time has passed since the last pan
	}

	eh.application.View.PanBy(eh.panDirectionX*basePanDistance, eh.panDirectionY*basePanDistance)
	eh.lastPanTime = now
}

// handleMouseButton handles mouse button events for panning.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return // nothing to do
	}

	switch action {
	case glfw.Press:
		eh.isDragging = true
		eh.dragStartMouseX, eh.dragStartMouseY = eh.window.GetCursorPos()
		view := eh.application.View
		eh.dragStartPanX, eh.dragStartPanY = view.PanX, view.PanY
	case glfw.Release:
		eh.isDragging = false
	}
}

// updatePanning updates pan position based on mouse movement.
func (eh *EventHandlers) updatePanning(xpos, ypos float64) {
	if !eh.isDragging {
		return
	}

	scaleX, scaleY := eh.window.GetContentScale()
	dx := (xpos - eh.dragStartMouseX) * float64(scaleX)
	dy := (ypos - eh.dragStartMouseY) * float64(scaleY)
	eh.application.View.SetPan(eh.dragStartPanX+dx, eh.dragStartPanY+dy)
}

// performZoom zooms around the cursor.
func (eh *EventHandlers) performZoom(zoomDelta float64) {
	mouseX, mouseY := eh.window.GetCursorPos()
	scaleX, scaleY := eh.window.GetContentScale()
	eh.application.View.ZoomAt(zoomDelta, mouseX*float64(scaleX), mouseY*float64(scaleY))
}
