package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/extent/internal/app"
	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/interact"
)

const zoomStep = 0.15 // fractional zoom per scroll tick

// EventHandlers translates GLFW input into editor and view operations.
type EventHandlers struct {
	application *app.App
	window      *glfw.Window

	// Left-drag on empty map pans; the last framebuffer position is kept so
	// moves can be applied as deltas.
	isPanning bool
	lastPixel geom.Point

	cursors map[interact.Cursor]*glfw.Cursor
	cursor  interact.Cursor
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(application *app.App, window *glfw.Window) *EventHandlers {
	eh := &EventHandlers{
		application: application,
		window:      window,
		cursors: map[interact.Cursor]*glfw.Cursor{
			interact.CursorMove:       glfw.CreateStandardCursor(glfw.HandCursor),
			interact.CursorResizeNESW: glfw.CreateStandardCursor(glfw.CrosshairCursor),
			interact.CursorResizeNWSE: glfw.CreateStandardCursor(glfw.CrosshairCursor),
			interact.CursorRotate:     glfw.CreateStandardCursor(glfw.CrosshairCursor),
			interact.CursorGrabbing:   glfw.CreateStandardCursor(glfw.HandCursor),
		},
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
		eh.application.SetShift(mods&glfw.ModShift != 0)
		eh.handleMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.handleCursorPos(xpos, ypos)
	})
	window.SetScrollCallback(func(wnd *glfw.Window, _, zoomDelta float64) {
		eh.performZoom(zoomDelta)
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.application.View.SetViewport(newW, newH)
	})
	window.SetFocusCallback(func(wnd *glfw.Window, focused bool) {
		if !focused {
			eh.handleFocusLost()
		}
	})
}

// Cleanup releases the cursors.
func (eh *EventHandlers) Cleanup() {
	for _, c := range eh.cursors {
		c.Destroy()
	}
}

// framebufferPos converts window coordinates to framebuffer pixels.
func (eh *EventHandlers) framebufferPos(xpos, ypos float64) geom.Point {
	scaleX, scaleY := eh.window.GetContentScale()
	return geom.MakePoint(xpos*float64(scaleX), ypos*float64(scaleY))
}

func (eh *EventHandlers) cursorPixel() geom.Point {
	return eh.framebufferPos(eh.window.GetCursorPos())
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	switch key {
	case glfw.KeyLeftShift, glfw.KeyRightShift:
		// GLFW reports the modifier state from before the event.
		eh.application.SetShift(action != glfw.Release)
		eh.refreshPointer()
		return
	}
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		if eh.application.Machine.Active() {
			eh.application.Cancel(true /* revert */)
		}
	case glfw.KeyE:
		eh.handleExportKey()
	case glfw.KeyV:
		eh.handlePasteKey()
	case glfw.KeyR:
		eh.application.FocusRectangle()
	case glfw.KeyEqual:
		if mods&glfw.ModSuper != 0 || mods&glfw.ModControl != 0 {
			eh.performZoom(1)
		}
	case glfw.KeyMinus:
		if mods&glfw.ModSuper != 0 || mods&glfw.ModControl != 0 {
			eh.performZoom(-1)
		}
	}
}

// handleExportKey prints the current extent to stdout and copies it to the
// clipboard.
func (eh *EventHandlers) handleExportKey() {
	out, err := eh.application.Export()
	if err != nil {
		log.Printf("Failed to export rectangle: %v", err)
		return
	}
	fmt.Fprintf(os.Stdout, "---\n%s", out)
	eh.window.SetClipboardString(string(out))
}

// handlePasteKey replaces the rectangle with an extent read from the
// clipboard, in the format the export key writes.
func (eh *EventHandlers) handlePasteKey() {
	text := eh.window.GetClipboardString()
	if text == "" {
		return
	}
	if err := eh.application.Import([]byte(text)); err != nil {
		log.Printf("Failed to import rectangle from clipboard: %v", err)
	}
}

// handleFocusLost abandons any gesture; GLFW will not deliver the release.
func (eh *EventHandlers) handleFocusLost() {
	eh.isPanning = false
	eh.application.SetShift(false)
	eh.application.Cancel(false /* revert */)
}

// handleMouseButton starts and ends rectangle gestures, falling back to
// panning when a press misses the rectangle.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return // nothing to do
	}

	px := eh.cursorPixel()
	switch action {
	case glfw.Press:
		if !eh.application.PointerDown(px) {
			eh.isPanning = true
			eh.lastPixel = px
		}
	case glfw.Release:
		if eh.isPanning {
			eh.isPanning = false
			return
		}
		eh.application.PointerUp(px)
	}
}

// handleCursorPos handles mouse movement.
func (eh *EventHandlers) handleCursorPos(xpos, ypos float64) {
	px := eh.framebufferPos(xpos, ypos)
	if eh.isPanning {
		delta := px.Sub(eh.lastPixel)
		eh.lastPixel = px
		eh.application.View.PanPixels(delta.X, delta.Y)
		return
	}
	eh.application.PointerMove(px)
}

// refreshPointer re-sends the current pointer position, so that modifier
// changes apply without waiting for the mouse to move.
func (eh *EventHandlers) refreshPointer() {
	if eh.isPanning {
		return
	}
	eh.application.PointerMove(eh.cursorPixel())
}

// performZoom handles zoom operations with cursor-centered zooming.
func (eh *EventHandlers) performZoom(zoomDelta float64) {
	eh.application.View.ZoomAt(eh.cursorPixel(), 1.0+zoomDelta*zoomStep)
	eh.application.ViewChanged()
	eh.refreshPointer()
}

// updateCursor applies the interaction's cursor hint to the window.
func (eh *EventHandlers) updateCursor() {
	c := eh.application.Cursor()
	if c == eh.cursor {
		return
	}
	eh.cursor = c
	// A nil cursor restores the default arrow.
	eh.window.SetCursor(eh.cursors[c])
}
