// Package app holds the editor's canonical rectangle model and wires the view,
// the interaction machine, the overlay layer and the renderer together.
//
// All methods except Snapshot, Override and WriteSnapshot must be called from
// the event thread. Those three are safe from any goroutine: reads see the
// last published model and overrides are queued until the event thread calls
// ApplyOverrides.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/irfansharif/extent/internal/export"
	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/interact"
	"github.com/irfansharif/extent/internal/overlay"
	"github.com/irfansharif/extent/internal/palette"
	"github.com/irfansharif/extent/internal/rect"
	"github.com/irfansharif/extent/internal/render"
	"github.com/irfansharif/extent/internal/view"
)

const (
	overrideQueueSize = 16
	snapshotMargin    = 40.0 // pixels around the rectangle in PNG snapshots
	focusMargin       = 80.0
)

// ErrOverrideQueueFull is returned when external edits arrive faster than the
// event thread applies them.
var ErrOverrideQueueFull = errors.New("override queue full")

// Options configures a new App.
type Options struct {
	View      *view.View
	Model     rect.Model
	Style     overlay.Style
	Palette   palette.Palette
	Snap      float64          // rotation snap increment, radians
	Projector export.Projector // defaults to export.WebMercator
	Renderer  *render.Renderer // nil for headless use
	OnChange  func(rect.Model) // optional, called on the event thread
}

// appearance is the overlay styling, shared with the snapshot path.
type appearance struct {
	style   overlay.Style
	palette palette.Palette
}

// App encapsulates the main application state and logic.
type App struct {
	View      *view.View
	Machine   *interact.Machine
	Layer     *overlay.Layer
	Renderer  *render.Renderer
	Projector export.Projector

	look      atomic.Pointer[appearance]
	model     rect.Model
	hover     interact.Hit
	dirty     bool // shapes need re-upload
	onChange  func(rect.Model)
	overrides chan rect.Model
	published atomic.Pointer[rect.Model]
}

// NewApp creates a new application instance.
func NewApp(opts Options) *App {
	if opts.Projector == nil {
		opts.Projector = export.WebMercator
	}
	app := &App{
		View:      opts.View,
		Renderer:  opts.Renderer,
		Projector: opts.Projector,
		onChange:  opts.OnChange,
		overrides: make(chan rect.Model, overrideQueueSize),
	}
	app.look.Store(&appearance{style: opts.Style, palette: opts.Palette})
	app.Machine = interact.NewMachine(interact.Options{SnapIncrement: opts.Snap}, app.setModel)
	app.setModel(opts.Model)
	return app
}

// Model returns the canonical model.
func (app *App) Model() rect.Model { return app.model }

// Snapshot returns the most recently published model.
func (app *App) Snapshot() rect.Model { return *app.published.Load() }

// setModel replaces the canonical model. It is the interaction machine's change
// callback as well as the override path.
func (app *App) setModel(m rect.Model) {
	app.model = m
	app.published.Store(&m)
	app.rebuildLayer()
	if app.onChange != nil {
		app.onChange(m)
	}
}

func (app *App) rebuildLayer() {
	app.Layer = overlay.NewLayer(app.model, app.View.Resolution, app.look.Load().style, app.hover)
	app.dirty = true
}

// ViewChanged must be called after pans and zooms; handle sizes depend on the
// map resolution.
func (app *App) ViewChanged() {
	if app.Layer == nil || app.Layer.Resolution != app.View.Resolution {
		app.rebuildLayer()
	}
}

// hitTest converts a framebuffer position to world coordinates and returns
// the overlay features under it.
func (app *App) hitTest(px geom.Point) (geom.Point, []interact.Hit) {
	world := app.View.PixelToWorld(px)
	return world, app.Layer.HitTest(world)
}

// PointerDown forwards a press. It returns false when the press missed the
// rectangle and the host should pan the map instead.
func (app *App) PointerDown(px geom.Point) bool {
	world, hits := app.hitTest(px)
	return app.Machine.PointerDown(app.model, px, world, hits)
}

// PointerMove forwards pointer motion and tracks the hovered handle.
func (app *App) PointerMove(px geom.Point) bool {
	world, hits := app.hitTest(px)
	handled := app.Machine.PointerMove(app.model, px, world, hits)
	if !app.Machine.Active() {
		hover, _ := interact.PickHit(hits)
		if hover != app.hover {
			app.hover = hover
			app.rebuildLayer()
		}
	}
	return handled
}

// PointerUp forwards a release, then re-evaluates hover at px so the cursor
// hint reflects what is under the pointer rather than the idle default.
func (app *App) PointerUp(px geom.Point) bool {
	world := app.View.PixelToWorld(px)
	handled := app.Machine.PointerUp(app.model, px, world)
	app.PointerMove(px)
	return handled
}

// SetShift records the shift modifier state.
func (app *App) SetShift(held bool) { app.Machine.SetShift(held) }

// Cancel ends any in-progress drag, optionally restoring the model from
// before it began.
func (app *App) Cancel(revert bool) { app.Machine.Cancel(app.model, revert) }

// Cursor returns the pointer-style hint for the host.
func (app *App) Cursor() interact.Cursor { return app.Machine.Cursor() }

// Override queues an externally edited model. It is validated here and
// applied by the next ApplyOverrides call.
func (app *App) Override(m rect.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m = rect.New(m.Center, m.Width, m.Height, m.Angle)
	select {
	case app.overrides <- m:
		return nil
	default:
		return ErrOverrideQueueFull
	}
}

// ApplyOverrides applies queued external edits. An edit arriving mid-drag
// ends the drag; the external model wins. It reports whether anything was
// applied.
func (app *App) ApplyOverrides() bool {
	applied := false
	for {
		select {
		case m := <-app.overrides:
			if app.Machine.Active() {
				log.Printf("external edit ended the %s gesture", app.Machine.State())
				app.Cancel(false /* revert */)
			}
			app.setModel(m)
			applied = true
		default:
			return applied
		}
	}
}

// Properties reports the canonical model for display.
func (app *App) Properties() overlay.Properties {
	return overlay.PropertiesOf(app.model, app.Projector)
}

// Export renders the canonical model as export text.
func (app *App) Export() ([]byte, error) {
	return export.Marshal(app.model, app.Projector)
}

// Import parses export text and applies it as an external edit.
func (app *App) Import(data []byte) error {
	m, err := export.Unmarshal(data, app.Projector)
	if err != nil {
		return err
	}
	if app.Machine.Active() {
		app.Cancel(false /* revert */)
	}
	app.setModel(m)
	return nil
}

// FocusRectangle centers the view on the rectangle and zooms so that it and
// its handles fit the viewport.
func (app *App) FocusRectangle() {
	style := app.look.Load().style
	reach := app.View.PixelsToWorld(style.RotateGapPixels + style.RotateRadiusPixels)
	app.View.Fit(app.model.Bounds().Expand(reach), focusMargin)
	app.ViewChanged()
}

// SetAppearance replaces the overlay styling and the rotation snap step,
// typically after the config file changed.
func (app *App) SetAppearance(style overlay.Style, pal palette.Palette, snap float64) {
	app.look.Store(&appearance{style: style, palette: pal})
	app.Machine.SetOptions(interact.Options{SnapIncrement: snap})
	if app.Renderer != nil {
		app.Renderer.SetPalette(pal)
	}
	app.rebuildLayer()
}

// PrepareRenderer uploads the overlay if it changed since the last call.
func (app *App) PrepareRenderer() error {
	if !app.dirty || app.Renderer == nil {
		return nil
	}
	if err := app.Renderer.Prepare(app.Layer.Shapes); err != nil {
		return fmt.Errorf("preparing overlay: %w", err)
	}
	app.dirty = false
	return nil
}

// WriteSnapshot rasterizes the published model as a PNG of the given size,
// framed so the whole rectangle is visible.
func (app *App) WriteSnapshot(w io.Writer, width, height int) error {
	m := app.Snapshot()
	look := app.look.Load()
	v := view.NewView(width, height, m.Center, 1)
	v.Fit(m.Bounds(), snapshotMargin)
	// Leave room for the rotation handle at the fitted resolution.
	reach := v.PixelsToWorld(look.style.RotateGapPixels + look.style.RotateRadiusPixels)
	v.Fit(m.Bounds().Expand(reach), snapshotMargin)
	shapes := overlay.Build(m, v.Resolution, look.style, interact.Hit{})
	return render.WritePNG(w, shapes, look.palette, v)
}
