package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gofiber/fiber/v3"

	"github.com/irfansharif/extent/internal/api"
	"github.com/irfansharif/extent/internal/app"
	"github.com/irfansharif/extent/internal/config"
	"github.com/irfansharif/extent/internal/export"
	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/memory"
	"github.com/irfansharif/extent/internal/overlay"
	"github.com/irfansharif/extent/internal/palette"
	"github.com/irfansharif/extent/internal/rect"
	"github.com/irfansharif/extent/internal/render"
	"github.com/irfansharif/extent/internal/view"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

var (
	configPath = flag.String("config", "extent.toml", "path to an optional TOML config file")
	httpAddr   = flag.String("http", "", "address for the properties server, overriding the config (\"off\" disables it)")
)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("EXTENT_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

// appearanceFor derives the overlay styling from the config. Handle sizes are
// configured in screen points and scaled to framebuffer pixels.
func appearanceFor(cfg config.Config, contentScale float32) (overlay.Style, palette.Palette, error) {
	hue, err := palette.Hex(cfg.Window.Accent)
	if err != nil {
		return overlay.Style{}, palette.Palette{}, fmt.Errorf("invalid accent color: %w", err)
	}
	scale := float64(contentScale)
	style := overlay.Style{
		HandlePixels:       cfg.Handles.SizePixels * scale,
		RotateGapPixels:    cfg.Handles.RotateGapPixels * scale,
		RotateRadiusPixels: cfg.Handles.RotateRadius * scale,
		LinePixels:         cfg.Handles.LinePixels * scale,
	}
	return style, palette.FromHue(hue), nil
}

func makeTitle(props overlay.Properties, fps float64) string {
	return fmt.Sprintf("Extent (%s, %.1f FPS)", props, fps)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	switch *httpAddr {
	case "":
	case "off":
		cfg.HTTP.Addr = ""
	default:
		cfg.HTTP.Addr = *httpAddr
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
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, "Extent", nil, nil)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}
	gl.Enable(gl.MULTISAMPLE)

	buffer, err := memory.NewVertexBuffer()
	if err != nil {
		log.Fatalf("Failed to initialize overlay buffer: %v", err)
	}
	defer buffer.Cleanup()

	center := export.WebMercator.FromLonLat(geom.MakePoint(cfg.Window.Lon, cfg.Window.Lat))
	cw, ch := window.GetFramebufferSize()
	scaleX, _ := window.GetContentScale()
	style, pal, err := appearanceFor(cfg, scaleX)
	if err != nil {
		log.Fatalf("Failed to configure overlay: %v", err)
	}
	application := app.NewApp(app.Options{
		// Resolution is configured per screen point; the framebuffer may be denser.
		View: view.NewView(cw, ch, center, cfg.Window.Resolution/float64(scaleX)),
		Model: rect.New(center,
			cfg.Rectangle.Width, cfg.Rectangle.Height,
			geom.DegreesToRadians(cfg.Rectangle.AngleDegrees)),
		Style:    style,
		Palette:  pal,
		Snap:     geom.DegreesToRadians(cfg.Handles.SnapDegrees),
		Renderer: render.NewRenderer(buffer, pal),
	})

	if cfg.HTTP.Addr != "" {
		srv := api.New(application, api.Options{AccessLog: os.Getenv("EXTENT_DEBUG_RUNTIME") == "1"})
		go func() {
			log.Printf("Serving rectangle properties on http://%s", cfg.HTTP.Addr)
			if err := srv.Listen(cfg.HTTP.Addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				log.Printf("Properties server stopped: %v", err)
			}
		}()
		defer func() {
			if err := srv.Shutdown(); err != nil {
				log.Printf("Failed to stop properties server: %v", err)
			}
		}()
	}

	// Config edits are loaded on the watcher goroutine and applied here, on
	// the event thread.
	reloads := make(chan config.Config, 1)
	if watcher, err := config.NewWatcher(*configPath, func(next config.Config, err error) {
		if err != nil {
			log.Printf("Ignoring config change: %v", err)
			return
		}
		select {
		case reloads <- next:
		default:
		}
	}); err != nil {
		log.Printf("Not watching %s for changes: %v", *configPath, err)
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
		defer func() {
			cancel()
			_ = watcher.Close()
		}()
	}

	eventHandlers := NewEventHandlers(application, window)
	defer eventHandlers.Cleanup()

	frameCount := 0
	lastFPSUpdate := time.Now()
	fps := 0.0
	title := ""

	// Main loop.
	for !window.ShouldClose() {
		select {
		case next := <-reloads:
			scale, _ := window.GetContentScale()
			if style, pal, err := appearanceFor(next, scale); err != nil {
				log.Printf("Ignoring config change: %v", err)
			} else {
				application.SetAppearance(style, pal, geom.DegreesToRadians(next.Handles.SnapDegrees))
				log.Printf("Reloaded overlay settings from %s", *configPath)
			}
		default:
		}
		if application.ApplyOverrides() {
			runtimeLogger.Printf("applied external edit: %s", application.Model())
		}
		if err := application.PrepareRenderer(); err != nil {
			log.Fatalf("Failed to prepare overlay: %v", err)
		}

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0.96, 0.96, 0.94, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		if err := application.Renderer.Draw(application.View); err != nil {
			log.Fatalf("Failed to draw overlay: %v", err)
		}
		window.SwapBuffers()
		glfw.PollEvents()
		eventHandlers.updateCursor()

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps = float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			frameCount = 0
			lastFPSUpdate = now

			renderStats := application.Renderer.Stats()
			memStats := buffer.Stats()
			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS", fps)
			runtimeLogger.Printf("Overlay:        %d triangles, %d/%d vertices, %d uploads", renderStats.Triangles, memStats.Vertices, memStats.CapacityVertices, memStats.Uploads)
			runtimeLogger.Printf("GPU memory:     %.2f KiB (%d growth events)", float64(memStats.GPUBytes)/1024.0, memStats.GrowthEvents)
			runtimeLogger.Printf("Render time:    %.2f µs (last draw), %.2f ms (last prepare)", renderStats.LastDrawTimeUs, renderStats.LastPrepareTimeMs)
			runtimeLogger.Printf("Interaction:    %s, cursor %s", application.Machine.State(), application.Cursor())
			runtimeLogger.Println("==============================")
		}

		if t := makeTitle(application.Properties(), fps); t != title {
			title = t
			window.SetTitle(title)
		}
	}
}
