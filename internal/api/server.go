// Package api exposes the editor's rectangle over HTTP so scripts can read
// the current extent, push edits and fetch a rendered preview.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/irfansharif/extent/internal/export"
	"github.com/irfansharif/extent/internal/overlay"
	"github.com/irfansharif/extent/internal/rect"
)

const (
	defaultSnapshotSize = 512
	maxSnapshotSize     = 4096
)

// Controller is the editor state the server reads and edits. Implementations
// must be safe for use from the server's goroutines.
type Controller interface {
	// Snapshot returns the last published model.
	Snapshot() rect.Model
	// Override queues an external edit. It returns an error wrapping
	// rect.ErrInvalidModel when m is rejected.
	Override(m rect.Model) error
	// WriteSnapshot renders the last published model as a PNG.
	WriteSnapshot(w io.Writer, width, height int) error
}

// Options configures the server.
type Options struct {
	Projector export.Projector
	AccessLog bool
}

type server struct {
	ctrl Controller
	proj export.Projector
}

// New builds the HTTP application. Callers start it with Listen.
func New(ctrl Controller, opts Options) *fiber.App {
	if opts.Projector == nil {
		opts.Projector = export.WebMercator
	}
	s := &server{ctrl: ctrl, proj: opts.Projector}

	app := fiber.New(fiber.Config{AppName: "extent"})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/rectangle", s.getRectangle)
	app.Put("/rectangle", s.putRectangle)
	app.Get("/rectangle/properties", s.getProperties)
	app.Get("/rectangle/export", s.getExport)
	app.Put("/rectangle/export", s.putExport)
	app.Get("/rectangle/snapshot.png", s.getSnapshot)
	return app
}

func errorJSON(c fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *server) getRectangle(c fiber.Ctx) error {
	return c.JSON(s.ctrl.Snapshot())
}

func (s *server) putRectangle(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, errors.New("body required"))
	}
	var m rect.Model
	if err := json.Unmarshal(c.Body(), &m); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}
	return s.override(c, m)
}

func (s *server) getProperties(c fiber.Ctx) error {
	return c.JSON(overlay.PropertiesOf(s.ctrl.Snapshot(), s.proj))
}

func (s *server) getExport(c fiber.Ctx) error {
	out, err := export.Marshal(s.ctrl.Snapshot(), s.proj)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err)
	}
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.Send(out)
}

func (s *server) putExport(c fiber.Ctx) error {
	m, err := export.Unmarshal(c.Body(), s.proj)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}
	return s.override(c, m)
}

func (s *server) override(c fiber.Ctx, m rect.Model) error {
	if err := s.ctrl.Override(m); err != nil {
		if errors.Is(err, rect.ErrInvalidModel) {
			return errorJSON(c, fiber.StatusBadRequest, err)
		}
		log.Printf("override rejected: %v", err)
		return errorJSON(c, fiber.StatusServiceUnavailable, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(m)
}

// sizeParam reads an optional pixel dimension from the query string.
func sizeParam(c fiber.Ctx, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return defaultSnapshotSize, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > maxSnapshotSize {
		return 0, errors.New(key + " out of range")
	}
	return n, nil
}

func (s *server) getSnapshot(c fiber.Ctx) error {
	width, err := sizeParam(c, "width")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}
	height, err := sizeParam(c, "height")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}
	var buf bytes.Buffer
	if err := s.ctrl.WriteSnapshot(&buf, width, height); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}
