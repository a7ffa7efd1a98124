package handlers

import (
	"githubActivityFeed/internal/eventrow"
	"githubActivityFeed/internal/events"
	"githubActivityFeed/internal/logger"
	"githubActivityFeed/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type HTTP struct {
	service events.Service
}

func NewHTTP(s events.Service) *HTTP {
	return &HTTP{
		service: s,
	}
}

func (h *HTTP) Register(app *fiber.App) {
	app.Get("/events/:id", h.GetEventById)
	app.Get("/events", h.GetEvents)

	app.Get("/feed", h.GetFeed)
	app.Get("/feed/:id", h.GetRow)
	app.Post("/feed/:id/tap", h.Tap)
	app.Post("/feed/:id/select/:sha", h.SelectCommit)
}

func (h *HTTP) GetEventById(c *fiber.Ctx) error {
	event, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(event)
}

func (h *HTTP) GetEvents(c *fiber.Ctx) error {
	data, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (h *HTTP) GetFeed(c *fiber.Ctx) error {
	data, err := h.service.Feed(c.UserContext(), lang(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (h *HTTP) GetRow(c *fiber.Ctx) error {
	row, err := h.service.Row(c.UserContext(), c.Params("id"), lang(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(row)
}

func (h *HTTP) Tap(c *fiber.Ctx) error {
	cmd, err := h.service.Tap(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cmd)
}

func (h *HTTP) SelectCommit(c *fiber.Ctx) error {
	cmds, err := h.service.SelectCommit(c.UserContext(), c.Params("id"), c.Params("sha"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cmds)
}

// lang prefers ?lang= over the Accept-Language header.
func lang(c *fiber.Ctx) string {
	if l := c.Query("lang"); l != "" {
		return l
	}
	return c.Get(fiber.HeaderAcceptLanguage)
}

func (h *HTTP) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, events.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	case errors.Is(err, eventrow.ErrUnknownCommit):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "commit not found"})
	case errors.Is(err, eventrow.ErrNotSelectable),
		errors.Is(err, eventrow.ErrMalformedPayload),
		errors.Is(err, model.ErrUnsupportedKind):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	logger.Lg.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
