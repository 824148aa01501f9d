package httpapi

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/inje-weather/internal/weather"
)

var validate = validator.New()

// Pager is the read side of weather.Service.
type Pager interface {
	Page(ctx context.Context, index int) weather.PageResult
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// Register other fixed paths (health, metrics) before calling this, since
// "/:index" matches any single segment.
func RegisterRoutes(app *fiber.App, service Pager) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(service.Page(c.UserContext(), weather.Latest))
	})

	app.Get("/:index", func(c *fiber.Ctx) error {
		return c.JSON(service.Page(c.UserContext(), parseIndex(c.Params("index"))))
	})
}

// parseIndex returns the requested non-negative index, or weather.Latest when
// the parameter is not one.
func parseIndex(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return weather.Latest
	}
	if err := validate.Var(n, "gte=0"); err != nil {
		return weather.Latest
	}
	return n
}
