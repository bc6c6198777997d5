package handlers

import (
	"github.com/gofiber/fiber/v2"
	g "maragu.dev/gomponents"
)

// getQueryParam gets a parameter from either query string or form data
func getQueryParam(ctx *fiber.Ctx, key string) string {
	if value := ctx.Query(key); value != "" {
		return value
	}
	return ctx.FormValue(key)
}

func isHTMX(ctx *fiber.Ctx) bool {
	return ctx.Get("HX-Request") == "true"
}

// render sets the content type to HTML and renders the component.
func render(c *fiber.Ctx, component g.Node) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Response().BodyWriter())
}
