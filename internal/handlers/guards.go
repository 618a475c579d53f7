package handlers

import "github.com/gofiber/fiber/v2"

// Guards are the authorization middleware chains handlers attach to routes.
type Guards struct {
	Authenticated fiber.Handler
	Admin         fiber.Handler
}

func (g Guards) admin() []fiber.Handler {
	return []fiber.Handler{g.Authenticated, g.Admin}
}
