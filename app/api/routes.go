package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) setupRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now(),
			"sessions":  s.sessions.Len(),
		})
	})

	api := s.app.Group("/api")

	catalogs := api.Group("/catalog")
	catalogs.Get("/categories", s.listCategories)
	catalogs.Get("/regions", s.listRegions)

	api.Get("/venues", s.listVenues)
	api.Post("/venues", s.createVenue)
	api.Get("/venues/:id", s.getVenue)
	api.Get("/price-comparison", s.priceComparison)

	sessions := api.Group("/sessions")
	api.Post("/sessions", s.createSession)
	sessions.Get("/:id", s.getSession)
	sessions.Delete("/:id", s.deleteSession)
	sessions.Put("/:id/filters", s.setFilter)
	sessions.Put("/:id/input", s.setInput)
	sessions.Post("/:id/submit", s.submit)
	sessions.Post("/:id/select", s.selectVenue)
	sessions.Get("/:id/map", s.getMap)
	sessions.Post("/:id/chips/:chip", s.toggleChip)
	sessions.Put("/:id/sort", s.setSort)
	sessions.Put("/:id/layout", s.setLayout)
}
