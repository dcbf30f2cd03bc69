package api

import (
	"errors"

	"goodstore/app/catalog"
	"goodstore/app/model"
	"goodstore/app/service/filter"
	"goodstore/app/service/results"
	"goodstore/app/service/session"
	"goodstore/app/service/sessions"
	"goodstore/app/service/venues"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listCategories(c *fiber.Ctx) error {
	return c.JSON(catalog.Entries(catalog.KindCategory))
}

func (s *Server) listRegions(c *fiber.Ctx) error {
	return c.JSON(catalog.Entries(catalog.KindRegion))
}

func (s *Server) listVenues(c *fiber.Ctx) error {
	state := filter.State{
		SearchText:   c.Query("search"),
		CategoryCode: c.Query("category", catalog.Wildcard),
		RegionCode:   c.Query("region", catalog.Wildcard),
		PriceRange:   c.Query("price_range", catalog.Wildcard),
	}

	return c.JSON(s.venues.Filter(state))
}

func (s *Server) createVenue(c *fiber.Ctx) error {
	var req model.Venue
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errBadBody)
	}

	venue, err := s.venues.Add(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(venue)
}

func (s *Server) getVenue(c *fiber.Ctx) error {
	venue, err := s.venues.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(venue)
}

func (s *Server) priceComparison(c *fiber.Ctx) error {
	stats, err := s.venues.PriceComparison(c.Query("category", catalog.Wildcard))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	w := s.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(w.View())
}

func (s *Server) getSession(c *fiber.Ctx) error {
	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(w.View())
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if err := s.sessions.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) setFilter(c *fiber.Ctx) error {
	var req FilterRequest
	if err := s.parse(c, &req); err != nil {
		return respondError(c, err)
	}

	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	if _, err = w.SetFilter(filter.Field(req.Field), req.Value); err != nil {
		return respondError(c, err)
	}

	return c.JSON(w.View())
}

func (s *Server) setInput(c *fiber.Ctx) error {
	var req InputRequest
	if err := s.parse(c, &req); err != nil {
		return respondError(c, err)
	}

	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	w.SetInput(req.Text)

	return c.JSON(w.View())
}

func (s *Server) submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := s.parse(c, &req); err != nil {
		return respondError(c, err)
	}

	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	if _, err = w.Submit(req.Question); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(w.View())
}

func (s *Server) selectVenue(c *fiber.Ctx) error {
	var req SelectRequest
	if err := s.parse(c, &req); err != nil {
		return respondError(c, err)
	}

	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	selection, err := w.Select(req.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(selection)
}

func (s *Server) getMap(c *fiber.Ctx) error {
	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(w.Frame())
}

func (s *Server) toggleChip(c *fiber.Ctx) error {
	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	chip := results.Chip(c.Params("chip"))

	active, err := w.ToggleChip(chip)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(ChipResponse{Chip: string(chip), Active: active})
}

func (s *Server) setSort(c *fiber.Ctx) error {
	var req SortRequest
	if err := s.parse(c, &req); err != nil {
		return respondError(c, err)
	}

	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	if err = w.SetSort(results.SortKey(req.Key)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(w.View())
}

func (s *Server) setLayout(c *fiber.Ctx) error {
	var req LayoutRequest
	if err := s.parse(c, &req); err != nil {
		return respondError(c, err)
	}

	w, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	mapFraction, listFraction := w.Drag(req.PointerY, req.ContainerHeight)

	return c.JSON(LayoutResponse{MapFraction: mapFraction, ListFraction: listFraction})
}

var errBadBody = errors.New("failed to parse request body")

func (s *Server) parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errBadBody
	}

	return s.validate.Struct(out)
}

func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "internal_error"

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, errBadBody):
		status, code = fiber.StatusBadRequest, "invalid_request"
	case errors.As(err, &validationErrs),
		errors.Is(err, session.ErrValidation),
		errors.Is(err, filter.ErrUnknownField),
		errors.Is(err, results.ErrUnknownKey):
		status, code = fiber.StatusBadRequest, "validation_error"
	case errors.Is(err, session.ErrBusy):
		status, code = fiber.StatusConflict, "busy"
	case errors.Is(err, venues.ErrDuplicate):
		status, code = fiber.StatusConflict, "duplicate"
	case errors.Is(err, sessions.ErrNotFound),
		errors.Is(err, venues.ErrNotFound),
		errors.Is(err, venues.ErrNothingToCompare),
		errors.Is(err, results.ErrNotFound):
		status, code = fiber.StatusNotFound, "not_found"
	}

	return c.Status(status).JSON(ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
