package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"timesheet/internal/seed"
)

// SeedHandler fills the database with demo data. It is only routed outside production.
type SeedHandler struct {
	seeder *seed.Seeder
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string      `json:"message"`
	Created seed.Result `json:"created"`
}

// Seed godoc
// @Summary Seed demo users, projects, attributes and timesheets
// @Tags seed
// @Produce json
// @Success 201 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	result, err := h.seeder.Run(c.Request().Context(), seed.DefaultOptions())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, SeedResponse{
		Message: "Demo data seeded. Log in as " + seed.DemoEmail + " / " + seed.DemoPassword + ".",
		Created: *result,
	})
}
