package handler

import (
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
	"timesheet/internal/service"
)

// TimesheetHandler handles time entry endpoints.
type TimesheetHandler struct {
	svc service.TimesheetService
}

// NewTimesheetHandler creates a new timesheet handler.
func NewTimesheetHandler(svc service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{svc: svc}
}

// CreateTimesheetRequest represents a new time entry. Date and hours are parsed by the service.
type CreateTimesheetRequest struct {
	ProjectID uint   `json:"project_id"`
	TaskName  string `json:"task_name"`
	Date      string `json:"date" example:"2024-03-10"`
	Hours     Scalar `json:"hours" swaggertype:"number" example:"7.5"`
}

// Check reports hours that are neither text nor a number.
func (r CreateTimesheetRequest) Check(verr *apperrors.ValidationError) {
	if r.Hours.Invalid() {
		verr.Add("hours", "Hours must be a number.")
	}
}

// UpdateTimesheetRequest is a partial update; omitted fields are unchanged.
type UpdateTimesheetRequest struct {
	ProjectID *uint   `json:"project_id"`
	TaskName  *string `json:"task_name"`
	Date      *string `json:"date" example:"2024-03-10"`
	Hours     Scalar  `json:"hours" swaggertype:"number" example:"7.5"`
}

// Check reports hours that are neither text nor a number.
func (r UpdateTimesheetRequest) Check(verr *apperrors.ValidationError) {
	if r.Hours.Invalid() {
		verr.Add("hours", "Hours must be a number.")
	}
}

// TimesheetPage is a page of time entries.
type TimesheetPage = repository.Page[model.Timesheet]

// ListTimesheets godoc
// @Summary List time entries on the caller's projects
// @Tags timesheets
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Logged by this user"
// @Param project_id query int false "Logged on this project"
// @Param date_from query string false "On or after this date"
// @Param date_to query string false "On or before this date"
// @Param page query int false "Page number"
// @Success 200 {object} TimesheetPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /timesheets [get]
func (h *TimesheetHandler) ListTimesheets(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	verr := apperrors.NewValidationError()
	q := service.TimesheetQuery{
		UserID:    queryUint(c, "user_id", verr),
		ProjectID: queryUint(c, "project_id", verr),
		DateFrom:  queryDate(c, "date_from", verr),
		DateTo:    queryDate(c, "date_to", verr),
		Page:      queryPage(c),
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	page, err := h.svc.List(c.Request().Context(), actor, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// CreateTimesheet godoc
// @Summary Log time on a project
// @Tags timesheets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTimesheetRequest true "Time entry"
// @Success 201 {object} model.Timesheet
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /timesheets [post]
func (h *TimesheetHandler) CreateTimesheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateTimesheetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ts, err := h.svc.Create(c.Request().Context(), actor, service.CreateTimesheetInput{
		ProjectID: req.ProjectID,
		TaskName:  req.TaskName,
		Date:      req.Date,
		Hours:     req.Hours.String(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ts)
}

// GetTimesheet godoc
// @Summary Get one of the caller's time entries
// @Tags timesheets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Timesheet ID"
// @Success 200 {object} model.Timesheet
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /timesheets/{id} [get]
func (h *TimesheetHandler) GetTimesheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Timesheet")
	if err != nil {
		return err
	}

	ts, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ts)
}

// UpdateTimesheet godoc
// @Summary Update one of the caller's time entries
// @Tags timesheets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Timesheet ID"
// @Param request body UpdateTimesheetRequest true "Fields to change"
// @Success 200 {object} model.Timesheet
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /timesheets/{id} [patch]
func (h *TimesheetHandler) UpdateTimesheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Timesheet")
	if err != nil {
		return err
	}

	var req UpdateTimesheetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ts, err := h.svc.Update(c.Request().Context(), actor, id, service.UpdateTimesheetInput{
		ProjectID: req.ProjectID,
		TaskName:  req.TaskName,
		Date:      req.Date,
		Hours:     req.Hours.Ptr(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ts)
}

// DeleteTimesheet godoc
// @Summary Delete one of the caller's time entries
// @Tags timesheets
// @Security BearerAuth
// @Param id path int true "Timesheet ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /timesheets/{id} [delete]
func (h *TimesheetHandler) DeleteTimesheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Timesheet")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func queryDate(c echo.Context, name string, verr *apperrors.ValidationError) *time.Time {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseIn(raw, time.Local)
	if err != nil {
		verr.Add(name, "Invalid date format.")
		return nil
	}
	return &t
}
