package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
	"timesheet/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	svc service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// CreateProjectRequest represents a project creation request.
// The caller is always added to the members.
type CreateProjectRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Description *string      `json:"description"`
	Status      string       `json:"status" validate:"required,oneof=active completed on_hold cancelled"`
	UserIDs     []uint       `json:"user_ids" validate:"required,min=1"`
	Attributes  AttributeMap `json:"attributes" swaggertype:"object,string"`
}

func (CreateProjectRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.required":     "Project name is required.",
		"name.max":          "Project name may not be greater than 255 characters.",
		"status.required":   "Project status is required.",
		"status.oneof":      "Invalid project status selected.",
		"user_ids.required": "Please assign at least one user to the project.",
		"user_ids.min":      "Please assign at least one user to the project.",
	}
}

// Check reports attribute values that are not text or numbers.
func (r CreateProjectRequest) Check(verr *apperrors.ValidationError) {
	r.Attributes.check(verr)
}

// UpdateProjectRequest is a partial update. A user_ids list replaces the members,
// keeping the caller.
type UpdateProjectRequest struct {
	Name        *string      `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string      `json:"description"`
	Status      *string      `json:"status" validate:"omitnil,oneof=active completed on_hold cancelled"`
	UserIDs     *[]uint      `json:"user_ids"`
	Attributes  AttributeMap `json:"attributes" swaggertype:"object,string"`
}

func (UpdateProjectRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.min":     "Project name is required.",
		"name.max":     "Project name may not be greater than 255 characters.",
		"status.oneof": "Invalid project status selected.",
	}
}

// Check reports attribute values that are not text or numbers.
func (r UpdateProjectRequest) Check(verr *apperrors.ValidationError) {
	r.Attributes.check(verr)
}

// ProjectPage is a page of projects.
type ProjectPage = repository.Page[model.Project]

// ListProjects godoc
// @Summary List the caller's projects
// @Description filters[name] matches the project name; any other filters[key] matches the value of attribute key.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param status query string false "Project status"
// @Param user_id query int false "Only projects with this member"
// @Param filters[name] query string false "Name contains"
// @Param page query int false "Page number"
// @Success 200 {object} ProjectPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	verr := apperrors.NewValidationError()
	q := service.ProjectQuery{
		Status:  c.QueryParam("status"),
		UserID:  queryUint(c, "user_id", verr),
		Filters: queryFilters(c),
		Page:    queryPage(c),
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

// CreateProject godoc
// @Summary Create a project
// @Description Attribute keys that do not exist yet are created as string attributes.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project"
// @Success 201 {object} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.svc.Create(c.Request().Context(), actor, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      model.ProjectStatus(req.Status),
		UserIDs:     req.UserIDs,
		Attributes:  req.Attributes.Entries(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Project")
	if err != nil {
		return err
	}

	project, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// UpdateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /projects/{id} [patch]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Project")
	if err != nil {
		return err
	}

	var req UpdateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		UserIDs:     req.UserIDs,
		Attributes:  req.Attributes.Entries(),
	}
	if req.Status != nil {
		status := model.ProjectStatus(*req.Status)
		in.Status = &status
	}

	project, err := h.svc.Update(c.Request().Context(), actor, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete a project with its attributes and timesheets
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Project")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryFilters collects filters[key]=value query parameters.
func queryFilters(c echo.Context) map[string]string {
	filters := make(map[string]string)
	for key, values := range c.QueryParams() {
		if !strings.HasPrefix(key, "filters[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		name := key[len("filters[") : len(key)-1]
		if name == "" {
			continue
		}
		filters[name] = values[0]
	}
	return filters
}
