package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"timesheet/internal/attribute"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/service"
)

// AttributeHandler handles project attribute endpoints.
type AttributeHandler struct {
	svc service.AttributeService
}

// NewAttributeHandler creates a new attribute handler.
func NewAttributeHandler(svc service.AttributeService) *AttributeHandler {
	return &AttributeHandler{svc: svc}
}

// CreateAttributeRequest represents an attribute creation request.
// Type-dependent rules on value and options are applied by the attribute store.
type CreateAttributeRequest struct {
	ProjectID uint     `json:"project_id" validate:"required"`
	Name      string   `json:"name" validate:"required,max=255"`
	Type      string   `json:"type" validate:"required"`
	Value     Scalar   `json:"value" swaggertype:"string"`
	Options   []string `json:"options"`
}

func (CreateAttributeRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"project_id.required": "Project ID is required.",
		"name.required":       "Attribute name is required.",
		"name.max":            "Attribute name may not be greater than 255 characters.",
		"type.required":       "Attribute type is required.",
	}
}

// Check reports a value that is neither text nor a number.
func (r CreateAttributeRequest) Check(verr *apperrors.ValidationError) {
	if r.Value.Invalid() {
		verr.Add("value", "Attribute value must be a string or a number.")
	}
}

// UpdateAttributeRequest is a partial update; omitted fields are unchanged.
type UpdateAttributeRequest struct {
	Name    *string  `json:"name" validate:"omitnil,max=255"`
	Type    *string  `json:"type"`
	Value   Scalar   `json:"value" swaggertype:"string"`
	Options []string `json:"options"`
}

func (UpdateAttributeRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.max": "Attribute name may not be greater than 255 characters.",
	}
}

// Check reports a value that is neither text nor a number.
func (r UpdateAttributeRequest) Check(verr *apperrors.ValidationError) {
	if r.Value.Invalid() {
		verr.Add("value", "Attribute value must be a string or a number.")
	}
}

// AttributeListResponse wraps an attribute listing.
type AttributeListResponse struct {
	Data []model.Attribute `json:"data"`
}

// ListAttributes godoc
// @Summary List attributes of the caller's projects
// @Tags attributes
// @Produce json
// @Security BearerAuth
// @Param project_id query int false "Only attributes of this project"
// @Success 200 {object} AttributeListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /attributes [get]
func (h *AttributeHandler) ListAttributes(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	verr := apperrors.NewValidationError()
	projectID := queryUint(c, "project_id", verr)
	if err := verr.OrNil(); err != nil {
		return err
	}

	attrs, err := h.svc.List(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AttributeListResponse{Data: attrs})
}

// CreateAttribute godoc
// @Summary Create an attribute on a project
// @Tags attributes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAttributeRequest true "Attribute"
// @Success 201 {object} model.Attribute
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /attributes [post]
func (h *AttributeHandler) CreateAttribute(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateAttributeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	attr, err := h.svc.Create(c.Request().Context(), actor, service.CreateAttributeInput{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Type:      attribute.Type(req.Type),
		Value:     req.Value.String(),
		Options:   req.Options,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attr)
}

// GetAttribute godoc
// @Summary Get an attribute
// @Tags attributes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attribute ID"
// @Success 200 {object} model.Attribute
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /attributes/{id} [get]
func (h *AttributeHandler) GetAttribute(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Attribute")
	if err != nil {
		return err
	}

	attr, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attr)
}

// UpdateAttribute godoc
// @Summary Update an attribute
// @Description Changing the type re-validates the current value. Leaving select drops the options.
// @Tags attributes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attribute ID"
// @Param request body UpdateAttributeRequest true "Fields to change"
// @Success 200 {object} model.Attribute
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /attributes/{id} [patch]
func (h *AttributeHandler) UpdateAttribute(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Attribute")
	if err != nil {
		return err
	}

	var req UpdateAttributeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.UpdateAttributeInput{
		Name:    req.Name,
		Value:   req.Value.Ptr(),
		Options: req.Options,
	}
	if req.Type != nil {
		t := attribute.Type(*req.Type)
		in.Type = &t
	}

	attr, err := h.svc.Update(c.Request().Context(), actor, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attr)
}

// DeleteAttribute godoc
// @Summary Delete an attribute
// @Tags attributes
// @Security BearerAuth
// @Param id path int true "Attribute ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /attributes/{id} [delete]
func (h *AttributeHandler) DeleteAttribute(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "Attribute")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
