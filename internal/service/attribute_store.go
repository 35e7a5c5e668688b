package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"timesheet/internal/attribute"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
)

const maxAttributeNameLength = 255

// CreateAttributeInput describes a new attribute.
type CreateAttributeInput struct {
	ProjectID uint
	Name      string
	Type      attribute.Type
	Value     string
	Options   []string
}

// UpdateAttributeInput is a partial update; nil fields are left unchanged.
// An empty Options list counts as not supplied.
type UpdateAttributeInput struct {
	Name    *string
	Type    *attribute.Type
	Value   *string
	Options []string
}

// AttributeEntry is one (name, value) pair of an attribute map, in request order.
type AttributeEntry struct {
	Name  string
	Value string
}

// AttributeStore enforces type validation and per-project name uniqueness.
// It performs no access checks; callers decide who may reach it.
type AttributeStore struct {
	repo repository.AttributeRepository
}

// NewAttributeStore wraps repo. Build one per transaction to keep writes inside it.
func NewAttributeStore(repo repository.AttributeRepository) *AttributeStore {
	return &AttributeStore{repo: repo}
}

// Create validates and persists a new attribute.
func (s *AttributeStore) Create(ctx context.Context, in CreateAttributeInput) (*model.Attribute, error) {
	name := strings.TrimSpace(in.Name)
	if msg := checkAttributeName(name); msg != "" {
		return nil, apperrors.Invalid("name", msg)
	}

	taken, err := s.repo.NameTaken(ctx, in.ProjectID, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check attribute name: %w", err)
	}
	if taken {
		return nil, &apperrors.DuplicateNameError{ProjectID: in.ProjectID, Name: name}
	}

	value, options, err := attribute.Check(in.Type, in.Value, in.Options)
	if err != nil {
		return nil, err
	}

	attr := &model.Attribute{
		ProjectID: in.ProjectID,
		Name:      name,
		Type:      in.Type,
		Value:     value.String(),
		Options:   options,
	}
	if err := s.repo.Create(ctx, attr); err != nil {
		return nil, err
	}
	return attr, nil
}

// Update applies in to attr and re-validates the resulting (type, value, options).
// Moving away from select drops the options; moving into select needs options.
func (s *AttributeStore) Update(ctx context.Context, attr *model.Attribute, in UpdateAttributeInput) (*model.Attribute, error) {
	name := attr.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if msg := checkAttributeName(name); msg != "" {
			return nil, apperrors.Invalid("name", msg)
		}
		if name != attr.Name {
			taken, err := s.repo.NameTaken(ctx, attr.ProjectID, name, attr.ID)
			if err != nil {
				return nil, fmt.Errorf("check attribute name: %w", err)
			}
			if taken {
				return nil, &apperrors.DuplicateNameError{ProjectID: attr.ProjectID, Name: name}
			}
		}
	}

	typ := attr.Type
	if in.Type != nil {
		typ = *in.Type
	}

	raw := attr.Value
	if in.Value != nil {
		raw = *in.Value
	}

	var options []string
	switch {
	case len(in.Options) > 0:
		options = in.Options
	case typ.HasOptions() && attr.Type.HasOptions():
		options = attr.Options
	}

	value, options, err := attribute.Check(typ, raw, options)
	if err != nil {
		return nil, err
	}

	updated := *attr
	updated.Name = name
	updated.Type = typ
	updated.Value = value.String()
	updated.Options = options
	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, err
	}
	*attr = updated
	return attr, nil
}

// FindByProjectAndName returns nil when the project has no attribute called name.
func (s *AttributeStore) FindByProjectAndName(ctx context.Context, projectID uint, name string) (*model.Attribute, error) {
	return s.repo.FindByProjectAndName(ctx, projectID, name)
}

// ListByProject lists attributes in insertion order, optionally for one project.
func (s *AttributeStore) ListByProject(ctx context.Context, projectID *uint) ([]model.Attribute, error) {
	return s.repo.List(ctx, projectID, 0)
}

// Delete removes an attribute.
func (s *AttributeStore) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Attribute")
	}
	return err
}

// Upsert applies entries in order. An existing attribute only gets its value replaced and
// re-validated against its own type; a missing one is created as a string attribute.
// The first failing entry stops the batch; its error is keyed attributes.<name>.
// Run it inside a transaction so a failure leaves nothing applied.
func (s *AttributeStore) Upsert(ctx context.Context, projectID uint, entries []AttributeEntry) error {
	for _, entry := range entries {
		if err := s.upsertOne(ctx, projectID, entry); err != nil {
			return keyedByAttribute(entry.Name, err)
		}
	}
	return nil
}

func (s *AttributeStore) upsertOne(ctx context.Context, projectID uint, entry AttributeEntry) error {
	name := strings.TrimSpace(entry.Name)
	existing, err := s.repo.FindByProjectAndName(ctx, projectID, name)
	if err != nil {
		return fmt.Errorf("find attribute %q: %w", name, err)
	}
	if existing != nil {
		value := entry.Value
		_, err = s.Update(ctx, existing, UpdateAttributeInput{Value: &value})
		return err
	}
	_, err = s.Create(ctx, CreateAttributeInput{
		ProjectID: projectID,
		Name:      name,
		Type:      attribute.TypeString,
		Value:     entry.Value,
	})
	return err
}

// keyedByAttribute moves validation messages under attributes.<name>; other errors pass through.
func keyedByAttribute(name string, err error) error {
	field := "attributes." + name

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		out := apperrors.NewValidationError()
		for _, msg := range verr.All() {
			out.Add(field, msg)
		}
		return out
	}

	var dup *apperrors.DuplicateNameError
	if errors.As(err, &dup) {
		return apperrors.Invalid(field, dup.Error())
	}
	return err
}

func checkAttributeName(name string) string {
	switch {
	case name == "":
		return "Attribute name is required."
	case len(name) > maxAttributeNameLength:
		return "Attribute name may not be greater than 255 characters."
	}
	return ""
}
