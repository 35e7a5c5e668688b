package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"timesheet/internal/auth"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
)

const msgProjectNotFound = "Selected project does not exist."

// AttributeService exposes the attribute store to project members.
type AttributeService interface {
	// List returns attributes of the actor's projects, limited to projectID when set.
	List(ctx context.Context, actor auth.Actor, projectID *uint) ([]model.Attribute, error)
	Create(ctx context.Context, actor auth.Actor, in CreateAttributeInput) (*model.Attribute, error)
	Get(ctx context.Context, actor auth.Actor, id uint) (*model.Attribute, error)
	Update(ctx context.Context, actor auth.Actor, id uint, in UpdateAttributeInput) (*model.Attribute, error)
	Delete(ctx context.Context, actor auth.Actor, id uint) error
}

type attributeService struct {
	store repository.Store
}

// NewAttributeService builds the service.
func NewAttributeService(store repository.Store) AttributeService {
	return &attributeService{store: store}
}

func (s *attributeService) List(ctx context.Context, actor auth.Actor, projectID *uint) ([]model.Attribute, error) {
	return s.store.Attributes().List(ctx, projectID, actor.UserID)
}

func (s *attributeService) Create(ctx context.Context, actor auth.Actor, in CreateAttributeInput) (*model.Attribute, error) {
	member, err := s.store.Projects().IsMember(ctx, in.ProjectID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, apperrors.Invalid("project_id", msgProjectNotFound)
	}
	return NewAttributeStore(s.store.Attributes()).Create(ctx, in)
}

func (s *attributeService) Get(ctx context.Context, actor auth.Actor, id uint) (*model.Attribute, error) {
	attr, err := s.store.Attributes().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Attribute")
		}
		return nil, err
	}

	member, err := s.store.Projects().IsMember(ctx, attr.ProjectID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, apperrors.NotFound("Attribute")
	}
	return attr, nil
}

func (s *attributeService) Update(ctx context.Context, actor auth.Actor, id uint, in UpdateAttributeInput) (*model.Attribute, error) {
	attr, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return NewAttributeStore(s.store.Attributes()).Update(ctx, attr, in)
}

func (s *attributeService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	attr, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return NewAttributeStore(s.store.Attributes()).Delete(ctx, attr.ID)
}
