package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"timesheet/internal/auth"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
)

const (
	msgUnknownUsers    = "One or more selected users do not exist."
	msgNameRequired    = "Project name is required."
	msgNameTooLong     = "Project name may not be greater than 255 characters."
	msgInvalidStatus   = "Invalid project status selected."
	maxProjectNameSize = 255
)

// CreateProjectInput describes a new project. The creator is always added as a member.
type CreateProjectInput struct {
	Name        string
	Description *string
	Status      model.ProjectStatus
	UserIDs     []uint
	Attributes  []AttributeEntry
}

// UpdateProjectInput is a partial update; nil fields are left unchanged.
// A non-nil UserIDs replaces the member set with the actor plus UserIDs.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *model.ProjectStatus
	UserIDs     *[]uint
	Attributes  []AttributeEntry
}

// ProjectQuery holds the listing filters a client may send.
type ProjectQuery struct {
	Status  string
	UserID  *uint
	Filters map[string]string
	Page    int
}

// ProjectService manages projects visible to their members.
type ProjectService interface {
	List(ctx context.Context, actor auth.Actor, q ProjectQuery) (*repository.Page[model.Project], error)
	Create(ctx context.Context, actor auth.Actor, in CreateProjectInput) (*model.Project, error)
	Get(ctx context.Context, actor auth.Actor, id uint) (*model.Project, error)
	Update(ctx context.Context, actor auth.Actor, id uint, in UpdateProjectInput) (*model.Project, error)
	// Delete removes the project with its timesheets, attributes and memberships.
	Delete(ctx context.Context, actor auth.Actor, id uint) error
	// SetAttributeValue upserts a single attribute of the project.
	SetAttributeValue(ctx context.Context, actor auth.Actor, id uint, name, value string) (*model.Project, error)
}

type projectService struct {
	store repository.Store
}

// NewProjectService builds the service.
func NewProjectService(store repository.Store) ProjectService {
	return &projectService{store: store}
}

func (s *projectService) List(ctx context.Context, actor auth.Actor, q ProjectQuery) (*repository.Page[model.Project], error) {
	filter := repository.ProjectFilter{
		MemberID: actor.UserID,
		Status:   q.Status,
		UserID:   q.UserID,
		Page:     q.Page,
	}
	for key, value := range q.Filters {
		if key == "name" {
			filter.Name = value
			continue
		}
		if filter.Attributes == nil {
			filter.Attributes = make(map[string]string)
		}
		filter.Attributes[key] = value
	}
	return s.store.Projects().List(ctx, filter)
}

func (s *projectService) Create(ctx context.Context, actor auth.Actor, in CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(in.Name)
	if err := checkProjectFields(&name, &in.Status); err != nil {
		return nil, err
	}

	var created *model.Project
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := checkUsersExist(ctx, tx.Users(), in.UserIDs); err != nil {
			return err
		}

		project := &model.Project{
			Name:        name,
			Description: in.Description,
			Status:      in.Status,
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		if err := tx.Projects().AddMembers(ctx, project.ID, withActor(actor, in.UserIDs)); err != nil {
			return fmt.Errorf("attach members: %w", err)
		}
		if err := NewAttributeStore(tx.Attributes()).Upsert(ctx, project.ID, in.Attributes); err != nil {
			return err
		}

		var err error
		created, err = tx.Projects().FindByID(ctx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *projectService) Get(ctx context.Context, actor auth.Actor, id uint) (*model.Project, error) {
	return findVisibleProject(ctx, s.store, actor, id)
}

func (s *projectService) Update(ctx context.Context, actor auth.Actor, id uint, in UpdateProjectInput) (*model.Project, error) {
	var name *string
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		name = &trimmed
	}

	var updated *model.Project
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := findVisibleProject(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := checkProjectFields(name, in.Status); err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if name != nil {
			fields["name"] = *name
		}
		if in.Description != nil {
			fields["description"] = *in.Description
		}
		if in.Status != nil {
			fields["status"] = *in.Status
		}
		if err := tx.Projects().Update(ctx, project, fields); err != nil {
			return fmt.Errorf("update project: %w", err)
		}

		if in.UserIDs != nil {
			if err := checkUsersExist(ctx, tx.Users(), *in.UserIDs); err != nil {
				return err
			}
			if err := tx.Projects().SyncMembers(ctx, project.ID, withActor(actor, *in.UserIDs)); err != nil {
				return fmt.Errorf("sync members: %w", err)
			}
		}

		if err := NewAttributeStore(tx.Attributes()).Upsert(ctx, project.ID, in.Attributes); err != nil {
			return err
		}

		updated, err = tx.Projects().FindByID(ctx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		project, err := findVisibleProject(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Timesheets().DeleteByProject(ctx, project.ID); err != nil {
			return fmt.Errorf("delete timesheets: %w", err)
		}
		if err := tx.Attributes().DeleteByProject(ctx, project.ID); err != nil {
			return fmt.Errorf("delete attributes: %w", err)
		}
		if err := tx.Projects().Delete(ctx, project.ID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}

func (s *projectService) SetAttributeValue(ctx context.Context, actor auth.Actor, id uint, name, value string) (*model.Project, error) {
	var project *model.Project
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := findVisibleProject(ctx, tx, actor, id); err != nil {
			return err
		}
		entries := []AttributeEntry{{Name: name, Value: value}}
		if err := NewAttributeStore(tx.Attributes()).Upsert(ctx, id, entries); err != nil {
			return err
		}

		var err error
		project, err = tx.Projects().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// findVisibleProject loads a project the actor belongs to. Projects that exist but
// are not visible produce the same error as missing ones.
func findVisibleProject(ctx context.Context, store repository.Store, actor auth.Actor, id uint) (*model.Project, error) {
	project, err := store.Projects().FindForMember(ctx, id, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project")
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

// checkProjectFields validates the fields that are set. name must already be trimmed.
func checkProjectFields(name *string, status *model.ProjectStatus) error {
	verr := apperrors.NewValidationError()
	if name != nil {
		switch {
		case *name == "":
			verr.Add("name", msgNameRequired)
		case len(*name) > maxProjectNameSize:
			verr.Add("name", msgNameTooLong)
		}
	}
	if status != nil && !status.Valid() {
		verr.Add("status", msgInvalidStatus)
	}
	return verr.OrNil()
}

func checkUsersExist(ctx context.Context, users repository.UserRepository, ids []uint) error {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return nil
	}

	found, err := users.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if found != int64(len(unique)) {
		return apperrors.Invalid("user_ids", msgUnknownUsers)
	}
	return nil
}

func withActor(actor auth.Actor, ids []uint) []uint {
	out := make([]uint, 0, len(ids)+1)
	out = append(out, actor.UserID)
	return append(out, ids...)
}
