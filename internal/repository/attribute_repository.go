package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
)

// AttributeRepository defines attribute persistence operations.
// Writes that collide with the (project_id, name) unique index return *errors.DuplicateNameError.
type AttributeRepository interface {
	Create(ctx context.Context, attr *model.Attribute) error
	// Save writes name, type, value and options of an existing attribute.
	Save(ctx context.Context, attr *model.Attribute) error
	FindByID(ctx context.Context, id uint) (*model.Attribute, error)
	// FindByProjectAndName returns nil without error when no attribute matches.
	FindByProjectAndName(ctx context.Context, projectID uint, name string) (*model.Attribute, error)
	// NameTaken reports whether another attribute of the project uses name.
	NameTaken(ctx context.Context, projectID uint, name string, excludeID uint) (bool, error)
	// List returns attributes in id order, limited to projectID when set and to
	// projects memberID belongs to when memberID is non-zero.
	List(ctx context.Context, projectID *uint, memberID uint) ([]model.Attribute, error)
	Delete(ctx context.Context, id uint) error
	DeleteByProject(ctx context.Context, projectID uint) error
}

type attributeRepository struct {
	db *gorm.DB
}

// NewAttributeRepository builds a GORM-backed repository.
func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) Create(ctx context.Context, attr *model.Attribute) error {
	return duplicateName(r.db.WithContext(ctx).Create(attr).Error, attr)
}

func (r *attributeRepository) Save(ctx context.Context, attr *model.Attribute) error {
	err := r.db.WithContext(ctx).Model(attr).
		Select("name", "type", "value", "options", "updated_at").
		Updates(attr).Error
	return duplicateName(err, attr)
}

func (r *attributeRepository) FindByID(ctx context.Context, id uint) (*model.Attribute, error) {
	var attr model.Attribute
	if err := r.db.WithContext(ctx).First(&attr, id).Error; err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *attributeRepository) FindByProjectAndName(ctx context.Context, projectID uint, name string) (*model.Attribute, error) {
	var attrs []model.Attribute
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND name = ?", projectID, name).
		Limit(1).
		Find(&attrs).Error
	if err != nil || len(attrs) == 0 {
		return nil, err
	}
	return &attrs[0], nil
}

func (r *attributeRepository) NameTaken(ctx context.Context, projectID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Attribute{}).Where("project_id = ? AND name = ?", projectID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *attributeRepository) List(ctx context.Context, projectID *uint, memberID uint) ([]model.Attribute, error) {
	q := r.db.WithContext(ctx).Model(&model.Attribute{})
	if projectID != nil {
		q = q.Where("attributes.project_id = ?", *projectID)
	}
	if memberID != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM project_user pu WHERE pu.project_id = attributes.project_id AND pu.user_id = ?)", memberID)
	}

	attrs := []model.Attribute{}
	if err := q.Order("attributes.id").Find(&attrs).Error; err != nil {
		return nil, err
	}
	return attrs, nil
}

func (r *attributeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Attribute{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attributeRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Attribute{}).Error
}

func duplicateName(err error, attr *model.Attribute) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperrors.DuplicateNameError{ProjectID: attr.ProjectID, Name: attr.Name}
	}
	return err
}
