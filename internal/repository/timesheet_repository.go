package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timesheet/internal/model"
)

// TimesheetPageSize is the fixed page size of timesheet listings.
const TimesheetPageSize = 10

// TimesheetFilter narrows a timesheet listing to projects MemberID belongs to.
type TimesheetFilter struct {
	MemberID  uint
	UserID    *uint
	ProjectID *uint
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
}

// TimesheetRepository defines timesheet persistence operations.
type TimesheetRepository interface {
	Create(ctx context.Context, ts *model.Timesheet) error
	Update(ctx context.Context, ts *model.Timesheet, fields map[string]interface{}) error
	// FindByID loads a timesheet with its user and project.
	FindByID(ctx context.Context, id uint) (*model.Timesheet, error)
	// FindOwned is FindByID restricted to entries logged by userID.
	FindOwned(ctx context.Context, id, userID uint) (*model.Timesheet, error)
	Delete(ctx context.Context, id uint) error
	DeleteByProject(ctx context.Context, projectID uint) error
	List(ctx context.Context, filter TimesheetFilter) (*Page[model.Timesheet], error)
}

type timesheetRepository struct {
	db *gorm.DB
}

// NewTimesheetRepository builds a GORM-backed repository.
func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) Create(ctx context.Context, ts *model.Timesheet) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ts).Error
}

func (r *timesheetRepository) Update(ctx context.Context, ts *model.Timesheet, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(ts).Omit(clause.Associations).Updates(fields).Error
}

func (r *timesheetRepository) FindByID(ctx context.Context, id uint) (*model.Timesheet, error) {
	var ts model.Timesheet
	if err := withTimesheetRelations(r.db.WithContext(ctx)).First(&ts, id).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepository) FindOwned(ctx context.Context, id, userID uint) (*model.Timesheet, error) {
	var ts model.Timesheet
	err := withTimesheetRelations(r.db.WithContext(ctx)).
		Where("timesheets.user_id = ?", userID).
		First(&ts, id).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Timesheet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timesheetRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Timesheet{}).Error
}

func (r *timesheetRepository) List(ctx context.Context, filter TimesheetFilter) (*Page[model.Timesheet], error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Timesheet{}).
			Where("EXISTS (SELECT 1 FROM project_user pu WHERE pu.project_id = timesheets.project_id AND pu.user_id = ?)", filter.MemberID)
		if filter.UserID != nil {
			q = q.Where("timesheets.user_id = ?", *filter.UserID)
		}
		if filter.ProjectID != nil {
			q = q.Where("timesheets.project_id = ?", *filter.ProjectID)
		}
		if filter.DateFrom != nil {
			q = q.Where("timesheets.date >= ?", model.NewDate(*filter.DateFrom))
		}
		if filter.DateTo != nil {
			q = q.Where("timesheets.date <= ?", model.NewDate(*filter.DateTo))
		}
		return q
	}
	load := func(db *gorm.DB) *gorm.DB {
		return withTimesheetRelations(db).Order("timesheets.date DESC").Order("timesheets.id DESC")
	}
	return paginate[model.Timesheet](query, load, filter.Page, TimesheetPageSize)
}

func withTimesheetRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Project")
}
