package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"timesheet/internal/auth"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
)

var (
	minHours = decimal.RequireFromString("0.5")
	maxHours = decimal.NewFromInt(24)
)

// CreateTimesheetInput carries raw date and hours text; both are parsed here.
type CreateTimesheetInput struct {
	ProjectID uint
	TaskName  string
	Date      string
	Hours     string
}

// UpdateTimesheetInput is a partial update; nil fields are left unchanged.
type UpdateTimesheetInput struct {
	ProjectID *uint
	TaskName  *string
	Date      *string
	Hours     *string
}

// TimesheetQuery holds the listing filters a client may send.
type TimesheetQuery struct {
	UserID    *uint
	ProjectID *uint
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
}

// TimesheetService manages time entries. Entries are private to the user who logged them.
type TimesheetService interface {
	// List returns entries on projects the actor belongs to.
	List(ctx context.Context, actor auth.Actor, q TimesheetQuery) (*repository.Page[model.Timesheet], error)
	Create(ctx context.Context, actor auth.Actor, in CreateTimesheetInput) (*model.Timesheet, error)
	Get(ctx context.Context, actor auth.Actor, id uint) (*model.Timesheet, error)
	Update(ctx context.Context, actor auth.Actor, id uint, in UpdateTimesheetInput) (*model.Timesheet, error)
	Delete(ctx context.Context, actor auth.Actor, id uint) error
}

type timesheetService struct {
	store repository.Store
	now   func() time.Time
}

// NewTimesheetService builds the service.
func NewTimesheetService(store repository.Store) TimesheetService {
	return &timesheetService{store: store, now: time.Now}
}

func (s *timesheetService) List(ctx context.Context, actor auth.Actor, q TimesheetQuery) (*repository.Page[model.Timesheet], error) {
	return s.store.Timesheets().List(ctx, repository.TimesheetFilter{
		MemberID:  actor.UserID,
		UserID:    q.UserID,
		ProjectID: q.ProjectID,
		DateFrom:  q.DateFrom,
		DateTo:    q.DateTo,
		Page:      q.Page,
	})
}

func (s *timesheetService) Create(ctx context.Context, actor auth.Actor, in CreateTimesheetInput) (*model.Timesheet, error) {
	verr := apperrors.NewValidationError()
	ts := &model.Timesheet{UserID: actor.UserID, ProjectID: in.ProjectID}

	if err := s.checkProject(ctx, actor, in.ProjectID); err != nil {
		if !mergeValidation(verr, err) {
			return nil, err
		}
	}
	ts.TaskName = s.checkTaskName(verr, in.TaskName)
	ts.Date = s.checkDate(verr, in.Date)
	ts.Hours = s.checkHours(verr, in.Hours)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.store.Timesheets().Create(ctx, ts); err != nil {
		return nil, fmt.Errorf("create timesheet: %w", err)
	}
	return s.store.Timesheets().FindByID(ctx, ts.ID)
}

func (s *timesheetService) Get(ctx context.Context, actor auth.Actor, id uint) (*model.Timesheet, error) {
	ts, err := s.store.Timesheets().FindOwned(ctx, id, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Timesheet")
		}
		return nil, fmt.Errorf("find timesheet: %w", err)
	}
	return ts, nil
}

func (s *timesheetService) Update(ctx context.Context, actor auth.Actor, id uint, in UpdateTimesheetInput) (*model.Timesheet, error) {
	ts, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	verr := apperrors.NewValidationError()
	fields := map[string]interface{}{}
	if in.ProjectID != nil {
		if err := s.checkProject(ctx, actor, *in.ProjectID); err != nil {
			if !mergeValidation(verr, err) {
				return nil, err
			}
		}
		fields["project_id"] = *in.ProjectID
	}
	if in.TaskName != nil {
		fields["task_name"] = s.checkTaskName(verr, *in.TaskName)
	}
	if in.Date != nil {
		fields["date"] = s.checkDate(verr, *in.Date)
	}
	if in.Hours != nil {
		fields["hours"] = s.checkHours(verr, *in.Hours)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.store.Timesheets().Update(ctx, ts, fields); err != nil {
		return nil, fmt.Errorf("update timesheet: %w", err)
	}
	return s.store.Timesheets().FindByID(ctx, ts.ID)
}

func (s *timesheetService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	ts, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.store.Timesheets().Delete(ctx, ts.ID)
}

// checkProject returns a ValidationError unless the actor belongs to the project.
func (s *timesheetService) checkProject(ctx context.Context, actor auth.Actor, projectID uint) error {
	if projectID == 0 {
		return apperrors.Invalid("project_id", "Please select a project.")
	}
	member, err := s.store.Projects().IsMember(ctx, projectID, actor.UserID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return apperrors.Invalid("project_id", msgProjectNotFound)
	}
	return nil
}

func (s *timesheetService) checkTaskName(verr *apperrors.ValidationError, raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		verr.Add("task_name", "Task name is required.")
	case len(name) > 255:
		verr.Add("task_name", "Task name may not be greater than 255 characters.")
	}
	return name
}

func (s *timesheetService) checkDate(verr *apperrors.ValidationError, raw string) model.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add("date", "Date is required.")
		return model.Date{}
	}
	t, err := dateparse.ParseIn(raw, time.Local)
	if err != nil {
		verr.Add("date", "Invalid date format.")
		return model.Date{}
	}
	date := model.NewDate(t)
	if date.Time().After(model.NewDate(s.now()).Time()) {
		verr.Add("date", "Cannot log time for future dates.")
	}
	return date
}

func (s *timesheetService) checkHours(verr *apperrors.ValidationError, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add("hours", "Number of hours is required.")
		return decimal.Zero
	}
	hours, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add("hours", "Hours must be a number.")
		return decimal.Zero
	}
	switch {
	case hours.LessThan(minHours):
		verr.Add("hours", "Minimum time entry is 30 minutes.")
	case hours.GreaterThan(maxHours):
		verr.Add("hours", "Maximum time entry is 24 hours per day.")
	}
	return hours.Round(2)
}

// mergeValidation copies err into verr when it is a ValidationError and reports whether it was.
func mergeValidation(verr *apperrors.ValidationError, err error) bool {
	var other *apperrors.ValidationError
	if !errors.As(err, &other) {
		return false
	}
	verr.Merge("", other)
	return true
}
