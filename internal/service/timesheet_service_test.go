package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
	"timesheet/internal/testutil"
)

var timesheetNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)

func newTimesheetService(t *testing.T) (*timesheetService, *testutil.Factory) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewTimesheetService(repository.NewStore(db)).(*timesheetService)
	svc.now = func() time.Time { return timesheetNow }
	return svc, testutil.NewFactory(t, db)
}

func TestTimesheetService_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     func(member, foreign *model.Project) CreateTimesheetInput
		wantField string
		wantMsg   string
	}{
		{
			name: "valid",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "Code review", Date: "2024-06-14", Hours: "7.5"}
			},
		},
		{
			name: "today is allowed",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "Standup", Date: "2024-06-15", Hours: "0.5"}
			},
		},
		{
			name: "missing project",
			input: func(_, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{TaskName: "x", Date: "2024-06-14", Hours: "1"}
			},
			wantField: "project_id", wantMsg: "Please select a project.",
		},
		{
			name: "project the user is not a member of",
			input: func(_, f *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: f.ID, TaskName: "x", Date: "2024-06-14", Hours: "1"}
			},
			wantField: "project_id", wantMsg: msgProjectNotFound,
		},
		{
			name: "blank task",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "  ", Date: "2024-06-14", Hours: "1"}
			},
			wantField: "task_name", wantMsg: "Task name is required.",
		},
		{
			name: "future date",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "x", Date: "2024-06-16", Hours: "1"}
			},
			wantField: "date", wantMsg: "Cannot log time for future dates.",
		},
		{
			name: "unparseable date",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "x", Date: "invalid-date", Hours: "1"}
			},
			wantField: "date", wantMsg: "Invalid date format.",
		},
		{
			name: "missing hours",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "x", Date: "2024-06-14"}
			},
			wantField: "hours", wantMsg: "Number of hours is required.",
		},
		{
			name: "hours not numeric",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "x", Date: "2024-06-14", Hours: "lots"}
			},
			wantField: "hours", wantMsg: "Hours must be a number.",
		},
		{
			name: "under thirty minutes",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "x", Date: "2024-06-14", Hours: "0.25"}
			},
			wantField: "hours", wantMsg: "Minimum time entry is 30 minutes.",
		},
		{
			name: "over a day",
			input: func(p, _ *model.Project) CreateTimesheetInput {
				return CreateTimesheetInput{ProjectID: p.ID, TaskName: "x", Date: "2024-06-14", Hours: "24.5"}
			},
			wantField: "hours", wantMsg: "Maximum time entry is 24 hours per day.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f := newTimesheetService(t)
			user := f.User()
			member := f.Project([]*model.User{user})
			foreign := f.Project([]*model.User{f.User()})

			ts, err := svc.Create(context.Background(), actorOf(user), tt.input(member, foreign))
			if tt.wantField != "" {
				var verr *apperrors.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, []string{tt.wantMsg}, verr.Messages(tt.wantField))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, ts.UserID)
			require.NotNil(t, ts.User)
			require.NotNil(t, ts.Project)
			assert.Equal(t, member.ID, ts.Project.ID)
		})
	}
}

func TestTimesheetService_CreateCollectsAllErrors(t *testing.T) {
	svc, f := newTimesheetService(t)
	user := f.User()

	_, err := svc.Create(context.Background(), actorOf(user), CreateTimesheetInput{})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"project_id", "task_name", "date", "hours"}, verr.FieldNames())
}

func TestTimesheetService_CreateStoresNormalisedValues(t *testing.T) {
	svc, f := newTimesheetService(t)
	user := f.User()
	project := f.Project([]*model.User{user})

	ts, err := svc.Create(context.Background(), actorOf(user), CreateTimesheetInput{
		ProjectID: project.ID,
		TaskName:  " Planning ",
		Date:      "June 3, 2024",
		Hours:     "2.345",
	})
	require.NoError(t, err)
	assert.Equal(t, "Planning", ts.TaskName)
	assert.Equal(t, "2024-06-03", ts.Date.String())
	assert.Equal(t, "2.35", ts.Hours.StringFixed(2))
}

func TestTimesheetService_OwnerOnly(t *testing.T) {
	svc, f := newTimesheetService(t)
	owner, teammate := f.User(), f.User()
	project := f.Project([]*model.User{owner, teammate})
	entry := f.Timesheet(owner, project)
	ctx := context.Background()

	_, err := svc.Get(ctx, actorOf(teammate), entry.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	task := "Stolen"
	_, err = svc.Update(ctx, actorOf(teammate), entry.ID, UpdateTimesheetInput{TaskName: &task})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, actorOf(teammate), entry.ID), apperrors.ErrNotFound)

	got, err := svc.Get(ctx, actorOf(owner), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
}

func TestTimesheetService_Update(t *testing.T) {
	svc, f := newTimesheetService(t)
	user := f.User()
	project := f.Project([]*model.User{user})
	other := f.Project([]*model.User{user})
	foreign := f.Project([]*model.User{f.User()})
	entry := f.Timesheet(user, project)
	ctx := context.Background()

	hours := "3"
	otherID := other.ID
	updated, err := svc.Update(ctx, actorOf(user), entry.ID, UpdateTimesheetInput{ProjectID: &otherID, Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.ProjectID)
	assert.Equal(t, "3", updated.Hours.String())
	assert.Equal(t, entry.TaskName, updated.TaskName)

	foreignID := foreign.ID
	future := "2030-01-01"
	_, err = svc.Update(ctx, actorOf(user), entry.ID, UpdateTimesheetInput{ProjectID: &foreignID, Date: &future})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"project_id", "date"}, verr.FieldNames())
}

func TestTimesheetService_DeleteAndList(t *testing.T) {
	svc, f := newTimesheetService(t)
	alice, bob := f.User(), f.User()
	shared := f.Project([]*model.User{alice, bob})
	private := f.Project([]*model.User{bob})
	mine := f.Timesheet(alice, shared)
	f.Timesheet(bob, shared)
	f.Timesheet(bob, private)
	ctx := context.Background()

	page, err := svc.List(ctx, actorOf(alice), TimesheetQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, repository.TimesheetPageSize, page.PerPage)

	bobID := bob.ID
	page, err = svc.List(ctx, actorOf(alice), TimesheetQuery{UserID: &bobID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.Delete(ctx, actorOf(alice), mine.ID))
	_, err = svc.Get(ctx, actorOf(alice), mine.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
