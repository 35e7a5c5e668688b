package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"timesheet/internal/model"
	"timesheet/internal/repository"
	"timesheet/internal/testutil"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewDB(t)
	seeder := New(repository.NewStore(db), zap.NewNop(), 42)
	ctx := context.Background()

	opts := Options{
		Users: 4,
		Projects: map[model.ProjectStatus]int{
			model.ProjectStatusActive:    2,
			model.ProjectStatusCancelled: 1,
		},
		MinEntries: 1,
		MaxEntries: 2,
	}

	result, err := seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Users)
	assert.Equal(t, 3, result.Projects)
	assert.Equal(t, 3*len(commonAttributes), result.Attributes)
	assert.NotZero(t, result.Timesheets)

	var projects []model.Project
	require.NoError(t, db.Preload("Users").Preload("Attributes").Find(&projects).Error)
	require.Len(t, projects, 3)
	for _, p := range projects {
		assert.GreaterOrEqual(t, len(p.Users), 2)
		assert.LessOrEqual(t, len(p.Users), 4)
		assert.Len(t, p.Attributes, len(commonAttributes))

		department, ok := p.AttributeValue("department")
		require.True(t, ok)
		assert.Contains(t, []string{"IT", "HR", "Finance", "Marketing", "Sales", "Operations"}, department.String())
	}

	var timesheets int64
	require.NoError(t, db.Model(&model.Timesheet{}).Count(&timesheets).Error)
	assert.Equal(t, int64(result.Timesheets), timesheets)

	again, err := seeder.Run(ctx, Options{Users: 1, Projects: map[model.ProjectStatus]int{}})
	require.NoError(t, err)
	assert.Equal(t, 1, again.Users)

	var demo int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", DemoEmail).Count(&demo).Error)
	assert.Equal(t, int64(1), demo)
}
