package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"timesheet/internal/attribute"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/testutil"
)

func TestAttributeRepository_UniqueNamePerProject(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFactory(t, db)
	repo := NewAttributeRepository(db)
	ctx := context.Background()

	user := f.User()
	p1 := f.Project([]*model.User{user})
	p2 := f.Project([]*model.User{user})

	require.NoError(t, repo.Create(ctx, &model.Attribute{ProjectID: p1.ID, Name: "department", Type: attribute.TypeString, Value: "IT"}))
	require.NoError(t, repo.Create(ctx, &model.Attribute{ProjectID: p2.ID, Name: "department", Type: attribute.TypeString, Value: "IT"}))

	err := repo.Create(ctx, &model.Attribute{ProjectID: p1.ID, Name: "department", Type: attribute.TypeNumber, Value: "1"})
	var dup *apperrors.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "department", dup.Name)
	assert.Equal(t, p1.ID, dup.ProjectID)

	other := &model.Attribute{ProjectID: p1.ID, Name: "budget", Type: attribute.TypeNumber, Value: "5"}
	require.NoError(t, repo.Create(ctx, other))
	other.Name = "department"
	assert.ErrorAs(t, repo.Save(ctx, other), &dup)
}

func TestAttributeRepository_Lookups(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFactory(t, db)
	repo := NewAttributeRepository(db)
	ctx := context.Background()

	alice, bob := f.User(), f.User()
	p1 := f.Project([]*model.User{alice})
	p2 := f.Project([]*model.User{bob})
	a1 := f.Attribute(p1, "department", attribute.TypeSelect, "IT", "IT", "HR")
	a2 := f.Attribute(p1, "budget", attribute.TypeNumber, "100")
	a3 := f.Attribute(p2, "department", attribute.TypeString, "Ops")

	found, err := repo.FindByProjectAndName(ctx, p1.ID, "department")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, a1.ID, found.ID)
	assert.Equal(t, []string{"IT", "HR"}, []string(found.Options))

	missing, err := repo.FindByProjectAndName(ctx, p1.ID, "Department")
	require.NoError(t, err)
	assert.Nil(t, missing)

	taken, err := repo.NameTaken(ctx, p1.ID, "budget", a2.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = repo.NameTaken(ctx, p1.ID, "budget", a1.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	all, err := repo.List(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forAlice, err := repo.List(ctx, nil, alice.ID)
	require.NoError(t, err)
	require.Len(t, forAlice, 2)
	assert.Equal(t, a1.ID, forAlice[0].ID)
	assert.Equal(t, a2.ID, forAlice[1].ID)

	p2ID := p2.ID
	forProject, err := repo.List(ctx, &p2ID, 0)
	require.NoError(t, err)
	require.Len(t, forProject, 1)
	assert.Equal(t, a3.ID, forProject[0].ID)

	require.NoError(t, repo.Delete(ctx, a3.ID))
	_, err = repo.FindByID(ctx, a3.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a3.ID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteByProject(ctx, p1.ID))
	all, err = repo.List(ctx, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAttributeRepository_SaveNullsOptions(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFactory(t, db)
	repo := NewAttributeRepository(db)
	ctx := context.Background()

	p := f.Project([]*model.User{f.User()})
	a := f.Attribute(p, "priority", attribute.TypeSelect, "High", "Low", "High")

	a.Type = attribute.TypeString
	a.Options = nil
	require.NoError(t, repo.Save(ctx, a))

	reloaded, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, attribute.TypeString, reloaded.Type)
	assert.Nil(t, reloaded.Options)
}
