package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"timesheet/internal/attribute"
	"timesheet/internal/auth"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/model"
	"timesheet/internal/repository"
	"timesheet/internal/testutil"
)

type projectFixture struct {
	db  *gorm.DB
	f   *testutil.Factory
	svc ProjectService
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &projectFixture{
		db:  db,
		f:   testutil.NewFactory(t, db),
		svc: NewProjectService(repository.NewStore(db)),
	}
}

func actorOf(u *model.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Email: u.Email}
}

func memberIDs(p *model.Project) []uint {
	ids := make([]uint, 0, len(p.Users))
	for _, u := range p.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestProjectService_CreateAutoCreatesStringAttributes(t *testing.T) {
	fx := newProjectFixture(t)
	owner, teammate := fx.f.User(), fx.f.User()

	project, err := fx.svc.Create(context.Background(), actorOf(owner), CreateProjectInput{
		Name:       "  Website Redesign ",
		Status:     model.ProjectStatusActive,
		UserIDs:    []uint{teammate.ID, owner.ID},
		Attributes: []AttributeEntry{{Name: "department", Value: "IT"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Website Redesign", project.Name)
	assert.ElementsMatch(t, []uint{owner.ID, teammate.ID}, memberIDs(project))
	require.Len(t, project.Attributes, 1)
	assert.Equal(t, "department", project.Attributes[0].Name)
	assert.Equal(t, attribute.TypeString, project.Attributes[0].Type)

	v, ok := project.AttributeValue("department")
	require.True(t, ok)
	assert.Equal(t, "IT", v.String())
	_, ok = project.AttributeValue("Department")
	assert.False(t, ok)
}

func TestProjectService_SameAttributeNameAcrossProjects(t *testing.T) {
	fx := newProjectFixture(t)
	owner := fx.f.User()
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta"} {
		_, err := fx.svc.Create(ctx, actorOf(owner), CreateProjectInput{
			Name:       name,
			Status:     model.ProjectStatusActive,
			Attributes: []AttributeEntry{{Name: "department", Value: "IT"}},
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, fx.db.Model(&model.Attribute{}).Where("name = ?", "department").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestProjectService_CreateRejectsUnknownUsers(t *testing.T) {
	fx := newProjectFixture(t)
	owner := fx.f.User()

	_, err := fx.svc.Create(context.Background(), actorOf(owner), CreateProjectInput{
		Name:    "Ghost team",
		Status:  model.ProjectStatusActive,
		UserIDs: []uint{owner.ID, 9999},
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{msgUnknownUsers}, verr.Messages("user_ids"))

	var count int64
	require.NoError(t, fx.db.Model(&model.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProjectService_CreateRollsBackOnAttributeFailure(t *testing.T) {
	fx := newProjectFixture(t)
	owner := fx.f.User()

	_, err := fx.svc.Create(context.Background(), actorOf(owner), CreateProjectInput{
		Name:   "Half done",
		Status: model.ProjectStatusActive,
		Attributes: []AttributeEntry{
			{Name: "department", Value: "IT"},
			{Name: "owner", Value: "  "},
		},
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Messages("attributes.owner"))

	for _, m := range []interface{}{&model.Project{}, &model.Attribute{}, &model.ProjectUser{}} {
		var count int64
		require.NoError(t, fx.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestProjectService_NonMemberGetsNotFound(t *testing.T) {
	fx := newProjectFixture(t)
	member, outsider := fx.f.User(), fx.f.User()
	project := fx.f.Project([]*model.User{member})
	ctx := context.Background()

	_, err := fx.svc.Get(ctx, actorOf(outsider), project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	name := "Hijacked"
	_, err = fx.svc.Update(ctx, actorOf(outsider), project.ID, UpdateProjectInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, fx.svc.Delete(ctx, actorOf(outsider), project.ID), apperrors.ErrNotFound)

	_, err = fx.svc.Get(ctx, actorOf(member), 424242)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 404, apperrors.MapErrorToHTTP(err).StatusCode)

	got, err := fx.svc.Get(ctx, actorOf(member), project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("fields and member sync", func(t *testing.T) {
		fx := newProjectFixture(t)
		owner, a, b := fx.f.User(), fx.f.User(), fx.f.User()
		project := fx.f.Project([]*model.User{owner, a})

		name := "Renamed"
		status := model.ProjectStatusOnHold
		ids := []uint{b.ID}
		updated, err := fx.svc.Update(ctx, actorOf(owner), project.ID, UpdateProjectInput{
			Name:    &name,
			Status:  &status,
			UserIDs: &ids,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, model.ProjectStatusOnHold, updated.Status)
		assert.ElementsMatch(t, []uint{owner.ID, b.ID}, memberIDs(updated))
	})

	t.Run("members untouched without user_ids", func(t *testing.T) {
		fx := newProjectFixture(t)
		owner, a := fx.f.User(), fx.f.User()
		project := fx.f.Project([]*model.User{owner, a})

		desc := "Now with a description"
		updated, err := fx.svc.Update(ctx, actorOf(owner), project.ID, UpdateProjectInput{Description: &desc})
		require.NoError(t, err)
		require.NotNil(t, updated.Description)
		assert.Equal(t, desc, *updated.Description)
		assert.ElementsMatch(t, []uint{owner.ID, a.ID}, memberIDs(updated))
	})

	t.Run("attribute failure rolls back field changes", func(t *testing.T) {
		fx := newProjectFixture(t)
		owner := fx.f.User()
		project := fx.f.Project([]*model.User{owner}, func(p *model.Project) { p.Name = "Original" })
		fx.f.Attribute(project, "department", attribute.TypeSelect, "IT", "IT", "HR")

		name := "Changed"
		_, err := fx.svc.Update(ctx, actorOf(owner), project.ID, UpdateProjectInput{
			Name:       &name,
			Attributes: []AttributeEntry{{Name: "department", Value: "Finance"}},
		})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Messages("attributes.department"))

		got, err := fx.svc.Get(ctx, actorOf(owner), project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Name)
		v, _ := got.AttributeValue("department")
		assert.Equal(t, "IT", v.String())
	})

	t.Run("select attribute keeps its type", func(t *testing.T) {
		fx := newProjectFixture(t)
		owner := fx.f.User()
		project := fx.f.Project([]*model.User{owner})
		fx.f.Attribute(project, "department", attribute.TypeSelect, "IT", "IT", "HR")

		updated, err := fx.svc.Update(ctx, actorOf(owner), project.ID, UpdateProjectInput{
			Attributes: []AttributeEntry{{Name: "department", Value: "HR"}},
		})
		require.NoError(t, err)
		require.Len(t, updated.Attributes, 1)
		assert.Equal(t, attribute.TypeSelect, updated.Attributes[0].Type)
		assert.Equal(t, "HR", updated.Attributes[0].Value)
	})
}

func TestProjectService_DeleteCascades(t *testing.T) {
	fx := newProjectFixture(t)
	owner := fx.f.User()
	project := fx.f.Project([]*model.User{owner})
	keep := fx.f.Project([]*model.User{owner})
	fx.f.Attribute(project, "budget", attribute.TypeNumber, "100")
	fx.f.Timesheet(owner, project)
	fx.f.Timesheet(owner, keep)

	require.NoError(t, fx.svc.Delete(context.Background(), actorOf(owner), project.ID))

	var n int64
	require.NoError(t, fx.db.Model(&model.Attribute{}).Where("project_id = ?", project.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, fx.db.Model(&model.Timesheet{}).Where("project_id = ?", project.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, fx.db.Model(&model.ProjectUser{}).Where("project_id = ?", project.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, fx.db.Model(&model.Timesheet{}).Where("project_id = ?", keep.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err := fx.svc.Get(context.Background(), actorOf(owner), project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProjectService_SetAttributeValue(t *testing.T) {
	fx := newProjectFixture(t)
	owner := fx.f.User()
	project := fx.f.Project([]*model.User{owner})
	ctx := context.Background()

	updated, err := fx.svc.SetAttributeValue(ctx, actorOf(owner), project.ID, "priority", "High")
	require.NoError(t, err)
	v, ok := updated.AttributeValue("priority")
	require.True(t, ok)
	assert.Equal(t, "High", v.String())

	updated, err = fx.svc.SetAttributeValue(ctx, actorOf(owner), project.ID, "priority", "Low")
	require.NoError(t, err)
	assert.Len(t, updated.Attributes, 1)
	v, _ = updated.AttributeValue("priority")
	assert.Equal(t, "Low", v.String())
}

func TestProjectService_ListFilters(t *testing.T) {
	fx := newProjectFixture(t)
	alice, bob := fx.f.User(), fx.f.User()
	web := fx.f.Project([]*model.User{alice}, func(p *model.Project) { p.Name = "Website" })
	app := fx.f.Project([]*model.User{alice, bob}, func(p *model.Project) { p.Name = "Mobile App" })
	fx.f.Project([]*model.User{bob})
	fx.f.Attribute(web, "department", attribute.TypeString, "IT")
	fx.f.Attribute(app, "department", attribute.TypeString, "HR")

	page, err := fx.svc.List(context.Background(), actorOf(alice), ProjectQuery{
		Filters: map[string]string{"name": "web", "department": "HR"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	page, err = fx.svc.List(context.Background(), actorOf(alice), ProjectQuery{
		Filters: map[string]string{"name": "app", "department": "HR"},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, app.ID, page.Data[0].ID)

	page, err = fx.svc.List(context.Background(), actorOf(alice), ProjectQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, repository.ProjectPageSize, page.PerPage)
}

func TestProjectService_RejectsBlankNames(t *testing.T) {
	fx := newProjectFixture(t)
	owner := fx.f.User()
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, actorOf(owner), CreateProjectInput{
		Name:   "   ",
		Status: model.ProjectStatus("paused"),
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{msgNameRequired}, verr.Messages("name"))
	assert.Equal(t, []string{msgInvalidStatus}, verr.Messages("status"))

	var count int64
	require.NoError(t, fx.db.Model(&model.Project{}).Count(&count).Error)
	assert.Zero(t, count)

	project := fx.f.Project([]*model.User{owner}, func(p *model.Project) { p.Name = "Apollo" })
	blank := " \t "
	_, err = fx.svc.Update(ctx, actorOf(owner), project.ID, UpdateProjectInput{Name: &blank})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{msgNameRequired}, verr.Messages("name"))

	got, err := fx.svc.Get(ctx, actorOf(owner), project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got.Name)
}
