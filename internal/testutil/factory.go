package testutil

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"timesheet/internal/attribute"
	"timesheet/internal/model"
)

// Password is the plain-text password of every factory user.
const Password = "password123"

var passwordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// Factory persists fake records.
type Factory struct {
	t  *testing.T
	db *gorm.DB
}

// NewFactory binds a factory to db.
func NewFactory(t *testing.T, db *gorm.DB) *Factory {
	return &Factory{t: t, db: db}
}

// User creates a user, applying opts before insert.
func (f *Factory) User(opts ...func(*model.User)) *model.User {
	f.t.Helper()
	u := &model.User{
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		Email:        gofakeit.UUID() + "@example.com",
		PasswordHash: passwordHash,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// Project creates a project with members.
func (f *Factory) Project(members []*model.User, opts ...func(*model.Project)) *model.Project {
	f.t.Helper()
	p := &model.Project{
		Name:   gofakeit.AppName(),
		Status: model.ProjectStatusActive,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(f.t, f.db.Omit("Users", "Attributes", "Timesheets").Create(p).Error)
	for _, u := range members {
		require.NoError(f.t, f.db.Create(&model.ProjectUser{ProjectID: p.ID, UserID: u.ID}).Error)
	}
	return p
}

// Attribute creates an attribute on project.
func (f *Factory) Attribute(project *model.Project, name string, typ attribute.Type, value string, options ...string) *model.Attribute {
	f.t.Helper()
	a := &model.Attribute{ProjectID: project.ID, Name: name, Type: typ, Value: value}
	if len(options) > 0 {
		a.Options = options
	}
	require.NoError(f.t, f.db.Create(a).Error)
	return a
}

// Timesheet creates an entry for user on project.
func (f *Factory) Timesheet(user *model.User, project *model.Project, opts ...func(*model.Timesheet)) *model.Timesheet {
	f.t.Helper()
	ts := &model.Timesheet{
		UserID:    user.ID,
		ProjectID: project.ID,
		TaskName:  gofakeit.HackerVerb() + " " + gofakeit.HackerNoun(),
		Date:      model.NewDate(time.Now().AddDate(0, 0, -gofakeit.Number(0, 30))),
		Hours:     decimal.NewFromFloat(gofakeit.Float64Range(0.5, 8)).Round(2),
	}
	for _, opt := range opts {
		opt(ts)
	}
	require.NoError(f.t, f.db.Omit("User", "Project").Create(ts).Error)
	return ts
}
