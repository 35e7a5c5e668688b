// Package seed fills a database with demo users, projects, attributes and time entries.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"timesheet/internal/attribute"
	"timesheet/internal/model"
	"timesheet/internal/repository"
	"timesheet/internal/service"
)

const (
	// DemoEmail is the login of the fixed demo account.
	DemoEmail = "test@example.com"
	// DemoPassword is the password of every seeded user.
	DemoPassword = "password"
)

// Options sizes a seed run.
type Options struct {
	Users int
	// Projects per status.
	Projects map[model.ProjectStatus]int
	// MinEntries and MaxEntries bound the time entries per member per project.
	MinEntries int
	MaxEntries int
}

// DefaultOptions mirrors a small team.
func DefaultOptions() Options {
	return Options{
		Users: 10,
		Projects: map[model.ProjectStatus]int{
			model.ProjectStatusActive:    5,
			model.ProjectStatusCompleted: 3,
			model.ProjectStatusOnHold:    2,
			model.ProjectStatusCancelled: 1,
		},
		MinEntries: 5,
		MaxEntries: 10,
	}
}

// Result counts the records a run created.
type Result struct {
	Users      int `json:"users"`
	Projects   int `json:"projects"`
	Attributes int `json:"attributes"`
	Timesheets int `json:"timesheets"`
}

type commonAttribute struct {
	name    string
	typ     attribute.Type
	options []string
	value   func(f *gofakeit.Faker, now time.Time) string
}

var commonAttributes = []commonAttribute{
	{
		name:    "department",
		typ:     attribute.TypeSelect,
		options: []string{"IT", "HR", "Finance", "Marketing", "Sales", "Operations"},
		value: func(f *gofakeit.Faker, _ time.Time) string {
			return f.RandomString([]string{"IT", "HR", "Finance", "Marketing", "Sales", "Operations"})
		},
	},
	{
		name: "start_date",
		typ:  attribute.TypeDate,
		value: func(_ *gofakeit.Faker, now time.Time) string {
			return now.Format(attribute.DateLayout)
		},
	},
	{
		name: "end_date",
		typ:  attribute.TypeDate,
		value: func(_ *gofakeit.Faker, now time.Time) string {
			return now.AddDate(0, 3, 0).Format(attribute.DateLayout)
		},
	},
	{
		name: "budget",
		typ:  attribute.TypeNumber,
		value: func(f *gofakeit.Faker, _ time.Time) string {
			return fmt.Sprint(f.Number(1, 100) * 1000)
		},
	},
	{
		name:    "priority",
		typ:     attribute.TypeSelect,
		options: []string{"Low", "Medium", "High", "Critical"},
		value: func(f *gofakeit.Faker, _ time.Time) string {
			return f.RandomString([]string{"Low", "Medium", "High", "Critical"})
		},
	},
}

// Seeder writes demo data through the repositories.
type Seeder struct {
	store repository.Store
	log   *zap.Logger
	faker *gofakeit.Faker
	now   func() time.Time
}

// New builds a seeder. The same seed yields the same data.
func New(store repository.Store, log *zap.Logger, seed int64) *Seeder {
	return &Seeder{
		store: store,
		log:   log,
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// Run creates users, then projects of every status with two to four members each,
// the common attributes per project and time entries for every member.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	result := &Result{}
	users, err := s.seedUsers(ctx, opts.Users, string(hash), result)
	if err != nil {
		return nil, err
	}
	if len(users) < 2 {
		return nil, fmt.Errorf("need at least 2 users to seed projects, have %d", len(users))
	}

	for _, status := range model.ProjectStatuses {
		for i := 0; i < opts.Projects[status]; i++ {
			if err := s.seedProject(ctx, status, users, opts, result); err != nil {
				return nil, err
			}
		}
	}

	s.log.Info("Seed completed",
		zap.Int("users", result.Users),
		zap.Int("projects", result.Projects),
		zap.Int("attributes", result.Attributes),
		zap.Int("timesheets", result.Timesheets),
	)
	return result, nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int, hash string, result *Result) ([]*model.User, error) {
	users := make([]*model.User, 0, count+1)

	demo, err := s.store.Users().FindByEmail(ctx, DemoEmail)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		demo = &model.User{FirstName: "Test", LastName: "User", Email: DemoEmail, PasswordHash: hash}
		if err := s.store.Users().Create(ctx, demo); err != nil {
			return nil, fmt.Errorf("create demo user: %w", err)
		}
		result.Users++
	case err != nil:
		return nil, fmt.Errorf("find demo user: %w", err)
	default:
		s.log.Info("Demo user already present", zap.Uint("user_id", demo.ID))
	}
	users = append(users, demo)

	for i := 0; i < count; i++ {
		u := &model.User{
			FirstName:    s.faker.FirstName(),
			LastName:     s.faker.LastName(),
			Email:        fmt.Sprintf("%s.%s@example.com", s.faker.Username(), s.faker.UUID()[:8]),
			PasswordHash: hash,
		}
		if err := s.store.Users().Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		result.Users++
	}
	return users, nil
}

func (s *Seeder) seedProject(ctx context.Context, status model.ProjectStatus, users []*model.User, opts Options, result *Result) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		description := s.faker.Sentence(12)
		project := &model.Project{
			Name:        s.faker.AppName(),
			Description: &description,
			Status:      status,
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		members := s.pickMembers(users)
		ids := make([]uint, 0, len(members))
		for _, u := range members {
			ids = append(ids, u.ID)
		}
		if err := tx.Projects().AddMembers(ctx, project.ID, ids); err != nil {
			return fmt.Errorf("attach members: %w", err)
		}

		attrs := service.NewAttributeStore(tx.Attributes())
		now := s.now()
		for _, def := range commonAttributes {
			_, err := attrs.Create(ctx, service.CreateAttributeInput{
				ProjectID: project.ID,
				Name:      def.name,
				Type:      def.typ,
				Value:     def.value(s.faker, now),
				Options:   def.options,
			})
			if err != nil {
				return fmt.Errorf("create attribute %s: %w", def.name, err)
			}
			result.Attributes++
		}

		for _, u := range members {
			n := s.faker.Number(opts.MinEntries, opts.MaxEntries)
			for i := 0; i < n; i++ {
				ts := &model.Timesheet{
					UserID:    u.ID,
					ProjectID: project.ID,
					TaskName:  s.faker.Sentence(4),
					Date:      model.NewDate(now.AddDate(0, 0, -s.faker.Number(0, 30))),
					Hours:     decimal.NewFromFloat(s.faker.Float64Range(0.5, 8)).Round(2),
				}
				if err := tx.Timesheets().Create(ctx, ts); err != nil {
					return fmt.Errorf("create timesheet: %w", err)
				}
				result.Timesheets++
			}
		}

		result.Projects++
		s.log.Debug("Seeded project",
			zap.Uint("project_id", project.ID),
			zap.String("status", string(status)),
			zap.Int("members", len(members)),
		)
		return nil
	})
}

// pickMembers returns two to four distinct users, fewer when not enough exist.
func (s *Seeder) pickMembers(users []*model.User) []*model.User {
	idx := make([]int, len(users))
	for i := range idx {
		idx[i] = i
	}
	s.faker.ShuffleInts(idx)

	n := s.faker.Number(2, 4)
	if n > len(users) {
		n = len(users)
	}
	members := make([]*model.User, 0, n)
	for _, i := range idx[:n] {
		members = append(members, users[i])
	}
	return members
}
