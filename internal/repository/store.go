package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Store gives access to every repository over one connection or transaction.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Attributes() AttributeRepository
	Timesheets() TimesheetRepository
	// WithTransaction runs fn with a Store bound to a single transaction.
	// The transaction is rolled back when fn returns an error.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore builds a GORM-backed Store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository           { return NewUserRepository(s.db) }
func (s *store) Projects() ProjectRepository     { return NewProjectRepository(s.db) }
func (s *store) Attributes() AttributeRepository { return NewAttributeRepository(s.db) }
func (s *store) Timesheets() TimesheetRepository { return NewTimesheetRepository(s.db) }

func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}

// Page is one page of an offset-paginated listing.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// paginate counts rows matching query() and loads the requested page through load.
// query is called twice so the count and the select use independent statements.
func paginate[T any](query func() *gorm.DB, load func(*gorm.DB) *gorm.DB, page, perPage int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0, perPage)
	if total > 0 {
		if err := load(query()).Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
			return nil, err
		}
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return &Page[T]{
		Data:        items,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}, nil
}

// likeEscape is the escape character used in every LIKE built from user input.
const likeEscape = "!"

// containsPattern builds a LIKE pattern matching s anywhere, with wildcards in s taken literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(s) + "%"
}
