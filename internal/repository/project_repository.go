package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timesheet/internal/model"
)

// ProjectPageSize is the fixed page size of project listings.
const ProjectPageSize = 15

const memberOfProject = "EXISTS (SELECT 1 FROM project_user pu WHERE pu.project_id = projects.id AND pu.user_id = ?)"

// ProjectFilter narrows a project listing. MemberID is mandatory and restricts
// results to projects the requester belongs to.
type ProjectFilter struct {
	MemberID uint
	Status   string
	// UserID keeps projects that have this user as a member.
	UserID *uint
	// Name matches project names case-insensitively by substring.
	Name string
	// Attributes maps attribute name to a substring its value must contain.
	Attributes map[string]string
	Page       int
}

// ProjectRepository defines project and membership persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project, fields map[string]interface{}) error
	// FindByID loads a project with users and attributes.
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	// FindForMember is FindByID restricted to projects userID belongs to.
	FindForMember(ctx context.Context, id, userID uint) (*model.Project, error)
	IsMember(ctx context.Context, projectID, userID uint) (bool, error)
	AddMembers(ctx context.Context, projectID uint, userIDs []uint) error
	// SyncMembers makes userIDs the exact member set of the project.
	SyncMembers(ctx context.Context, projectID uint, userIDs []uint) error
	// Delete removes the project row and its memberships.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ProjectFilter) (*Page[model.Project], error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository builds a GORM-backed repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(project).Omit(clause.Associations).Updates(fields).Error
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := withProjectRelations(r.db.WithContext(ctx)).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindForMember(ctx context.Context, id, userID uint) (*model.Project, error) {
	var project model.Project
	err := withProjectRelations(r.db.WithContext(ctx)).
		Where(memberOfProject, userID).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProjectUser{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *projectRepository) AddMembers(ctx context.Context, projectID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]model.ProjectUser, 0, len(userIDs))
	for _, id := range uniqueIDs(userIDs) {
		rows = append(rows, model.ProjectUser{ProjectID: projectID, UserID: id})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *projectRepository) SyncMembers(ctx context.Context, projectID uint, userIDs []uint) error {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if len(userIDs) > 0 {
		q = q.Where("user_id NOT IN ?", userIDs)
	}
	if err := q.Delete(&model.ProjectUser{}).Error; err != nil {
		return err
	}
	return r.AddMembers(ctx, projectID, userIDs)
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("project_id = ?", id).Delete(&model.ProjectUser{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Project{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) (*Page[model.Project], error) {
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Project{}).Scopes(visibleProjects(filter))
	}
	load := func(db *gorm.DB) *gorm.DB {
		return withProjectRelations(db).Order("projects.id")
	}
	return paginate[model.Project](query, load, filter.Page, ProjectPageSize)
}

// visibleProjects applies the membership predicate and every optional filter, ANDed.
func visibleProjects(filter ProjectFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(memberOfProject, filter.MemberID)

		if filter.Status != "" {
			db = db.Where("projects.status = ?", filter.Status)
		}
		if filter.UserID != nil {
			db = db.Where(memberOfProject, *filter.UserID)
		}
		if filter.Name != "" {
			db = db.Where("LOWER(projects.name) LIKE LOWER(?) ESCAPE '"+likeEscape+"'", containsPattern(filter.Name))
		}

		names := make([]string, 0, len(filter.Attributes))
		for name := range filter.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			db = db.Where(
				"EXISTS (SELECT 1 FROM attributes a WHERE a.project_id = projects.id AND a.name = ? AND a.value LIKE ? ESCAPE '"+likeEscape+"')",
				name, containsPattern(filter.Attributes[name]),
			)
		}
		return db
	}
}

func withProjectRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("attributes.id") })
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
