package repository

import (
	"context"
	"errors"

	"github.com/dsrealty/estate-api/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	FindByIDWithBookings(ctx context.Context, id uint) (*models.Project, error)
	FindByGUID(ctx context.Context, guid string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error)
	FindAll(ctx context.Context) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("is_deleted = false").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByIDWithBookings(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("is_deleted = false").
		Preload("Bookings", "is_deleted = false").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByGUID(ctx context.Context, guid string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("guid = ? AND is_deleted = false", guid).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		if isDuplicateKeyError(err, "idx_projects_name") {
			return errors.New("a project with this name already exists")
		}
		return err
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Project{}).Where("is_deleted = false")

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ? OR city ILIKE ?", search, search, search)
	}

	if query.Filters["project_type"] != "" {
		db = db.Where("project_type = ?", query.Filters["project_type"])
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Bookings", "is_deleted = false").Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("is_deleted = false").
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}
