package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectService struct {
	db       *gorm.DB
	repo     repository.ProjectRepository
	auditSvc *AuditService
}

func NewProjectService(db *gorm.DB, repo repository.ProjectRepository, auditSvc *AuditService) *ProjectService {
	return &ProjectService{db: db, repo: repo, auditSvc: auditSvc}
}

func (s *ProjectService) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) FindByIDWithBookings(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.FindByIDWithBookings(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, query *repository.ListQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ProjectService) Create(ctx context.Context, project *models.Project, actorID uint) error {
	if project.TotalPlots <= 0 {
		return fmt.Errorf("total plots must be greater than zero")
	}

	// Auto-generate GUID if not provided
	if project.GUID == "" {
		project.GUID = uuid.New().String()
	}
	project.IsActive = true

	if err := s.repo.Create(ctx, project); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Project", project.ID,
		fmt.Sprintf("Project %s created with %d plots", project.Name, project.TotalPlots), "", "")
	return nil
}

func (s *ProjectService) Update(ctx context.Context, project *models.Project, actorID uint) error {
	if err := s.repo.Update(ctx, project); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Project", project.ID,
		fmt.Sprintf("Project %s updated", project.Name), "", "")
	return nil
}

// SoftDelete flags the project, its bookings and their payments as deleted in
// one transaction.
func (s *ProjectService) SoftDelete(ctx context.Context, id uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ? AND is_deleted = false", id).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.Payment{}).
			Where("booking_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).
					Model(&models.Booking{}).
					Select("id").
					Where("project_id = ?", id)).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.Booking{}).
			Where("project_id = ?", id).
			Update("is_deleted", true).Error
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Project", id,
		"Project, its bookings and their payments soft-deleted", "", "")
	return nil
}

// Restore clears the project flag only; bookings and payments deleted by the
// cascade must be restored individually.
func (s *ProjectService) Restore(ctx context.Context, id uint, actorID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND is_deleted = true", id).
		Update("is_deleted", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.auditSvc.Log(ctx, actorID, "RESTORE", "Project", id, "Project restored", "", "")
	return nil
}

// AvailablePlots recomputes plot availability from the active booking count.
func (s *ProjectService) AvailablePlots(ctx context.Context, id uint, bookingRepo repository.BookingRepository) (int, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	booked, err := bookingRepo.CountActiveByProject(ctx, id)
	if err != nil {
		return 0, err
	}
	return project.TotalPlots - int(booked), nil
}
