package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireloop/resume-screener/internal/models"
)

var ErrNotFound = errors.New("record not found")

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID, companyID string) (*models.Job, error)
	FindByCompany(companyID string) ([]models.Job, error)
	Delete(id uuid.UUID, companyID string) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID implements JobRepository. Lookups are always tenant-scoped.
func (r *jobRepository) FindByID(id uuid.UUID, companyID string) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ? AND company_id = ?", id, companyID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// FindByCompany implements JobRepository.
func (r *jobRepository) FindByCompany(companyID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Delete implements JobRepository.
func (r *jobRepository) Delete(id uuid.UUID, companyID string) error {
	result := r.db.Where("id = ? AND company_id = ?", id, companyID).Delete(&models.Job{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
