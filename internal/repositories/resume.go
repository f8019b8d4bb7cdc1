package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireloop/resume-screener/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID, companyID string) (*models.Resume, error)
	FindByJob(jobID uuid.UUID, companyID string) ([]models.Resume, error)
	FindByIDs(ids []uuid.UUID, companyID string) ([]models.Resume, error)
	Delete(id uuid.UUID, companyID string) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// FindByID implements ResumeRepository.
func (r *resumeRepository) FindByID(id uuid.UUID, companyID string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ? AND company_id = ?", id, companyID).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// FindByJob implements ResumeRepository. Highest score first; records that
// were never scored sort last.
func (r *resumeRepository) FindByJob(jobID uuid.UUID, companyID string) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Where("job_id = ? AND company_id = ?", jobID, companyID).
		Order("ats_score DESC NULLS LAST").
		Order("created_at ASC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// Delete implements ResumeRepository.
func (r *resumeRepository) Delete(id uuid.UUID, companyID string) error {
	result := r.db.Where("id = ? AND company_id = ?", id, companyID).Delete(&models.Resume{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByIDs implements ResumeRepository.
func (r *resumeRepository) FindByIDs(ids []uuid.UUID, companyID string) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Where("id IN ? AND company_id = ?", ids, companyID).Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}
