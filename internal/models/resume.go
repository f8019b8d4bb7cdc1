package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Resume is the assembled candidate record: parsed fields merged with manual
// overrides, the match result when scoring ran, and the caller-supplied
// linkage identifiers. Immutable after ingestion.
type Resume struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateName    string                      `gorm:"type:text;not null" json:"candidate_name"`
	Email            string                      `gorm:"type:text" json:"email"`
	Phone            string                      `gorm:"type:text" json:"phone"`
	ResumeText       string                      `gorm:"type:text" json:"resume_text"`
	Skills           datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	ExperienceYears  int                         `json:"experience_years"`
	Education        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"education"`
	Projects         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"projects"`
	Certifications   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"certifications"`
	Extracurriculars datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"extracurriculars"`
	PortfolioLinks   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"portfolio_links"`
	Github           string                      `gorm:"type:text" json:"github"`
	Linkedin         string                      `gorm:"type:text" json:"linkedin"`

	// AtsScore mirrors Match for ordering; nil when scoring was skipped.
	AtsScore *int                             `gorm:"index" json:"ats_score,omitempty"`
	Match    *datatypes.JSONType[MatchResult] `gorm:"type:jsonb" json:"match,omitempty"`

	PdfData        []byte `gorm:"type:bytea" json:"-"`
	PdfContentType string `gorm:"type:text" json:"-"`

	JobID      uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CompanyID  string    `gorm:"type:text;not null;index" json:"company_id"`
	UploadedBy uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

// MatchData returns the stored match result, or nil when scoring was skipped.
func (r *Resume) MatchData() *MatchResult {
	if r.Match == nil {
		return nil
	}
	data := r.Match.Data()
	return &data
}
