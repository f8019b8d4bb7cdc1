package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hireloop/resume-screener/internal/logger"
	"hireloop/resume-screener/internal/models"
)

// ErrCandidateNameRequired is the single validation failure the ingestion
// pipeline surfaces: no name could be derived from any source.
var ErrCandidateNameRequired = errors.New("candidate name could not be determined")

// ManualFields are caller-supplied overrides; each takes precedence over the
// parsed value when present and of the expected shape.
type ManualFields struct {
	CandidateName    string
	Email            string
	Phone            string
	Skills           []string
	ExperienceYears  *int
	Education        []string
	Projects         []string
	Certifications   []string
	Extracurriculars []string
	PortfolioLinks   []string
	Github           string
	Linkedin         string
}

// IngestInput is one upload event: optional document bytes, optional manual
// text and overrides, the job description to score against, and the linkage
// identifiers supplied by the caller.
type IngestInput struct {
	JobDescription string
	PDF            []byte
	PDFContentType string
	ResumeText     string
	Manual         ManualFields

	JobID      uuid.UUID
	CompanyID  string
	UploadedBy uuid.UUID
}

// FieldSource records where a resolved field value came from.
type FieldSource int

const (
	SourceDefault FieldSource = iota
	SourceParsed
	SourceManual
)

// Resolved carries a field value together with its provenance.
type Resolved[T any] struct {
	Value  T
	Source FieldSource
}

// resolveField applies the uniform precedence: manual when valid, else
// parsed when valid, else the type's zero value.
func resolveField[T any](manual T, manualOK bool, parsed T, parsedOK bool) Resolved[T] {
	if manualOK {
		return Resolved[T]{Value: manual, Source: SourceManual}
	}
	if parsedOK {
		return Resolved[T]{Value: parsed, Source: SourceParsed}
	}
	var zero T
	return Resolved[T]{Value: zero, Source: SourceDefault}
}

type IngestionService interface {
	Ingest(ctx context.Context, input IngestInput) (*models.Resume, error)
}

type ingestionService struct {
	extractor PDFExtractor
	parser    ResumeParser
	scorer    ScoreProvider
}

func NewIngestionService(extractor PDFExtractor, parser ResumeParser, scorer ScoreProvider) IngestionService {
	return &ingestionService{
		extractor: extractor,
		parser:    parser,
		scorer:    scorer,
	}
}

// Ingest runs the pipeline for one upload: extract, parse, merge overrides,
// score, assemble. The only error it returns is ErrCandidateNameRequired;
// every other failure degrades.
func (s *ingestionService) Ingest(ctx context.Context, input IngestInput) (*models.Resume, error) {
	resumeText := strings.TrimSpace(input.ResumeText)

	if len(input.PDF) > 0 {
		extracted, err := s.extractor.ExtractText(input.PDF)
		if err != nil {
			// Degrade, don't abort: an unreadable document means no
			// extracted text, not a failed ingestion.
			logger.Warn().Err(err).Msg("document extraction failed, continuing without extracted text")
		}
		switch {
		case resumeText != "" && extracted != "":
			resumeText = resumeText + "\n" + extracted
		case extracted != "":
			resumeText = extracted
		}
	}

	parsed := s.parser.Parse(resumeText)
	m := input.Manual

	skills := resolveField(m.Skills, len(m.Skills) > 0, parsed.Skills, len(parsed.Skills) > 0)
	education := resolveField(m.Education, len(m.Education) > 0, parsed.Education, len(parsed.Education) > 0)
	projects := resolveField(m.Projects, len(m.Projects) > 0, parsed.Projects, len(parsed.Projects) > 0)
	certifications := resolveField(m.Certifications, len(m.Certifications) > 0, parsed.Certifications, len(parsed.Certifications) > 0)
	extracurriculars := resolveField(m.Extracurriculars, len(m.Extracurriculars) > 0, parsed.Extracurriculars, len(parsed.Extracurriculars) > 0)
	portfolioLinks := resolveField(m.PortfolioLinks, len(m.PortfolioLinks) > 0, parsed.PortfolioLinks, len(parsed.PortfolioLinks) > 0)

	manualYears := 0
	if m.ExperienceYears != nil {
		manualYears = *m.ExperienceYears
	}
	experience := resolveField(manualYears, m.ExperienceYears != nil && manualYears >= 0,
		parsed.ExperienceYears, parsed.ExperienceYears > 0)

	email := resolveField(m.Email, m.Email != "", parsed.Email, parsed.Email != "")
	phone := resolveField(m.Phone, m.Phone != "", parsed.Phone, parsed.Phone != "")
	github := resolveField(m.Github, m.Github != "", parsed.Github, parsed.Github != "")
	linkedin := resolveField(m.Linkedin, m.Linkedin != "", parsed.Linkedin, parsed.Linkedin != "")

	candidateName := resolveCandidateName(m.CandidateName, parsed.CandidateName, email.Value)
	if candidateName == "" {
		return nil, ErrCandidateNameRequired
	}

	record := &models.Resume{
		CandidateName:    candidateName,
		Email:            email.Value,
		Phone:            phone.Value,
		ResumeText:       resumeText,
		Skills:           datatypes.NewJSONSlice(emptyIfNil(skills.Value)),
		ExperienceYears:  experience.Value,
		Education:        datatypes.NewJSONSlice(emptyIfNil(education.Value)),
		Projects:         datatypes.NewJSONSlice(emptyIfNil(projects.Value)),
		Certifications:   datatypes.NewJSONSlice(emptyIfNil(certifications.Value)),
		Extracurriculars: datatypes.NewJSONSlice(emptyIfNil(extracurriculars.Value)),
		PortfolioLinks:   datatypes.NewJSONSlice(emptyIfNil(portfolioLinks.Value)),
		Github:           github.Value,
		Linkedin:         linkedin.Value,
		PdfData:          input.PDF,
		PdfContentType:   input.PDFContentType,
		JobID:            input.JobID,
		CompanyID:        input.CompanyID,
		UploadedBy:       input.UploadedBy,
	}

	// Score only when both documents exist; an absent match result means
	// scoring was skipped, never faked.
	if resumeText != "" && input.JobDescription != "" {
		match, err := s.scorer.Score(ctx, resumeText, input.JobDescription)
		if err != nil {
			logger.Warn().Err(err).Msg("scoring failed, storing record without match result")
		} else if match != nil {
			score := match.ATSScore
			record.AtsScore = &score
			stored := datatypes.NewJSONType(*match)
			record.Match = &stored
		}
	}

	return record, nil
}

// resolveCandidateName walks the precedence chain: manual, parsed, then the
// local part of the email address.
func resolveCandidateName(manual, parsed, email string) string {
	if name := strings.TrimSpace(manual); name != "" {
		return name
	}
	if name := strings.TrimSpace(parsed); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
