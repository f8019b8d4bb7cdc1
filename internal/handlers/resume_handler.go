package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireloop/resume-screener/internal/logger"
	"hireloop/resume-screener/internal/middleware"
	"hireloop/resume-screener/internal/repositories"
	"hireloop/resume-screener/internal/services"
)

type ResumeHandler struct {
	resumeRepo  repositories.ResumeRepository
	jobRepo     repositories.JobRepository
	ingestion   services.IngestionService
	index       services.CandidateIndex
	maxFileSize int64
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	ingestion services.IngestionService,
	index services.CandidateIndex,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:  resumeRepo,
		jobRepo:     jobRepo,
		ingestion:   ingestion,
		index:       index,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /resumes: a multipart form with an optional
// "resume" PDF, optional manual text and per-field overrides.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	jobID, err := uuid.Parse(firstNonEmpty(c.FormValue("job_id"), c.Query("job_id")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_id is required",
		})
	}

	job, err := h.jobRepo.FindByID(jobID, companyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found for this company",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up job",
		})
	}

	input := services.IngestInput{
		JobDescription: job.Description,
		ResumeText:     c.FormValue("resume_text"),
		Manual: services.ManualFields{
			CandidateName:    c.FormValue("candidate_name"),
			Email:            c.FormValue("email"),
			Phone:            c.FormValue("phone"),
			Skills:           splitListValue(c.FormValue("skills")),
			ExperienceYears:  parseIntValue(c.FormValue("experience_years")),
			Education:        splitListValue(c.FormValue("education")),
			Projects:         splitListValue(c.FormValue("projects")),
			Certifications:   splitListValue(c.FormValue("certifications")),
			Extracurriculars: splitListValue(c.FormValue("extracurriculars")),
			PortfolioLinks:   splitListValue(c.FormValue("portfolio_links")),
			Github:           c.FormValue("github"),
			Linkedin:         c.FormValue("linkedin"),
		},
		JobID:      job.ID,
		CompanyID:  companyID,
		UploadedBy: middleware.UserID(c),
	}

	if file, err := c.FormFile("resume"); err == nil && file != nil {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("resume file too large, max size: %d bytes", h.maxFileSize),
			})
		}

		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to open uploaded file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to read uploaded file",
			})
		}

		input.PDF = data
		input.PDFContentType = file.Header.Get("Content-Type")
		if input.PDFContentType == "" {
			input.PDFContentType = "application/pdf"
		}
	}

	resume, err := h.ingestion.Ingest(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrCandidateNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "candidate name could not be determined",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to ingest resume",
		})
	}

	resume.ID = uuid.New()
	if err := h.resumeRepo.Create(resume); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume",
		})
	}

	// Best-effort: search lags behind, ingestion never fails on it.
	if h.index != nil {
		if err := h.index.IndexResume(c.Context(), resume); err != nil {
			logger.Warn().Err(err).Str("resume_id", resume.ID.String()).Msg("failed to index resume for search")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "resume uploaded successfully",
		"resume":  resume,
	})
}

// HandleListByJob handles GET /jobs/:id/resumes, highest score first.
func (h *ResumeHandler) HandleListByJob(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}

	if _, err := h.jobRepo.FindByID(jobID, companyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up job",
		})
	}

	resumes, err := h.resumeRepo.FindByJob(jobID, companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list resumes",
		})
	}

	return c.JSON(resumes)
}

// HandleGet handles GET /resumes/:id
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume id",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID, middleware.CompanyID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get resume",
		})
	}

	return c.JSON(resume)
}

// HandleDownloadPDF handles GET /resumes/:id/pdf
func (h *ResumeHandler) HandleDownloadPDF(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume id",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID, middleware.CompanyID(c))
	if err != nil || len(resume.PdfData) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "pdf not found",
		})
	}

	c.Set(fiber.HeaderContentType, resume.PdfContentType)
	return c.Send(resume.PdfData)
}

// HandleDelete handles DELETE /resumes/:id
func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume id",
		})
	}

	if err := h.resumeRepo.Delete(resumeID, middleware.CompanyID(c)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete resume",
		})
	}

	if h.index != nil {
		if err := h.index.DeleteResume(c.Context(), resumeID); err != nil {
			logger.Warn().Err(err).Str("resume_id", resumeID.String()).Msg("failed to remove resume from search index")
		}
	}

	return c.JSON(fiber.Map{"message": "resume deleted"})
}

func splitListValue(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func parseIntValue(value string) *int {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
