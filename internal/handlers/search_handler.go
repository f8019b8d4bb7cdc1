package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireloop/resume-screener/internal/middleware"
	"hireloop/resume-screener/internal/models"
	"hireloop/resume-screener/internal/repositories"
	"hireloop/resume-screener/internal/services"
)

type SearchHandler struct {
	index      services.CandidateIndex
	resumeRepo repositories.ResumeRepository
}

func NewSearchHandler(index services.CandidateIndex, resumeRepo repositories.ResumeRepository) *SearchHandler {
	return &SearchHandler{index: index, resumeRepo: resumeRepo}
}

// HandleSearch handles POST /resumes/search: free-text similarity search
// over the tenant's indexed candidates.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}
	if req.Limit <= 0 || req.Limit > 50 {
		req.Limit = 10
	}

	companyID := middleware.CompanyID(c)

	hits, err := h.index.SearchSimilar(c.Context(), companyID, req.Query, req.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "search failed",
		})
	}

	ids := make([]uuid.UUID, 0, len(hits))
	scores := make(map[string]float32, len(hits))
	for _, hit := range hits {
		id, err := uuid.Parse(hit.ResumeID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		scores[hit.ResumeID] = hit.Score
	}

	resumes, err := h.resumeRepo.FindByIDs(ids, companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load search results",
		})
	}

	type scoredResume struct {
		Resume models.ResumeSummary `json:"resume"`
		Score  float32              `json:"score"`
	}

	results := make([]scoredResume, 0, len(resumes))
	for _, resume := range resumes {
		summary := models.ResumeSummary{
			ID:              resume.ID.String(),
			CandidateName:   resume.CandidateName,
			Email:           resume.Email,
			AtsScore:        resume.AtsScore,
			Skills:          []string(resume.Skills),
			ExperienceYears: resume.ExperienceYears,
		}
		if match := resume.MatchData(); match != nil {
			summary.Recommendation = string(match.FinalRecommendation)
		}
		results = append(results, scoredResume{
			Resume: summary,
			Score:  scores[resume.ID.String()],
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	return c.JSON(fiber.Map{"results": results})
}
