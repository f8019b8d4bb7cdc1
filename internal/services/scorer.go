package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"hireloop/resume-screener/internal/logger"
	"hireloop/resume-screener/internal/models"
)

// ScoreProvider computes a match result for a resume/job-description pair.
type ScoreProvider interface {
	Score(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error)
}

// randSource is the injectable randomness used for jitter and fallback
// variation; tests substitute a fixed source.
type randSource interface {
	Intn(n int) int
}

// globalRand delegates to the locked package-level source, which is safe to
// share across requests.
type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// textGenerator is the slice of GeminiService the oracle provider needs.
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

// OracleScoreProvider asks the external scoring oracle for a MatchResult.
// A single bounded attempt; every failure mode returns an error so the
// caller can fall back.
type OracleScoreProvider struct {
	generator   textGenerator
	prompts     *PromptBuilder
	rng         randSource
	timeout     time.Duration
	temperature float32
}

func NewOracleScoreProvider(generator textGenerator, timeout time.Duration, temperature float32) *OracleScoreProvider {
	return &OracleScoreProvider{
		generator:   generator,
		prompts:     NewPromptBuilder(),
		rng:         globalRand{},
		timeout:     timeout,
		temperature: temperature,
	}
}

// WithRand replaces the randomness source. Test hook.
func (o *OracleScoreProvider) WithRand(rng randSource) *OracleScoreProvider {
	o.rng = rng
	return o
}

func (o *OracleScoreProvider) Score(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	prompt := o.prompts.BuildMatchPrompt(resumeText, jobDescription)

	raw, err := o.generator.GenerateText(ctx, prompt, o.temperature)
	if err != nil {
		return nil, fmt.Errorf("oracle call failed: %w", err)
	}

	jsonStr, ok := firstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in oracle output")
	}

	var result models.MatchResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse oracle output: %w", err)
	}

	rec, ok := models.ParseRecommendation(string(result.FinalRecommendation))
	if !ok {
		return nil, fmt.Errorf("oracle returned unknown recommendation %q", result.FinalRecommendation)
	}
	result.FinalRecommendation = rec

	// Small jitter so near-duplicate resumes don't land on visibly
	// identical scores.
	result.ATSScore += o.rng.Intn(7) - 3
	result.Normalize()

	return &result, nil
}

// firstJSONObject returns the first brace-matched top-level JSON object in s,
// skipping braces inside string literals.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// skillVocabulary is the fixed reference vocabulary the heuristic scorer
// matches job descriptions and resumes against.
var skillVocabulary = []string{
	// Programming languages
	"javascript", "python", "java", "typescript", "php", "ruby", "go", "rust", "swift", "kotlin",
	// Frontend
	"react", "angular", "vue", "html", "css", "sass", "bootstrap", "tailwind", "webpack", "babel",
	// Backend
	"node", "express", "spring", "django", "flask", "laravel", "rails",
	// Data stores
	"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
	// Cloud / devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "ci/cd",
	// APIs / process
	"api", "rest", "graphql", "microservices", "agile", "scrum",
}

// HeuristicScoreProvider is the deterministic local fallback. It never
// returns an error: even an internal panic resolves to a last-resort result.
type HeuristicScoreProvider struct {
	rng randSource
}

func NewHeuristicScoreProvider() *HeuristicScoreProvider {
	return &HeuristicScoreProvider{rng: globalRand{}}
}

func (h *HeuristicScoreProvider) WithRand(rng randSource) *HeuristicScoreProvider {
	h.rng = rng
	return h
}

func (h *HeuristicScoreProvider) Score(_ context.Context, resumeText, jobDescription string) (result *models.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("heuristic scoring failed, returning last-resort result")
			result = h.lastResortResult()
			err = nil
		}
	}()

	result = h.score(resumeText, jobDescription)
	return result, nil
}

func (h *HeuristicScoreProvider) score(resumeText, jobDescription string) *models.MatchResult {
	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobDescription)

	var matched, missing []string
	for _, skill := range skillVocabulary {
		if !strings.Contains(jobLower, skill) {
			continue
		}
		if strings.Contains(resumeLower, skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	totalSkillsInJob := len(matched) + len(missing)
	skillsMatchPercent := 30
	if totalSkillsInJob > 0 {
		skillsMatchPercent = int(math.Round(float64(len(matched)) / float64(totalSkillsInJob) * 100))
	}

	experienceYears := lastExperienceYears(resumeText)
	experienceBonus := 0
	switch {
	case experienceYears >= 3:
		experienceBonus = 15
	case experienceYears >= 1:
		experienceBonus = 10
	}

	educationBonus := 0
	if containsAny(resumeLower, "degree", "university", "bachelor", "master") {
		educationBonus = 10
	}

	projectBonus := 0
	if strings.Contains(resumeLower, "project") && strings.Contains(resumeLower, "developed") {
		projectBonus = 5
	}

	baseScore := float64(skillsMatchPercent) * 0.6
	variation := h.rng.Intn(21) - 10 // [-10, 10]
	atsScore := int(math.Round(baseScore)) + experienceBonus + educationBonus + projectBonus + variation
	atsScore = clampInt(atsScore, 15, 100)

	// The heuristic path never recommends Hire; only the oracle may.
	recommendation := models.RecommendReject
	switch {
	case atsScore >= 75:
		recommendation = models.RecommendInterview
	case atsScore >= 45:
		recommendation = models.RecommendConsider
	}

	result := &models.MatchResult{
		ATSScore:            atsScore,
		SkillsMatchPercent:  skillsMatchPercent,
		MatchedSkills:       matched,
		MissingSkills:       firstN(missing, 5),
		OverallFitSummary:   heuristicSummary(skillsMatchPercent, len(matched), experienceYears, atsScore),
		DetailedFeedback:    heuristicFeedback(matched, missing, experienceYears, educationBonus),
		FinalRecommendation: recommendation,
	}
	result.Normalize()

	return result
}

// lastResortResult covers internal heuristic failures: a random but bounded
// score and text that flags the record for manual review.
func (h *HeuristicScoreProvider) lastResortResult() *models.MatchResult {
	score := h.rng.Intn(61) + 20 // [20, 80]

	recommendation := models.RecommendReject
	if score >= 60 {
		recommendation = models.RecommendConsider
	}

	result := &models.MatchResult{
		ATSScore:           score,
		SkillsMatchPercent: h.rng.Intn(80) + 20,
		MatchedSkills:      []string{},
		MissingSkills:      []string{},
		OverallFitSummary:  "Automated analysis unavailable. Manual review required for accurate assessment.",
		DetailedFeedback: models.DetailedFeedback{
			TechnicalFit:           "Manual technical assessment needed.",
			ExperienceFit:          "Manual experience review required.",
			EducationFit:           "Manual education evaluation needed.",
			SoftSkillsFit:          "Manual soft skills assessment required.",
			ImprovementSuggestions: []string{"Complete manual review recommended"},
		},
		FinalRecommendation: recommendation,
	}
	result.Normalize()

	return result
}

func heuristicSummary(skillsMatchPercent, matchedCount, experienceYears, atsScore int) string {
	summary := fmt.Sprintf("Candidate shows %d%% technical skills alignment with %d relevant skills identified. ",
		skillsMatchPercent, matchedCount)
	if experienceYears > 0 {
		summary += fmt.Sprintf("Has %d years of experience. ", experienceYears)
	}
	switch {
	case atsScore >= 70:
		summary += "Strong potential for the role."
	case atsScore >= 50:
		summary += "Moderate fit with some gaps to address."
	default:
		summary += "Limited alignment with core requirements."
	}
	return summary
}

func heuristicFeedback(matched, missing []string, experienceYears, educationBonus int) models.DetailedFeedback {
	technical := fmt.Sprintf("Technical skills analysis: %d matches found (%s).",
		len(matched), strings.Join(matched, ", "))
	if len(missing) > 0 {
		technical += fmt.Sprintf(" Missing: %s.", strings.Join(firstN(missing, 3), ", "))
	} else {
		technical += " Good technical coverage."
	}

	experience := "Experience level needs clarification from resume content."
	if experienceYears > 0 {
		level := "suitable for junior-mid level roles"
		if experienceYears >= 3 {
			level = "meets senior level requirements"
		}
		experience = fmt.Sprintf("%d years of experience mentioned, %s.", experienceYears, level)
	}

	education := "Educational qualifications need review or clarification."
	if educationBonus > 0 {
		education = "Educational background appears relevant with degree mentioned."
	}

	suggestions := []string{}
	if len(matched) < 3 {
		suggestions = append(suggestions, "Highlight more technical skills relevant to the job requirements")
	} else {
		suggestions = append(suggestions, "Quantify achievements with specific metrics and results")
	}
	if len(missing) > 2 {
		suggestions = append(suggestions, fmt.Sprintf("Consider gaining experience in: %s", strings.Join(firstN(missing, 2), ", ")))
	} else {
		suggestions = append(suggestions, "Add more project details and impact statements")
	}
	suggestions = append(suggestions, "Include specific examples of problem-solving and leadership experience")

	return models.DetailedFeedback{
		TechnicalFit:           technical,
		ExperienceFit:          experience,
		EducationFit:           education,
		SoftSkillsFit:          "Soft skills assessment requires detailed resume review for leadership, communication, and teamwork indicators.",
		ImprovementSuggestions: suggestions,
	}
}

// FallbackScorer tries the oracle first and falls back to the heuristic on
// any error, so the composed scorer always yields a schema-valid result.
type FallbackScorer struct {
	primary  ScoreProvider
	fallback ScoreProvider
}

func NewFallbackScorer(primary, fallback ScoreProvider) *FallbackScorer {
	return &FallbackScorer{primary: primary, fallback: fallback}
}

func (s *FallbackScorer) Score(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error) {
	if s.primary != nil {
		result, err := s.primary.Score(ctx, resumeText, jobDescription)
		if err == nil {
			return result, nil
		}
		logger.Warn().Err(err).Msg("oracle scoring unavailable, using heuristic fallback")
	}

	return s.fallback.Score(ctx, resumeText, jobDescription)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
