package models

import "strings"

// Recommendation is the hiring verdict attached to every match result.
type Recommendation string

const (
	RecommendHire      Recommendation = "Hire"
	RecommendInterview Recommendation = "Interview"
	RecommendConsider  Recommendation = "Consider"
	RecommendReject    Recommendation = "Reject"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendHire, RecommendInterview, RecommendConsider, RecommendReject:
		return true
	}
	return false
}

// ParseRecommendation maps free-form oracle output onto the enum.
func ParseRecommendation(s string) (Recommendation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hire":
		return RecommendHire, true
	case "interview":
		return RecommendInterview, true
	case "consider":
		return RecommendConsider, true
	case "reject":
		return RecommendReject, true
	}
	return "", false
}

type DetailedFeedback struct {
	TechnicalFit           string   `json:"technical_fit"`
	ExperienceFit          string   `json:"experience_fit"`
	EducationFit           string   `json:"education_fit"`
	SoftSkillsFit          string   `json:"soft_skills_fit"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// MatchResult is the outcome of scoring a resume against a job description.
// The JSON tags are the wire schema the scoring oracle is asked to produce.
type MatchResult struct {
	ATSScore            int              `json:"ats_score"`
	SkillsMatchPercent  int              `json:"skills_match_percent"`
	MatchedSkills       []string         `json:"matched_skills"`
	MissingSkills       []string         `json:"missing_skills"`
	OverallFitSummary   string           `json:"overall_fit_summary"`
	DetailedFeedback    DetailedFeedback `json:"detailed_feedback"`
	FinalRecommendation Recommendation   `json:"final_recommendation"`
}

// Normalize clamps the scores into [0,100] and dedupes the skill sets so the
// result is schema-valid regardless of where it came from.
func (m *MatchResult) Normalize() {
	m.ATSScore = clampScore(m.ATSScore)
	m.SkillsMatchPercent = clampScore(m.SkillsMatchPercent)
	m.MatchedSkills = dedupe(m.MatchedSkills)
	m.MissingSkills = dedupe(m.MissingSkills)
	if m.DetailedFeedback.ImprovementSuggestions == nil {
		m.DetailedFeedback.ImprovementSuggestions = []string{}
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, v)
	}
	return result
}
