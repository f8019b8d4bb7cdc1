package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireloop/resume-screener/internal/models"
)

// fixedRand makes jitter and variation deterministic in tests.
type fixedRand struct {
	v int
}

func (f fixedRand) Intn(n int) int { return f.v % n }

type stubTextGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubTextGenerator) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const oracleResponse = `Here is my analysis of the candidate.

{
  "ats_score": 82,
  "skills_match_percent": 75,
  "matched_skills": ["go", "postgresql", "Go"],
  "missing_skills": ["kubernetes"],
  "overall_fit_summary": "Strong backend candidate.",
  "detailed_feedback": {
    "technical_fit": "Solid Go experience.",
    "experience_fit": "Five years in backend roles.",
    "education_fit": "Relevant degree.",
    "soft_skills_fit": "Has led small teams.",
    "improvement_suggestions": ["Learn Kubernetes"]
  },
  "final_recommendation": "Interview"
}

Let me know if you need anything else.`

func TestOracleScoreProviderParsesEmbeddedJSON(t *testing.T) {
	stub := &stubTextGenerator{response: oracleResponse}
	provider := NewOracleScoreProvider(stub, time.Second, 0.3).WithRand(fixedRand{v: 3}) // jitter 0

	result, err := provider.Score(context.Background(), "resume text", "job description")
	require.NoError(t, err)

	assert.Equal(t, 82, result.ATSScore)
	assert.Equal(t, 75, result.SkillsMatchPercent)
	assert.Equal(t, models.RecommendInterview, result.FinalRecommendation)
	// Duplicate skills are deduped case-insensitively.
	assert.Equal(t, []string{"go", "postgresql"}, result.MatchedSkills)
	assert.Contains(t, stub.lastPrompt, "job description")
	assert.Contains(t, stub.lastPrompt, "resume text")
}

func TestOracleScoreProviderJitterStaysBounded(t *testing.T) {
	for v := 0; v < 7; v++ {
		stub := &stubTextGenerator{response: oracleResponse}
		provider := NewOracleScoreProvider(stub, time.Second, 0.3).WithRand(fixedRand{v: v})

		result, err := provider.Score(context.Background(), "r", "j")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.ATSScore, 79)
		assert.LessOrEqual(t, result.ATSScore, 85)
	}
}

func TestOracleScoreProviderClampsScore(t *testing.T) {
	stub := &stubTextGenerator{response: `{"ats_score": 250, "skills_match_percent": -5, "final_recommendation": "Hire"}`}
	provider := NewOracleScoreProvider(stub, time.Second, 0.3).WithRand(fixedRand{v: 3})

	result, err := provider.Score(context.Background(), "r", "j")
	require.NoError(t, err)

	assert.Equal(t, 100, result.ATSScore)
	assert.Equal(t, 0, result.SkillsMatchPercent)
	assert.Equal(t, models.RecommendHire, result.FinalRecommendation)
}

func TestOracleScoreProviderErrors(t *testing.T) {
	cases := []struct {
		name     string
		response string
		err      error
	}{
		{"generator failure", "", errors.New("network down")},
		{"no json", "the candidate looks fine to me", nil},
		{"invalid json", `{"ats_score": }`, nil},
		{"unknown recommendation", `{"ats_score": 50, "final_recommendation": "Maybe"}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubTextGenerator{response: tc.response, err: tc.err}
			provider := NewOracleScoreProvider(stub, time.Second, 0.3)

			result, err := provider.Score(context.Background(), "r", "j")
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"prose around", `before {"a": {"b": 2}} after`, `{"a": {"b": 2}}`, true},
		{"brace in string", `{"a": "close } brace"}`, `{"a": "close } brace"}`, true},
		{"escaped quote", `{"a": "quote \" and } brace"}`, `{"a": "quote \" and } brace"}`, true},
		{"unterminated", `{"a": 1`, "", false},
		{"no object", "nothing here", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := firstJSONObject(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestHeuristicDeterministicSkillMatching(t *testing.T) {
	provider := NewHeuristicScoreProvider().WithRand(fixedRand{v: 10}) // variation 0

	result, err := provider.Score(context.Background(),
		"Experienced Python developer",
		"We need React and Python engineers")
	require.NoError(t, err)

	assert.Contains(t, result.MatchedSkills, "python")
	assert.Contains(t, result.MissingSkills, "react")
	assert.Equal(t, 50, result.SkillsMatchPercent)
	assert.GreaterOrEqual(t, result.ATSScore, 15)
	assert.LessOrEqual(t, result.ATSScore, 100)
	assert.True(t, result.FinalRecommendation.Valid())
}

func TestHeuristicBonusesAndThresholds(t *testing.T) {
	provider := NewHeuristicScoreProvider().WithRand(fixedRand{v: 10}) // variation 0

	resume := "Python developer, 5 years experience, university graduate, project developed at scale"
	result, err := provider.Score(context.Background(), resume, "Looking for python")
	require.NoError(t, err)

	// 100% skills (60) + experience 15 + education 10 + project 5 = 90.
	assert.Equal(t, 90, result.ATSScore)
	assert.Equal(t, models.RecommendInterview, result.FinalRecommendation)
}

func TestHeuristicClampsToFloor(t *testing.T) {
	provider := NewHeuristicScoreProvider().WithRand(fixedRand{v: 0}) // variation -10

	result, err := provider.Score(context.Background(), "", "Looking for python")
	require.NoError(t, err)

	assert.Equal(t, 15, result.ATSScore)
	assert.Equal(t, models.RecommendReject, result.FinalRecommendation)
	assert.Equal(t, 0, result.SkillsMatchPercent)
}

func TestHeuristicDefaultsWhenJobHasNoVocabulary(t *testing.T) {
	provider := NewHeuristicScoreProvider().WithRand(fixedRand{v: 10})

	result, err := provider.Score(context.Background(), "any resume", "looking for a florist")
	require.NoError(t, err)

	assert.Equal(t, 30, result.SkillsMatchPercent)
	assert.Empty(t, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
}

func TestHeuristicNeverRecommendsHire(t *testing.T) {
	provider := NewHeuristicScoreProvider()

	inputs := []struct{ resume, jd string }{
		{"", ""},
		{"python go react sql aws docker kubernetes, 10 years experience, university, project developed", "python go react sql aws docker kubernetes"},
		{"plain text", "plain description"},
	}

	for _, in := range inputs {
		for i := 0; i < 25; i++ {
			result, err := provider.Score(context.Background(), in.resume, in.jd)
			require.NoError(t, err)
			assert.NotEqual(t, models.RecommendHire, result.FinalRecommendation)
			assert.GreaterOrEqual(t, result.ATSScore, 0)
			assert.LessOrEqual(t, result.ATSScore, 100)
		}
	}
}

func TestHeuristicBothInputsEmpty(t *testing.T) {
	provider := NewHeuristicScoreProvider()

	result, err := provider.Score(context.Background(), "", "")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.GreaterOrEqual(t, result.ATSScore, 0)
	assert.LessOrEqual(t, result.ATSScore, 100)
	assert.True(t, result.FinalRecommendation.Valid())
	assert.NotNil(t, result.MatchedSkills)
	assert.NotNil(t, result.MissingSkills)
}

func TestHeuristicLastResortResult(t *testing.T) {
	provider := NewHeuristicScoreProvider().WithRand(fixedRand{v: 45})

	result := provider.lastResortResult()

	// Intn(61) = 45 -> score 65 -> Consider.
	assert.Equal(t, 65, result.ATSScore)
	assert.Equal(t, models.RecommendConsider, result.FinalRecommendation)
	assert.Empty(t, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
	assert.Contains(t, result.OverallFitSummary, "Manual review required")
}

func TestHeuristicLastResortLowScoreRejects(t *testing.T) {
	provider := NewHeuristicScoreProvider().WithRand(fixedRand{v: 10})

	result := provider.lastResortResult()

	// Intn(61) = 10 -> score 30 -> Reject.
	assert.Equal(t, 30, result.ATSScore)
	assert.Equal(t, models.RecommendReject, result.FinalRecommendation)
}

type erroringProvider struct {
	calls int
}

func (p *erroringProvider) Score(context.Context, string, string) (*models.MatchResult, error) {
	p.calls++
	return nil, errors.New("oracle unavailable")
}

func TestFallbackScorerFallsBackOnError(t *testing.T) {
	primary := &erroringProvider{}
	scorer := NewFallbackScorer(primary, NewHeuristicScoreProvider())

	result, err := scorer.Score(context.Background(), "python resume", "python job")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, primary.calls)
	assert.True(t, result.FinalRecommendation.Valid())
}

func TestFallbackScorerPrefersPrimary(t *testing.T) {
	stub := &stubTextGenerator{response: oracleResponse}
	primary := NewOracleScoreProvider(stub, time.Second, 0.3).WithRand(fixedRand{v: 3})
	scorer := NewFallbackScorer(primary, NewHeuristicScoreProvider())

	result, err := scorer.Score(context.Background(), "r", "j")
	require.NoError(t, err)

	assert.Equal(t, 82, result.ATSScore)
	assert.Equal(t, models.RecommendInterview, result.FinalRecommendation)
}

func TestFallbackScorerWithoutPrimary(t *testing.T) {
	scorer := NewFallbackScorer(nil, NewHeuristicScoreProvider())

	result, err := scorer.Score(context.Background(), "r", "python job")
	require.NoError(t, err)
	assert.NotNil(t, result)
}
