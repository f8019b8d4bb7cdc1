package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `John Smith
john.smith@example.com
Phone: 9876543210
github.com/johnsmith
linkedin.com/in/johnsmith
Portfolio: https://johnsmith.dev

Education: B.Tech Computer Science, State University
Skills
Skills: Python, SQL, Docker
3 years experience in backend development
Projects: developed an inventory management system
Certifications: AWS Certified Developer
Extracurricular: chess club president
5 years of experience overall`

func TestParseFullResume(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse(sampleResume)

	assert.Equal(t, "John Smith", parsed.CandidateName)
	assert.Equal(t, "john.smith@example.com", parsed.Email)
	assert.Equal(t, "9876543210", parsed.Phone)
	assert.Equal(t, []string{"Python", "SQL", "Docker"}, parsed.Skills)
	assert.Equal(t, 5, parsed.ExperienceYears, "later experience mention should win")
	assert.Equal(t, []string{"Education: B.Tech Computer Science, State University"}, parsed.Education)
	assert.Equal(t, []string{"Projects: developed an inventory management system"}, parsed.Projects)
	assert.Equal(t, []string{"Certifications: AWS Certified Developer"}, parsed.Certifications)
	assert.Equal(t, []string{"Extracurricular: chess club president"}, parsed.Extracurriculars)
	assert.Equal(t, []string{"Portfolio: https://johnsmith.dev"}, parsed.PortfolioLinks)
	assert.Equal(t, "github.com/johnsmith", parsed.Github)
	assert.Equal(t, "linkedin.com/in/johnsmith", parsed.Linkedin)
}

func TestParseEmptyTextYieldsDefaults(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse("")

	require.NotNil(t, parsed)
	assert.Empty(t, parsed.CandidateName)
	assert.Empty(t, parsed.Email)
	assert.Empty(t, parsed.Phone)
	assert.Zero(t, parsed.ExperienceYears)

	// Sequence fields must be sequences, never nil.
	assert.NotNil(t, parsed.Skills)
	assert.NotNil(t, parsed.Education)
	assert.NotNil(t, parsed.Projects)
	assert.NotNil(t, parsed.Certifications)
	assert.NotNil(t, parsed.Extracurriculars)
	assert.NotNil(t, parsed.PortfolioLinks)
}

func TestParseLastSkillsLineWins(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse("Skills: Python, SQL\nSome other line\nSkills: Go, Rust")

	assert.Equal(t, []string{"Go", "Rust"}, parsed.Skills)
}

func TestParseSkillsDropsEmptyTokens(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse("Skills: Go, , Rust, ")

	assert.Equal(t, []string{"Go", "Rust"}, parsed.Skills)
}

func TestParseSkillsHeaderWithoutColon(t *testing.T) {
	parser := NewResumeParser()

	// A bare section header still matches the rule but carries no tokens.
	parsed := parser.Parse("Skills")

	assert.Empty(t, parsed.Skills)
}

func TestParseLastExperienceMentionWins(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse("3 years experience with Java\nlater on\n5 years of experience total")

	assert.Equal(t, 5, parsed.ExperienceYears)
}

func TestParseFirstEmailWins(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse("Contact: first@example.com\nsecond@example.com")

	assert.Equal(t, "first@example.com", parsed.Email)
}

func TestParseNameHeuristicIsNaive(t *testing.T) {
	parser := NewResumeParser()

	// Known weak heuristic: the first two-capitalized-token line wins,
	// even when it is a title rather than a name.
	parsed := parser.Parse("Senior Engineer\nJane Doe")

	assert.Equal(t, "Senior Engineer", parsed.CandidateName)
}

func TestParsePhoneWithCountryCode(t *testing.T) {
	parser := NewResumeParser()

	parsed := parser.Parse("Call +91 9876543210 anytime")

	assert.NotEmpty(t, parsed.Phone)
	assert.Contains(t, parsed.Phone, "9876543210")
}

func TestLastExperienceYears(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected int
	}{
		{"absent", "no mention at all", 0},
		{"single", "2 years experience", 2},
		{"with of", "7 years of experience", 7},
		{"plus sign", "10+ years experience", 10},
		{"last wins", "1 year experience then 4 years of experience", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, lastExperienceYears(tc.text))
		})
	}
}
