package services

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedCandidate is the structured projection of raw resume text. Every
// field has a usable zero value; parsing degrades per-field, never fails.
type ParsedCandidate struct {
	CandidateName    string
	Email            string
	Phone            string
	Skills           []string
	ExperienceYears  int
	Education        []string
	Projects         []string
	Certifications   []string
	Extracurriculars []string
	PortfolioLinks   []string
	Github           string
	Linkedin         string
}

func newParsedCandidate() *ParsedCandidate {
	return &ParsedCandidate{
		Skills:           []string{},
		Education:        []string{},
		Projects:         []string{},
		Certifications:   []string{},
		Extracurriculars: []string{},
		PortfolioLinks:   []string{},
	}
}

var (
	emailRe = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[\s-]?)?\d{10}`)
	// Naive two-capitalized-token name guess; false-positives on lines like
	// "Software Engineer" are expected and overridden downstream.
	nameRe       = regexp.MustCompile(`^[A-Z][a-z]+\s[A-Z][a-z]+`)
	experienceRe = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s*(?:of\s*)?experience`)
)

// parseRule is one line-local heuristic: look at a line, maybe update the
// accumulator. Rules run in a fixed order on every line.
type parseRule struct {
	name  string
	apply func(line, lower string, acc *ParsedCandidate)
}

func defaultParseRules() []parseRule {
	return []parseRule{
		{
			name: "email",
			apply: func(line, _ string, acc *ParsedCandidate) {
				if acc.Email == "" {
					if m := emailRe.FindString(line); m != "" {
						acc.Email = m
					}
				}
			},
		},
		{
			name: "phone",
			apply: func(line, _ string, acc *ParsedCandidate) {
				if acc.Phone == "" {
					if m := phoneRe.FindString(line); m != "" {
						acc.Phone = m
					}
				}
			},
		},
		{
			name: "name",
			apply: func(line, _ string, acc *ParsedCandidate) {
				if acc.CandidateName == "" {
					if m := nameRe.FindString(line); m != "" {
						acc.CandidateName = m
					}
				}
			},
		},
		{
			name: "education",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if strings.Contains(lower, "education") {
					acc.Education = append(acc.Education, line)
				}
			},
		},
		{
			// The LAST skills-labelled line wins: resumes repeat "skills"
			// as a section header before the concrete category line.
			name: "skills",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if !strings.Contains(lower, "skill") {
					return
				}
				acc.Skills = splitSkillLine(line)
			},
		},
		{
			name: "experience",
			apply: func(line, _ string, acc *ParsedCandidate) {
				matches := experienceRe.FindAllStringSubmatch(line, -1)
				if len(matches) == 0 {
					return
				}
				// Later mentions override earlier ones.
				if years, err := strconv.Atoi(matches[len(matches)-1][1]); err == nil && years >= 0 {
					acc.ExperienceYears = years
				}
			},
		},
		{
			name: "projects",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if strings.Contains(lower, "project") {
					acc.Projects = append(acc.Projects, line)
				}
			},
		},
		{
			name: "certifications",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if strings.Contains(lower, "certificat") {
					acc.Certifications = append(acc.Certifications, line)
				}
			},
		},
		{
			name: "extracurriculars",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if strings.Contains(lower, "extracurricular") {
					acc.Extracurriculars = append(acc.Extracurriculars, line)
				}
			},
		},
		{
			name: "github",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if acc.Github == "" && strings.Contains(lower, "github.com") {
					acc.Github = line
				}
			},
		},
		{
			name: "linkedin",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if acc.Linkedin == "" && strings.Contains(lower, "linkedin.com") {
					acc.Linkedin = line
				}
			},
		},
		{
			name: "portfolio",
			apply: func(line, lower string, acc *ParsedCandidate) {
				if strings.Contains(lower, "portfolio") {
					acc.PortfolioLinks = append(acc.PortfolioLinks, line)
				}
			},
		},
	}
}

type ResumeParser interface {
	Parse(text string) *ParsedCandidate
}

type resumeParser struct {
	rules []parseRule
}

func NewResumeParser() ResumeParser {
	return &resumeParser{rules: defaultParseRules()}
}

// Parse folds the rule set over the trimmed non-blank lines of the text.
// Best-effort: false positives and negatives are acceptable.
func (p *resumeParser) Parse(text string) *ParsedCandidate {
	acc := newParsedCandidate()

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, rule := range p.rules {
			rule.apply(line, lower, acc)
		}
	}

	return acc
}

// splitSkillLine takes the text after the first colon and splits it on
// commas, dropping empty tokens. "Skills: Go, SQL" -> ["Go", "SQL"].
func splitSkillLine(line string) []string {
	rest := ""
	if idx := strings.Index(line, ":"); idx != -1 {
		rest = line[idx+1:]
	}

	skills := []string{}
	for _, token := range strings.Split(rest, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			skills = append(skills, token)
		}
	}
	return skills
}

// lastExperienceYears finds the last "<n> years experience" mention in the
// whole text; 0 when absent. Shared with the heuristic scorer.
func lastExperienceYears(text string) int {
	matches := experienceRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0
	}
	years, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil || years < 0 {
		return 0
	}
	return years
}
