package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchPrompt creates the scoring prompt: both documents plus the fixed
// rubric, asking for one JSON object in the MatchResult wire schema.
func (pb *PromptBuilder) BuildMatchPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are a senior HR recruiter with 15+ years of experience in technical hiring. You use advanced ATS systems daily and have screened thousands of candidates.

CRITICAL INSTRUCTIONS:
1. Analyze the resume THOROUGHLY against the job description
2. Be REALISTIC and VARIED in your scoring - not all candidates are the same
3. Consider skill relevance, experience level, education fit, and career progression
4. Be strict but fair - most candidates should score between 30-80, only exceptional ones get 85+

SCORING GUIDELINES:
- 90-100: Perfect match, exceptional candidate, immediate hire
- 80-89: Strong match, definitely interview
- 70-79: Good match, likely interview
- 60-69: Moderate match, consider if no better candidates
- 50-59: Weak match, major gaps but some potential
- 30-49: Poor match, significant misalignment
- 0-29: No match, completely wrong fit

ANALYSIS TASK:
Compare this resume with the job description and return ONLY valid JSON:

{
  "ats_score": number (0-100, be realistic and varied),
  "skills_match_percent": number (0-100),
  "matched_skills": ["exact skills found in both resume and JD"],
  "missing_skills": ["critical skills from JD not found in resume"],
  "overall_fit_summary": "2-3 sentences explaining the match quality and key strengths/weaknesses",
  "detailed_feedback": {
    "technical_fit": "Specific technical skills analysis with examples",
    "experience_fit": "Years of experience vs requirements, relevant projects",
    "education_fit": "Education level and relevance to role",
    "soft_skills_fit": "Leadership, communication, teamwork evidence",
    "improvement_suggestions": ["Specific actionable improvements based on gaps found"]
  },
  "final_recommendation": "Hire" | "Interview" | "Consider" | "Reject"
}

Be honest and critical. Look for:
- Exact skill matches vs requirements
- Years of experience alignment
- Project complexity and relevance
- Education level appropriateness
- Career progression indicators

### JOB DESCRIPTION:
%s

### CANDIDATE RESUME:
%s

Analyze carefully and give a realistic, unique score based on actual content match.`,
		jobDescription, resumeText)
}
