package models

type CreateJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

type ResumeSummary struct {
	ID              string   `json:"id"`
	CandidateName   string   `json:"candidate_name"`
	Email           string   `json:"email"`
	AtsScore        *int     `json:"ats_score,omitempty"`
	Recommendation  string   `json:"recommendation,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type SearchHit struct {
	ResumeID string  `json:"resume_id"`
	Score    float32 `json:"score"`
}
