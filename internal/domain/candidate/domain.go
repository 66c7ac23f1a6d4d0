package candidate

import "time"

type Skill struct {
	Name            string  `json:"name"`
	YearsExperience float64 `json:"yearsExperience"`
	Context         string  `json:"context,omitempty"`
	Confidence      float64 `json:"confidence"`
}

type GitHubLink struct {
	URL             string `json:"url"`
	Username        string `json:"username"`
	RepositoryCount int    `json:"repositoryCount"`
	ProfileCreated  string `json:"profileCreatedAt,omitempty"`
	ExtractedFrom   string `json:"extractedFrom,omitempty"`
}

type Candidate struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	ResumeURL   string       `json:"resume_url,omitempty"`
	JobID       int64        `json:"job_id"`
	Skills      []Skill      `json:"skills"`
	GitHubLinks []GitHubLink `json:"github_links"`
	CreatedAt   time.Time    `json:"created_at"`
}
