package analysis

import (
	"unicode/utf8"

	"github.com/muhammadolammi/resumematcher/internal/apperr"
)

const (
	MinTextLength = 100
	MaxTextLength = 15000
)

type Input struct {
	JobDescription string `json:"jobDescription"`
	Resume         string `json:"resume"`
}

type Output struct {
	JobTitle        string   `json:"jobTitle"`
	SimilarityScore float64  `json:"similarityScore"`
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
	Suggestion      string   `json:"suggestion"`
}

// ValidateInput checks the job description first, then the résumé. Lengths
// are counted in characters, not bytes.
func ValidateInput(in Input) error {
	jd := utf8.RuneCountInString(in.JobDescription)
	if jd < MinTextLength {
		return apperr.Validation("Job description must be at least 100 characters.")
	}
	if jd > MaxTextLength {
		return apperr.Validation("Job description cannot exceed 15,000 characters.")
	}
	resume := utf8.RuneCountInString(in.Resume)
	if resume < MinTextLength {
		return apperr.Validation("Resume must be at least 100 characters.")
	}
	if resume > MaxTextLength {
		return apperr.Validation("Resume cannot exceed 15,000 characters.")
	}
	return nil
}
