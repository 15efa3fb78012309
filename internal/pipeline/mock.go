package pipeline

import (
	"context"
	"fmt"
)

// MockGenerator returns canned responses so the app runs without an API key.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch req.Flow {
	case FlowCompare:
		return `{"jobTitle":"Software Engineer","similarityScore":72,"matchedSkills":["Go","SQL","REST APIs"],"missingSkills":["Kubernetes","Terraform"],"suggestion":"Mock suggestion: highlight any infrastructure work you have done."}`, nil
	case FlowExtractJobTitle:
		return `{"jobTitle":"Software Engineer"}`, nil
	case FlowAnalyzeJobDescription:
		return `{"skills":["Go","SQL","Kubernetes"],"qualifications":["BSc Computer Science"],"responsibilities":["Build backend services"]}`, nil
	case FlowAnalyzeResume:
		return `{"skills":["Go","SQL"],"experience":["Backend engineer, 4 years"],"education":["BSc Computer Science"]}`, nil
	case FlowGenerateAdvice:
		return `{"advice":"Mock advice: add a project that shows the missing skills in use."}`, nil
	case FlowGenerateSuggestion:
		return `{"suggestion":"Mock suggestion: mention the missing skills where you have used them."}`, nil
	default:
		return "", fmt.Errorf("mock generator: unknown flow %q", req.Flow)
	}
}
