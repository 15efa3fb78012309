package pipeline

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": desc,
		"items":       map[string]any{"type": "string"},
	}
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var schemas = map[string]map[string]any{
	FlowCompare: object(map[string]any{
		"jobTitle":        str("The job title extracted from the job description."),
		"similarityScore": map[string]any{"type": "number", "description": "Similarity score between 0 and 100."},
		"matchedSkills":   stringArray("Skills from the JD found in the resume."),
		"missingSkills":   stringArray("Skills in JD not found in resume."),
		"suggestion":      str("Advice for improving the resume."),
	}, "jobTitle", "similarityScore", "matchedSkills", "missingSkills", "suggestion"),

	FlowExtractJobTitle: object(map[string]any{
		"jobTitle": str("The extracted job title from the job description."),
	}, "jobTitle"),

	FlowAnalyzeJobDescription: object(map[string]any{
		"skills":           stringArray("A list of technical skills mentioned in the job description."),
		"qualifications":   stringArray("A list of qualifications mentioned in the job description."),
		"responsibilities": stringArray("A list of responsibilities mentioned in the job description."),
	}, "skills", "qualifications", "responsibilities"),

	FlowAnalyzeResume: object(map[string]any{
		"skills":     stringArray("Skills the candidate demonstrates."),
		"experience": stringArray("Roles and projects from the candidate's work history."),
		"education":  stringArray("Degrees and certifications."),
	}, "skills", "experience", "education"),

	FlowGenerateAdvice: object(map[string]any{
		"advice": str("A paragraph of personalized advice for improving the resume."),
	}, "advice"),

	FlowGenerateSuggestion: object(map[string]any{
		"suggestion": str("A paragraph of advice on how to improve the resume."),
	}, "suggestion"),
}

// validate checks a cleaned model response against the flow's schema.
func validate(schema map[string]any, document string) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("response does not match schema: %s", strings.Join(errs, "; "))
	}
	return nil
}
