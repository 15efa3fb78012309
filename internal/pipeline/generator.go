// Package pipeline holds the prompt flows that turn a résumé and a job
// description into a scored analysis.
package pipeline

import (
	"context"
	"strings"
)

// Request is one model call. Schema is a JSON Schema document describing the
// expected response object.
type Request struct {
	Flow   string
	Prompt string
	Schema map[string]any
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// CleanJSON strips markdown fences and anything outside the outermost JSON
// object.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(clean), "```"))

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	return clean
}
