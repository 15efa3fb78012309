package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadolammi/resumematcher/internal/analysis"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	ModeSingle = "single"
	ModeStaged = "staged"

	UnknownJobTitle    = "Unknown"
	NoMissingAdvice    = "Your resume is a great match for the skills listed in this job description! There are no critical skills missing. You could further strengthen your application by ensuring your project descriptions and work experience clearly demonstrate your impact and achievements in your previous roles."
	FallbackSuggestion = "We couldn't generate a suggestion at this time."
)

type JobDescriptionAnalysis struct {
	Skills           []string `json:"skills"`
	Qualifications   []string `json:"qualifications"`
	Responsibilities []string `json:"responsibilities"`
}

type ResumeAnalysis struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

type Pipeline struct {
	gen  Generator
	mode string
	log  logger.Logger
}

func New(gen Generator, mode string, log logger.Logger) *Pipeline {
	if mode == "" {
		mode = ModeSingle
	}
	return &Pipeline{
		gen:  gen,
		mode: mode,
		log:  log.With(map[string]interface{}{"component": "pipeline", "mode": mode}),
	}
}

// Analyze runs the configured mode. Single issues one comparison call; staged
// extracts both documents concurrently before comparing and then asks for
// advice on the missing skills.
func (p *Pipeline) Analyze(ctx context.Context, in analysis.Input) (*analysis.Output, error) {
	if p.mode == ModeStaged {
		return p.analyzeStaged(ctx, in)
	}

	out, err := p.Compare(ctx, in, nil, nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Suggestion) == "" {
		out.Suggestion = p.GenerateSuggestion(ctx, out.MissingSkills)
	}
	return out, nil
}

func (p *Pipeline) analyzeStaged(ctx context.Context, in analysis.Input) (*analysis.Output, error) {
	var (
		jd     *JobDescriptionAnalysis
		resume *ResumeAnalysis
		title  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jd, err = p.AnalyzeJobDescription(gctx, in.JobDescription)
		return err
	})
	g.Go(func() error {
		var err error
		resume, err = p.AnalyzeResume(gctx, in.Resume)
		return err
	})
	g.Go(func() error {
		var err error
		title, err = p.ExtractJobTitle(gctx, in.JobDescription)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := p.Compare(ctx, in, jd.Skills, resume.Skills)
	if err != nil {
		return nil, err
	}
	if title != UnknownJobTitle {
		out.JobTitle = title
	}

	advice, err := p.GenerateAdvice(ctx, out.MissingSkills)
	if err != nil {
		p.log.WithError(err).Warn("advice generation failed, keeping comparison suggestion", nil)
		return out, nil
	}
	out.Suggestion = advice
	return out, nil
}

// Compare scores the résumé against the job description. Skill lists from an
// earlier extraction step are optional context.
func (p *Pipeline) Compare(ctx context.Context, in analysis.Input, jobSkills, resumeSkills []string) (*analysis.Output, error) {
	var out analysis.Output
	data := promptData{
		JobDescription: in.JobDescription,
		Resume:         in.Resume,
		JobSkills:      jobSkills,
		ResumeSkills:   resumeSkills,
	}
	if err := p.run(ctx, FlowCompare, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Pipeline) ExtractJobTitle(ctx context.Context, jobDescription string) (string, error) {
	var out struct {
		JobTitle string `json:"jobTitle"`
	}
	if err := p.run(ctx, FlowExtractJobTitle, promptData{JobDescription: jobDescription}, &out); err != nil {
		return "", err
	}
	title := strings.TrimSpace(out.JobTitle)
	if title == "" {
		return UnknownJobTitle, nil
	}
	return title, nil
}

func (p *Pipeline) AnalyzeJobDescription(ctx context.Context, jobDescription string) (*JobDescriptionAnalysis, error) {
	var out JobDescriptionAnalysis
	if err := p.run(ctx, FlowAnalyzeJobDescription, promptData{JobDescription: jobDescription}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Pipeline) AnalyzeResume(ctx context.Context, resume string) (*ResumeAnalysis, error) {
	var out ResumeAnalysis
	if err := p.run(ctx, FlowAnalyzeResume, promptData{Resume: resume}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateAdvice does not call the model when nothing is missing.
func (p *Pipeline) GenerateAdvice(ctx context.Context, missingSkills []string) (string, error) {
	if len(missingSkills) == 0 {
		return NoMissingAdvice, nil
	}
	var out struct {
		Advice string `json:"advice"`
	}
	if err := p.run(ctx, FlowGenerateAdvice, promptData{MissingSkills: missingSkills}, &out); err != nil {
		return "", err
	}
	return out.Advice, nil
}

// GenerateSuggestion never fails; a failed or empty response yields
// FallbackSuggestion.
func (p *Pipeline) GenerateSuggestion(ctx context.Context, missingSkills []string) string {
	var out struct {
		Suggestion string `json:"suggestion"`
	}
	if err := p.run(ctx, FlowGenerateSuggestion, promptData{MissingSkills: missingSkills}, &out); err != nil {
		p.log.WithError(err).Warn("suggestion generation failed", nil)
		return FallbackSuggestion
	}
	if strings.TrimSpace(out.Suggestion) == "" {
		return FallbackSuggestion
	}
	return out.Suggestion
}

func (p *Pipeline) run(ctx context.Context, flow string, data promptData, out any) error {
	var buf bytes.Buffer
	if err := prompts[flow].Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s prompt: %w", flow, err)
	}
	schema := schemas[flow]

	start := time.Now()
	raw, err := p.gen.Generate(ctx, Request{Flow: flow, Prompt: buf.String(), Schema: schema})
	if err != nil {
		metrics.ModelCallDuration.WithLabelValues(flow, metrics.OutcomeFailure).Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s: %w", flow, err)
	}

	cleaned := CleanJSON(raw)
	if err := validate(schema, cleaned); err != nil {
		metrics.ModelCallDuration.WithLabelValues(flow, metrics.OutcomeInvalid).Observe(time.Since(start).Seconds())
		p.log.Debug("model output rejected", map[string]interface{}{"flow": flow, "output": cleaned})
		return fmt.Errorf("%s: %w", flow, err)
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		metrics.ModelCallDuration.WithLabelValues(flow, metrics.OutcomeInvalid).Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s: json unmarshal error: %w", flow, err)
	}
	metrics.ModelCallDuration.WithLabelValues(flow, metrics.OutcomeSuccess).Observe(time.Since(start).Seconds())
	return nil
}
