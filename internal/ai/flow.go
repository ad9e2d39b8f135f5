package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Flow binds a catalog prompt to a response schema and the Go type the
// response decodes into.
type Flow[In any, Out any] struct {
	name        string
	prompt      *Prompt
	schema      *genai.Schema
	temperature float32
	gen         Generator
	post        func(*Out)
}

// NewFlow looks up the prompt called name. It fails when the catalog has
// no such prompt.
func NewFlow[In any, Out any](gen Generator, catalog *Catalog, name string, schema *genai.Schema, temperature float32) (*Flow[In, Out], error) {
	p, ok := catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("ai: unknown prompt %q", name)
	}
	return &Flow[In, Out]{
		name:        name,
		prompt:      p,
		schema:      schema,
		temperature: temperature,
		gen:         gen,
	}, nil
}

func (f *Flow[In, Out]) Name() string { return f.name }

// Run renders the prompt with in, calls the model and returns the decoded,
// validated result.
func (f *Flow[In, Out]) Run(ctx context.Context, in In, media ...Media) (*Out, error) {
	text, err := f.prompt.Render(in)
	if err != nil {
		return nil, err
	}

	raw, err := f.gen.Generate(ctx, Request{
		System:      f.prompt.System,
		Prompt:      text,
		Media:       media,
		Schema:      f.schema,
		Temperature: f.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}

	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%s: %w", f.name, ErrEmptyResponse)
	}

	var out Out
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutput, f.name, err)
	}
	if err := validate.Struct(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutput, f.name, err)
	}
	if f.post != nil {
		f.post(&out)
	}
	return &out, nil
}

// cleanJSON strips markdown code fences and any chatter around the outer
// JSON object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}
