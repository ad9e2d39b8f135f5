// Package ai runs prompt "flows" against a generative model: a named prompt
// template, a response schema the model must follow, and a typed,
// validated result.
package ai

import (
	"alcyxob/sportlink/internal/config"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse means the model returned no text at all.
	ErrEmptyResponse = errors.New("ai: empty model response")
	// ErrInvalidOutput means the model text failed JSON decoding or validation.
	ErrInvalidOutput = errors.New("ai: invalid model output")
	// ErrUnavailable is returned when no model is configured.
	ErrUnavailable = errors.New("ai: generator not configured")
)

// Media is inline binary input (an image or a video) sent with a prompt.
type Media struct {
	MIMEType string
	Data     []byte
}

// Request is one structured generation call.
type Request struct {
	System      string
	Prompt      string
	Media       []Media
	Schema      *genai.Schema
	Temperature float32
}

// Generator produces the raw JSON text for a Request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenAIGenerator implements Generator on the Gemini API.
type GenAIGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenAIGenerator creates a client for cfg.Model. The API key is required.
func NewGenAIGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIGenerator{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := make([]*genai.Part, 0, len(req.Media)+1)
	for _, m := range req.Media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
		Temperature:      &temperature,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	text := resp.Text()
	g.logger.Debug("genai call finished",
		zap.String("model", g.model),
		zap.Int("media", len(req.Media)),
		zap.Int("response_bytes", len(text)),
		zap.Duration("took", time.Since(start)),
	)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// DisabledGenerator answers every request with ErrUnavailable. The server
// uses it when no API key is configured so the non-AI routes keep working.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}
