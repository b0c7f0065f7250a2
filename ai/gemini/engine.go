package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/pulseplan/backend/ai"
	"github.com/pulseplan/backend/config"
	"google.golang.org/genai"
)

// Engine generates image prompts using Google's Gemini API
type Engine struct {
	client *genai.Client
	model  string
}

// NewEngine creates a new Gemini engine
func NewEngine(ctx context.Context, cfg config.GeminiConfig) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Engine{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Name returns the engine name
func (e *Engine) Name() string {
	return fmt.Sprintf("gemini:%s", e.model)
}

// GenerateImagePrompt turns a post's visual concept into a generation-ready
// image prompt, folding in brand colors and tone when present
func (e *Engine) GenerateImagePrompt(ctx context.Context, visualConcept string, brandColors []string, brandTone string) (string, error) {
	instruction := ai.ImagePromptInstruction(visualConcept, brandColors, brandTone)

	contents := []*genai.Content{
		genai.NewContentFromText(instruction, genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return "", ai.NewProviderError(e.Name(), "GENERATE_ERROR", "Gemini generation failed", 0, true, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ai.NewProviderError(e.Name(), "EMPTY_RESPONSE", "Gemini returned no text", 0, false, nil)
	}

	return text, nil
}
