package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

type GeminiClient struct {
	model llms.Model
	name  string
}

// NewGeminiClient builds a client from GOOGLE_API_KEY / GEMINI_MODEL,
// with the same secret-file fallback as the OpenAI client.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	name := os.Getenv("GEMINI_MODEL")
	if apiKey == "" {
		secretPath := "/run/secrets/google_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the Google API Key from Podman Secrets")
		} else {
			slog.Error("GOOGLE_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
		}
	}
	if name == "" {
		name = "gemini-1.5-flash"
		slog.Warn("GEMINI_MODEL not set, defaulting to gemini-1.5-flash")
	}
	slog.Info("Initializing Gemini client", "model", name)
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(name),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiClient{model: model, name: name}, nil
}

// Generate implements the LLMClient interface
func (g *GeminiClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	slog.Debug("Generating text via Gemini", "model", g.name)

	var opts []llms.CallOption
	if params.Temperature != nil {
		opts = append(opts, llms.WithTemperature(float64(*params.Temperature)))
	}
	if params.TopP != nil {
		opts = append(opts, llms.WithTopP(float64(*params.TopP)))
	}
	if params.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*params.MaxTokens))
	}
	if len(params.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(params.Stop))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, opts...)
	if err != nil {
		slog.Error("Gemini API call failed", "error", err)
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		slog.Warn("Gemini returned empty content")
		return "", fmt.Errorf("Gemini returned empty content")
	}
	return out, nil
}
