package googlegenai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

var _ ports.Provider = (*Provider)(nil)

// Provider generates recommendation text through the Google GenAI SDK.
type Provider struct {
	client *genai.Client
	model  string
}

// Config carries the SDK settings. BaseURL is optional and overrides the public endpoint.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewProvider creates the SDK client for the Gemini API backend.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("GenAI API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Provider{client: client, model: model}, nil
}

// Generate sends the prompt as a single user turn.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && isStructuredReply(apiErr) {
			return "", fmt.Errorf("%w: %s", domain.ErrEmptyRecommendation, apiErr.Error())
		}
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyRecommendation
	}
	return text, nil
}

// isStructuredReply reports whether the server answered with a JSON error object. The SDK
// falls back to the HTTP status line when the body was empty or not JSON.
func isStructuredReply(apiErr genai.APIError) bool {
	return !strings.HasPrefix(apiErr.Status, strconv.Itoa(apiErr.Code)+" ")
}
