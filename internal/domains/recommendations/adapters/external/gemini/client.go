package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

// DefaultEndpointURL is the public generateContent endpoint for gemini-2.0-flash.
const DefaultEndpointURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

var _ ports.Provider = (*Client)(nil)

// Client calls a generateContent-shaped REST endpoint with an API key query parameter.
type Client struct {
	endpointURL string
	apiKey      string
	httpClient  *http.Client
}

// Config is the injected endpoint configuration.
type Config struct {
	EndpointURL string
	APIKey      string
}

// NewClient validates the endpoint and wires the HTTP client. A nil httpClient
// gets a client without a timeout; callers bound the call through ctx.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.EndpointURL)
	if endpoint == "" {
		endpoint = DefaultEndpointURL
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parse recommendation endpoint: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("recommendation API key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpointURL: endpoint, apiKey: cfg.APIKey, httpClient: httpClient}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends the prompt as a single user turn and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", errors.New("gemini client not configured")
	}
	req, err := newGenerateContentRequest(ctx, c.endpointURL, c.apiKey, generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call recommendation endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read recommendation response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// A JSON error reply is an answer without candidates; anything else is a broken exchange.
		if json.Valid(body) {
			return "", fmt.Errorf("%w: %s", domain.ErrEmptyRecommendation, errorMessage(body, resp.Status))
		}
		return "", fmt.Errorf("recommendation endpoint error: %s", resp.Status)
	}
	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode recommendation response: %w", err)
	}
	text := firstText(decoded)
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyRecommendation
	}
	return text, nil
}

func newGenerateContentRequest(ctx context.Context, endpoint, apiKey string, body generateContentRequest) (*http.Request, error) {
	queryURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	queryValues := queryURL.Query()
	queryFrag, err := runtime.StyleParamWithLocation("form", true, "key", runtime.ParamLocationQuery, apiKey)
	if err != nil {
		return nil, err
	}
	parsed, err := url.ParseQuery(queryFrag)
	if err != nil {
		return nil, err
	}
	for k, v := range parsed {
		for _, v2 := range v {
			queryValues.Add(k, v2)
		}
	}
	queryURL.RawQuery = queryValues.Encode()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func firstText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[0].Text
}

func errorMessage(body []byte, fallback string) string {
	var decoded errorResponse
	if err := json.Unmarshal(body, &decoded); err != nil || decoded.Error == nil {
		return fallback
	}
	if msg := strings.TrimSpace(decoded.Error.Message); msg != "" {
		return fmt.Sprintf("%s (%s)", msg, fallback)
	}
	return fallback
}
