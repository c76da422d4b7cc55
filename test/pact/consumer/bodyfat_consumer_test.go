//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/navy-bodyfat-api/test/pact"
)

type estimatePayload struct {
	Gender         string  `json:"gender"`
	BodyFatPercent float64 `json:"bodyFatPercent"`
	Formatted      string  `json:"formatted"`
}

type recommendationPayload struct {
	ID             string  `json:"id"`
	Gender         string  `json:"gender"`
	BodyFatPercent float64 `json:"bodyFatPercent"`
	Text           string  `json:"text"`
}

type problemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Extensions map[string]any `json:"extensions"`
}

type apiError struct {
	status int
	kind   string
	detail string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.kind, e.detail, e.status)
}

func TestBodyFatWebContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateEstimationBaseline).
		UponReceiving("a male estimate request").
		WithRequest("POST", "/v1/body-fat/estimate", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleMaleMeasurements())
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"gender":         matchers.Term("male", "male|female"),
				"bodyFatPercent": matchers.Like(12.87),
				"formatted":      matchers.Term("12.87", `^\d+\.\d{2}$`),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateEstimationBaseline).
		UponReceiving("a female estimate request without hip").
		WithRequest("POST", "/v1/body-fat/estimate", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleFemaleMeasurementsWithoutHip())
		}).
		WillRespondWith(http.StatusUnprocessableEntity, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"status": matchers.Like(http.StatusUnprocessableEntity),
				"detail": matchers.Like("Para mujeres, por favor, ingresa un valor numérico positivo para la cadera."),
				"extensions": matchers.Map{
					"kind": matchers.S("missing_or_invalid_hip"),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateRecommenderAnswers).
		UponReceiving("a recommendation request").
		WithRequest("POST", "/v1/body-fat/recommendations", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"gender": "male", "bodyFatPercent": 12.87})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":             matchers.Like("3f1c2b9e-1d7a-4c55-9a0e-6a3e2b8f0c11"),
				"gender":         matchers.S("male"),
				"bodyFatPercent": matchers.Like(12.87),
				"text":           matchers.Like(pacttest.ExampleRecommendationText),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateRecommenderUnhealthy).
		UponReceiving("a recommendation request while the provider is down").
		WithRequest("POST", "/v1/body-fat/recommendations", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"gender": "female", "bodyFatPercent": 23.81})
		}).
		WillRespondWith(http.StatusBadGateway, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"status": matchers.Like(http.StatusBadGateway),
				"detail": matchers.Like("Error al conectar con la API de Gemini. Por favor, revisa tu conexión."),
				"extensions": matchers.Map{
					"kind": matchers.S("recommendation_service_error"),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newBodyFatClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		estimate := estimatePayload{}
		if err := client.post(ctx, "/v1/body-fat/estimate", pacttest.ExampleMaleMeasurements(), &estimate); err != nil {
			return fmt.Errorf("estimate: %w", err)
		}
		if estimate.Formatted == "" {
			return fmt.Errorf("expected formatted estimate")
		}

		err := client.post(ctx, "/v1/body-fat/estimate", pacttest.ExampleFemaleMeasurementsWithoutHip(), &estimatePayload{})
		if apiErr, ok := err.(apiError); !ok || apiErr.kind != "missing_or_invalid_hip" {
			return fmt.Errorf("expected missing_or_invalid_hip, got %v", err)
		}

		rec := recommendationPayload{}
		if err := client.post(ctx, "/v1/body-fat/recommendations", map[string]any{"gender": "male", "bodyFatPercent": 12.87}, &rec); err != nil {
			return fmt.Errorf("recommend: %w", err)
		}
		if rec.Text == "" {
			return fmt.Errorf("expected recommendation text")
		}

		err = client.post(ctx, "/v1/body-fat/recommendations", map[string]any{"gender": "female", "bodyFatPercent": 23.81}, &recommendationPayload{})
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusBadGateway {
			return fmt.Errorf("expected 502, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type bodyFatClient struct {
	baseURL    string
	httpClient *http.Client
}

func newBodyFatClient(config pactconsumer.MockServerConfig) *bodyFatClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &bodyFatClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *bodyFatClient) post(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	kind, _ := problem.Extensions["kind"].(string)
	return apiError{status: status, kind: kind, detail: problem.Detail}
}
