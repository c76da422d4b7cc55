package bodyfatserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	bodyfatobs "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/adapters/observability"
	bodyfatapp "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/application"
	recmemory "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/memory"
	recworkflows "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/workflows"
	recapp "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	recdomain "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	recports "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
	apierrors "github.com/Apurer/navy-bodyfat-api/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProvider struct {
	calls atomic.Int32
	text  string
	err   error
}

func (p *fakeProvider) Generate(context.Context, string) (string, error) {
	p.calls.Add(1)
	return p.text, p.err
}

func newTestRouter(t *testing.T, provider *fakeProvider, limiter *RateLimiter) *gin.Engine {
	t.Helper()
	var p recports.Provider
	if provider != nil {
		p = provider
	}
	service := recapp.NewService(p, recapp.WithIdempotencyStore(recmemory.NewIdempotencyStore()))
	return NewRouter(ApiHandleFunctions{
		BodyFatAPI:            NewBodyFatAPI(bodyfatobs.New(bodyfatapp.NewService())),
		RecommendationAPI:     NewRecommendationAPI(recworkflows.NewInlineRecommendationWorkflows(service)),
		HealthAPI:             NewHealthAPI("bodyfat-api"),
		RecommendationLimiter: limiter,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestEstimate_AcceptsStringsAndNumbers(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{text: "ok"}, nil)

	for _, body := range []string{
		`{"gender":"male","heightCm":"175","neckCm":"38","waistCm":"80"}`,
		`{"gender":"male","heightCm":175,"neckCm":38,"waistCm":80.0}`,
	} {
		rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/estimate", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp EstimateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, EstimateResponse{Gender: "male", BodyFatPercent: 12.87, Formatted: "12.87"}, resp)
	}
}

func TestEstimate_Female(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/estimate",
		`{"gender":"female","heightCm":165,"neckCm":34,"waistCm":70,"hipCm":95}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "23.81", resp.Formatted)
}

func TestEstimate_FailuresCarryKindAndMessage(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	cases := []struct {
		body string
		kind string
	}{
		{`{"heightCm":175,"neckCm":38,"waistCm":80}`, "missing_gender"},
		{`{"gender":"male","heightCm":"abc","neckCm":38,"waistCm":80}`, "invalid_basic_measurements"},
		{`{"gender":"female","heightCm":165,"neckCm":34,"waistCm":70}`, "missing_or_invalid_hip"},
		{`{"gender":"male","heightCm":175,"neckCm":90,"waistCm":80}`, "neck_waist_domain_error"},
		{`{"gender":"male","heightCm":175,"neckCm":38,"waistCm":39}`, "out_of_range_result"},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/estimate", tc.body, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, tc.body)
		problem := decodeProblem(t, rec)
		require.Equal(t, tc.kind, problem.Extensions[apierrors.ExtensionKind])
		require.NotEmpty(t, problem.Detail)
	}
}

func TestEstimate_MalformedJSON(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/estimate", `{"gender":`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/body-fat/estimate", `{"gender":"male","heightCm":true}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommend_SuccessAndReplay(t *testing.T) {
	provider := &fakeProvider{text: "  Sigue con tu rutina.  "}
	router := newTestRouter(t, provider, nil)
	headers := map[string]string{IdempotencyKeyHeader: "abc-123"}

	first := doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, headers)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	require.Equal(t, "Sigue con tu rutina.", resp.Text)
	require.NotEmpty(t, resp.Id)

	second := doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, headers)
	require.Equal(t, http.StatusOK, second.Code)
	var replay RecommendationResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &replay))
	require.Equal(t, resp.Id, replay.Id)
	require.Equal(t, int32(1), provider.calls.Load())

	conflict := doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"female","bodyFatPercent":30}`, headers)
	require.Equal(t, http.StatusConflict, conflict.Code)
}

func TestRecommend_Failures(t *testing.T) {
	down := newTestRouter(t, &fakeProvider{err: errors.New("dial tcp: refused")}, nil)
	rec := doJSON(t, down, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, recdomain.FailureKind, problem.Extensions[apierrors.ExtensionKind])
	require.Equal(t, recdomain.FailureMessage(recdomain.ErrProviderUnavailable), problem.Detail)

	empty := newTestRouter(t, &fakeProvider{text: ""}, nil)
	rec = doJSON(t, empty, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, recdomain.FailureMessage(recdomain.ErrEmptyRecommendation), decodeProblem(t, rec).Detail)

	rec = doJSON(t, empty, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":120}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, empty, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	unconfigured := newTestRouter(t, nil, nil)
	rec = doJSON(t, unconfigured, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecommend_InvalidInputDetailIsStable(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{text: "ok"}, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"other","bodyFatPercent":12.87}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, recdomain.ErrInvalidGender.Error(), problem.Detail)
	require.Equal(t, "invalid_recommendation_input", problem.Extensions[apierrors.ExtensionKind])

	rec = doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":-1}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, recdomain.ErrInvalidPercent.Error(), decodeProblem(t, rec).Detail)
}

func TestRecommendationProblem_TemporalWrappedInvalidInput(t *testing.T) {
	wrapped := errors.Join(recapp.ErrInvalidInput, recdomain.ErrInvalidPercent,
		errors.New("workflow execution error (workflowID: recommendation-1, runID: abc): body fat percent must be between 0 and 100"))
	problem, ok := recommendationProblem(wrapped)
	require.True(t, ok)
	require.Equal(t, http.StatusUnprocessableEntity, problem.Status)
	require.Equal(t, recdomain.ErrInvalidPercent.Error(), problem.Detail)
}

func TestRecommend_BadRequestIsProblem(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{text: "ok"}, nil)
	rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, http.StatusBadRequest, decodeProblem(t, rec).Status)
}

func TestRecommend_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	t.Cleanup(limiter.Stop)
	router := newTestRouter(t, &fakeProvider{text: "ok"}, limiter)

	rec := doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/v1/body-fat/recommendations", `{"gender":"male","bodyFatPercent":12.87}`, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "3600", rec.Header().Get("Retry-After"))
	require.Equal(t, http.StatusTooManyRequests, decodeProblem(t, rec).Status)

	// Estimation is never limited.
	rec = doJSON(t, router, http.MethodPost, "/v1/body-fat/estimate", `{"gender":"male","heightCm":175,"neckCm":38,"waistCm":80}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","service":"bodyfat-api"}`, rec.Body.String())
}
