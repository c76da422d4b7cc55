package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
)

func newStubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient_GenerateSendsPromptAndKey(t *testing.T) {
	var gotKey, gotPrompt, gotRole string
	server := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		gotKey = r.URL.Query().Get("key")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body generateContentRequest
		require.NoError(t, json.Unmarshal(raw, &body))
		gotRole = body.Contents[0].Role
		gotPrompt = body.Contents[0].Parts[0].Text
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Mantente activo."}]}}]}`))
	})

	client, err := NewClient(Config{
		EndpointURL: server.URL + "/v1beta/models/gemini-2.0-flash:generateContent",
		APIKey:      "test-key",
	}, server.Client())
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "hola")
	require.NoError(t, err)
	require.Equal(t, "Mantente activo.", text)
	require.Equal(t, "test-key", gotKey)
	require.Equal(t, "user", gotRole)
	require.Equal(t, "hola", gotPrompt)
}

func TestClient_EmptyCandidates(t *testing.T) {
	server := newStubServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})
	client, err := NewClient(Config{EndpointURL: server.URL, APIKey: "k"}, server.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "hola")
	require.ErrorIs(t, err, domain.ErrEmptyRecommendation)
}

func TestClient_JSONErrorStatusIsEmptyAnswer(t *testing.T) {
	for _, tc := range []struct {
		status int
		body   string
	}{
		{http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`},
		{http.StatusTooManyRequests, `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`},
	} {
		server := newStubServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		client, err := NewClient(Config{EndpointURL: server.URL, APIKey: "k"}, server.Client())
		require.NoError(t, err)

		_, err = client.Generate(context.Background(), "hola")
		require.ErrorIs(t, err, domain.ErrEmptyRecommendation)
		require.Contains(t, err.Error(), http.StatusText(tc.status))
		require.Equal(t, "No se pudieron generar las recomendaciones. Inténtalo de nuevo.", domain.FailureMessage(err))
	}
}

func TestClient_NonJSONErrorStatusIsUnavailable(t *testing.T) {
	server := newStubServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	client, err := NewClient(Config{EndpointURL: server.URL, APIKey: "k"}, server.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "hola")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrEmptyRecommendation)
	require.Equal(t, "Error al conectar con la API de Gemini. Por favor, revisa tu conexión.", domain.FailureMessage(err))
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client, err := NewClient(Config{EndpointURL: endpoint, APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "hola")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrEmptyRecommendation)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{EndpointURL: "http://localhost"}, nil)
	require.Error(t, err)

	client, err := NewClient(Config{APIKey: "k"}, nil)
	require.NoError(t, err)
	require.Equal(t, DefaultEndpointURL, client.endpointURL)
}
