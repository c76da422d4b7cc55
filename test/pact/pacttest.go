//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "bodyfat-api"
	ConsumerName = "bodyfat-web"

	StateEstimationBaseline   = "estimation baseline"
	StateRecommenderAnswers   = "recommendation provider answers"
	StateRecommenderUnhealthy = "recommendation provider is unreachable"
)

// ExampleRecommendationText is returned by the stub provider in the answering state.
const ExampleRecommendationText = "Tu valor está en un rango saludable. Mantén la actividad física regular."

// ExampleMaleMeasurements yields 12.87%.
func ExampleMaleMeasurements() map[string]any {
	return map[string]any{
		"gender":   "male",
		"heightCm": "175",
		"neckCm":   "38",
		"waistCm":  "80",
	}
}

// ExampleFemaleMeasurementsWithoutHip is rejected with missing_or_invalid_hip.
func ExampleFemaleMeasurementsWithoutHip() map[string]any {
	return map[string]any{
		"gender":   "female",
		"heightCm": "165",
		"neckCm":   "34",
		"waistCm":  "70",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
