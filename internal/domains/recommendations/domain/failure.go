package domain

import "errors"

var (
	// ErrEmptyRecommendation means the provider answered without usable text.
	ErrEmptyRecommendation = errors.New("recommendation service returned no text")
	// ErrProviderUnavailable means the provider could not be reached or rejected the call.
	ErrProviderUnavailable = errors.New("recommendation service unavailable")
)

const (
	emptyMessage       = "No se pudieron generar las recomendaciones. Inténtalo de nuevo."
	unavailableMessage = "Error al conectar con la API de Gemini. Por favor, revisa tu conexión."
)

// FailureKind is the code reported for every recommendation failure.
const FailureKind = "recommendation_service_error"

// FailureMessage returns the user-facing text for a recommendation failure.
func FailureMessage(err error) string {
	if errors.Is(err, ErrEmptyRecommendation) {
		return emptyMessage
	}
	return unavailableMessage
}
