package domain

import "errors"

// FailureKind classifies why an estimate could not be produced.
type FailureKind string

const (
	KindMissingGender            FailureKind = "missing_gender"
	KindInvalidBasicMeasurements FailureKind = "invalid_basic_measurements"
	KindMissingOrInvalidHip      FailureKind = "missing_or_invalid_hip"
	KindNeckWaistDomain          FailureKind = "neck_waist_domain_error"
	KindWaistHipNeckDomain       FailureKind = "waist_hip_neck_domain_error"
	KindOutOfRangeResult         FailureKind = "out_of_range_result"
)

var failureKinds = []struct {
	err     error
	kind    FailureKind
	message string
}{
	{ErrMissingGender, KindMissingGender, "Por favor, selecciona tu género."},
	{ErrInvalidBasicMeasurements, KindInvalidBasicMeasurements, "Por favor, ingresa valores numéricos positivos para altura, cuello y cintura."},
	{ErrMissingOrInvalidHip, KindMissingOrInvalidHip, "Para mujeres, por favor, ingresa un valor numérico positivo para la cadera."},
	{ErrNeckWaistDomain, KindNeckWaistDomain, "La medida de la cintura debe ser mayor que la del cuello para un cálculo preciso en hombres."},
	{ErrWaistHipNeckDomain, KindWaistHipNeckDomain, "La suma de la cintura y la cadera debe ser mayor que la medida del cuello para un cálculo preciso en mujeres."},
	{ErrOutOfRangeResult, KindOutOfRangeResult, "No se pudo calcular el porcentaje de grasa corporal. Verifica tus medidas."},
}

// KindOf reports the failure kind wrapped by err, if any.
func KindOf(err error) (FailureKind, bool) {
	for _, entry := range failureKinds {
		if errors.Is(err, entry.err) {
			return entry.kind, true
		}
	}
	return "", false
}

// Message returns the user-facing text for the kind.
func (k FailureKind) Message() string {
	for _, entry := range failureKinds {
		if entry.kind == k {
			return entry.message
		}
	}
	return ""
}

// IsValidation reports whether the kind is raised before any arithmetic.
func (k FailureKind) IsValidation() bool {
	switch k {
	case KindMissingGender, KindInvalidBasicMeasurements, KindMissingOrInvalidHip:
		return true
	default:
		return false
	}
}
