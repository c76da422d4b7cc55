package mapper

import (
	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
)

// Measurements represents the transport-layer shape used by the HTTP handlers.
type Measurements struct {
	Gender   string
	HeightCm string
	NeckCm   string
	WaistCm  string
	HipCm    string
}

// Estimate is the transport-layer view of a computed estimate.
type Estimate struct {
	Gender         string
	BodyFatPercent float64
	Formatted      string
}

// ToDomainInput converts transport measurements into the raw domain input.
func ToDomainInput(m Measurements) domain.MeasurementInput {
	return domain.MeasurementInput{
		Gender:   m.Gender,
		HeightCm: m.HeightCm,
		NeckCm:   m.NeckCm,
		WaistCm:  m.WaistCm,
		HipCm:    m.HipCm,
	}
}

// FromDomainEstimate converts a domain estimate to the transport representation.
func FromDomainEstimate(e domain.Estimate) Estimate {
	return Estimate{
		Gender:         string(e.Gender),
		BodyFatPercent: e.BodyFatPercent,
		Formatted:      e.Formatted(),
	}
}
