package domain

import (
	"errors"
	"math"
	"strconv"
)

var (
	ErrNeckWaistDomain    = errors.New("waist must be greater than neck")
	ErrWaistHipNeckDomain = errors.New("waist plus hip must be greater than neck")
	ErrOutOfRangeResult   = errors.New("estimated body fat is outside 0-100%")
)

// Navy circumference coefficients, centimeter form.
const (
	navyNumerator = 495.0
	navyOffset    = 450.0

	maleIntercept    = 1.0324
	maleGirthCoef    = 0.19077
	maleHeightCoef   = 0.15456
	femaleIntercept  = 1.29579
	femaleGirthCoef  = 0.35004
	femaleHeightCoef = 0.22100

	minPercent = 0.0
	maxPercent = 100.0
)

// Estimate is a body-fat percentage rounded to two decimals.
type Estimate struct {
	Gender         Gender
	BodyFatPercent float64
}

// Formatted renders the percentage with exactly two decimals.
func (e Estimate) Formatted() string {
	return FormatPercent(e.BodyFatPercent)
}

// FormatPercent renders a percentage with exactly two decimals.
func FormatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 2, 64)
}

// EstimateBodyFat applies the U.S. Navy formula for the input's gender.
func EstimateBodyFat(input ValidatedInput) (Estimate, error) {
	var percent float64
	switch input.Gender {
	case GenderMale:
		girth := input.WaistCm - input.NeckCm
		if girth <= 0 {
			return Estimate{}, ErrNeckWaistDomain
		}
		percent = navyNumerator/(maleIntercept-maleGirthCoef*math.Log10(girth)+maleHeightCoef*math.Log10(input.HeightCm)) - navyOffset
	case GenderFemale:
		girth := input.WaistCm + input.HipCm - input.NeckCm
		if girth <= 0 {
			return Estimate{}, ErrWaistHipNeckDomain
		}
		percent = navyNumerator/(femaleIntercept-femaleGirthCoef*math.Log10(girth)+femaleHeightCoef*math.Log10(input.HeightCm)) - navyOffset
	default:
		return Estimate{}, ErrMissingGender
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < minPercent || percent > maxPercent {
		return Estimate{}, ErrOutOfRangeResult
	}
	return Estimate{Gender: input.Gender, BodyFatPercent: roundTo2Decimals(percent)}, nil
}

func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
