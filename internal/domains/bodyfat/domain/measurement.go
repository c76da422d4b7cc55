package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Gender selects the sex-specific Navy coefficients.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var (
	ErrMissingGender            = errors.New("gender must be male or female")
	ErrInvalidBasicMeasurements = errors.New("height, neck and waist must be positive numbers")
	ErrMissingOrInvalidHip      = errors.New("hip must be a positive number for female subjects")
)

// MeasurementInput carries the raw values collected from the caller, in centimeters.
type MeasurementInput struct {
	Gender   string
	HeightCm string
	NeckCm   string
	WaistCm  string
	HipCm    string
}

// ValidatedInput is a MeasurementInput whose values passed Validate.
// HipCm is zero for male subjects.
type ValidatedInput struct {
	Gender   Gender
	HeightCm float64
	NeckCm   float64
	WaistCm  float64
	HipCm    float64
}

// ParseGender accepts "male" or "female", ignoring case and surrounding spaces.
func ParseGender(raw string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	default:
		return "", false
	}
}

// Validate checks the input in a fixed order and reports the first failure.
func Validate(input MeasurementInput) (ValidatedInput, error) {
	gender, ok := ParseGender(input.Gender)
	if !ok {
		return ValidatedInput{}, ErrMissingGender
	}
	height, okHeight := parsePositive(input.HeightCm)
	neck, okNeck := parsePositive(input.NeckCm)
	waist, okWaist := parsePositive(input.WaistCm)
	if !okHeight || !okNeck || !okWaist {
		return ValidatedInput{}, ErrInvalidBasicMeasurements
	}
	validated := ValidatedInput{
		Gender:   gender,
		HeightCm: height,
		NeckCm:   neck,
		WaistCm:  waist,
	}
	if gender == GenderFemale {
		hip, ok := parsePositive(input.HipCm)
		if !ok {
			return ValidatedInput{}, ErrMissingOrInvalidHip
		}
		validated.HipCm = hip
	}
	return validated, nil
}

func parsePositive(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if isHexLiteral(raw) {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, value > 0
}

// isHexLiteral reports hexadecimal float notation, which measurements never use.
func isHexLiteral(raw string) bool {
	unsigned := strings.TrimLeft(raw, "+-")
	return len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X')
}
