package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	bodyfat "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
)

var (
	ErrInvalidGender  = errors.New("gender must be male or female")
	ErrInvalidPercent = errors.New("body fat percent must be between 0 and 100")
)

// Request describes an already computed estimate handed to the text generator.
type Request struct {
	Gender         bodyfat.Gender
	BodyFatPercent float64
}

// NewRequest validates the estimate before it leaves the process.
func NewRequest(gender string, percent float64) (Request, error) {
	g, ok := bodyfat.ParseGender(gender)
	if !ok {
		return Request{}, ErrInvalidGender
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 || percent > 100 {
		return Request{}, ErrInvalidPercent
	}
	return Request{Gender: g, BodyFatPercent: percent}, nil
}

// Prompt renders the natural-language instruction sent to the model.
func (r Request) Prompt() string {
	subject := "hombre"
	if r.Gender == bodyfat.GenderFemale {
		subject = "mujer"
	}
	return fmt.Sprintf("Dado que el porcentaje de grasa corporal de un %s es %s%%, por favor, ofrece una breve "+
		"interpretación de este valor y una recomendación general de bienestar. Utiliza un tono positivo y "+
		"enfócate en la salud general, no en la estética. Indica claramente que esta es una recomendación "+
		"general y no un consejo médico o nutricional personalizado.",
		subject, bodyfat.FormatPercent(r.BodyFatPercent))
}

// Recommendation is the free text returned for a Request.
type Recommendation struct {
	ID             string
	Gender         bodyfat.Gender
	BodyFatPercent float64
	Text           string
	CreatedAt      time.Time
}

// NewRecommendation trims the generated text and rejects blank answers.
func NewRecommendation(id string, req Request, text string, createdAt time.Time) (*Recommendation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyRecommendation
	}
	return &Recommendation{
		ID:             id,
		Gender:         req.Gender,
		BodyFatPercent: req.BodyFatPercent,
		Text:           text,
		CreatedAt:      createdAt,
	}, nil
}
