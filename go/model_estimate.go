package bodyfatserver

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MeasurementValue accepts a measurement as a JSON string or number and keeps its text.
type MeasurementValue string

// UnmarshalJSON keeps numbers verbatim so parsing rules stay in one place.
func (v *MeasurementValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = MeasurementValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("measurement must be a string or a number: %w", err)
	}
	*v = MeasurementValue(n.String())
	return nil
}

// EstimateRequest - circumference measurements in centimeters.
type EstimateRequest struct {
	Gender   string           `json:"gender"`
	HeightCm MeasurementValue `json:"heightCm"`
	NeckCm   MeasurementValue `json:"neckCm"`
	WaistCm  MeasurementValue `json:"waistCm"`
	// HipCm is required for female estimates and ignored otherwise.
	HipCm MeasurementValue `json:"hipCm,omitempty"`
}

// EstimateResponse - the computed body-fat estimate.
type EstimateResponse struct {
	Gender         string  `json:"gender"`
	BodyFatPercent float64 `json:"bodyFatPercent"`
	// Formatted is the percent with exactly two decimals.
	Formatted string `json:"formatted"`
}
