package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
	recdomain "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
)

type normalizedRequest struct {
	Gender  string `json:"gender"`
	Percent string `json:"percent"`
}

// FingerprintRequest builds a deterministic hash of the request (excluding the idempotency key).
// The percent is compared at the two-decimal precision that is shown to users.
func FingerprintRequest(req recdomain.Request) (string, error) {
	payload, err := json.Marshal(normalizedRequest{
		Gender:  string(req.Gender),
		Percent: domain.FormatPercent(req.BodyFatPercent),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
