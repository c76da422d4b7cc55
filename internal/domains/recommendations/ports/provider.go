package ports

import "context"

// Provider is the outbound port to a text-generation endpoint.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
