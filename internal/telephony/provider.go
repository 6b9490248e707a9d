package telephony

import (
	"context"

	"github.com/acme/nuvia-dialer/internal/domain"
)

// Provider abstracts the contact-center vendor API. Non-success vendor
// responses surface as *errors.UpstreamError.
type Provider interface {
	// Configured reports whether server-side OAuth client credentials are present.
	Configured() bool
	ExchangeToken(ctx context.Context, cred domain.Credential) ([]byte, error)
	AgentState(ctx context.Context, token string) ([]byte, error)
	Skills(ctx context.Context, token string) ([]domain.Skill, error)
	Campaigns(ctx context.Context, token string) ([]domain.Campaign, error)
	PlaceCall(ctx context.Context, req domain.CallRequest) ([]byte, error)
}
