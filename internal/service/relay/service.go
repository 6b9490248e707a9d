package relay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acme/nuvia-dialer/internal/domain"
	"github.com/acme/nuvia-dialer/internal/queue"
	"github.com/acme/nuvia-dialer/internal/telephony"
	apperrors "github.com/acme/nuvia-dialer/pkg/errors"
	"github.com/acme/nuvia-dialer/pkg/logger"
)

// CampaignsForSkill is the result of a skill-to-campaign lookup.
type CampaignsForSkill struct {
	Location  string            `json:"location"`
	Campaigns []domain.Campaign `json:"campaigns"`
}

// Service forwards client requests to the vendor API.
type Service struct {
	provider  telephony.Provider
	publisher queue.Publisher
	logger    *logger.Logger
}

// NewService constructs a relay service.
func NewService(provider telephony.Provider, publisher queue.Publisher, lg *logger.Logger) *Service {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if lg == nil {
		lg = logger.NewNop()
	}
	return &Service{provider: provider, publisher: publisher, logger: lg}
}

// Login exchanges credentials for a vendor access token and returns the raw
// token response.
func (s *Service) Login(ctx context.Context, cred domain.Credential) ([]byte, error) {
	if !s.provider.Configured() {
		return nil, fmt.Errorf("%w: missing Five9 credentials", apperrors.ErrMisconfigured)
	}
	if cred.Username == "" || cred.Password == "" {
		return nil, fmt.Errorf("%w: missing credentials", apperrors.ErrValidation)
	}

	body, err := s.provider.ExchangeToken(ctx, cred)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUpstream) {
			return nil, fmt.Errorf("%w: Five9 login failed", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return body, nil
}

// AgentState returns the vendor's view of the agent owning token.
func (s *Service) AgentState(ctx context.Context, token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", apperrors.ErrValidation)
	}
	return s.provider.AgentState(ctx, token)
}

// CampaignsForSkill derives the agent's location from its first blended skill
// and returns the manual outbound campaigns for that location.
func (s *Service) CampaignsForSkill(ctx context.Context, token string) (*CampaignsForSkill, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", apperrors.ErrValidation)
	}

	skills, err := s.provider.Skills(ctx, token)
	if err != nil {
		return nil, relabel(err, "failed to fetch skills")
	}

	location, ok := domain.FirstBlendedLocation(skills)
	if !ok {
		return nil, fmt.Errorf("%w: no blended skill found", apperrors.ErrNotFound)
	}

	campaigns, err := s.provider.Campaigns(ctx, token)
	if err != nil {
		return nil, relabel(err, "failed to fetch campaigns")
	}

	return &CampaignsForSkill{
		Location:  location,
		Campaigns: domain.FilterCampaigns(campaigns, domain.ManualOutboundCampaign(location)),
	}, nil
}

// StartCall places an outbound call and returns the vendor response verbatim.
func (s *Service) StartCall(ctx context.Context, req domain.CallRequest) ([]byte, error) {
	if req.Token == "" || req.Number == "" || req.Campaign == "" {
		return nil, fmt.Errorf("%w: missing fields", apperrors.ErrValidation)
	}

	body, err := s.provider.PlaceCall(ctx, req)
	if err != nil {
		return nil, err
	}

	msg := queue.NewActivity(queue.ActivityCallStarted)
	msg.Campaign = req.Campaign
	msg.Number = req.Number
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.WithContext(ctx).Warn("relay: publish call activity", zap.Error(err))
	}
	return body, nil
}

// Configure would clone a template center to a new location. Cloning is not
// implemented yet.
func (s *Service) Configure(_ context.Context, req domain.CloneRequest) error {
	if req.Location == "" {
		return fmt.Errorf("%w: missing location", apperrors.ErrValidation)
	}
	return fmt.Errorf("%w: configuration cloning for location %q", apperrors.ErrNotImplemented, req.Location)
}

// relabel keeps the upstream status but replaces the vendor text.
func relabel(err error, message string) error {
	var upstream *apperrors.UpstreamError
	if apperrors.As(err, &upstream) {
		return &apperrors.UpstreamError{Status: upstream.Status, Message: message}
	}
	return apperrors.Wrap(err, message)
}
