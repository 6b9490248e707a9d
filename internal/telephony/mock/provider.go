package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acme/nuvia-dialer/internal/config"
	"github.com/acme/nuvia-dialer/internal/domain"
	apperrors "github.com/acme/nuvia-dialer/pkg/errors"
)

const (
	tokenTTL  = time.Hour
	maxTokens = 1024
)

type session struct {
	user    string
	expires time.Time
}

// Provider simulates the vendor API for local development. Any non-empty
// credentials are accepted; only unexpired tokens it issued are honoured.
type Provider struct {
	location string
	latency  time.Duration

	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	tokens map[string]session
}

// NewProvider constructs a mock provider.
func NewProvider(cfg config.MockConfig) *Provider {
	seed := time.Now().UnixNano()
	return &Provider{
		location: cfg.Location,
		latency:  cfg.Latency,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
		tokens:   make(map[string]session),
	}
}

// Configured always reports true; the mock needs no client credentials.
func (p *Provider) Configured() bool { return true }

// ExchangeToken issues a random token for any non-empty credential.
func (p *Provider) ExchangeToken(ctx context.Context, cred domain.Credential) ([]byte, error) {
	if err := p.pause(ctx); err != nil {
		return nil, err
	}
	if cred.Username == "" || cred.Password == "" {
		return nil, &apperrors.UpstreamError{Status: http.StatusBadRequest, Message: "invalid_grant"}
	}

	token := uuid.NewString()
	p.mu.Lock()
	p.evictLocked()
	p.tokens[token] = session{user: cred.Username, expires: p.now().Add(tokenTTL)}
	p.mu.Unlock()

	return json.Marshal(map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(tokenTTL.Seconds()),
	})
}

// AgentState reports a random ready/not-ready state.
func (p *Provider) AgentState(ctx context.Context, token string) ([]byte, error) {
	user, err := p.authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	ready := p.rng.Float64() < 0.8
	p.mu.Unlock()

	state := "NOT_READY"
	if ready {
		state = "READY"
	}
	return json.Marshal(map[string]any{"userName": user, "state": state})
}

// Skills returns one blended skill for the configured location.
func (p *Provider) Skills(ctx context.Context, token string) ([]domain.Skill, error) {
	if _, err := p.authorize(ctx, token); err != nil {
		return nil, err
	}
	return []domain.Skill{
		{Name: "Support"},
		{Name: p.location + domain.BlendedSkillSuffix},
	}, nil
}

// Campaigns returns the location's manual outbound campaign among decoys.
func (p *Provider) Campaigns(ctx context.Context, token string) ([]domain.Campaign, error) {
	if _, err := p.authorize(ctx, token); err != nil {
		return nil, err
	}
	names := []string{
		domain.ManualOutboundCampaign(p.location),
		p.location + "_Inbound",
		domain.ManualOutboundCampaign("Template"),
	}
	out := make([]domain.Campaign, 0, len(names))
	for i, name := range names {
		raw, err := json.Marshal(map[string]any{"id": fmt.Sprint(i + 1), "name": name, "state": "RUNNING"})
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Campaign{Name: name, Raw: raw})
	}
	return out, nil
}

// PlaceCall accepts the call and returns a generated call id.
func (p *Provider) PlaceCall(ctx context.Context, req domain.CallRequest) ([]byte, error) {
	if _, err := p.authorize(ctx, req.Token); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"callId":       uuid.NewString(),
		"phoneNumber":  req.Number,
		"campaignName": req.Campaign,
	})
}

func (p *Provider) authorize(ctx context.Context, token string) (string, error) {
	if err := p.pause(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	s, ok := p.tokens[token]
	if ok && !p.now().Before(s.expires) {
		delete(p.tokens, token)
		ok = false
	}
	p.mu.Unlock()
	if !ok {
		return "", &apperrors.UpstreamError{Status: http.StatusUnauthorized, Message: "invalid token"}
	}
	return s.user, nil
}

// evictLocked drops expired tokens and, when the table is still full, the one
// closest to expiry. Callers hold p.mu.
func (p *Provider) evictLocked() {
	now := p.now()
	for tok, s := range p.tokens {
		if !now.Before(s.expires) {
			delete(p.tokens, tok)
		}
	}
	for len(p.tokens) >= maxTokens {
		var oldest string
		var oldestAt time.Time
		for tok, s := range p.tokens {
			if oldest == "" || s.expires.Before(oldestAt) {
				oldest, oldestAt = tok, s.expires
			}
		}
		delete(p.tokens, oldest)
	}
}

func (p *Provider) pause(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.latency):
		return nil
	}
}
