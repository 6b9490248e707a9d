package five9

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/acme/nuvia-dialer/internal/config"
	"github.com/acme/nuvia-dialer/internal/domain"
	apperrors "github.com/acme/nuvia-dialer/pkg/errors"
)

const (
	tokenPath     = "/oauth2/token"
	agentPath     = "/agent/v2/agents/self/state"
	skillsPath    = "/agent/v2/agents/self/skills"
	campaignsPath = "/agent/v2/campaigns"
	callsPath     = "/agent/v2/calls"
)

// Client talks to the Five9 REST API.
type Client struct {
	baseURL        string
	clientID       string
	clientSecret   string
	loginTimeout   time.Duration
	requestTimeout time.Duration
	errorBodyLimit int
	tracer         trace.Tracer
}

// NewClient builds a client from configuration.
func NewClient(cfg config.Five9Config) *Client {
	limit := cfg.ErrorBodyLimit
	if limit <= 0 {
		limit = 300
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		clientID:       cfg.ClientID,
		clientSecret:   cfg.ClientSecret,
		loginTimeout:   cfg.LoginTimeout,
		requestTimeout: cfg.RequestTimeout,
		errorBodyLimit: limit,
		tracer:         otel.Tracer("nuvia-dialer/five9"),
	}
}

// Configured reports whether the OAuth client id and secret are set.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ExchangeToken trades agent credentials for an access token using the
// password grant. The raw token response is returned.
func (c *Client) ExchangeToken(ctx context.Context, cred domain.Credential) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: missing Five9 client credentials", apperrors.ErrMisconfigured)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("grant_type", "password")
	args.Set("username", cred.Username)
	args.Set("password", cred.Password)

	agent := fiber.Post(c.baseURL + tokenPath).
		BasicAuth(c.clientID, c.clientSecret).
		Form(args)
	return c.do(ctx, agent, http.MethodPost, tokenPath, c.loginTimeout)
}

// AgentState returns the raw state of the agent owning token.
func (c *Client) AgentState(ctx context.Context, token string) ([]byte, error) {
	agent := fiber.Get(c.baseURL + agentPath)
	return c.do(ctx, bearer(agent, token), http.MethodGet, agentPath, c.requestTimeout)
}

// Skills lists the skills assigned to the agent owning token.
func (c *Client) Skills(ctx context.Context, token string) ([]domain.Skill, error) {
	body, err := c.do(ctx, bearer(fiber.Get(c.baseURL+skillsPath), token), http.MethodGet, skillsPath, c.requestTimeout)
	if err != nil {
		return nil, err
	}
	var skills []domain.Skill
	if err := json.Unmarshal(body, &skills); err != nil {
		return nil, fmt.Errorf("five9: decode skills: %w", err)
	}
	return skills, nil
}

// Campaigns lists the campaigns visible to the agent owning token.
func (c *Client) Campaigns(ctx context.Context, token string) ([]domain.Campaign, error) {
	body, err := c.do(ctx, bearer(fiber.Get(c.baseURL+campaignsPath), token), http.MethodGet, campaignsPath, c.requestTimeout)
	if err != nil {
		return nil, err
	}
	var campaigns []domain.Campaign
	if err := json.Unmarshal(body, &campaigns); err != nil {
		return nil, fmt.Errorf("five9: decode campaigns: %w", err)
	}
	return campaigns, nil
}

// PlaceCall starts an outbound call on behalf of the agent owning req.Token.
func (c *Client) PlaceCall(ctx context.Context, req domain.CallRequest) ([]byte, error) {
	payload := struct {
		PhoneNumber  string `json:"phoneNumber"`
		CampaignName string `json:"campaignName"`
	}{req.Number, req.Campaign}

	agent := bearer(fiber.Post(c.baseURL+callsPath), req.Token).JSON(payload)
	return c.do(ctx, agent, http.MethodPost, callsPath, c.requestTimeout)
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, method, path string, timeout time.Duration) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "five9 "+method+" "+path, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("five9.path", path),
		))
	defer span.End()

	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, err
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		agent.Set(k, v)
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := fmt.Errorf("%w: five9 %s: %v", apperrors.ErrUnavailable, path, errors.Join(errs...))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	if status < 200 || status > 299 {
		span.SetStatus(codes.Error, http.StatusText(status))
		return nil, &apperrors.UpstreamError{Status: status, Message: truncate(string(body), c.errorBodyLimit)}
	}
	return body, nil
}

func bearer(agent *fiber.Agent, token string) *fiber.Agent {
	return agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
