package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/nuvia-dialer/internal/domain"
	"github.com/acme/nuvia-dialer/internal/queue"
	apperrors "github.com/acme/nuvia-dialer/pkg/errors"
)

type fakeProvider struct {
	configured bool
	calls      []string

	token     []byte
	tokenErr  error
	state     []byte
	stateErr  error
	skills    []domain.Skill
	skillsErr error
	campaigns []domain.Campaign
	campErr   error
	call      []byte
	callErr   error
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) ExchangeToken(context.Context, domain.Credential) ([]byte, error) {
	f.calls = append(f.calls, "token")
	return f.token, f.tokenErr
}

func (f *fakeProvider) AgentState(context.Context, string) ([]byte, error) {
	f.calls = append(f.calls, "state")
	return f.state, f.stateErr
}

func (f *fakeProvider) Skills(context.Context, string) ([]domain.Skill, error) {
	f.calls = append(f.calls, "skills")
	return f.skills, f.skillsErr
}

func (f *fakeProvider) Campaigns(context.Context, string) ([]domain.Campaign, error) {
	f.calls = append(f.calls, "campaigns")
	return f.campaigns, f.campErr
}

func (f *fakeProvider) PlaceCall(context.Context, domain.CallRequest) ([]byte, error) {
	f.calls = append(f.calls, "call")
	return f.call, f.callErr
}

type recordingPublisher struct {
	msgs []queue.ActivityMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg queue.ActivityMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestLoginMisconfiguredBeforeValidation(t *testing.T) {
	p := &fakeProvider{}
	svc := NewService(p, nil, nil)

	_, err := svc.Login(context.Background(), domain.Credential{})
	assert.ErrorIs(t, err, apperrors.ErrMisconfigured)
	assert.Empty(t, p.calls)
}

func TestLoginMissingCredentials(t *testing.T) {
	cases := []domain.Credential{
		{Username: "", Password: "pw"},
		{Username: "agent", Password: ""},
		{},
	}
	for _, cred := range cases {
		p := &fakeProvider{configured: true}
		svc := NewService(p, nil, nil)

		_, err := svc.Login(context.Background(), cred)
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "missing credentials")
		assert.Empty(t, p.calls, "vendor must not be contacted")
	}
}

func TestLoginRejectedIsUnauthorized(t *testing.T) {
	p := &fakeProvider{
		configured: true,
		token:      []byte(`{"access_token":"should-not-leak"}`),
		tokenErr:   &apperrors.UpstreamError{Status: http.StatusBadRequest, Message: "invalid_grant"},
	}
	svc := NewService(p, nil, nil)

	body, err := svc.Login(context.Background(), domain.Credential{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, body)
}

func TestLoginTransportFailurePassesThrough(t *testing.T) {
	p := &fakeProvider{configured: true, tokenErr: apperrors.ErrUnavailable}
	svc := NewService(p, nil, nil)

	_, err := svc.Login(context.Background(), domain.Credential{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginSuccessReturnsRawBody(t *testing.T) {
	p := &fakeProvider{configured: true, token: []byte(`{"access_token":"abc"}`)}
	svc := NewService(p, nil, nil)

	body, err := svc.Login(context.Background(), domain.Credential{Username: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"abc"}`, string(body))
}

func TestAgentStateRequiresToken(t *testing.T) {
	p := &fakeProvider{}
	svc := NewService(p, nil, nil)

	_, err := svc.AgentState(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, p.calls)
}

func TestCampaignsForSkillNoBlendedSkill(t *testing.T) {
	p := &fakeProvider{skills: []domain.Skill{{Name: "Support"}, {Name: "Bethesda_Blended_Inbound"}}}
	svc := NewService(p, nil, nil)

	_, err := svc.CampaignsForSkill(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, []string{"skills"}, p.calls)
}

func TestCampaignsForSkillFiltersExactly(t *testing.T) {
	var campaigns []domain.Campaign
	require.NoError(t, json.Unmarshal([]byte(`[
		{"name":"Chevy_Chase_Manual_Outbound","id":"7"},
		{"name":"Chevy_Chase_Manual_Outbound_2"},
		{"name":"Bethesda_Manual_Outbound"}
	]`), &campaigns))

	p := &fakeProvider{
		skills:    []domain.Skill{{Name: "Chevy_Chase_Blended_Inbound_Outbound"}},
		campaigns: campaigns,
	}
	svc := NewService(p, nil, nil)

	res, err := svc.CampaignsForSkill(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Chevy_Chase", res.Location)
	require.Len(t, res.Campaigns, 1)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"location":"Chevy_Chase","campaigns":[{"name":"Chevy_Chase_Manual_Outbound","id":"7"}]}`, string(out))
}

func TestCampaignsForSkillRelaysUpstreamStatus(t *testing.T) {
	p := &fakeProvider{skillsErr: &apperrors.UpstreamError{Status: http.StatusUnauthorized, Message: "expired"}}
	svc := NewService(p, nil, nil)

	_, err := svc.CampaignsForSkill(context.Background(), "tok")
	var upstream *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.Equal(t, "failed to fetch skills", upstream.Message)

	p = &fakeProvider{
		skills:  []domain.Skill{{Name: "X_Blended_Inbound_Outbound"}},
		campErr: &apperrors.UpstreamError{Status: http.StatusBadGateway, Message: "oops"},
	}
	svc = NewService(p, nil, nil)
	_, err = svc.CampaignsForSkill(context.Background(), "tok")
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Equal(t, "failed to fetch campaigns", upstream.Message)
}

func TestStartCallMissingFields(t *testing.T) {
	cases := []domain.CallRequest{
		{Number: "1", Campaign: "c"},
		{Token: "t", Campaign: "c"},
		{Token: "t", Number: "1"},
	}
	for _, req := range cases {
		p := &fakeProvider{}
		pub := &recordingPublisher{}
		svc := NewService(p, pub, nil)

		_, err := svc.StartCall(context.Background(), req)
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "missing fields")
		assert.Empty(t, p.calls, "no external call for %+v", req)
		assert.Empty(t, pub.msgs)
	}
}

func TestStartCallPublishesActivity(t *testing.T) {
	p := &fakeProvider{call: []byte(`{"id":"call-1"}`)}
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(p, pub, nil)

	body, err := svc.StartCall(context.Background(), domain.CallRequest{Token: "t", Number: "+15550100", Campaign: "c"})
	require.NoError(t, err, "publish failures do not fail the call")
	assert.Equal(t, `{"id":"call-1"}`, string(body))

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, queue.ActivityCallStarted, pub.msgs[0].Type)
	assert.Equal(t, "c", pub.msgs[0].Campaign)
	assert.Equal(t, "+15550100", pub.msgs[0].Number)
}

func TestStartCallUpstreamFailure(t *testing.T) {
	p := &fakeProvider{callErr: &apperrors.UpstreamError{Status: http.StatusConflict, Message: "agent not ready"}}
	pub := &recordingPublisher{}
	svc := NewService(p, pub, nil)

	_, err := svc.StartCall(context.Background(), domain.CallRequest{Token: "t", Number: "1", Campaign: "c"})
	var upstream *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusConflict, upstream.Status)
	assert.Empty(t, pub.msgs)
}

func TestConfigureIsNotImplemented(t *testing.T) {
	svc := NewService(&fakeProvider{}, nil, nil)

	err := svc.Configure(context.Background(), domain.CloneRequest{Location: "Chevy Chase"})
	assert.ErrorIs(t, err, apperrors.ErrNotImplemented)

	err = svc.Configure(context.Background(), domain.CloneRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
