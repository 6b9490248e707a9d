package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFromSkill(t *testing.T) {
	loc, ok := LocationFromSkill("Chevy_Chase_Blended_Inbound_Outbound")
	require.True(t, ok)
	assert.Equal(t, "Chevy_Chase", loc)

	_, ok = LocationFromSkill("Chevy_Chase_Blended_Inbound")
	assert.False(t, ok)

	// Only the trailing suffix is removed.
	loc, ok = LocationFromSkill("A_Blended_Inbound_Outbound_Blended_Inbound_Outbound")
	require.True(t, ok)
	assert.Equal(t, "A_Blended_Inbound_Outbound", loc)
}

func TestFirstBlendedLocationPicksFirstMatch(t *testing.T) {
	skills := []Skill{
		{Name: "Support"},
		{Name: "Bethesda_Blended_Inbound_Outbound"},
		{Name: "Rockville_Blended_Inbound_Outbound"},
	}
	loc, ok := FirstBlendedLocation(skills)
	require.True(t, ok)
	assert.Equal(t, "Bethesda", loc)

	_, ok = FirstBlendedLocation([]Skill{{Name: "Support"}})
	assert.False(t, ok)
}

func TestFilterCampaignsExactMatch(t *testing.T) {
	var campaigns []Campaign
	raw := `[
		{"name":"Bethesda_Manual_Outbound","id":"1","state":"RUNNING"},
		{"name":"Bethesda_Manual_Outbound_Old","id":"2"},
		{"name":"bethesda_manual_outbound","id":"3"}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &campaigns))

	got := FilterCampaigns(campaigns, ManualOutboundCampaign("Bethesda"))
	require.Len(t, got, 1)

	out, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bethesda_Manual_Outbound","id":"1","state":"RUNNING"}`, string(out))
}

func TestStatusEventWireShape(t *testing.T) {
	cases := []struct {
		event StatusEvent
		want  string
	}{
		{Dialing(CallInbound, 40), `{"event":"dialing","type":"Inbound","progress":40}`},
		{DialingStage(CallOutbound, "Outbound – New Leads", 60), `{"event":"dialing","type":"Outbound","ghlStageName":"Outbound – New Leads","progress":60}`},
		{Connected(CallOutbound, Lead{LocationID: "loc", ContactID: "c1"}), `{"event":"connected","type":"Outbound","lead":{"ghlLocationID":"loc","ghlContactID":"c1"}}`},
		{Idle(), `{"event":"idle"}`},
	}

	for _, tc := range cases {
		require.NoError(t, tc.event.Validate())
		out, err := json.Marshal(tc.event)
		require.NoError(t, err)
		assert.JSONEq(t, tc.want, string(out))
	}
}

func TestStatusEventValidateRejectsMixedPayloads(t *testing.T) {
	progress := 10
	lead := &Lead{LocationID: "l", ContactID: "c"}

	bad := []StatusEvent{
		{Kind: "ringing"},
		{Kind: EventIdle, Progress: &progress},
		{Kind: EventDialing, CallType: CallInbound},
		{Kind: EventDialing, CallType: CallInbound, Progress: &progress, Lead: lead},
		{Kind: EventConnected, CallType: CallOutbound},
		{Kind: EventConnected, CallType: CallOutbound, Lead: lead, Progress: &progress},
		Dialing(CallInbound, 101),
	}
	for _, ev := range bad {
		assert.Error(t, ev.Validate(), "%+v", ev)
	}
}
