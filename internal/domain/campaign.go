package domain

import (
	"encoding/json"
	"strings"
)

// Vendor-side naming conventions that tie an agent's skill to its location.
const (
	BlendedSkillSuffix   = "_Blended_Inbound_Outbound"
	ManualOutboundSuffix = "_Manual_Outbound"
)

// Skill is an agent skill as reported by the vendor. Only the name is read;
// other fields vary in shape between vendor versions and are ignored.
type Skill struct {
	Name string `json:"name"`
}

// Campaign is a vendor campaign. Raw keeps the original object so it can be
// relayed without losing fields this service does not model.
type Campaign struct {
	Name string
	Raw  json.RawMessage
}

// UnmarshalJSON captures the name and keeps the full object.
func (c *Campaign) UnmarshalJSON(data []byte) error {
	var head struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	c.Name = head.Name
	c.Raw = append(c.Raw[:0], data...)
	return nil
}

// MarshalJSON emits the original vendor object.
func (c Campaign) MarshalJSON() ([]byte, error) {
	if len(c.Raw) == 0 {
		return json.Marshal(struct {
			Name string `json:"name"`
		}{c.Name})
	}
	return c.Raw, nil
}

// LocationFromSkill strips the blended suffix from a skill name. ok is false
// when the name does not carry the suffix.
func LocationFromSkill(skillName string) (location string, ok bool) {
	if !strings.HasSuffix(skillName, BlendedSkillSuffix) {
		return "", false
	}
	return strings.TrimSuffix(skillName, BlendedSkillSuffix), true
}

// ManualOutboundCampaign names the outbound campaign for a location.
func ManualOutboundCampaign(location string) string {
	return location + ManualOutboundSuffix
}

// FirstBlendedLocation returns the location of the first blended skill.
func FirstBlendedLocation(skills []Skill) (string, bool) {
	for _, s := range skills {
		if loc, ok := LocationFromSkill(s.Name); ok {
			return loc, true
		}
	}
	return "", false
}

// FilterCampaigns keeps campaigns whose name equals name exactly.
func FilterCampaigns(campaigns []Campaign, name string) []Campaign {
	out := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Credential is a username/password pair exchanged for a vendor token.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CallRequest asks the vendor to place an outbound call.
type CallRequest struct {
	Token    string `json:"token"`
	Number   string `json:"number"`
	Campaign string `json:"campaign"`
}

// CloneRequest asks for a template center to be cloned to a new location.
type CloneRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Location      string `json:"location"`
	TimeZone      string `json:"timezone"`
	GHLLocationID string `json:"ghlLocationId"`
	GHLPipelineID string `json:"ghlPipelineId"`
}
