package domain

import "fmt"

// EventKind discriminates status events pushed to the dialer front-end.
type EventKind string

const (
	EventDialing   EventKind = "dialing"
	EventConnected EventKind = "connected"
	EventIdle      EventKind = "idle"
)

// CallType is the direction of the call an event refers to.
type CallType string

const (
	CallInbound  CallType = "Inbound"
	CallOutbound CallType = "Outbound"
)

// Lead identifies the CRM contact attached to a connected call.
type Lead struct {
	LocationID string `json:"ghlLocationID"`
	ContactID  string `json:"ghlContactID"`
}

// StatusEvent is a single push on the event stream. Use the constructors; the
// payload fields allowed depend on Kind.
type StatusEvent struct {
	Kind       EventKind `json:"event"`
	CallType   CallType  `json:"type,omitempty"`
	StageLabel string    `json:"ghlStageName,omitempty"`
	Progress   *int      `json:"progress,omitempty"`
	Lead       *Lead     `json:"lead,omitempty"`
}

// Dialing reports dialing progress for a call direction.
func Dialing(callType CallType, progress int) StatusEvent {
	return StatusEvent{Kind: EventDialing, CallType: callType, Progress: &progress}
}

// DialingStage reports dialing progress tagged with a pipeline stage.
func DialingStage(callType CallType, stage string, progress int) StatusEvent {
	ev := Dialing(callType, progress)
	ev.StageLabel = stage
	return ev
}

// Connected reports a call connected to a lead.
func Connected(callType CallType, lead Lead) StatusEvent {
	return StatusEvent{Kind: EventConnected, CallType: callType, Lead: &lead}
}

// Idle reports that the agent has no active call.
func Idle() StatusEvent {
	return StatusEvent{Kind: EventIdle}
}

// Validate checks that the payload matches the shape fixed for the event kind.
func (e StatusEvent) Validate() error {
	switch e.Kind {
	case EventDialing:
		if e.CallType == "" {
			return fmt.Errorf("dialing event: missing call type")
		}
		if e.Progress == nil || *e.Progress < 0 || *e.Progress > 100 {
			return fmt.Errorf("dialing event: progress must be within 0..100")
		}
		if e.Lead != nil {
			return fmt.Errorf("dialing event: unexpected lead")
		}
	case EventConnected:
		if e.CallType == "" {
			return fmt.Errorf("connected event: missing call type")
		}
		if e.Lead == nil {
			return fmt.Errorf("connected event: missing lead")
		}
		if e.Progress != nil || e.StageLabel != "" {
			return fmt.Errorf("connected event: unexpected dialing fields")
		}
	case EventIdle:
		if e.CallType != "" || e.StageLabel != "" || e.Progress != nil || e.Lead != nil {
			return fmt.Errorf("idle event: carries no payload")
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}
