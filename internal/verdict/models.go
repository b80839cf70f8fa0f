package verdict

import (
	"fmt"
	"strings"
)

// Action is the decision returned for an authenticate call.
type Action string

const (
	ActionAllow     Action = "allow"
	ActionDeny      Action = "deny"
	ActionChallenge Action = "challenge"
)

// IsValid reports whether a is one of the known actions.
func (a Action) IsValid() bool {
	switch a {
	case ActionAllow, ActionDeny, ActionChallenge:
		return true
	}
	return false
}

func (a Action) String() string { return string(a) }

// ParseAction accepts any casing ("ALLOW", "allow", "Allow").
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// RiskPolicy identifies the remote policy that produced a decision.
type RiskPolicy struct {
	ID         string `json:"id"`
	RevisionID string `json:"revision_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Verdict is the outcome of an authenticate call. A failover verdict is built
// locally when the remote decision could not be obtained; it always carries a
// reason and the configured default action.
type Verdict struct {
	UserID         string      `json:"user_id"`
	Action         Action      `json:"action"`
	RiskPolicy     *RiskPolicy `json:"risk_policy,omitempty"`
	FailoverReason string      `json:"failover_reason,omitempty"`
	Failover       bool        `json:"failover"`
}

// TransportModel is the raw authenticate response shape.
type TransportModel struct {
	Action     *string     `json:"action"`
	UserID     *string     `json:"user_id"`
	RiskPolicy *RiskPolicy `json:"risk_policy,omitempty"`
}

// Complete reports whether both action and user id were present, and the
// action is one this client understands.
func (m TransportModel) Complete() bool {
	return m.Action != nil && m.UserID != nil && Action(*m.Action).IsValid()
}

// Strategy configures how authenticate degrades when the backend cannot answer.
type Strategy struct {
	DefaultAction  Action
	ThrowOnFailure bool
}

// DefaultStrategy allows the action and never escalates.
func DefaultStrategy() Strategy {
	return Strategy{DefaultAction: ActionAllow}
}

// NewStrategy validates the default action.
func NewStrategy(defaultAction Action, throwOnFailure bool) (Strategy, error) {
	if !defaultAction.IsValid() {
		return Strategy{}, fmt.Errorf("invalid failover action %q", defaultAction)
	}
	return Strategy{DefaultAction: defaultAction, ThrowOnFailure: throwOnFailure}, nil
}
