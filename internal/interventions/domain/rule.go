// Package domain contains the interventions context: user-defined rules
// that react to activity events with nudges.
package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrRuleNotFound      = errors.New("intervention rule not found")
	ErrEmptyRuleName     = errors.New("rule name cannot be empty")
	ErrInvalidRuleType   = errors.New("invalid rule type")
	ErrInvalidCondition  = errors.New("rule condition is invalid")
	ErrInvalidMethod     = errors.New("invalid intervention method")
	ErrRuleAlreadyActive = errors.New("rule is already active")
	ErrRuleInactive      = errors.New("rule is already inactive")
)

// RuleType discriminates how a rule is evaluated. Only activity-based
// rules exist today; the column is kept open for scheduled rules.
type RuleType string

const RuleTypeActivityBased RuleType = "ACTIVITY_BASED"

func (t RuleType) IsValid() bool { return t == RuleTypeActivityBased }

// Activity types understood by the engine.
const (
	ActivityIdle    = "IDLE"
	ActivityMeeting = "MEETING"
	ActivityTyping  = "TYPING"
)

// Method is the delivery channel for a triggered intervention.
type Method string

const (
	MethodPush  Method = "push"
	MethodEmail Method = "email"
	MethodSlack Method = "slack"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodPush, MethodEmail, MethodSlack:
		return true
	}
	return false
}

// Condition is the typed trigger shape for activity-based rules: which
// activity type the rule reacts to, and for duration-style activities,
// the minimum duration in minutes.
type Condition struct {
	ActivityType    string
	DurationMinutes int
}

// InterventionRule is a user-defined trigger: when a matching activity
// event arrives, the rule produces an intervention message.
type InterventionRule struct {
	sharedDomain.BaseAggregateRoot
	userID          uuid.UUID
	name            string
	ruleType        RuleType
	condition       Condition
	method          Method
	messageTemplate string
	priority        int
	active          bool
}

// NewInterventionRule creates an active rule. The message template may be
// empty at creation time; such a rule is skipped during evaluation until
// it gets one.
func NewInterventionRule(
	userID uuid.UUID,
	name string,
	ruleType RuleType,
	condition Condition,
	method Method,
	messageTemplate string,
	priority int,
) (*InterventionRule, error) {
	if name == "" {
		return nil, ErrEmptyRuleName
	}
	if !ruleType.IsValid() {
		return nil, ErrInvalidRuleType
	}
	if condition.ActivityType == "" || condition.DurationMinutes < 0 {
		return nil, ErrInvalidCondition
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}

	return &InterventionRule{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		ruleType:          ruleType,
		condition:         condition,
		method:            method,
		messageTemplate:   messageTemplate,
		priority:          priority,
		active:            true,
	}, nil
}

// RehydrateInterventionRule recreates a rule from persisted state.
func RehydrateInterventionRule(
	id uuid.UUID,
	userID uuid.UUID,
	name string,
	ruleType RuleType,
	condition Condition,
	method Method,
	messageTemplate string,
	priority int,
	active bool,
	createdAt, updatedAt time.Time,
) *InterventionRule {
	return &InterventionRule{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		userID:          userID,
		name:            name,
		ruleType:        ruleType,
		condition:       condition,
		method:          method,
		messageTemplate: messageTemplate,
		priority:        priority,
		active:          active,
	}
}

// Getters
func (r *InterventionRule) UserID() uuid.UUID       { return r.userID }
func (r *InterventionRule) Name() string            { return r.name }
func (r *InterventionRule) RuleType() RuleType      { return r.ruleType }
func (r *InterventionRule) Condition() Condition    { return r.condition }
func (r *InterventionRule) Method() Method          { return r.method }
func (r *InterventionRule) MessageTemplate() string { return r.messageTemplate }
func (r *InterventionRule) Priority() int           { return r.priority }
func (r *InterventionRule) IsActive() bool          { return r.active }

// Activate re-enables an inactive rule.
func (r *InterventionRule) Activate() error {
	if r.active {
		return ErrRuleAlreadyActive
	}
	r.active = true
	r.Touch()
	return nil
}

// Deactivate disables the rule without deleting it.
func (r *InterventionRule) Deactivate() error {
	if !r.active {
		return ErrRuleInactive
	}
	r.active = false
	r.Touch()
	return nil
}
