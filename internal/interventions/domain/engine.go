package domain

import "log/slog"

// RuleEngine evaluates activity events against a user's rule set. It is a
// pure matcher: loading rules and persisting the outcome belong to the
// application layer.
type RuleEngine struct {
	logger *slog.Logger
}

// NewRuleEngine creates a rule engine.
func NewRuleEngine(logger *slog.Logger) *RuleEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleEngine{logger: logger}
}

// Evaluate matches the activity against the rules in the order given and
// returns an intervention for the first match. Callers pass rules in
// storage order (priority descending, oldest first on ties). preferred,
// when set, overrides the matched rule's delivery method. A nil result
// with a nil error means no rule matched; that is the normal quiet path.
func (e *RuleEngine) Evaluate(rules []*InterventionRule, preferred Method, activity ActivityEvent) (*Intervention, error) {
	for _, rule := range rules {
		if rule.RuleType() != RuleTypeActivityBased {
			continue
		}
		if rule.Condition().ActivityType != activity.ActivityType {
			continue
		}
		if !conditionMet(rule.Condition(), activity) {
			continue
		}

		if rule.MessageTemplate() == "" {
			e.logger.Warn("skipping rule without message template",
				"rule_id", rule.ID(),
				"rule_name", rule.Name(),
			)
			continue
		}

		method := rule.Method()
		if preferred != "" {
			method = preferred
		}

		return NewIntervention(
			activity.UserID,
			rule.ID(),
			rule.Name(),
			method,
			rule.MessageTemplate(),
			activity.Timestamp,
		), nil
	}

	return nil, nil
}

func conditionMet(condition Condition, activity ActivityEvent) bool {
	switch activity.ActivityType {
	case ActivityIdle:
		return activity.Details.DurationMinutes >= condition.DurationMinutes
	default:
		// Non-duration activities match on type alone.
		return true
	}
}
