package consent

import (
	"time"

	id "sigilo/pkg/domain"
)

// Evaluator applies the consent rules in priority order. Rules are checked
// top to bottom; the first match decides the verdict.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate decides whether disclosure is permitted for this state and
// purpose at instant now.
//
// Rule priority:
//  1. Emergency purpose overrides everything, including absent consent.
//  2. Consent not given blocks disclosure.
//  3. Retention window checked last; the boundary instant itself is still
//     inside the window.
func (e *Evaluator) Evaluate(state State, purpose id.Purpose, now time.Time) Verdict {
	if purpose == id.PurposeEmergency {
		return Verdict{
			Status:    VerdictEmergencyOverride,
			IsValid:   true,
			ExpiresAt: state.RetentionUntil,
		}
	}

	if !state.Given || state.Status != StatusGiven {
		return Verdict{Status: VerdictConsentNotGiven, IsValid: false}
	}

	if state.RetentionUntil != nil && now.After(*state.RetentionUntil) {
		return Verdict{
			Status:    VerdictRetentionExpired,
			IsValid:   false,
			ExpiresAt: state.RetentionUntil,
		}
	}

	return Verdict{
		Status:    VerdictValid,
		IsValid:   true,
		ExpiresAt: state.RetentionUntil,
	}
}
