package services

import (
	"time"

	"github.com/vibecheck/backend/internal/models"
)

// suspensionLength is the fixed length of a fraud suspension.
const suspensionLength = 7 * 24 * time.Hour

// SanctionPolicy maps a fraud flag, the actor's history, and the flag count
// to a concrete sanction. It is pure: the orchestrator gathers the inputs
// and applies the decision.
type SanctionPolicy struct{}

func NewSanctionPolicy() *SanctionPolicy {
	return &SanctionPolicy{}
}

// Decide escalates by severity and track record. repeatOffender means the
// actor already had a severe flag on file before this one.
func (p *SanctionPolicy) Decide(severity string, flagCount int, repeatOffender bool) models.SanctionDecision {
	switch {
	case severity == models.SeverityCritical && repeatOffender:
		return models.SanctionDecision{
			Action:       models.SanctionBan,
			ManualReview: true,
			Message:      "account banned for repeated critical fraud activity",
		}
	case severity == models.SeverityCritical,
		severity == models.SeverityHigh && flagCount >= 3:
		return models.SanctionDecision{
			Action:       models.SanctionSuspension,
			Duration:     suspensionLength,
			ManualReview: true,
			Message:      "account suspended pending review of fraud activity",
		}
	case severity == models.SeverityHigh, flagCount >= 3:
		return models.SanctionDecision{
			Action:       models.SanctionRollback,
			ManualReview: severity == models.SeverityHigh,
			Message:      "reward reversed due to suspicious activity",
		}
	default:
		return models.SanctionDecision{
			Action:  models.SanctionWarning,
			Message: "unusual activity detected on this account",
		}
	}
}
