package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

// FraudInput bundles everything the detector inspects for one earning event.
// The orchestrator gathers it from the cap window, the transaction log, and
// the cohort provider; the detector itself touches no storage.
type FraudInput struct {
	UserID uuid.UUID

	// Daily totals including the tentative reward under evaluation.
	DailyCoins int
	DailyXP    int
	Medians    *models.CohortMedians // nil when no baseline exists yet

	// Applied-action counts from the transaction log, limiter bypasses
	// included.
	Posts5Min      int
	Posts1Hour     int
	Reactions5Min  int
	Reactions1Hour int

	// Interactions with each counterpart over the inspection window, and
	// the total across all counterparts.
	CounterpartCounts map[uuid.UUID]int
	TotalInteractions int
}

// FraudDetector runs the three checks in a fixed order - anomaly, velocity
// pattern, collaboration ring - and reports the first that fires. One flag
// per event keeps the sanction escalation legible.
type FraudDetector struct {
	thresholds catalog.FraudThresholds
}

func NewFraudDetector(cat *catalog.Catalog) *FraudDetector {
	return &FraudDetector{thresholds: cat.Fraud}
}

// Check returns a flag for the first rule the input trips, or nil when the
// event looks clean. low/medium flags are auto-resolved; high/critical are
// queued for manual review.
func (d *FraudDetector) Check(in FraudInput) *models.FraudCheck {
	if flag := d.checkAnomaly(in); flag != nil {
		return flag
	}
	if flag := d.checkVelocityPattern(in); flag != nil {
		return flag
	}
	return d.checkCollaborationRing(in)
}

func (d *FraudDetector) checkAnomaly(in FraudInput) *models.FraudCheck {
	if in.Medians == nil || in.Medians.MedianDailyCoins <= 0 {
		return nil
	}
	coinRatio := float64(in.DailyCoins) / float64(in.Medians.MedianDailyCoins)
	switch {
	case coinRatio > 2*d.thresholds.AnomalyRatio:
		return d.flag(in.UserID, models.FraudCheckAnomaly, models.SeverityCritical,
			fmt.Sprintf("daily coins %.1fx cohort median", coinRatio))
	case coinRatio > d.thresholds.AnomalyRatio:
		return d.flag(in.UserID, models.FraudCheckAnomaly, models.SeverityHigh,
			fmt.Sprintf("daily coins %.1fx cohort median", coinRatio))
	}
	if in.Medians.MedianDailyXP > 0 {
		xpRatio := float64(in.DailyXP) / float64(in.Medians.MedianDailyXP)
		if xpRatio > d.thresholds.AnomalyRatio {
			return d.flag(in.UserID, models.FraudCheckAnomaly, models.SeverityMedium,
				fmt.Sprintf("daily XP %.1fx cohort median", xpRatio))
		}
	}
	return nil
}

func (d *FraudDetector) checkVelocityPattern(in FraudInput) *models.FraudCheck {
	t := d.thresholds
	switch {
	case in.Posts5Min > t.PostBurst5Min:
		return d.flag(in.UserID, models.FraudCheckVelocity, models.SeverityHigh,
			fmt.Sprintf("%d posts applied in 5 minutes", in.Posts5Min))
	case in.Reactions5Min > t.ReactionBurst5Min:
		return d.flag(in.UserID, models.FraudCheckVelocity, models.SeverityHigh,
			fmt.Sprintf("%d reactions applied in 5 minutes", in.Reactions5Min))
	case in.Posts1Hour > t.PostBurst1Hour:
		return d.flag(in.UserID, models.FraudCheckVelocity, models.SeverityMedium,
			fmt.Sprintf("%d posts applied in an hour", in.Posts1Hour))
	case in.Reactions1Hour > t.ReactionBurst1Hour:
		return d.flag(in.UserID, models.FraudCheckVelocity, models.SeverityMedium,
			fmt.Sprintf("%d reactions applied in an hour", in.Reactions1Hour))
	}
	return nil
}

func (d *FraudDetector) checkCollaborationRing(in FraudInput) *models.FraudCheck {
	if in.TotalInteractions == 0 {
		return nil
	}
	for counterpart, n := range in.CounterpartCounts {
		if n < d.thresholds.RingMinInteractions {
			continue
		}
		share := float64(n) / float64(in.TotalInteractions)
		if share >= d.thresholds.RingMinShare {
			return d.flag(in.UserID, models.FraudCheckCollaboration, models.SeverityHigh,
				fmt.Sprintf("%d of %d recent interactions target user %s", n, in.TotalInteractions, counterpart))
		}
	}
	return nil
}

func (d *FraudDetector) flag(userID uuid.UUID, checkType, severity, reason string) *models.FraudCheck {
	manual := severity == models.SeverityHigh || severity == models.SeverityCritical
	return &models.FraudCheck{
		ID:           uuid.New(),
		UserID:       userID,
		CheckType:    checkType,
		Severity:     severity,
		FlagReason:   reason,
		AutoResolved: !manual,
		ManualReview: manual,
	}
}
