package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

func detector() *FraudDetector { return NewFraudDetector(catalog.Default()) }

func TestDetectorCleanInput(t *testing.T) {
	flag := detector().Check(FraudInput{
		UserID:     uuid.New(),
		DailyCoins: 100,
		Medians:    &models.CohortMedians{MedianDailyCoins: 80, MedianDailyXP: 150},
	})
	if flag != nil {
		t.Errorf("clean input flagged: %+v", flag)
	}
}

func TestDetectorNoBaselineNoAnomaly(t *testing.T) {
	// Without cohort medians the anomaly check stays silent rather than
	// guessing a baseline.
	flag := detector().Check(FraudInput{UserID: uuid.New(), DailyCoins: 100000})
	if flag != nil {
		t.Errorf("flagged without a baseline: %+v", flag)
	}
}

func TestDetectorAnomalySeverities(t *testing.T) {
	d := detector()
	medians := &models.CohortMedians{MedianDailyCoins: 100, MedianDailyXP: 100}

	high := d.Check(FraudInput{UserID: uuid.New(), DailyCoins: 400, Medians: medians})
	if high == nil || high.Severity != models.SeverityHigh || high.CheckType != models.FraudCheckAnomaly {
		t.Errorf("4x median = %+v, want high anomaly", high)
	}

	critical := d.Check(FraudInput{UserID: uuid.New(), DailyCoins: 700, Medians: medians})
	if critical == nil || critical.Severity != models.SeverityCritical {
		t.Errorf("7x median = %+v, want critical", critical)
	}

	xpOnly := d.Check(FraudInput{UserID: uuid.New(), DailyCoins: 100, DailyXP: 400, Medians: medians})
	if xpOnly == nil || xpOnly.Severity != models.SeverityMedium {
		t.Errorf("xp-only anomaly = %+v, want medium", xpOnly)
	}
}

func TestDetectorVelocityPattern(t *testing.T) {
	d := detector()

	burst := d.Check(FraudInput{UserID: uuid.New(), Posts5Min: 11})
	if burst == nil || burst.CheckType != models.FraudCheckVelocity || burst.Severity != models.SeverityHigh {
		t.Errorf("post burst = %+v, want high velocity flag", burst)
	}

	hourly := d.Check(FraudInput{UserID: uuid.New(), Reactions1Hour: 251})
	if hourly == nil || hourly.Severity != models.SeverityMedium {
		t.Errorf("hourly reaction burst = %+v, want medium", hourly)
	}

	under := d.Check(FraudInput{UserID: uuid.New(), Posts5Min: 10, Reactions1Hour: 250})
	if under != nil {
		t.Errorf("at-threshold input flagged: %+v", under)
	}
}

func TestDetectorCollaborationRing(t *testing.T) {
	d := detector()
	buddy := uuid.New()

	ring := d.Check(FraudInput{
		UserID:            uuid.New(),
		CounterpartCounts: map[uuid.UUID]int{buddy: 12, uuid.New(): 3},
		TotalInteractions: 15,
	})
	if ring == nil || ring.CheckType != models.FraudCheckCollaboration {
		t.Fatalf("ring = %+v, want collaboration flag", ring)
	}

	// Same absolute count spread over a busy account is not a ring.
	spread := d.Check(FraudInput{
		UserID:            uuid.New(),
		CounterpartCounts: map[uuid.UUID]int{buddy: 12},
		TotalInteractions: 60,
	})
	if spread != nil {
		t.Errorf("diluted counterpart flagged: %+v", spread)
	}
}

func TestDetectorAnomalyWinsOverVelocity(t *testing.T) {
	d := detector()
	flag := d.Check(FraudInput{
		UserID:     uuid.New(),
		DailyCoins: 700,
		Medians:    &models.CohortMedians{MedianDailyCoins: 100, MedianDailyXP: 100},
		Posts5Min:  50,
	})
	if flag == nil || flag.CheckType != models.FraudCheckAnomaly {
		t.Errorf("first matching check should win, got %+v", flag)
	}
}
