package services

import (
	"testing"

	"github.com/vibecheck/backend/internal/models"
)

func TestSanctionEscalation(t *testing.T) {
	p := NewSanctionPolicy()

	cases := []struct {
		name       string
		severity   string
		flagCount  int
		repeat     bool
		wantAction string
		wantReview bool
	}{
		{"low first offense", models.SeverityLow, 1, false, models.SanctionWarning, false},
		{"medium first offense", models.SeverityMedium, 1, false, models.SanctionWarning, false},
		{"medium third flag", models.SeverityMedium, 3, false, models.SanctionRollback, false},
		{"high first offense", models.SeverityHigh, 1, false, models.SanctionRollback, true},
		{"high repeated", models.SeverityHigh, 3, false, models.SanctionSuspension, true},
		{"critical first offense", models.SeverityCritical, 1, false, models.SanctionSuspension, true},
		{"critical repeat offender", models.SeverityCritical, 4, true, models.SanctionBan, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := p.Decide(tc.severity, tc.flagCount, tc.repeat)
			if d.Action != tc.wantAction {
				t.Errorf("action = %q, want %q", d.Action, tc.wantAction)
			}
			if d.ManualReview != tc.wantReview {
				t.Errorf("manual review = %v, want %v", d.ManualReview, tc.wantReview)
			}
			if d.Action == models.SanctionSuspension && d.Duration != suspensionLength {
				t.Errorf("suspension duration = %v, want %v", d.Duration, suspensionLength)
			}
			if d.Message == "" {
				t.Error("every sanction carries a user-facing message")
			}
		})
	}
}
