package classifier

import (
	"testing"

	"telemetry-service/internal/models"
)

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		prob       float64
		wantStatus string
		wantDays   int // -1 means absent
	}{
		{0.95, models.StatusDetected, 0},
		{0.91, models.StatusDetected, 0},
		{0.8, models.StatusApproaching, 1},
		{0.61, models.StatusApproaching, 1},
		{0.5, models.StatusApproaching, 2},
		{0.41, models.StatusApproaching, 2},
		{0.3, models.StatusNormal, -1},
		{0.0, models.StatusNormal, -1},
	}

	for _, tt := range tests {
		status, days := Classify(tt.prob)
		if status != tt.wantStatus {
			t.Errorf("Classify(%.2f): expected status %s, got %s", tt.prob, tt.wantStatus, status)
		}
		if tt.wantDays == -1 {
			if days != nil {
				t.Errorf("Classify(%.2f): expected no days_left, got %d", tt.prob, *days)
			}
		} else {
			if days == nil {
				t.Errorf("Classify(%.2f): expected days_left %d, got nil", tt.prob, tt.wantDays)
			} else if *days != tt.wantDays {
				t.Errorf("Classify(%.2f): expected days_left %d, got %d", tt.prob, tt.wantDays, *days)
			}
		}
	}
}

func TestClassify_ExactBoundariesTakeLowerTier(t *testing.T) {
	// Comparisons are strict, a probability exactly at a threshold
	// falls into the lower tier
	status, days := Classify(0.9)
	if status != models.StatusApproaching || days == nil || *days != 1 {
		t.Errorf("Classify(0.9): expected Approaching/1, got %s/%v", status, days)
	}

	status, days = Classify(0.6)
	if status != models.StatusApproaching || days == nil || *days != 2 {
		t.Errorf("Classify(0.6): expected Approaching/2, got %s/%v", status, days)
	}

	status, days = Classify(0.4)
	if status != models.StatusNormal || days != nil {
		t.Errorf("Classify(0.4): expected Normal with no days_left, got %s/%v", status, days)
	}
}
