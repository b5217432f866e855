package features

import (
	"math"
	"testing"
	"time"

	"telemetry-service/internal/models"
)

func makeHistory(values ...float64) []models.Observation {
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // Monday
	out := make([]models.Observation, len(values))
	for i, v := range values {
		out[i] = models.Observation{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Resistance: v,
		}
	}
	return out
}

func TestBuild_EmptyHistory(t *testing.T) {
	_, err := Build(nil)
	if err != ErrNoHistory {
		t.Errorf("Expected ErrNoHistory, got %v", err)
	}
}

func TestBuild_SingleObservation(t *testing.T) {
	fv, err := Build(makeHistory(210.5))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if fv.Resistance != 210.5 {
		t.Errorf("Expected resistance 210.5, got %.2f", fv.Resistance)
	}
	if fv.Diff1 != 0 {
		t.Errorf("Expected diff_1 = 0 for single observation, got %.2f", fv.Diff1)
	}
	// Rolling stats over a single value degrade to that value
	if fv.RollMean3 != 210.5 || fv.RollMean7 != 210.5 || fv.RollMin7 != 210.5 {
		t.Errorf("Expected rolling stats 210.5, got mean3=%.2f mean7=%.2f min7=%.2f",
			fv.RollMean3, fv.RollMean7, fv.RollMin7)
	}
	if fv.RollStd3 != 0 {
		t.Errorf("Expected roll_std_3 = 0 for single observation, got %.2f", fv.RollStd3)
	}
}

func TestBuild_Diff1TwoObservations(t *testing.T) {
	fv, err := Build(makeHistory(200, 205))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fv.Diff1 != 5 {
		t.Errorf("Expected diff_1 = 5, got %.2f", fv.Diff1)
	}
}

func TestBuild_RollingWindows(t *testing.T) {
	fv, err := Build(makeHistory(100, 110, 130, 120, 150, 140, 160, 155))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Last 3 values: 140, 160, 155
	wantMean3 := (140.0 + 160.0 + 155.0) / 3.0
	if math.Abs(fv.RollMean3-wantMean3) > 1e-9 {
		t.Errorf("Expected roll_mean_3 %.4f, got %.4f", wantMean3, fv.RollMean3)
	}

	// Sample stddev of [140, 160, 155]
	m := wantMean3
	variance := ((140-m)*(140-m) + (160-m)*(160-m) + (155-m)*(155-m)) / 2.0
	wantStd3 := math.Sqrt(variance)
	if math.Abs(fv.RollStd3-wantStd3) > 1e-9 {
		t.Errorf("Expected roll_std_3 %.4f, got %.4f", wantStd3, fv.RollStd3)
	}

	// Last 7 values: 110, 130, 120, 150, 140, 160, 155
	if fv.RollMin7 != 110 {
		t.Errorf("Expected roll_min_7 = 110, got %.2f", fv.RollMin7)
	}
	wantMean7 := (110.0 + 130.0 + 120.0 + 150.0 + 140.0 + 160.0 + 155.0) / 7.0
	if math.Abs(fv.RollMean7-wantMean7) > 1e-9 {
		t.Errorf("Expected roll_mean_7 %.4f, got %.4f", wantMean7, fv.RollMean7)
	}
}

func TestBuild_ShortWindowMinPeriods(t *testing.T) {
	// Fewer samples than the nominal window still produce a value
	fv, err := Build(makeHistory(10, 20))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if fv.RollMean3 != 15 {
		t.Errorf("Expected roll_mean_3 over 2 samples = 15, got %.2f", fv.RollMean3)
	}
	if fv.RollMean7 != 15 {
		t.Errorf("Expected roll_mean_7 over 2 samples = 15, got %.2f", fv.RollMean7)
	}
	if fv.RollMin7 != 10 {
		t.Errorf("Expected roll_min_7 over 2 samples = 10, got %.2f", fv.RollMin7)
	}

	// Sample stddev of [10, 20] = sqrt(50)
	want := math.Sqrt(50)
	if math.Abs(fv.RollStd3-want) > 1e-9 {
		t.Errorf("Expected roll_std_3 %.4f, got %.4f", want, fv.RollStd3)
	}
}

func TestBuild_ResortOutOfOrder(t *testing.T) {
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	// Arrival order differs from timestamp order: the 300 reading is older
	snapshot := []models.Observation{
		{Timestamp: base.Add(2 * time.Minute), Resistance: 205},
		{Timestamp: base.Add(1 * time.Minute), Resistance: 300},
		{Timestamp: base, Resistance: 200},
	}

	fv, err := Build(snapshot)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// After the re-sort the latest value is 205 and diff_1 = 205 - 300
	if fv.Resistance != 205 {
		t.Errorf("Expected latest resistance 205 after re-sort, got %.2f", fv.Resistance)
	}
	if fv.Diff1 != -95 {
		t.Errorf("Expected diff_1 = -95 after re-sort, got %.2f", fv.Diff1)
	}
}

func TestBuild_CalendarFeatures(t *testing.T) {
	// 2026-03-02 is a Monday; weekday encoding is 0=Monday..6=Sunday
	fv, err := Build(makeHistory(100))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fv.DayOfWeek != 0 {
		t.Errorf("Expected day_of_week 0 (Monday), got %d", fv.DayOfWeek)
	}
	if fv.DayOfMonth != 2 {
		t.Errorf("Expected day_of_month 2, got %d", fv.DayOfMonth)
	}

	// Sunday check
	sunday := []models.Observation{
		{Timestamp: time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), Resistance: 50},
	}
	fv, err = Build(sunday)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fv.DayOfWeek != 6 {
		t.Errorf("Expected day_of_week 6 (Sunday), got %d", fv.DayOfWeek)
	}
}

func BenchmarkBuild(b *testing.B) {
	values := make([]float64, 120)
	for i := range values {
		values[i] = 200 + float64(i%17)
	}
	snapshot := makeHistory(values...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Build(snapshot)
	}
}
