package controller

import (
	"testing"
)

func testThresholds() Thresholds {
	return Thresholds{MoistureLow: 30, MoistureOptimal: 70, TempLow: 18, TempHigh: 28}
}

func TestHealthScorePerfect(t *testing.T) {
	// Moisture at optimal and temperature inside the band is full health.
	if got := HealthScore(70, 22, testThresholds()); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestHealthScoreMoistureBands(t *testing.T) {
	th := testThresholds()
	t.Run("above optimal", func(t *testing.T) {
		if got := HealthScore(90, 22, th); got != 100 {
			t.Fatalf("expected 100, got %d", got)
		}
	})
	t.Run("midband", func(t *testing.T) {
		// moisture 50 is halfway: 25 + 12.5 = 37.5, plus full temp score.
		if got := HealthScore(50, 22, th); got != 87 {
			t.Fatalf("expected 87, got %d", got)
		}
	})
	t.Run("below low", func(t *testing.T) {
		// moisture 15: (15/30)*25 = 12.5, plus full temp score -> 62.
		if got := HealthScore(15, 22, th); got != 62 {
			t.Fatalf("expected 62, got %d", got)
		}
	})
}

func TestHealthScoreTemperaturePenalty(t *testing.T) {
	th := testThresholds()
	inBand := HealthScore(70, 28, th)
	justOut := HealthScore(70, 30, th)
	farOut := HealthScore(70, 40, th)
	if inBand != 100 {
		t.Fatalf("band edge should score full, got %d", inBand)
	}
	if justOut >= inBand {
		t.Fatalf("outside band must penalize: %d vs %d", justOut, inBand)
	}
	if farOut >= justOut {
		t.Fatalf("penalty must grow with distance: %d vs %d", farOut, justOut)
	}
	// Way outside the band the temperature sub-score floors at zero and only
	// the moisture half remains.
	if got := HealthScore(70, 200, th); got != 50 {
		t.Fatalf("expected floored temp score, got %d", got)
	}
	if got := HealthScore(70, -200, th); got != 50 {
		t.Fatalf("expected floored temp score below band, got %d", got)
	}
}

func TestHealthScoreMonotonicInMoisture(t *testing.T) {
	th := testThresholds()
	prev := -1
	for m := th.MoistureLow; m <= th.MoistureOptimal; m += 0.5 {
		s := HealthScore(m, 22, th)
		if s < prev {
			t.Fatalf("health decreased at moisture %.1f: %d -> %d", m, prev, s)
		}
		prev = s
	}
}

func TestHealthScoreBounded(t *testing.T) {
	th := testThresholds()
	for _, m := range []float64{0, 10, 29.9, 30, 55, 70, 100} {
		for _, temp := range []float64{-50, 0, 18, 22, 28, 45, 100} {
			s := HealthScore(m, temp, th)
			if s < 0 || s > 100 {
				t.Fatalf("health out of bounds for m=%.1f t=%.1f: %d", m, temp, s)
			}
		}
	}
}

func TestWateringHoursBands(t *testing.T) {
	th := testThresholds()
	t.Run("well hydrated", func(t *testing.T) {
		if got := WateringHours(70, 22, th); got != 24.0 {
			t.Fatalf("expected 24, got %.1f", got)
		}
	})
	t.Run("midband", func(t *testing.T) {
		// base = 12 + 12*(50-30)/40 = 18 at the reference temperature.
		if got := WateringHours(50, 22, th); got != 18.0 {
			t.Fatalf("expected 18, got %.1f", got)
		}
	})
	t.Run("urgent", func(t *testing.T) {
		// base = 12*15/30 = 6.
		if got := WateringHours(15, 22, th); got != 6.0 {
			t.Fatalf("expected 6, got %.1f", got)
		}
	})
}

func TestWateringHoursHeatShortens(t *testing.T) {
	th := testThresholds()
	mild := WateringHours(50, 22, th)
	hot := WateringHours(50, 30, th)
	cold := WateringHours(50, 14, th)
	if hot >= mild {
		t.Fatalf("heat must shorten the estimate: hot=%.1f mild=%.1f", hot, mild)
	}
	if cold <= mild {
		t.Fatalf("cold must stretch the estimate: cold=%.1f mild=%.1f", cold, mild)
	}
}

func TestWateringHoursMonotonicInMoisture(t *testing.T) {
	th := testThresholds()
	prev := -1.0
	for m := 0.0; m <= 100; m += 1.0 {
		h := WateringHours(m, 25, th)
		if h < prev {
			t.Fatalf("estimate decreased at moisture %.0f: %.1f -> %.1f", m, prev, h)
		}
		if h < 0 || h > 24 {
			t.Fatalf("estimate out of bounds at moisture %.0f: %.1f", m, h)
		}
		prev = h
	}
}
