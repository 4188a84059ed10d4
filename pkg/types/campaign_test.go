package types

import (
	"testing"
	"time"
)

func TestProgressPercentClamped(t *testing.T) {
	tests := []struct {
		name    string
		goal    int64
		current int64
		want    int
	}{
		{name: "zero progress", goal: 100, current: 0, want: 0},
		{name: "halfway", goal: 100, current: 50, want: 50},
		{name: "overfunded clamps to 100", goal: 100, current: 150, want: 100},
		{name: "exactly funded", goal: 100, current: 100, want: 100},
		{name: "zero goal reads as zero", goal: 0, current: 500, want: 0},
		{name: "negative current clamps to 0", goal: 100, current: -25, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CampaignWithStats{
				EmergencyCampaign:  EmergencyCampaign{GoalCents: tt.goal},
				CurrentAmountCents: tt.current,
			}
			if got := c.ProgressPercent(); got != tt.want {
				t.Fatalf("ProgressPercent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExpiredIndependentOfActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	c := &EmergencyCampaign{IsActive: true, ExpiresAt: &past}
	if !c.Expired(now) {
		t.Fatal("campaign past its expiry must read expired even while active")
	}

	c.ExpiresAt = &future
	if c.Expired(now) {
		t.Fatal("campaign before its expiry must not read expired")
	}

	c.ExpiresAt = nil
	if c.Expired(now) {
		t.Fatal("campaign without an expiry never expires")
	}
}
