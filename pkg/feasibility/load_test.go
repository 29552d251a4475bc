package feasibility

import (
	"testing"

	"github.com/classrota/scheduler/pkg/model"
)

func TestEffectiveLoadDelta_Table(t *testing.T) {
	tests := []struct {
		name      string
		g1amHeld  int
		newIsG1AM bool
		want      int
	}{
		{"no halves held, plain task", 0, false, 1},
		{"no halves held, first half", 0, true, 1},
		{"one half held, plain task", 1, false, 1},
		{"one half held, second half merges free", 1, true, 0},
		{"pair held, plain task", 2, false, 1},
		{"pair held, extra half", 2, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveLoadDelta(tt.g1amHeld, tt.newIsG1AM); got != tt.want {
				t.Errorf("effectiveLoadDelta(%d, %v) = %d, want %d", tt.g1amHeld, tt.newIsG1AM, got, tt.want)
			}
		})
	}
}

func TestProjectedEffectiveLoad(t *testing.T) {
	// The easy case to get wrong: a student already at effective load 2
	// acquiring the second half of a held G1-AM pair must stay at 2,
	// not reach 3.
	if got := projectedEffectiveLoad(2, 1, true); got != 2 {
		t.Errorf("projected load for a merge completion = %d, want 2", got)
	}
	if got := projectedEffectiveLoad(2, 0, false); got != 3 {
		t.Errorf("projected load for a plain third task = %d, want 3", got)
	}
}

func TestGroupTracker_EffectiveLoadDiscountsHeldPair(t *testing.T) {
	cat := model.DefaultCatalogue()
	tracker := NewGroupTracker(0)
	tracker.Assign("s1", cat.Task("EYE_AM_G1_C1"))
	tracker.Assign("s1", cat.Task("EYE_AM_G1_C4"))
	tracker.Assign("s1", cat.Task("CLEAN_教学楼"))

	if raw := tracker.RawLoad("s1"); raw != 3 {
		t.Errorf("raw load = %d, want 3", raw)
	}
	if eff := tracker.EffectiveLoad("s1"); eff != 2 {
		t.Errorf("effective load = %d, want 2 (held pair counts as one unit)", eff)
	}
}
