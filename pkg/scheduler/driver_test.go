package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/classrota/scheduler/pkg/builder"
	"github.com/classrota/scheduler/pkg/model"
)

func resultWith(coverage int, variance float64) *builder.Result {
	return &builder.Result{Coverage: coverage, Variance: variance}
}

func sampleCatalogue() *model.Catalogue {
	return model.NewCatalogue([]*model.TaskDefinition{
		{ID: "CLEAN", Category: model.Cleaning, TimeSlot: model.MorningClean,
			AllowedDepartments: []model.Department{model.Discipline, model.Study}},
		{ID: "EVENING", Category: model.EveningStudy, TimeSlot: model.Evening,
			AllowedDepartments: []model.Department{model.Discipline, model.Study}},
	})
}

func sampleRoster(n int) []*model.Student {
	depts := []model.Department{model.Discipline, model.Study}
	out := make([]*model.Student, n)
	for i := 0; i < n; i++ {
		out[i] = &model.Student{
			ID: "s" + string(rune('a'+i)), Department: depts[i%len(depts)],
			Grade: 1 + i%3, ClassNum: 1,
		}
	}
	return out
}

func TestSchedule_FullCoverageOnFeasibleRoster(t *testing.T) {
	cat := sampleCatalogue()
	roster := sampleRoster(6)
	opts := DefaultOptions(1)
	opts.MaxRetries = 20

	result := Schedule(cat, roster, opts)
	if result.Coverage != result.TotalSlots {
		t.Errorf("expected full coverage on a generously-sized feasible roster, got %d/%d", result.Coverage, result.TotalSlots)
	}
	if result.Cancelled {
		t.Error("an uncancelled context should never report Cancelled")
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	cat := sampleCatalogue()
	roster := sampleRoster(6)
	opts := DefaultOptions(1)
	opts.MaxRetries = 10
	opts.RNGSeed = 42

	first := Schedule(cat, roster, opts)
	second := Schedule(cat, roster, opts)

	if first.Coverage != second.Coverage || first.Variance != second.Variance {
		t.Fatalf("same seed should reproduce the same outcome: %+v vs %+v", first, second)
	}
	for key, sid := range first.Assignments {
		if second.Assignments[key] != sid {
			t.Errorf("assignment for %v differs across identical seeds: %s vs %s", key, sid, second.Assignments[key])
		}
	}
}

func TestScheduleWithProgress_ReportsMonotonicBestCoverage(t *testing.T) {
	cat := sampleCatalogue()
	roster := sampleRoster(6)
	opts := DefaultOptions(1)
	opts.MaxRetries = 15

	var events []ProgressEvent
	ScheduleWithProgress(context.Background(), cat, roster, opts, func(e ProgressEvent) {
		events = append(events, e)
	})

	if len(events) != opts.MaxRetries {
		t.Fatalf("expected one progress event per restart, got %d", len(events))
	}
	prevBest := -1
	for _, e := range events {
		if e.BestCoverage < prevBest {
			t.Errorf("best_coverage regressed across restarts: %d after %d", e.BestCoverage, prevBest)
		}
		prevBest = e.BestCoverage
	}
}

func TestScheduleWithProgress_CancelledContextStopsEarly(t *testing.T) {
	cat := sampleCatalogue()
	roster := sampleRoster(6)
	opts := DefaultOptions(1)
	opts.MaxRetries = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(time.Millisecond)

	result := ScheduleWithProgress(ctx, cat, roster, opts, nil)
	if !result.Cancelled {
		t.Error("expected Cancelled=true when the context is already done before the first restart")
	}
	if result.Attempts >= opts.MaxRetries {
		t.Errorf("a pre-cancelled context should stop well short of MaxRetries, got %d attempts", result.Attempts)
	}
}

func TestIsBetter_CoverageThenVariance(t *testing.T) {
	low := resultWith(3, 10)
	high := resultWith(4, 100)
	if !isBetter(high, low) {
		t.Error("higher coverage should win regardless of variance")
	}

	tieA := resultWith(3, 10)
	tieB := resultWith(3, 5)
	if !isBetter(tieB, tieA) {
		t.Error("equal coverage should fall back to lower variance")
	}
	if isBetter(tieA, tieB) {
		t.Error("higher variance at equal coverage should not win")
	}

	if !isBetter(tieA, nil) {
		t.Error("any result should beat a nil best")
	}
}
