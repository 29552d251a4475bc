// Package scheduler drives the multi-restart search over the greedy
// builder, optionally refines the winner with simulated annealing, and
// exposes the module's external interface: Schedule,
// ScheduleWithProgress, Conflicts, CanAssign, CheckGroupAvailability
// and FindSwapOptions. The search is sequential and CPU-bound; the
// progress sink is called synchronously between restarts.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/classrota/scheduler/pkg/builder"
	"github.com/classrota/scheduler/pkg/logger"
	"github.com/classrota/scheduler/pkg/model"
	"github.com/classrota/scheduler/pkg/partition"
)

// Options configures one scheduling run.
type Options struct {
	Groups      int
	MaxRetries  int
	RNGSeed     int64
	EnableSA    bool
	SAOptions   SAOptions
	Locks       partition.Locks
	LockedTasks []builder.Locked
}

// DefaultOptions returns the production defaults: 100 restarts, SA
// refinement off (multi-restart alone reaches full coverage faster on
// realistic rosters).
func DefaultOptions(groups int) Options {
	return Options{
		Groups:     groups,
		MaxRetries: 100,
		RNGSeed:    1,
		EnableSA:   false,
		SAOptions:  DefaultSAOptions(),
	}
}

// ScheduleResult is the outcome of a full run: the best assignment map
// found, its coverage/variance statistics, and whether the run was
// cancelled before exhausting MaxRetries.
type ScheduleResult struct {
	RunID       string
	Assignments model.AssignmentMap
	Coverage    int
	TotalSlots  int
	Variance    float64
	Attempts    int
	Cancelled   bool
}

// ProgressEvent reports the outcome of one restart attempt to a
// schedule_with_progress caller. Message is a ready-to-display line,
// prefixed with ">>>" on the attempts where the incumbent improved.
type ProgressEvent struct {
	RunID        string
	Attempt      int
	MaxAttempts  int
	Coverage     int
	TotalSlots   int
	Variance     float64
	BestCoverage int
	BestVariance float64
	Improved     bool
	Message      string
}

// Schedule runs the multi-restart driver to completion and, if enabled,
// refines the winner with simulated annealing.
func Schedule(catalogue *model.Catalogue, roster []*model.Student, opts Options) ScheduleResult {
	return ScheduleWithProgress(context.Background(), catalogue, roster, opts, nil)
}

// ScheduleWithProgress is Schedule with an optional progress sink and a
// cancellation context. When ctx is cancelled mid-run, the best result
// found so far is returned with Cancelled set, rather than propagating
// ctx.Err(); infeasibility is never fatal either, so a caller always
// gets a usable (possibly partial) map back.
func ScheduleWithProgress(ctx context.Context, catalogue *model.Catalogue, roster []*model.Student, opts Options, sink func(ProgressEvent)) ScheduleResult {
	runID := uuid.New().String()
	log := logger.Scheduler()
	log.StartRun(runID, len(roster), len(catalogue.Tasks), opts.Groups)

	var best *builder.Result
	attempts := 0
	cancelled := false

	for i := 0; i < opts.MaxRetries; i++ {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			break
		}

		seed := opts.RNGSeed + int64(i)
		pools := partition.Partition(roster, opts.Groups, opts.Locks, seed)
		rng := rand.New(rand.NewSource(seed))
		result := builder.Build(catalogue, pools, opts.LockedTasks, rng)
		attempts++

		improved := isBetter(result, best)
		if improved {
			best = result
		}

		if sink != nil {
			msg := fmt.Sprintf("attempt %d/%d: coverage %d/%d, variance %.0f",
				i+1, opts.MaxRetries, result.Coverage, result.TotalSlots, result.Variance)
			if improved {
				msg = ">>> " + msg + " (new best)"
			}
			sink(ProgressEvent{
				RunID:        runID,
				Attempt:      i + 1,
				MaxAttempts:  opts.MaxRetries,
				Coverage:     result.Coverage,
				TotalSlots:   result.TotalSlots,
				Variance:     result.Variance,
				BestCoverage: best.Coverage,
				BestVariance: best.Variance,
				Improved:     improved,
				Message:      msg,
			})
		}
		log.RestartProgress(i+1, opts.MaxRetries, result.Coverage, result.Variance)
	}

	if best == nil {
		best = &builder.Result{Assignments: model.AssignmentMap{}}
	}

	if opts.EnableSA && !cancelled {
		rng := rand.New(rand.NewSource(opts.RNGSeed + int64(opts.MaxRetries)))
		refined := RefineWithSA(catalogue, roster, opts.Groups, best.Assignments, opts.SAOptions, rng, log)
		best = refined
	}

	log.RunComplete(runID, attempts, best.Coverage)

	return ScheduleResult{
		RunID:       runID,
		Assignments: best.Assignments,
		Coverage:    best.Coverage,
		TotalSlots:  best.TotalSlots,
		Variance:    best.Variance,
		Attempts:    attempts,
		Cancelled:   cancelled,
	}
}

// isBetter reports whether candidate beats the current best: strictly
// higher coverage wins outright; equal coverage falls back to lower
// variance.
func isBetter(candidate, best *builder.Result) bool {
	if best == nil {
		return true
	}
	if candidate.Coverage != best.Coverage {
		return candidate.Coverage > best.Coverage
	}
	return candidate.Variance < best.Variance
}
