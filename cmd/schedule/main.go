// Command schedule is the CLI entry point for the rotation duty
// scheduler: it loads a roster (and optional locks) from a JSON file,
// runs the engine, and prints the resulting schedule and any
// conflicts as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/classrota/scheduler/internal/config"
	"github.com/classrota/scheduler/pkg/builder"
	"github.com/classrota/scheduler/pkg/errors"
	"github.com/classrota/scheduler/pkg/logger"
	"github.com/classrota/scheduler/pkg/model"
	"github.com/classrota/scheduler/pkg/partition"
	"github.com/classrota/scheduler/pkg/scheduler"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// inputFile is the shape of the JSON document the CLI reads: a roster
// plus the per-run scheduling knobs.
type inputFile struct {
	Students []*model.Student `json:"students"`
	Groups   int              `json:"groups"`

	MaxRetries int            `json:"max_retries,omitempty"`
	RNGSeed    int64          `json:"rng_seed,omitempty"`
	EnableSA   bool           `json:"enable_sa,omitempty"`
	Locks      map[string]int `json:"locks,omitempty"` // student_id -> group

	// LockedTasks pins specific slots to specific students before the
	// run, using the same "task_id::group" keys the output emits, so a
	// previously printed schedule (or a hand-edited slice of one) can be
	// fed back in as manual locks.
	LockedTasks map[string]string `json:"locked_tasks,omitempty"`
}

type outputFile struct {
	RunID       string            `json:"run_id"`
	Coverage    int               `json:"coverage"`
	TotalSlots  int               `json:"total_slots"`
	Variance    float64           `json:"variance"`
	Attempts    int               `json:"attempts"`
	Cancelled   bool              `json:"cancelled"`
	Assignments map[string]string `json:"assignments"` // "task_id::group" -> student_id
	Conflicts   []model.Conflict  `json:"conflicts"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	inputPath := flag.String("input", "", "path to a roster JSON file")
	flag.Parse()

	fmt.Printf("classrota-scheduler v%s\n", Version)
	fmt.Printf("build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: schedule -input roster.json")
		os.Exit(1)
	}

	in, err := loadInput(*inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load input:", err)
		os.Exit(1)
	}

	catalogue := model.DefaultCatalogue()
	engine := scheduler.NewEngine(catalogue)

	opts := scheduler.DefaultOptions(in.Groups)
	opts.MaxRetries = cfg.Scheduler.MaxRetries
	opts.RNGSeed = cfg.Scheduler.RNGSeed
	opts.EnableSA = cfg.Scheduler.EnableSA
	opts.SAOptions.InitialTemp = cfg.Scheduler.SAInitialTemp
	opts.SAOptions.CoolingRate = cfg.Scheduler.SACoolingRate
	opts.SAOptions.MinTemp = cfg.Scheduler.SAMinTemp
	if in.MaxRetries > 0 {
		opts.MaxRetries = in.MaxRetries
	}
	if in.RNGSeed != 0 {
		opts.RNGSeed = in.RNGSeed
	}
	if in.EnableSA {
		opts.EnableSA = true
	}
	if len(in.Locks) > 0 {
		opts.Locks = in.Locks
	}
	if len(in.LockedTasks) > 0 {
		lockedTasks, err := parseLockedTasks(in.LockedTasks, in.Groups)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to load input:", err)
			os.Exit(1)
		}
		opts.LockedTasks = lockedTasks
		// Pin each task-locked student to that group's pool so the
		// partitioner cannot deal them into a different group than the
		// one their locked slot lives in.
		if opts.Locks == nil {
			opts.Locks = partition.Locks{}
		}
		for _, l := range lockedTasks {
			if _, ok := opts.Locks[l.StudentID]; !ok {
				opts.Locks[l.StudentID] = l.Key.Group
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.DefaultTimeout)
	defer cancel()

	result := engine.ScheduleWithProgress(ctx, in.Students, opts, nil)
	conflicts := engine.Conflicts(in.Students, result.Assignments, in.Groups)

	out := outputFile{
		RunID:       result.RunID,
		Coverage:    result.Coverage,
		TotalSlots:  result.TotalSlots,
		Variance:    result.Variance,
		Attempts:    result.Attempts,
		Cancelled:   result.Cancelled,
		Assignments: serializeAssignments(result.Assignments),
		Conflicts:   conflicts,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode output:", err)
		os.Exit(1)
	}
}

func loadInput(path string) (*inputFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to read input file")
	}
	var in inputFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to parse input file")
	}
	if len(in.Students) == 0 {
		return nil, errors.InvalidInput("students", "roster must not be empty")
	}
	if in.Groups <= 0 {
		return nil, errors.InvalidInput("groups", "must be > 0")
	}
	for studentID, group := range in.Locks {
		if group < 0 || group >= in.Groups {
			return nil, errors.InvalidInput("locks", fmt.Sprintf("student %s locked to out-of-range group %d", studentID, group))
		}
	}
	for _, s := range in.Students {
		if s.ID == "" {
			return nil, errors.InvalidInput("students", "every student needs a non-empty id")
		}
	}
	return &in, nil
}

// parseLockedTasks decodes the "{task_id}::{group}" composite keys of a
// pre-existing partial assignment into builder locks. Keys are walked in
// sorted order so the resulting slice is stable across runs.
func parseLockedTasks(raw map[string]string, groups int) ([]builder.Locked, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]builder.Locked, 0, len(raw))
	for _, key := range keys {
		sep := strings.LastIndex(key, "::")
		if sep < 0 {
			return nil, errors.InvalidInput("locked_tasks", fmt.Sprintf("key %q is not of the form task_id::group", key))
		}
		group, err := strconv.Atoi(key[sep+2:])
		if err != nil || group < 0 || group >= groups {
			return nil, errors.InvalidInput("locked_tasks", fmt.Sprintf("key %q names an out-of-range group", key))
		}
		if raw[key] == "" {
			return nil, errors.InvalidInput("locked_tasks", fmt.Sprintf("key %q maps to an empty student id", key))
		}
		out = append(out, builder.Locked{
			Key:       model.AssignmentKey{TaskID: key[:sep], Group: group},
			StudentID: raw[key],
		})
	}
	return out, nil
}

func serializeAssignments(assignments model.AssignmentMap) map[string]string {
	out := make(map[string]string, len(assignments))
	for key, studentID := range assignments {
		out[key.String()] = studentID
	}
	return out
}
