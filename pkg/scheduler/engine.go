package scheduler

import (
	"context"

	"github.com/classrota/scheduler/pkg/feasibility"
	"github.com/classrota/scheduler/pkg/model"
	"github.com/classrota/scheduler/pkg/swap"
	"github.com/classrota/scheduler/pkg/validator"
)

// Engine is the library's single entry point: scheduling, conflict
// evaluation, the two feasibility predicates and swap recommendation,
// all bound to one catalogue. It holds shared read-only state only;
// each operation delegates to the package that implements it.
type Engine struct {
	Catalogue *model.Catalogue
}

// NewEngine returns an Engine bound to catalogue.
func NewEngine(catalogue *model.Catalogue) *Engine {
	return &Engine{Catalogue: catalogue}
}

// Schedule runs the multi-restart driver to completion.
func (e *Engine) Schedule(roster []*model.Student, opts Options) ScheduleResult {
	return Schedule(e.Catalogue, roster, opts)
}

// ScheduleWithProgress is Schedule with progress reporting and
// cancellation.
func (e *Engine) ScheduleWithProgress(ctx context.Context, roster []*model.Student, opts Options, sink func(ProgressEvent)) ScheduleResult {
	return ScheduleWithProgress(ctx, e.Catalogue, roster, opts, sink)
}

// Conflicts runs the five-pass schedule-wide conflict scan.
func (e *Engine) Conflicts(students []*model.Student, assignments model.AssignmentMap, groups int) []model.Conflict {
	return validator.GetScheduleConflicts(students, assignments, groups, e.Catalogue)
}

// CanAssign runs the static per-task eligibility check.
func (e *Engine) CanAssign(student *model.Student, taskID string) *model.Reason {
	task := e.Catalogue.Task(taskID)
	if task == nil {
		return model.NewDeptMismatch(student.Department)
	}
	return feasibility.CanAssign(student, task)
}

// CheckGroupAvailability runs the dynamic per-group availability check.
func (e *Engine) CheckGroupAvailability(student *model.Student, taskID string, group int, assignments model.AssignmentMap) *model.Reason {
	task := e.Catalogue.Task(taskID)
	if task == nil {
		return model.NewDeptMismatch(student.Department)
	}
	return feasibility.CheckGroupAvailability(student, task, group, assignments, e.Catalogue)
}

// FindSwapOptions proposes ways to relieve a student of a duty.
func (e *Engine) FindSwapOptions(studentID, currentTaskID string, currentGroup *int, state *model.ScheduleState, n int) []swap.Proposal {
	return swap.FindSwapOptions(studentID, currentTaskID, currentGroup, state, e.Catalogue, n)
}
