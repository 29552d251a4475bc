// Package feasibility implements the scheduler's two ground-truth
// predicates: a static per-task eligibility check and a dynamic
// per-group availability check, plus the indexed lookup structure
// (GroupTracker) the availability check and the builder, validator and
// swap packages share to avoid re-scanning the whole assignment map on
// every call.
package feasibility

import "github.com/classrota/scheduler/pkg/model"

// GroupTracker indexes the tasks currently held by each student within
// one rotation group, so the feasibility checks and the swap/validator
// packages can reason about a student's load, categories and time slots
// without rescanning the full assignment map per call.
type GroupTracker struct {
	group     int
	byStudent map[string][]*model.TaskDefinition
}

// NewGroupTracker returns an empty tracker for the given group index.
func NewGroupTracker(group int) *GroupTracker {
	return &GroupTracker{group: group, byStudent: make(map[string][]*model.TaskDefinition)}
}

// BuildGroupTracker derives a tracker for one group from a full
// assignment map and the catalogue backing it. Assignment keys outside
// the group, or referencing a task id no longer in the catalogue, are
// skipped.
func BuildGroupTracker(group int, assignments model.AssignmentMap, catalogue *model.Catalogue) *GroupTracker {
	t := NewGroupTracker(group)
	for key, studentID := range assignments {
		if key.Group != group {
			continue
		}
		task := catalogue.Task(key.TaskID)
		if task == nil {
			continue
		}
		t.Assign(studentID, task)
	}
	return t
}

// Assign records that studentID currently holds task within this group.
func (t *GroupTracker) Assign(studentID string, task *model.TaskDefinition) {
	t.byStudent[studentID] = append(t.byStudent[studentID], task)
}

// Unassign removes one occurrence of task from studentID's holdings.
func (t *GroupTracker) Unassign(studentID string, task *model.TaskDefinition) {
	held := t.byStudent[studentID]
	for i, h := range held {
		if h.ID == task.ID {
			t.byStudent[studentID] = append(held[:i], held[i+1:]...)
			return
		}
	}
}

// Tasks returns the tasks currently held by studentID in this group.
func (t *GroupTracker) Tasks(studentID string) []*model.TaskDefinition {
	return t.byStudent[studentID]
}

// RawLoad is the number of tasks studentID holds in this group, before
// the G1-AM merge discount.
func (t *GroupTracker) RawLoad(studentID string) int {
	return len(t.byStudent[studentID])
}

// G1AMCount is the number of first-year morning eye-exercise halves
// studentID already holds in this group (0, 1 or 2).
func (t *GroupTracker) G1AMCount(studentID string) int {
	n := 0
	for _, task := range t.byStudent[studentID] {
		if task.IsG1AMMorning() {
			n++
		}
	}
	return n
}

// CountCategory returns how many of studentID's held tasks fall in cat.
func (t *GroupTracker) CountCategory(studentID string, cat model.TaskCategory) int {
	n := 0
	for _, task := range t.byStudent[studentID] {
		if task.Category == cat {
			n++
		}
	}
	return n
}

// HasCategory reports whether studentID holds any task in cat.
func (t *GroupTracker) HasCategory(studentID string, cat model.TaskCategory) bool {
	return t.CountCategory(studentID, cat) > 0
}

// AllIndoorCalisthenics reports whether every task studentID holds is an
// indoor interval-exercise floor duty, the relaxation that lets such a
// student's load reach the raised cap.
func (t *GroupTracker) AllIndoorCalisthenics(studentID string) bool {
	held := t.byStudent[studentID]
	if len(held) == 0 {
		return true
	}
	for _, task := range held {
		if !task.IsIndoorCalisthenics() {
			return false
		}
	}
	return true
}

// TasksInSlot returns the subset of studentID's held tasks that occupy
// the given time slot.
func (t *GroupTracker) TasksInSlot(studentID string, slot model.TimeSlot) []*model.TaskDefinition {
	var out []*model.TaskDefinition
	for _, task := range t.byStudent[studentID] {
		if task.TimeSlot == slot {
			out = append(out, task)
		}
	}
	return out
}

// EffectiveLoad returns studentID's current effective load: the raw task
// count discounted for a held G1-AM pair.
func (t *GroupTracker) EffectiveLoad(studentID string) int {
	raw := t.RawLoad(studentID)
	g1am := t.G1AMCount(studentID)
	if g1am >= 2 {
		return raw - (g1am - 1)
	}
	return raw
}
