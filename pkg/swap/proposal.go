// Package swap recommends ways to relieve a student of a duty they can
// no longer perform: simulate the move against a cloned assignment map,
// re-run the feasibility checks against the simulated state, then score
// and rank the survivors.
package swap

import (
	"sort"

	"github.com/google/uuid"

	"github.com/classrota/scheduler/pkg/feasibility"
	"github.com/classrota/scheduler/pkg/model"
)

// ProposalType distinguishes the two supported move kinds.
type ProposalType string

const (
	// MoveToEmpty reassigns the task to a student with no conflicting
	// duties, leaving the rest of the schedule untouched.
	MoveToEmpty ProposalType = "MOVE_TO_EMPTY"
	// DirectSwap exchanges the student's current task with another
	// student's task, each taking over the other's slot.
	DirectSwap ProposalType = "DIRECT_SWAP"
)

// Proposal is one candidate resolution for a student who can no longer
// hold a given task/group assignment. ID lets a UI collaborator
// reference one specific proposal (e.g. to confirm it) without
// re-deriving it from its fields.
type Proposal struct {
	ID   string
	Type ProposalType

	TaskID string
	Group  int

	// CandidateID is who would take over TaskID/Group.
	CandidateID string

	// For DirectSwap only: the candidate's own task/group, which the
	// original student would take over in exchange.
	SwapTaskID string
	SwapGroup  int

	Score  float64
	Reason string
}

// FindSwapOptions proposes up to n ways to move studentID off of
// (currentTaskID, currentGroup). If currentTaskID is empty, every task
// studentID currently holds is considered in turn. Candidates are drawn
// from roster, excluding studentID itself, and are ranked by Score
// descending.
//
// Each candidate move is validated against a cloned assignment map via
// feasibility.CheckGroupAvailability before it is proposed.
func FindSwapOptions(studentID string, currentTaskID string, currentGroup *int, state *model.ScheduleState, catalogue *model.Catalogue, n int) []Proposal {
	targets := affectedAssignments(studentID, currentTaskID, currentGroup, state)
	if len(targets) == 0 {
		return nil
	}

	var all []Proposal
	for _, target := range targets {
		all = append(all, moveToEmptyOptions(studentID, target, state, catalogue)...)
		all = append(all, directSwapOptions(studentID, target, state, catalogue)...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

type assignmentRef struct {
	TaskID string
	Group  int
}

// affectedAssignments resolves which (task, group) pairs FindSwapOptions
// should try to relieve the student of.
func affectedAssignments(studentID, currentTaskID string, currentGroup *int, state *model.ScheduleState) []assignmentRef {
	var out []assignmentRef
	for key, sid := range state.Assignments {
		if sid != studentID {
			continue
		}
		if currentTaskID != "" && key.TaskID != currentTaskID {
			continue
		}
		if currentGroup != nil && key.Group != *currentGroup {
			continue
		}
		out = append(out, assignmentRef{TaskID: key.TaskID, Group: key.Group})
	}
	return out
}

// moveToEmptyOptions tries handing target's slot to each roster member
// who isn't already holding it, validating the hypothetical placement
// against a cloned assignment map with target's slot cleared first so
// the candidate's own existing load is checked honestly.
func moveToEmptyOptions(studentID string, target assignmentRef, state *model.ScheduleState, catalogue *model.Catalogue) []Proposal {
	task := catalogue.Task(target.TaskID)
	if task == nil {
		return nil
	}

	base := state.Assignments.Clone()
	key := model.AssignmentKey{TaskID: target.TaskID, Group: target.Group}
	delete(base, key)

	var out []Proposal
	for _, candidate := range state.Students {
		if candidate.ID == studentID {
			continue
		}
		if reason := feasibility.CheckGroupAvailability(candidate, task, target.Group, base, catalogue); reason != nil {
			continue
		}
		out = append(out, Proposal{
			ID:          uuid.New().String(),
			Type:        MoveToEmpty,
			TaskID:      target.TaskID,
			Group:       target.Group,
			CandidateID: candidate.ID,
			Score:       scoreMove(candidate, target, state, catalogue),
			Reason:      "candidate is hard- and dynamically-feasible for this slot with no existing load conflict",
		})
	}
	return out
}

// directSwapOptions tries exchanging target's slot with each of the
// candidate's own current slots, validating both halves of the
// exchange against a map with both original slots cleared.
func directSwapOptions(studentID string, target assignmentRef, state *model.ScheduleState, catalogue *model.Catalogue) []Proposal {
	task := catalogue.Task(target.TaskID)
	if task == nil {
		return nil
	}

	var out []Proposal
	for _, candidate := range state.Students {
		if candidate.ID == studentID {
			continue
		}
		for swapKey, sid := range state.Assignments {
			if sid != candidate.ID {
				continue
			}
			swapTask := catalogue.Task(swapKey.TaskID)
			if swapTask == nil {
				continue
			}

			base := state.Assignments.Clone()
			delete(base, model.AssignmentKey{TaskID: target.TaskID, Group: target.Group})
			delete(base, swapKey)

			student := state.StudentByID(studentID)
			if student == nil {
				continue
			}
			if reason := feasibility.CheckGroupAvailability(candidate, task, target.Group, base, catalogue); reason != nil {
				continue
			}
			if reason := feasibility.CheckGroupAvailability(student, swapTask, swapKey.Group, base, catalogue); reason != nil {
				continue
			}

			out = append(out, Proposal{
				ID:          uuid.New().String(),
				Type:        DirectSwap,
				TaskID:      target.TaskID,
				Group:       target.Group,
				CandidateID: candidate.ID,
				SwapTaskID:  swapKey.TaskID,
				SwapGroup:   swapKey.Group,
				Score:       scoreSwap(candidate, student, target, swapKey, state, catalogue),
				Reason:      "both halves of the exchange are hard- and dynamically-feasible",
			})
		}
	}
	return out
}

// scoreMove prefers candidates with the most head-room left under the
// normal load cap, so a move-to-empty doesn't immediately push someone
// else to the edge of their own relaxation ladder.
func scoreMove(candidate *model.Student, target assignmentRef, state *model.ScheduleState, catalogue *model.Catalogue) float64 {
	tracker := feasibility.BuildGroupTracker(target.Group, state.Assignments, catalogue)
	return 10 - float64(tracker.RawLoad(candidate.ID))
}

// scoreSwap scores a direct swap the same way as a move, averaged over
// both participants, since both students' load headroom changes.
func scoreSwap(candidate, student *model.Student, target assignmentRef, swapKey model.AssignmentKey, state *model.ScheduleState, catalogue *model.Catalogue) float64 {
	targetTracker := feasibility.BuildGroupTracker(target.Group, state.Assignments, catalogue)
	swapTracker := feasibility.BuildGroupTracker(swapKey.Group, state.Assignments, catalogue)
	a := 10 - float64(targetTracker.RawLoad(candidate.ID))
	b := 10 - float64(swapTracker.RawLoad(student.ID))
	return (a + b) / 2
}
