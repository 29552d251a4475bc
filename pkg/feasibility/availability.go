package feasibility

import "github.com/classrota/scheduler/pkg/model"

// CheckGroupAvailability is the dynamic feasibility predicate: given
// the rest of the schedule, can student take task in the given group
// right now? It re-runs CanAssign first (the static check is a
// precondition, never bypassed), then walks the group's
// current holdings for this student through the load, category and
// time-slot rules, applying the indoor-calisthenics and G1-AM stacking
// relaxations where they qualify.
//
// assignments is the full, current assignment map; catalogue resolves
// task ids held within it. The (task, group) slot under evaluation must
// not already be present in assignments for this student; callers
// checking a potential move first remove any occupant via
// model.AssignmentMap.Clone plus delete.
func CheckGroupAvailability(student *model.Student, task *model.TaskDefinition, group int, assignments model.AssignmentMap, catalogue *model.Catalogue) *model.Reason {
	return CheckGroupAvailabilityWithTracker(student, task, group, assignments, BuildGroupTracker(group, assignments, catalogue))
}

// CheckGroupAvailabilityWithTracker is CheckGroupAvailability for a
// caller that already holds a GroupTracker for the group, so the
// tracker need not be rebuilt from the assignment map on every call.
func CheckGroupAvailabilityWithTracker(student *model.Student, task *model.TaskDefinition, group int, assignments model.AssignmentMap, tracker *GroupTracker) *model.Reason {
	if reason := CanAssign(student, task); reason != nil {
		return reason
	}

	if groups := otherGroupsFor(student.ID, group, assignments); len(groups) > 0 {
		return model.NewOtherGroup(groups)
	}

	if reason := checkLoad(student.ID, task, tracker); reason != nil {
		return reason
	}
	if reason := checkCategoryExclusivity(student.ID, task, tracker); reason != nil {
		return reason
	}
	if reason := checkTimeSlot(student.ID, task, tracker); reason != nil {
		return reason
	}
	return nil
}

func otherGroupsFor(studentID string, group int, assignments model.AssignmentMap) []int {
	var groups []int
	for _, g := range assignments.StudentGroups(studentID) {
		if g != group {
			groups = append(groups, g)
		}
	}
	return groups
}

func checkLoad(studentID string, task *model.TaskDefinition, tracker *GroupTracker) *model.Reason {
	g1amHeld := tracker.G1AMCount(studentID)
	currentEffective := tracker.EffectiveLoad(studentID)
	projected := projectedEffectiveLoad(currentEffective, g1amHeld, task.IsG1AMMorning())

	loadCap := normalLoadCap
	switch {
	case tracker.AllIndoorCalisthenics(studentID) && task.IsIndoorCalisthenics():
		loadCap = indoorCalisthenicsCap
	case (g1amHeld > 0 || task.IsG1AMMorning()) && allTasksEyeOrG1AM(tracker, studentID, task):
		loadCap = g1amStackCap
	}

	if projected > loadCap {
		return model.NewLoadExceeded(tracker.RawLoad(studentID)+1, projected, loadCap)
	}

	if projected == normalLoadCap {
		nonEye := 0
		for _, held := range tracker.Tasks(studentID) {
			if held.Category != model.EyeExercise {
				nonEye++
			}
		}
		if task.Category != model.EyeExercise {
			nonEye++
		}
		if nonEye > 1 && loadCap == normalLoadCap {
			return model.NewLoadExceeded(tracker.RawLoad(studentID)+1, projected, loadCap)
		}
	}
	return nil
}

// allTasksEyeOrG1AM reports whether a student's current holdings, plus
// the candidate, are composed entirely of eye-exercise duties, the
// condition under which a G1-AM-anchored stack may reach the raised cap.
func allTasksEyeOrG1AM(tracker *GroupTracker, studentID string, candidate *model.TaskDefinition) bool {
	if candidate.Category != model.EyeExercise {
		return false
	}
	for _, held := range tracker.Tasks(studentID) {
		if held.Category != model.EyeExercise {
			return false
		}
	}
	return true
}

func checkCategoryExclusivity(studentID string, task *model.TaskDefinition, tracker *GroupTracker) *model.Reason {
	switch task.Category {
	case model.Cleaning:
		if tracker.HasCategory(studentID, model.EveningStudy) {
			return model.NewCategoryClash("cleaning and evening-study duties may not be held by the same student")
		}
		if tracker.HasCategory(studentID, model.Cleaning) {
			return model.NewDuplicateSlot("a student may hold at most one cleaning duty")
		}
	case model.EveningStudy:
		if tracker.HasCategory(studentID, model.Cleaning) {
			return model.NewCategoryClash("cleaning and evening-study duties may not be held by the same student")
		}
		if tracker.HasCategory(studentID, model.EveningStudy) {
			return model.NewDuplicateSlot("a student may hold at most one evening-study duty")
		}
	}
	return nil
}

func checkTimeSlot(studentID string, task *model.TaskDefinition, tracker *GroupTracker) *model.Reason {
	for _, held := range tracker.TasksInSlot(studentID, task.TimeSlot) {
		if held.IsIndoorCalisthenics() && task.IsIndoorCalisthenics() {
			continue
		}
		if held.ComplementsG1AM(task) {
			continue
		}
		return model.NewTimeClash(task.TimeSlot)
	}
	return nil
}
