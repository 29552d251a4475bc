// Package validator re-scans an assignment map and reports the
// structured violations it contains, independent of how that map was
// produced: by the builder, the SA refiner, or a caller's manual edit.
// Five passes run in a fixed order: cross-group presence, per-bucket
// load, time-slot clashes, category exclusivity, static eligibility.
package validator

import (
	"sort"

	"github.com/classrota/scheduler/pkg/feasibility"
	"github.com/classrota/scheduler/pkg/model"
)

// GetScheduleConflicts runs the five-pass schedule-wide check over
// assignments and returns every violation found. The order within the
// returned slice is deterministic for identical inputs but otherwise
// unspecified; callers that need a stable display order should sort
// the result themselves.
func GetScheduleConflicts(students []*model.Student, assignments model.AssignmentMap, groups int, catalogue *model.Catalogue) []model.Conflict {
	studentByID := make(map[string]*model.Student, len(students))
	for _, s := range students {
		studentByID[s.ID] = s
	}

	var conflicts []model.Conflict
	conflicts = append(conflicts, multiGroupConflicts(assignments)...)
	conflicts = append(conflicts, perGroupConflicts(assignments, groups, catalogue, studentByID)...)
	conflicts = append(conflicts, eligibilityConflicts(assignments, catalogue, studentByID)...)

	sortConflicts(conflicts)
	return conflicts
}

// multiGroupConflicts is pass 1: any student found in more than one
// group gets one MultiGroup conflict per slot they hold.
func multiGroupConflicts(assignments model.AssignmentMap) []model.Conflict {
	var out []model.Conflict
	for studentID, groups := range groupsByStudent(assignments) {
		if len(groups) <= 1 {
			continue
		}
		for key, sid := range assignments {
			if sid != studentID {
				continue
			}
			out = append(out, model.Conflict{
				TaskID:     key.TaskID,
				GroupIndex: key.Group,
				StudentID:  studentID,
				Reason:     model.NewMultiGroup(groups),
				Severity:   model.SeverityError,
			})
		}
	}
	return out
}

func groupsByStudent(assignments model.AssignmentMap) map[string][]int {
	seen := make(map[string]map[int]bool)
	out := make(map[string][]int)
	for key, studentID := range assignments {
		if seen[studentID] == nil {
			seen[studentID] = make(map[int]bool)
		}
		if !seen[studentID][key.Group] {
			seen[studentID][key.Group] = true
			out[studentID] = append(out[studentID], key.Group)
		}
	}
	return out
}

// perGroupConflicts runs passes 2-4 (load, time-slot, category
// exclusivity) for every (group, student) bucket.
func perGroupConflicts(assignments model.AssignmentMap, groups int, catalogue *model.Catalogue, studentByID map[string]*model.Student) []model.Conflict {
	var out []model.Conflict
	for g := 0; g < groups; g++ {
		tracker := feasibility.BuildGroupTracker(g, assignments, catalogue)
		for studentID := range studentsInGroup(assignments, g) {
			out = append(out, loadConflicts(studentID, g, tracker)...)
			out = append(out, timeSlotConflicts(studentID, g, tracker)...)
			out = append(out, categoryConflicts(studentID, g, tracker)...)
		}
	}
	return out
}

func studentsInGroup(assignments model.AssignmentMap, group int) map[string]bool {
	out := make(map[string]bool)
	for key, studentID := range assignments {
		if key.Group == group {
			out[studentID] = true
		}
	}
	return out
}

func loadConflicts(studentID string, group int, tracker *feasibility.GroupTracker) []model.Conflict {
	effective := tracker.EffectiveLoad(studentID)
	nonEye := 0
	allEye := true
	for _, t := range tracker.Tasks(studentID) {
		if t.Category != model.EyeExercise {
			nonEye++
			allEye = false
		}
	}

	loadCap := 3
	switch {
	case tracker.AllIndoorCalisthenics(studentID):
		loadCap = 5
	case allEye && tracker.G1AMCount(studentID) > 0:
		loadCap = 4
	}

	violated := effective > loadCap || (effective == 3 && loadCap == 3 && nonEye > 1)
	if !violated {
		return nil
	}
	var out []model.Conflict
	for _, task := range tracker.Tasks(studentID) {
		out = append(out, model.Conflict{
			TaskID:     task.ID,
			GroupIndex: group,
			StudentID:  studentID,
			Reason:     model.NewLoadExceeded(tracker.RawLoad(studentID), effective, loadCap),
			Severity:   model.SeverityError,
		})
	}
	return out
}

func timeSlotConflicts(studentID string, group int, tracker *feasibility.GroupTracker) []model.Conflict {
	bySlot := make(map[model.TimeSlot][]*model.TaskDefinition)
	for _, t := range tracker.Tasks(studentID) {
		bySlot[t.TimeSlot] = append(bySlot[t.TimeSlot], t)
	}
	var out []model.Conflict
	for slot, tasks := range bySlot {
		if len(tasks) < 2 || allIndoor(tasks) || allG1AM(tasks) {
			continue
		}
		for _, t := range tasks {
			out = append(out, model.Conflict{
				TaskID:     t.ID,
				GroupIndex: group,
				StudentID:  studentID,
				Reason:     model.NewTimeClash(slot),
				Severity:   model.SeverityError,
			})
		}
	}
	return out
}

func allIndoor(tasks []*model.TaskDefinition) bool {
	for _, t := range tasks {
		if !t.IsIndoorCalisthenics() {
			return false
		}
	}
	return true
}

func allG1AM(tasks []*model.TaskDefinition) bool {
	for _, t := range tasks {
		if !t.IsG1AMMorning() {
			return false
		}
	}
	return true
}

func categoryConflicts(studentID string, group int, tracker *feasibility.GroupTracker) []model.Conflict {
	var out []model.Conflict
	hasCleaning := tracker.HasCategory(studentID, model.Cleaning)
	hasEvening := tracker.HasCategory(studentID, model.EveningStudy)
	if hasCleaning && hasEvening {
		for _, t := range tracker.Tasks(studentID) {
			if t.Category == model.Cleaning || t.Category == model.EveningStudy {
				out = append(out, model.Conflict{
					TaskID:     t.ID,
					GroupIndex: group,
					StudentID:  studentID,
					Reason:     model.NewCategoryClash("cleaning and evening-study duties may not be held by the same student"),
					Severity:   model.SeverityError,
				})
			}
		}
	}
	for _, cat := range []model.TaskCategory{model.Cleaning, model.EveningStudy} {
		if tracker.CountCategory(studentID, cat) > 1 {
			for _, t := range tracker.Tasks(studentID) {
				if t.Category == cat {
					out = append(out, model.Conflict{
						TaskID:     t.ID,
						GroupIndex: group,
						StudentID:  studentID,
						Reason:     model.NewDuplicateSlot("a student may hold at most one task of this category"),
						Severity:   model.SeverityError,
					})
				}
			}
		}
	}
	return out
}

// eligibilityConflicts is pass 5: re-run CanAssign against every filled
// slot, surfacing the static reason when it fails. This should never
// trigger against the builder's own output; a fired EligibilityFail
// conflict against a builder-produced map is itself a defect.
func eligibilityConflicts(assignments model.AssignmentMap, catalogue *model.Catalogue, studentByID map[string]*model.Student) []model.Conflict {
	var out []model.Conflict
	for key, studentID := range assignments {
		task := catalogue.Task(key.TaskID)
		student := studentByID[studentID]
		if task == nil || student == nil {
			continue
		}
		if reason := feasibility.CanAssign(student, task); reason != nil {
			out = append(out, model.Conflict{
				TaskID:     key.TaskID,
				GroupIndex: key.Group,
				StudentID:  studentID,
				Reason:     reason,
				Severity:   model.SeverityError,
			})
		}
	}
	return out
}

func sortConflicts(conflicts []model.Conflict) {
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].GroupIndex != conflicts[j].GroupIndex {
			return conflicts[i].GroupIndex < conflicts[j].GroupIndex
		}
		if conflicts[i].TaskID != conflicts[j].TaskID {
			return conflicts[i].TaskID < conflicts[j].TaskID
		}
		if conflicts[i].StudentID != conflicts[j].StudentID {
			return conflicts[i].StudentID < conflicts[j].StudentID
		}
		return conflicts[i].Reason.Tag < conflicts[j].Reason.Tag
	})
}
