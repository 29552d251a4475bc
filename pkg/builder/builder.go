// Package builder implements the greedy single-attempt assignment
// builder: given a partitioned roster and a task catalogue, fill as many
// (task, group) slots as feasibility allows in one deterministic pass.
// Tasks are handled most-constrained first; when the strict candidate
// pass comes up empty, a cascade of category-specific relaxations widens
// the net before the slot is abandoned.
package builder

import (
	"math/rand"
	"sort"

	"github.com/classrota/scheduler/pkg/feasibility"
	"github.com/classrota/scheduler/pkg/model"
)

// GradePreference orders grades from most- to least-preferred for
// outdoor interval exercise and evening study: seniors first, so the
// most experienced students absorb the highest-visibility duties.
// Reassignable, since school policy on this drifts year to year.
var GradePreference = []int{3, 2, 1}

// CleaningGradePreference mirrors GradePreference for cleaning duty,
// whose stated policy runs the other way: prefer grade 2, avoid grade 3.
var CleaningGradePreference = []int{2, 1, 3}

// Result is the outcome of one builder pass: the assignment map it
// produced plus the statistics the multi-restart driver scores restarts
// by.
type Result struct {
	Assignments model.AssignmentMap
	Coverage    int // number of (task, group) slots filled
	TotalSlots  int // number of slots attempted
	Variance    float64
}

// Locked is a pre-existing assignment the builder must preserve as-is:
// it seeds the relevant GroupTracker before the greedy pass begins and
// is never displaced by a later candidate.
type Locked struct {
	Key       model.AssignmentKey
	StudentID string
}

// Build runs one greedy pass over catalogue x groups using the given
// per-group student pools, seeding each group's tracker with locked
// assignments first. rng drives candidate-tie shuffling so repeated
// calls with different seeds explore different orderings for the
// multi-restart driver.
func Build(catalogue *model.Catalogue, pools [][]*model.Student, locked []Locked, rng *rand.Rand) *Result {
	n := len(pools)
	assignments := make(model.AssignmentMap, len(catalogue.Tasks)*n)
	trackers := make([]*feasibility.GroupTracker, n)
	for g := 0; g < n; g++ {
		trackers[g] = feasibility.NewGroupTracker(g)
	}

	studentByID := make(map[string]*model.Student)
	for _, pool := range pools {
		for _, s := range pool {
			studentByID[s.ID] = s
		}
	}

	for _, l := range locked {
		assignments[l.Key] = l.StudentID
		if task := catalogue.Task(l.Key.TaskID); task != nil {
			if s := studentByID[l.StudentID]; s != nil {
				trackers[l.Key.Group].Assign(l.StudentID, task)
			}
		}
	}

	tasks := sortedTasks(catalogue)
	total := 0
	filled := 0

	for g := 0; g < n; g++ {
		pool := pools[g]
		tracker := trackers[g]
		for _, task := range tasks {
			key := model.AssignmentKey{TaskID: task.ID, Group: g}
			if _, already := assignments[key]; already {
				total++
				filled++
				continue
			}
			total++

			candidates := fillSlot(pool, task, tracker)
			if len(candidates) == 0 {
				continue
			}

			chosen := pickBest(candidates, task, tracker, pool, rng)
			assignments[key] = chosen.ID
			tracker.Assign(chosen.ID, task)
			filled++
		}
	}

	return &Result{
		Assignments: assignments,
		Coverage:    filled,
		TotalSlots:  total,
		Variance:    loadVariance(trackers, pools),
	}
}

// fillSlot runs the cascade from strict pass through the three
// relaxations, then applies the G1-AM merge preference on top of
// whatever candidate set survives.
func fillSlot(pool []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) []*model.Student {
	candidates := strictCandidates(pool, task, tracker)

	if len(candidates) == 0 && task.Category == model.EyeExercise {
		candidates = eyeRelaxedCandidates(pool, task, tracker)
	}
	if len(candidates) == 0 && task.IsIndoorCalisthenics() {
		candidates = indoorRelaxedCandidates(pool, task, tracker)
	}
	if len(candidates) == 0 && task.IsG1AMMorning() {
		candidates = g1amRelaxedCandidates(pool, task, tracker)
	}
	if len(candidates) == 0 {
		return nil
	}

	return withG1AMMergePreference(candidates, pool, task, tracker)
}

// strictCandidates: raw load < 2, no time-slot conflict (modulo indoor),
// all category-exclusivity invariants, and can_assign success.
func strictCandidates(pool []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) []*model.Student {
	var out []*model.Student
	for _, s := range pool {
		if tracker.RawLoad(s.ID) >= 2 {
			continue
		}
		if eligible(s, task, tracker) {
			out = append(out, s)
		}
	}
	return out
}

// eyeRelaxedCandidates raises the strict ceiling by one for eye-exercise
// duties: a load-2 candidate may take a third task only if they already
// hold at least one eye-exercise duty, which keeps their non-eye count
// within the load-3 rule. Never pairs eye exercise with an existing
// evening-study holder.
func eyeRelaxedCandidates(pool []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) []*model.Student {
	var out []*model.Student
	for _, s := range pool {
		raw := tracker.RawLoad(s.ID)
		if raw > 2 {
			continue
		}
		if raw == 2 && !tracker.HasCategory(s.ID, model.EyeExercise) {
			continue
		}
		if tracker.HasCategory(s.ID, model.EveningStudy) {
			continue
		}
		if eligible(s, task, tracker) {
			out = append(out, s)
		}
	}
	return out
}

// indoorRelaxedCandidates allows candidates whose entire category set is
// indoor calisthenics, up to raw load 5.
func indoorRelaxedCandidates(pool []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) []*model.Student {
	var out []*model.Student
	for _, s := range pool {
		if !tracker.AllIndoorCalisthenics(s.ID) || tracker.RawLoad(s.ID) >= 5 {
			continue
		}
		if eligible(s, task, tracker) {
			out = append(out, s)
		}
	}
	return out
}

// g1amRelaxedCandidates actively seeks a holder of the complementary
// class-range task first; failing that, any avoidance-legal candidate
// with raw load < 4.
func g1amRelaxedCandidates(pool []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) []*model.Student {
	var holders []*model.Student
	for _, s := range pool {
		if holdsComplement(tracker, s.ID, task) && eligible(s, task, tracker) {
			holders = append(holders, s)
		}
	}
	if len(holders) > 0 {
		return holders
	}
	var out []*model.Student
	for _, s := range pool {
		if tracker.RawLoad(s.ID) >= 4 {
			continue
		}
		if eligible(s, task, tracker) {
			out = append(out, s)
		}
	}
	return out
}

// withG1AMMergePreference: even when the strict pass already found
// candidates, if a pool member holds the complementary G1-AM half and is
// independently eligible, make sure they are in the candidate set
// (pickBest's scoring then ranks them first).
func withG1AMMergePreference(candidates []*model.Student, pool []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) []*model.Student {
	if !task.IsG1AMMorning() {
		return candidates
	}
	present := make(map[string]bool, len(candidates))
	for _, s := range candidates {
		present[s.ID] = true
	}
	for _, s := range pool {
		if present[s.ID] || !holdsComplement(tracker, s.ID, task) {
			continue
		}
		if tracker.RawLoad(s.ID) >= 4 {
			continue
		}
		if eligible(s, task, tracker) {
			candidates = append(candidates, s)
			present[s.ID] = true
		}
	}
	return candidates
}

func holdsComplement(tracker *feasibility.GroupTracker, studentID string, task *model.TaskDefinition) bool {
	for _, held := range tracker.Tasks(studentID) {
		if held.ComplementsG1AM(task) {
			return true
		}
	}
	return false
}

func eligible(s *model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) bool {
	if feasibility.CanAssign(s, task) != nil {
		return false
	}
	if !timeSlotOK(s, task, tracker) {
		return false
	}
	if !categoryOK(s, task, tracker) {
		return false
	}
	return true
}

func timeSlotOK(s *model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) bool {
	for _, held := range tracker.TasksInSlot(s.ID, task.TimeSlot) {
		if held.IsIndoorCalisthenics() && task.IsIndoorCalisthenics() {
			continue
		}
		if held.ComplementsG1AM(task) {
			continue
		}
		return false
	}
	return true
}

func categoryOK(s *model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker) bool {
	switch task.Category {
	case model.Cleaning:
		return !tracker.HasCategory(s.ID, model.EveningStudy) && !tracker.HasCategory(s.ID, model.Cleaning)
	case model.EveningStudy:
		return !tracker.HasCategory(s.ID, model.Cleaning) && !tracker.HasCategory(s.ID, model.EveningStudy)
	}
	return true
}

// pickBest runs the scoring chain: projected effective load
// ascending, then G1-AM complementary holder first, then the
// category-specific grade preference, then indoor-floor adjacency, with
// a final caller-seeded shuffle supplying the RNG jitter tie-break.
func pickBest(candidates []*model.Student, task *model.TaskDefinition, tracker *feasibility.GroupTracker, pool []*model.Student, rng *rand.Rand) *model.Student {
	shuffled := make([]*model.Student, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	sort.SliceStable(shuffled, func(i, j int) bool {
		a, b := shuffled[i], shuffled[j]

		la, lb := projectedLoad(tracker, a.ID, task), projectedLoad(tracker, b.ID, task)
		if la != lb {
			return la < lb
		}

		if task.IsG1AMMorning() {
			ha, hb := holdsComplement(tracker, a.ID, task), holdsComplement(tracker, b.ID, task)
			if ha != hb {
				return ha
			}
		}

		if pa, pb := gradeRank(task, a.Grade), gradeRank(task, b.Grade); pa != pb {
			return pa < pb
		}

		if task.Category == model.EyeExercise {
			ca, cb := tracker.HasCategory(a.ID, model.Cleaning), tracker.HasCategory(b.ID, model.Cleaning)
			if ca != cb {
				return ca
			}
		}

		if task.IsIndoorCalisthenics() && task.Floor != nil {
			da, db := floorAdjacency(tracker, a.ID, *task.Floor), floorAdjacency(tracker, b.ID, *task.Floor)
			if da != db {
				return da < db
			}
		}
		return false
	})
	return shuffled[0]
}

// projectedLoad is the effective load a candidate would carry after
// taking task. Comparing projected rather than current load is what
// lets the G1-AM merge preference actually fire: the complement holder
// takes the second half for free, so they tie with a fresh candidate on
// the load key instead of losing to them outright.
func projectedLoad(tracker *feasibility.GroupTracker, studentID string, task *model.TaskDefinition) int {
	eff := tracker.EffectiveLoad(studentID)
	if task.IsG1AMMorning() && tracker.G1AMCount(studentID) == 1 {
		return eff
	}
	return eff + 1
}

func gradeRank(task *model.TaskDefinition, grade int) int {
	var order []int
	switch {
	case task.IsOutdoorInterval(), task.Category == model.EveningStudy:
		order = GradePreference
	case task.Category == model.Cleaning:
		order = CleaningGradePreference
	default:
		return 0
	}
	for i, g := range order {
		if g == grade {
			return i
		}
	}
	return len(order)
}

// floorAdjacency returns the minimum distance, in floors, between the
// candidate floor and any indoor-calisthenics floor the student already
// holds; a student with no indoor holdings yet scores an arbitrarily
// large distance so existing holders are always preferred.
func floorAdjacency(tracker *feasibility.GroupTracker, studentID string, floor int) int {
	best := 1 << 30
	for _, held := range tracker.Tasks(studentID) {
		if held.Floor == nil {
			continue
		}
		d := *held.Floor - floor
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}

// sortedTasks orders the catalogue ascending by the size of its allowed
// department set, so the most constrained tasks are filled first when
// the pool is still fresh, with grade-forbidding tasks preferred over
// the rest at an equal department-set size.
func sortedTasks(catalogue *model.Catalogue) []*model.TaskDefinition {
	tasks := make([]*model.TaskDefinition, len(catalogue.Tasks))
	copy(tasks, catalogue.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := len(tasks[i].AllowedDepartments), len(tasks[j].AllowedDepartments)
		if di != dj {
			return di < dj
		}
		return tasks[i].ForbiddenGrade != nil && tasks[j].ForbiddenGrade == nil
	})
	return tasks
}

// loadVariance computes the sum of squared per-student raw loads across
// every group's pool, the tie-break the multi-restart driver minimizes
// once coverage is equal. A convex penalty rewards even distribution.
func loadVariance(trackers []*feasibility.GroupTracker, pools [][]*model.Student) float64 {
	var sq float64
	for g, pool := range pools {
		for _, s := range pool {
			l := float64(trackers[g].RawLoad(s.ID))
			sq += l * l
		}
	}
	return sq
}
