package scheduler

import (
	"math"
	"math/rand"

	"github.com/classrota/scheduler/pkg/builder"
	"github.com/classrota/scheduler/pkg/feasibility"
	"github.com/classrota/scheduler/pkg/logger"
	"github.com/classrota/scheduler/pkg/model"
)

// SAOptions configures the simulated-annealing refiner.
type SAOptions struct {
	InitialTemp float64
	CoolingRate float64
	MinTemp     float64
	MaxSteps    int
}

// DefaultSAOptions returns the production cooling schedule.
func DefaultSAOptions() SAOptions {
	return SAOptions{InitialTemp: 1000, CoolingRate: 0.995, MinTemp: 0.1, MaxSteps: 20000}
}

// Energy penalty weights. An empty slot dominates everything else so
// the refiner never trades coverage for constraint satisfaction.
const (
	penaltyEmptySlot        = 10000.0
	penaltyCrossGroup       = 5000.0
	penaltyOverloadPerUnit  = 2000.0
	penaltyCategoryClash    = 3000.0
	penaltyDuplicateSlot    = 2000.0
	penaltyTimeClash        = 1500.0
	varianceWeight          = 10.0
)

// RefineWithSA runs Metropolis acceptance over a geometrically cooled
// temperature, keeping the best-energy state seen. The single move kind
// is a reassignment of one random slot to another hard-feasible pool
// member; everything softer than the hard eligibility rules is left to
// the energy function to discourage.
func RefineWithSA(catalogue *model.Catalogue, roster []*model.Student, groups int, initial model.AssignmentMap, opts SAOptions, rng *rand.Rand, log *logger.SchedulerLogger) *builder.Result {
	pools := poolsByGroup(roster, groups)
	state := fillEmptySlots(catalogue, pools, initial, rng)

	current := state.Clone()
	currentEnergy := energy(current, pools, catalogue)
	best := current.Clone()
	bestEnergy := currentEnergy

	temp := opts.InitialTemp
	for step := 0; step < opts.MaxSteps && temp > opts.MinTemp; step++ {
		candidate, ok := neighborMove(current, pools, catalogue, rng)
		if ok {
			candidateEnergy := energy(candidate, pools, catalogue)
			if accept(currentEnergy, candidateEnergy, temp, rng) {
				current = candidate
				currentEnergy = candidateEnergy
				if currentEnergy < bestEnergy {
					best = current.Clone()
					bestEnergy = currentEnergy
					log.ConstraintViolation("sa_improve", "new best energy found")
				}
			}
		}
		temp *= opts.CoolingRate
	}

	return &builder.Result{
		Assignments: best,
		Coverage:    countFilled(best, catalogue, groups),
		TotalSlots:  len(catalogue.Tasks) * groups,
		Variance:    rawLoadVariance(best, pools),
	}
}

// poolsByGroup gives the refiner the whole roster as every group's
// candidate pool rather than replaying the partitioner's disjoint pools:
// the refiner's own cross-group penalty is what keeps moves honest, and
// letting it consider the whole roster is what lets it repair a group
// that partitioned badly in the builder pass.
func poolsByGroup(roster []*model.Student, groups int) [][]*model.Student {
	pools := make([][]*model.Student, groups)
	for i := range pools {
		pools[i] = roster
	}
	return pools
}

// fillEmptySlots samples a hard-constraint-feasible student per empty
// slot from the slot's group pool, so the annealing loop starts from a
// complete (if rough) schedule rather than leaving coverage to chance.
func fillEmptySlots(catalogue *model.Catalogue, pools [][]*model.Student, assignments model.AssignmentMap, rng *rand.Rand) model.AssignmentMap {
	out := assignments.Clone()
	for g, pool := range pools {
		for _, task := range catalogue.Tasks {
			key := model.AssignmentKey{TaskID: task.ID, Group: g}
			if _, ok := out[key]; ok {
				continue
			}
			var candidates []*model.Student
			for _, s := range pool {
				if feasibility.CanAssign(s, task) == nil {
					candidates = append(candidates, s)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			out[key] = candidates[rng.Intn(len(candidates))].ID
		}
	}
	return out
}

// neighborMove reassigns one random slot to another pool member who
// passes CanAssign, returning ok=false if no alternative student exists.
func neighborMove(assignments model.AssignmentMap, pools [][]*model.Student, catalogue *model.Catalogue, rng *rand.Rand) (model.AssignmentMap, bool) {
	if len(assignments) == 0 {
		return assignments, false
	}
	keys := make([]model.AssignmentKey, 0, len(assignments))
	for k := range assignments {
		keys = append(keys, k)
	}
	key := keys[rng.Intn(len(keys))]
	task := catalogue.Task(key.TaskID)
	if task == nil {
		return assignments, false
	}
	pool := pools[key.Group]

	var alternatives []*model.Student
	for _, s := range pool {
		if s.ID == assignments[key] {
			continue
		}
		if feasibility.CanAssign(s, task) == nil {
			alternatives = append(alternatives, s)
		}
	}
	if len(alternatives) == 0 {
		return assignments, false
	}

	next := assignments.Clone()
	next[key] = alternatives[rng.Intn(len(alternatives))].ID
	return next, true
}

func accept(currentEnergy, candidateEnergy, temp float64, rng *rand.Rand) bool {
	if candidateEnergy <= currentEnergy {
		return true
	}
	p := math.Exp((currentEnergy - candidateEnergy) / temp)
	return rng.Float64() < p
}

// energy computes the weighted penalty sum over the full assignment
// map.
func energy(assignments model.AssignmentMap, pools [][]*model.Student, catalogue *model.Catalogue) float64 {
	var total float64
	groups := len(pools)

	total += float64(len(catalogue.Tasks)*groups-countFilled(assignments, catalogue, groups)) * penaltyEmptySlot

	for studentID, groupList := range groupMembership(assignments) {
		if len(groupList) > 1 {
			total += penaltyCrossGroup * float64(len(groupList)-1)
		}
		for _, g := range groupList {
			tracker := feasibility.BuildGroupTracker(g, assignments, catalogue)
			effective := tracker.EffectiveLoad(studentID)
			if effective > 3 {
				total += penaltyOverloadPerUnit * float64(effective-3)
			}
			if tracker.HasCategory(studentID, model.Cleaning) && tracker.HasCategory(studentID, model.EveningStudy) {
				total += penaltyCategoryClash
			}
			if tracker.CountCategory(studentID, model.Cleaning) > 1 {
				total += penaltyDuplicateSlot * float64(tracker.CountCategory(studentID, model.Cleaning)-1)
			}
			if tracker.CountCategory(studentID, model.EveningStudy) > 1 {
				total += penaltyDuplicateSlot * float64(tracker.CountCategory(studentID, model.EveningStudy)-1)
			}
			total += timeClashPenalty(tracker, studentID)
		}
	}

	total += varianceWeight * rawLoadVariance(assignments, pools)
	return total
}

func timeClashPenalty(tracker *feasibility.GroupTracker, studentID string) float64 {
	bySlot := make(map[model.TimeSlot][]*model.TaskDefinition)
	for _, task := range tracker.Tasks(studentID) {
		bySlot[task.TimeSlot] = append(bySlot[task.TimeSlot], task)
	}
	var penalty float64
	for _, tasks := range bySlot {
		if len(tasks) < 2 {
			continue
		}
		if allIndoor(tasks) || allG1AM(tasks) {
			continue
		}
		penalty += penaltyTimeClash * float64(len(tasks)-1)
	}
	return penalty
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

func groupMembership(assignments model.AssignmentMap) map[string][]int {
	out := make(map[string][]int)
	seen := make(map[string]map[int]bool)
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

func countFilled(assignments model.AssignmentMap, catalogue *model.Catalogue, groups int) int {
	n := 0
	for g := 0; g < groups; g++ {
		for _, task := range catalogue.Tasks {
			if _, ok := assignments[model.AssignmentKey{TaskID: task.ID, Group: g}]; ok {
				n++
			}
		}
	}
	return n
}

func rawLoadVariance(assignments model.AssignmentMap, pools [][]*model.Student) float64 {
	counts := make(map[string]int)
	for _, studentID := range assignments {
		counts[studentID]++
	}
	var sq float64
	for _, pool := range pools {
		for _, s := range pool {
			l := float64(counts[s.ID])
			sq += l * l
		}
	}
	return sq
}
