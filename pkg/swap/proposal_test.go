package swap

import (
	"testing"

	"github.com/classrota/scheduler/pkg/model"
)

func TestFindSwapOptions_MoveToEmpty(t *testing.T) {
	task := &model.TaskDefinition{
		ID: "CLEAN", Category: model.Cleaning, TimeSlot: model.MorningClean,
		AllowedDepartments: []model.Department{model.Discipline, model.Study},
	}
	cat := model.NewCatalogue([]*model.TaskDefinition{task})
	state := &model.ScheduleState{
		Students: []*model.Student{
			{ID: "s1", Department: model.Discipline, Grade: 2, ClassNum: 1},
			{ID: "s2", Department: model.Study, Grade: 2, ClassNum: 1},
		},
		Assignments: model.AssignmentMap{
			{TaskID: "CLEAN", Group: 0}: "s1",
		},
	}

	proposals := FindSwapOptions("s1", "CLEAN", intPtr(0), state, cat, 5)
	found := false
	for _, p := range proposals {
		if p.Type == MoveToEmpty && p.CandidateID == "s2" && p.TaskID == "CLEAN" && p.Group == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MoveToEmpty proposal handing CLEAN to s2, got %+v", proposals)
	}
}

func TestFindSwapOptions_DirectSwapRoundTrip(t *testing.T) {
	clean := &model.TaskDefinition{
		ID: "CLEAN", Category: model.Cleaning, TimeSlot: model.MorningClean,
		AllowedDepartments: []model.Department{model.Discipline, model.Study},
	}
	evening := &model.TaskDefinition{
		ID: "EVENING", Category: model.EveningStudy, TimeSlot: model.Evening,
		AllowedDepartments: []model.Department{model.Discipline, model.Study},
	}
	cat := model.NewCatalogue([]*model.TaskDefinition{clean, evening})
	students := []*model.Student{
		{ID: "s1", Department: model.Discipline, Grade: 2, ClassNum: 1},
		{ID: "s2", Department: model.Study, Grade: 2, ClassNum: 1},
	}
	original := model.AssignmentMap{
		{TaskID: "CLEAN", Group: 0}:   "s1",
		{TaskID: "EVENING", Group: 0}: "s2",
	}
	state := &model.ScheduleState{Students: students, Assignments: original}

	proposals := FindSwapOptions("s1", "CLEAN", intPtr(0), state, cat, 5)
	var swap *Proposal
	for i := range proposals {
		if proposals[i].Type == DirectSwap {
			swap = &proposals[i]
			break
		}
	}
	if swap == nil {
		t.Fatalf("expected at least one DirectSwap proposal, got %+v", proposals)
	}
	if swap.CandidateID != "s2" || swap.SwapTaskID != "EVENING" || swap.SwapGroup != 0 {
		t.Fatalf("unexpected swap shape: %+v", swap)
	}

	applied := original.Clone()
	delete(applied, model.AssignmentKey{TaskID: swap.TaskID, Group: swap.Group})
	delete(applied, model.AssignmentKey{TaskID: swap.SwapTaskID, Group: swap.SwapGroup})
	applied[model.AssignmentKey{TaskID: swap.TaskID, Group: swap.Group}] = swap.CandidateID
	applied[model.AssignmentKey{TaskID: swap.SwapTaskID, Group: swap.SwapGroup}] = "s1"

	inverse := applied.Clone()
	delete(inverse, model.AssignmentKey{TaskID: swap.TaskID, Group: swap.Group})
	delete(inverse, model.AssignmentKey{TaskID: swap.SwapTaskID, Group: swap.SwapGroup})
	inverse[model.AssignmentKey{TaskID: swap.TaskID, Group: swap.Group}] = "s1"
	inverse[model.AssignmentKey{TaskID: swap.SwapTaskID, Group: swap.SwapGroup}] = swap.CandidateID

	if inverse[model.AssignmentKey{TaskID: "CLEAN", Group: 0}] != original[model.AssignmentKey{TaskID: "CLEAN", Group: 0}] {
		t.Error("applying a direct swap then its inverse should restore the original CLEAN holder")
	}
	if inverse[model.AssignmentKey{TaskID: "EVENING", Group: 0}] != original[model.AssignmentKey{TaskID: "EVENING", Group: 0}] {
		t.Error("applying a direct swap then its inverse should restore the original EVENING holder")
	}
}

func TestFindSwapOptions_NoAssignmentYieldsNoProposals(t *testing.T) {
	cat := model.NewCatalogue(nil)
	state := &model.ScheduleState{
		Students:    []*model.Student{{ID: "s1", Department: model.Discipline, Grade: 2, ClassNum: 1}},
		Assignments: model.AssignmentMap{},
	}
	if got := FindSwapOptions("s1", "NONE", nil, state, cat, 5); got != nil {
		t.Errorf("expected no proposals when the student holds nothing, got %+v", got)
	}
}

func TestFindSwapOptions_RespectsLimit(t *testing.T) {
	task := &model.TaskDefinition{
		ID: "CLEAN", Category: model.Cleaning, TimeSlot: model.MorningClean,
		AllowedDepartments: []model.Department{model.Discipline},
	}
	cat := model.NewCatalogue([]*model.TaskDefinition{task})
	students := []*model.Student{{ID: "s1", Department: model.Discipline, Grade: 2, ClassNum: 1}}
	for i := 0; i < 5; i++ {
		students = append(students, &model.Student{ID: "c" + string(rune('a'+i)), Department: model.Discipline, Grade: 2, ClassNum: 1})
	}
	state := &model.ScheduleState{
		Students:    students,
		Assignments: model.AssignmentMap{{TaskID: "CLEAN", Group: 0}: "s1"},
	}

	proposals := FindSwapOptions("s1", "CLEAN", intPtr(0), state, cat, 2)
	if len(proposals) > 2 {
		t.Errorf("expected FindSwapOptions to cap results at n=2, got %d", len(proposals))
	}
}

func intPtr(i int) *int { return &i }
