package model

import "testing"

func TestDefaultCatalogue_TaskCounts(t *testing.T) {
	cat := DefaultCatalogue()

	counts := map[TaskCategory]int{}
	for _, task := range cat.Tasks {
		counts[task.Category]++
	}

	tests := []struct {
		category TaskCategory
		expected int
	}{
		{Cleaning, 4},
		{IntervalExercise, 8},
		{EyeExercise, 10},
		{EveningStudy, 3},
	}
	for _, tt := range tests {
		if counts[tt.category] != tt.expected {
			t.Errorf("category %s: got %d tasks, want %d", tt.category, counts[tt.category], tt.expected)
		}
	}

	if len(cat.Tasks) != 25 {
		t.Errorf("total tasks = %d, want 25", len(cat.Tasks))
	}
}

func TestDefaultCatalogue_G1AMPairExists(t *testing.T) {
	cat := DefaultCatalogue()

	var g1am []*TaskDefinition
	for _, task := range cat.Tasks {
		if task.IsG1AMMorning() {
			g1am = append(g1am, task)
		}
	}
	if len(g1am) != 2 {
		t.Fatalf("expected exactly 2 first-year morning eye-exercise halves, got %d", len(g1am))
	}
	if !g1am[0].ComplementsG1AM(g1am[1]) || !g1am[1].ComplementsG1AM(g1am[0]) {
		t.Error("the two G1-AM halves should complement each other")
	}
	if g1am[0].ComplementsG1AM(g1am[0]) {
		t.Error("a task should not complement itself")
	}
}

func TestDefaultCatalogue_IndoorOutdoorIntervalSplit(t *testing.T) {
	cat := DefaultCatalogue()

	var indoor, outdoor int
	for _, task := range cat.Tasks {
		if task.Category != IntervalExercise {
			continue
		}
		switch {
		case task.IsIndoorCalisthenics():
			indoor++
		case task.IsOutdoorInterval():
			outdoor++
		}
	}
	if indoor != 5 {
		t.Errorf("indoor interval tasks = %d, want 5", indoor)
	}
	if outdoor != 3 {
		t.Errorf("outdoor interval tasks = %d, want 3", outdoor)
	}
}

func TestCatalogue_TaskLookup(t *testing.T) {
	cat := DefaultCatalogue()
	if cat.Task("CLEAN_教学楼") == nil {
		t.Error("expected to find CLEAN_教学楼")
	}
	if cat.Task("NOT_A_REAL_TASK") != nil {
		t.Error("expected nil for unknown task id")
	}
}

func TestTaskDefinition_AllowsDepartment(t *testing.T) {
	cat := DefaultCatalogue()
	outdoor := cat.Task("INTERVAL_OUT_主席台")
	if outdoor == nil {
		t.Fatal("missing INTERVAL_OUT_主席台")
	}
	if !outdoor.AllowsDepartment(Discipline) {
		t.Error("outdoor interval should allow Discipline")
	}
	if outdoor.AllowsDepartment(Art) {
		t.Error("outdoor interval should not allow Art (special department)")
	}
}
