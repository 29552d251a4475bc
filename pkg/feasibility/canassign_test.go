package feasibility

import (
	"testing"

	"github.com/classrota/scheduler/pkg/model"
)

func TestCanAssign_DeptMismatch(t *testing.T) {
	cat := model.DefaultCatalogue()
	task := cat.Task("INTERVAL_OUT_主席台") // regular-only
	student := &model.Student{ID: "s1", Department: model.Art, Grade: 2, ClassNum: 1}

	reason := CanAssign(student, task)
	if reason == nil {
		t.Fatal("expected a rejection for a special-department student on a regular-only task")
	}
	if reason.Tag != model.ReasonDeptMismatch {
		t.Errorf("tag = %s, want %s", reason.Tag, model.ReasonDeptMismatch)
	}
}

func TestCanAssign_GradeConflict(t *testing.T) {
	cat := model.DefaultCatalogue()
	task := cat.Task("EVENING_G2")
	student := &model.Student{ID: "s1", Department: model.Discipline, Grade: 2, ClassNum: 1}

	reason := CanAssign(student, task)
	if reason == nil || reason.Tag != model.ReasonGradeConflict {
		t.Fatalf("expected ReasonGradeConflict, got %v", reason)
	}
}

func TestCanAssign_ClassGroupClash(t *testing.T) {
	cat := model.DefaultCatalogue()
	task := cat.Task("EYE_AM_G1_C1") // forbids grade 1, classes 1-3
	student := &model.Student{ID: "s1", Department: model.Discipline, Grade: 1, ClassNum: 2}

	reason := CanAssign(student, task)
	if reason == nil || reason.Tag != model.ReasonClassGroupClash {
		t.Fatalf("expected ReasonClassGroupClash, got %v", reason)
	}
}

func TestCanAssign_Eligible(t *testing.T) {
	cat := model.DefaultCatalogue()
	task := cat.Task("EYE_AM_G1_C1")
	student := &model.Student{ID: "s1", Department: model.Discipline, Grade: 2, ClassNum: 1}

	if reason := CanAssign(student, task); reason != nil {
		t.Errorf("expected eligibility, got %v", reason)
	}
}
