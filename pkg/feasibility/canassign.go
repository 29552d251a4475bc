package feasibility

import "github.com/classrota/scheduler/pkg/model"

// CanAssign is the static eligibility predicate: department membership,
// grade avoidance and class-range avoidance. It depends only on the
// student and the task, never on the rest of the schedule. A nil return means the student is eligible for the task in
// isolation; callers still need CheckGroupAvailability before actually
// placing the assignment.
func CanAssign(student *model.Student, task *model.TaskDefinition) *model.Reason {
	if !task.AllowsDepartment(student.Department) {
		return model.NewDeptMismatch(student.Department)
	}
	if task.ForbiddenGrade != nil && student.Grade == *task.ForbiddenGrade {
		return model.NewGradeConflict(*task.ForbiddenGrade)
	}
	if task.ForbiddenClassGroup != nil && task.ForbiddenClassGroup.Contains(student.Grade, student.ClassNum) {
		return model.NewClassGroupClash(*task.ForbiddenClassGroup)
	}
	return nil
}
