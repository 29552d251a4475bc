package model

import "strconv"

// Catalogue is the fixed, ordered set of task definitions a schedule run
// is built against.
type Catalogue struct {
	Tasks []*TaskDefinition
	byID  map[string]*TaskDefinition
}

// NewCatalogue builds a Catalogue from a task list and indexes it by id.
func NewCatalogue(tasks []*TaskDefinition) *Catalogue {
	c := &Catalogue{Tasks: tasks, byID: make(map[string]*TaskDefinition, len(tasks))}
	for _, t := range tasks {
		c.byID[t.ID] = t
	}
	return c
}

// Task returns the task with the given id, or nil.
func (c *Catalogue) Task(id string) *TaskDefinition {
	return c.byID[id]
}

func grade(g int) *int { return &g }

func classes(grd, min, max int) *ClassGroupRange {
	return &ClassGroupRange{Grade: grd, MinClass: min, MaxClass: max}
}

func depts(ds ...Department) []Department {
	out := make([]Department, len(ds))
	copy(out, ds)
	return out
}

var regularDepts = []Department{Discipline, Study}
var specialDepts = []Department{Chairman, Art, Clubs, Sports}
var allDepts = append(append([]Department{}, regularDepts...), specialDepts...)

// DefaultCatalogue constructs the normative 25-task catalogue: 4 cleaning
// duties, 8 interval-exercise duties (3 outdoor, 5 indoor floor duties),
// 10 eye-exercise duties (morning/afternoon x class-range halves x
// grades), and 3 evening-study duties.
func DefaultCatalogue() *Catalogue {
	var tasks []*TaskDefinition

	for _, area := range []string{"教学楼", "操场", "食堂", "宿舍区"} {
		tasks = append(tasks, &TaskDefinition{
			ID:                 "CLEAN_" + area,
			Category:           Cleaning,
			Name:               "晨检-" + area,
			TimeSlot:           MorningClean,
			AllowedDepartments: depts(allDepts...),
		})
	}

	for _, area := range []string{"主席台", "东区", "西区"} {
		tasks = append(tasks, &TaskDefinition{
			ID:                 "INTERVAL_OUT_" + area,
			Category:           IntervalExercise,
			SubCategory:        "室外",
			Name:               "课间操督导-" + area,
			TimeSlot:           MorningExercise,
			AllowedDepartments: depts(regularDepts...),
		})
	}

	for floor := 1; floor <= 5; floor++ {
		f := floor
		tasks = append(tasks, &TaskDefinition{
			ID:                 "INTERVAL_IN_F" + strconv.Itoa(floor),
			Category:           IntervalExercise,
			SubCategory:        "室内",
			Name:               "广播操楼层巡查",
			TimeSlot:           MorningExercise,
			AllowedDepartments: depts(allDepts...),
			Floor:              &f,
		})
	}

	amRanges := []struct{ grade, lo, hi int }{
		{1, 1, 3}, {1, 4, 6}, {2, 1, 3}, {2, 4, 6},
	}
	for _, r := range amRanges {
		tasks = append(tasks, &TaskDefinition{
			ID:                  "EYE_AM_G" + strconv.Itoa(r.grade) + "_C" + strconv.Itoa(r.lo),
			Category:            EyeExercise,
			Name:                "眼操检查-上午",
			TimeSlot:            EyeAM,
			AllowedDepartments:  depts(allDepts...),
			ForbiddenClassGroup: classes(r.grade, r.lo, r.hi),
		})
	}

	pmRanges := []struct{ grade, lo, hi int }{
		{1, 1, 3}, {1, 4, 6}, {2, 1, 3}, {2, 4, 6}, {3, 1, 3}, {3, 4, 6},
	}
	for _, r := range pmRanges {
		tasks = append(tasks, &TaskDefinition{
			ID:                  "EYE_PM_G" + strconv.Itoa(r.grade) + "_C" + strconv.Itoa(r.lo),
			Category:            EyeExercise,
			Name:                "眼操检查-下午",
			TimeSlot:            EyePM,
			AllowedDepartments:  depts(allDepts...),
			ForbiddenClassGroup: classes(r.grade, r.lo, r.hi),
		})
	}

	for g := 1; g <= 3; g++ {
		tasks = append(tasks, &TaskDefinition{
			ID:                 "EVENING_G" + strconv.Itoa(g),
			Category:           EveningStudy,
			Name:               "晚自习检查",
			TimeSlot:           Evening,
			AllowedDepartments: depts(allDepts...),
			ForbiddenGrade:     grade(g),
		})
	}

	return NewCatalogue(tasks)
}
