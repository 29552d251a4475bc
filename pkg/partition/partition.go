// Package partition splits a student roster into N rotation-group pools,
// honoring pre-existing group locks and dealing the remaining students
// out with a seeded round-robin so repeated runs over the same roster
// are reproducible. Special-department students are dealt first so each
// group can cover the five indoor calisthenics floors; the regular
// roster is bucketed by (department, grade) to keep grade diversity in
// every pool.
package partition

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/classrota/scheduler/pkg/model"
)

// Locks maps a locked student id to the rotation group they must land in.
type Locks map[string]int

// Pools is one student slice per rotation group.
type Pools [][]*model.Student

// Partition splits roster into n pools. locks pins specific students to
// specific groups before the remaining roster is dealt out; seed makes
// the deal (and therefore the whole partition) reproducible.
func Partition(roster []*model.Student, n int, locks Locks, seed int64) Pools {
	pools := make(Pools, n)
	rng := rand.New(rand.NewSource(seed))

	locked := make(map[string]bool, len(locks))
	for studentID, group := range locks {
		if group < 0 || group >= n {
			continue
		}
		locked[studentID] = true
	}
	for _, s := range roster {
		if g, ok := locks[s.ID]; ok && g >= 0 && g < n {
			pools[g] = append(pools[g], s)
		}
	}

	var special, regular []*model.Student
	for _, s := range roster {
		if locked[s.ID] {
			continue
		}
		if s.Department.IsSpecial() {
			special = append(special, s)
		} else {
			regular = append(regular, s)
		}
	}

	dealRoundRobin(pools, special, rng)
	dealRegularByBucket(pools, regular, rng)

	for g := range pools {
		sortStable(pools[g])
	}
	return pools
}

// dealRoundRobin shuffles students then deals them one at a time into
// the n pools starting from a random offset, so small special-department
// cohorts still spread roughly evenly across groups.
func dealRoundRobin(pools Pools, students []*model.Student, rng *rand.Rand) {
	if len(students) == 0 {
		return
	}
	shuffled := shuffle(students, rng)
	n := len(pools)
	offset := rng.Intn(n)
	for i, s := range shuffled {
		g := (offset + i) % n
		pools[g] = append(pools[g], s)
	}
}

// dealRegularByBucket buckets the regular-department roster by
// (department, grade) so each group receives a proportional slice of
// every grade and department rather than whatever order the roster
// happened to list them in, then deals each bucket round-robin with its
// own rotating offset.
func dealRegularByBucket(pools Pools, students []*model.Student, rng *rand.Rand) {
	buckets := make(map[string][]*model.Student)
	var keys []string
	for _, s := range students {
		key := string(s.Department) + "|" + strconv.Itoa(s.Grade)
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], s)
	}
	sort.Strings(keys)
	for _, key := range keys {
		dealRoundRobin(pools, buckets[key], rng)
	}
}

func shuffle(students []*model.Student, rng *rand.Rand) []*model.Student {
	out := make([]*model.Student, len(students))
	copy(out, students)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func sortStable(students []*model.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].ID < students[j].ID
	})
}

