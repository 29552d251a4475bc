package feasibility

// loadDeltaRow is one row of the explicit effective-load delta table:
// given how many G1-AM morning eye-exercise halves a student already
// holds and whether the candidate task is itself a G1-AM half, how much
// effective load the new assignment adds.
//
// The arithmetic is kept as an explicit, tested table rather than an
// inline branch because the merge case is easy to get wrong. The G1-AM
// merge means a student's second class-range half of the same
// first-year morning eye exercise is free: it completes a unit of load
// they already started paying for, rather than starting a new one.
type loadDeltaRow struct {
	g1amHeld  int
	newIsG1AM bool
	delta     int
}

var loadDeltaTable = []loadDeltaRow{
	{g1amHeld: 0, newIsG1AM: false, delta: 1},
	{g1amHeld: 0, newIsG1AM: true, delta: 1},
	{g1amHeld: 1, newIsG1AM: false, delta: 1},
	{g1amHeld: 1, newIsG1AM: true, delta: 0},
	{g1amHeld: 2, newIsG1AM: false, delta: 1},
	{g1amHeld: 2, newIsG1AM: true, delta: 1}, // unreachable: a third G1-AM half does not exist in the catalogue
}

// effectiveLoadDelta looks up how much effective load a candidate
// assignment would add to a student who already holds g1amHeld G1-AM
// morning eye-exercise halves in this group.
func effectiveLoadDelta(g1amHeld int, newIsG1AM bool) int {
	for _, row := range loadDeltaTable {
		if row.g1amHeld == g1amHeld && row.newIsG1AM == newIsG1AM {
			return row.delta
		}
	}
	// Beyond the table's g1amHeld range (can't happen with a two-half
	// catalogue), fall back to the uncapped case.
	if newIsG1AM {
		return 0
	}
	return 1
}

// projectedEffectiveLoad returns the effective load a student would
// carry in this group after adding candidate, given their current
// effective load and G1-AM count.
func projectedEffectiveLoad(currentEffective, g1amHeld int, newIsG1AM bool) int {
	return currentEffective + effectiveLoadDelta(g1amHeld, newIsG1AM)
}

const (
	normalLoadCap         = 3
	indoorCalisthenicsCap = 5
	g1amStackCap          = 4
)
