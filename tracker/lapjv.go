package tracker

import (
	"math"
)

// unassigned marks a row or column with no partner in a partial matching
const unassigned = -1

// LinearSumAssignment solves the rectangular linear assignment problem for
// a dense cost matrix using a Jonker-Volgenant style shortest augmenting
// path method with row and column dual potentials.
//
// It returns, for each row, the column assigned to it or -1 if the row is
// left unmatched.  The matching has min(rows, cols) pairs and its total
// cost is minimal among all matchings of that size.  A matrix with zero
// rows or columns matches nothing.
func LinearSumAssignment(cost [][]float64) []int {

	nRows := len(cost)
	nCols := 0

	if nRows > 0 {
		nCols = len(cost[0])
	}

	assignment := make([]int, nRows)

	for i := range assignment {
		assignment[i] = unassigned
	}

	if nRows == 0 || nCols == 0 {
		return assignment
	}

	// the outer loop runs once per row so make sure rows are the smaller
	// dimension by solving the transpose
	transposed := false
	c := cost

	if nCols < nRows {
		c = make([][]float64, nCols)

		for j := 0; j < nCols; j++ {
			c[j] = make([]float64, nRows)

			for i := 0; i < nRows; i++ {
				c[j][i] = cost[i][j]
			}
		}

		nRows, nCols = nCols, nRows
		transposed = true
	}

	col4row, row4col := solveSAP(c, nRows, nCols)

	if transposed {
		// rows of the transpose are the original columns
		for col, row := range row4col {
			if row != unassigned {
				assignment[col] = row
			}
		}
		return assignment
	}

	copy(assignment, col4row)

	return assignment
}

// solveSAP runs the shortest augmenting path search for a cost matrix with
// nRows <= nCols returning the matching in both directions
func solveSAP(cost [][]float64, nRows, nCols int) (col4row, row4col []int) {

	inf := math.Inf(1)

	u := make([]float64, nRows)
	v := make([]float64, nCols)
	shortestPathCosts := make([]float64, nCols)
	path := make([]int, nCols)
	col4row = make([]int, nRows)
	row4col = make([]int, nCols)
	sr := make([]bool, nRows)
	sc := make([]bool, nCols)
	remaining := make([]int, nCols)

	for i := range col4row {
		col4row[i] = unassigned
	}

	for j := range row4col {
		row4col[j] = unassigned
		path[j] = unassigned
	}

	for curRow := 0; curRow < nRows; curRow++ {

		minVal := 0.0

		// columns not yet on the search tree
		numRemaining := nCols

		for it := 0; it < nCols; it++ {
			remaining[it] = nCols - it - 1
		}

		for i := range sr {
			sr[i] = false
		}

		for j := range sc {
			sc[j] = false
			shortestPathCosts[j] = inf
		}

		sink := unassigned
		i := curRow

		for sink == unassigned {

			index := unassigned
			lowest := inf
			sr[i] = true

			for it := 0; it < numRemaining; it++ {
				j := remaining[it]
				r := minVal + cost[i][j] - u[i] - v[j]

				if r < shortestPathCosts[j] {
					path[j] = i
					shortestPathCosts[j] = r
				}

				// prefer a free column on ties so the path ends sooner
				if shortestPathCosts[j] < lowest ||
					(shortestPathCosts[j] == lowest && row4col[j] == unassigned) {
					lowest = shortestPathCosts[j]
					index = it
				}
			}

			minVal = lowest

			if math.IsInf(minVal, 1) {
				// no column is reachable from this row
				break
			}

			j := remaining[index]

			if row4col[j] == unassigned {
				sink = j
			} else {
				i = row4col[j]
			}

			sc[j] = true
			remaining[index] = remaining[numRemaining-1]
			numRemaining--
		}

		if sink == unassigned {
			// leave this row unmatched
			continue
		}

		// update dual potentials
		u[curRow] += minVal

		for i := 0; i < nRows; i++ {
			if sr[i] && i != curRow && col4row[i] != unassigned {
				u[i] += minVal - shortestPathCosts[col4row[i]]
			}
		}

		for j := 0; j < nCols; j++ {
			if sc[j] {
				v[j] -= minVal - shortestPathCosts[j]
			}
		}

		// augment the matching by walking the path back to curRow
		j := sink

		for {
			i := path[j]
			row4col[j] = i
			col4row[i], j = j, col4row[i]

			if i == curRow {
				break
			}
		}
	}

	return col4row, row4col
}

// AssignmentCost returns the total cost of the matched pairs of an
// assignment returned by LinearSumAssignment
func AssignmentCost(cost [][]float64, assignment []int) float64 {

	total := 0.0

	for row, col := range assignment {
		if col != unassigned {
			total += cost[row][col]
		}
	}

	return total
}
