package tracker

// Associate matches rows to columns of a similarity matrix maximising the
// total similarity.  A pair returned by the solver is only accepted as a
// match if its similarity is at least minSimilarity, otherwise both its row
// and column are reported as unmatched.
//
// Every row in [0, rows) and column in [0, cols) appears exactly once across
// the three results.  Matches are in ascending row order and the unmatched
// index lists are sorted ascending.
func Associate(similarity [][]float32, rows, cols int,
	minSimilarity float32) (matchesIdx [][2]int, unmatchRowIdx, unmatchColIdx []int) {

	rowMatched := make([]bool, rows)
	colMatched := make([]bool, cols)

	if rows > 0 && cols > 0 {

		// the solver minimises cost so negate the similarity
		cost := make([][]float64, rows)

		for i := 0; i < rows; i++ {
			cost[i] = make([]float64, cols)

			for j := 0; j < cols; j++ {
				cost[i][j] = -float64(similarity[i][j])
			}
		}

		for row, col := range LinearSumAssignment(cost) {

			if col == unassigned || similarity[row][col] < minSimilarity {
				continue
			}

			matchesIdx = append(matchesIdx, [2]int{row, col})
			rowMatched[row] = true
			colMatched[col] = true
		}
	}

	for i, matched := range rowMatched {
		if !matched {
			unmatchRowIdx = append(unmatchRowIdx, i)
		}
	}

	for j, matched := range colMatched {
		if !matched {
			unmatchColIdx = append(unmatchColIdx, j)
		}
	}

	return matchesIdx, unmatchRowIdx, unmatchColIdx
}
