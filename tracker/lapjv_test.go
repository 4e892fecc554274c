package tracker

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForceMinCost returns the minimum total cost over all matchings of
// size min(rows, cols)
func bruteForceMinCost(cost [][]float64) float64 {

	rows := len(cost)
	cols := len(cost[0])
	size := min(rows, cols)
	usedCol := make([]bool, cols)
	best := math.Inf(1)

	var search func(row, matched int, total float64)

	search = func(row, matched int, total float64) {
		if matched == size {
			best = math.Min(best, total)
			return
		}

		// not enough rows left to complete the matching
		if rows-row < size-matched {
			return
		}

		// skip this row
		search(row+1, matched, total)

		for j := 0; j < cols; j++ {
			if !usedCol[j] {
				usedCol[j] = true
				search(row+1, matched+1, total+cost[row][j])
				usedCol[j] = false
			}
		}
	}

	search(0, 0, 0)

	return best
}

// checkAssignment verifies the assignment is injective and of maximum
// cardinality
func checkAssignment(t *testing.T, cost [][]float64, assignment []int) {
	t.Helper()

	require.Len(t, assignment, len(cost))

	used := make(map[int]bool)
	matched := 0

	for row, col := range assignment {
		if col == -1 {
			continue
		}

		require.GreaterOrEqual(t, col, 0, "row %d", row)
		require.Less(t, col, len(cost[0]), "row %d", row)
		require.False(t, used[col], "column %d assigned twice", col)

		used[col] = true
		matched++
	}

	assert.Equal(t, min(len(cost), len(cost[0])), matched)
}

func randomCost(rng *rand.Rand, rows, cols int) [][]float64 {
	cost := make([][]float64, rows)

	for i := range cost {
		cost[i] = make([]float64, cols)

		for j := range cost[i] {
			// coarse values so ties are common
			cost[i][j] = float64(rng.Intn(10)) - 5
		}
	}

	return cost
}

func TestLinearSumAssignmentKnown(t *testing.T) {

	tests := []struct {
		name     string
		cost     [][]float64
		expected []int
		total    float64
	}{
		{
			name: "3x3",
			cost: [][]float64{
				{4, 1, 3},
				{2, 0, 5},
				{3, 2, 2},
			},
			expected: []int{1, 0, 2},
			total:    5,
		},
		{
			name: "4x4",
			cost: [][]float64{
				{10, 19, 8, 15},
				{10, 18, 7, 17},
				{13, 16, 9, 14},
				{12, 19, 8, 18},
			},
			expected: []int{3, 0, 1, 2},
			total:    15 + 10 + 16 + 8,
		},
		{
			name:     "1x1",
			cost:     [][]float64{{5}},
			expected: []int{0},
			total:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignment := LinearSumAssignment(tt.cost)
			checkAssignment(t, tt.cost, assignment)
			assert.Equal(t, tt.expected, assignment)
			assert.Equal(t, tt.total, AssignmentCost(tt.cost, assignment))
		})
	}
}

func TestLinearSumAssignmentRectangular(t *testing.T) {

	// more rows than columns, cost grows with row index so the last row
	// must be the one left out
	tall := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
		{10, 11, 12},
	}

	assignment := LinearSumAssignment(tall)
	checkAssignment(t, tall, assignment)
	assert.Equal(t, -1, assignment[3])
	assert.Equal(t, 15.0, AssignmentCost(tall, assignment))

	// more columns than rows
	wide := [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	}

	assignment = LinearSumAssignment(wide)
	checkAssignment(t, wide, assignment)
	assert.NotContains(t, assignment, 3)
	assert.Equal(t, 18.0, AssignmentCost(wide, assignment))

	constant := [][]float64{
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	}

	assignment = LinearSumAssignment(constant)
	checkAssignment(t, constant, assignment)
	assert.Equal(t, 4.0, AssignmentCost(constant, assignment))
}

func TestLinearSumAssignmentBruteForce(t *testing.T) {

	rng := rand.New(rand.NewSource(7))

	shapes := [][2]int{{3, 5}, {5, 3}}

	for rows := 1; rows <= 4; rows++ {
		for cols := 1; cols <= 4; cols++ {
			shapes = append(shapes, [2]int{rows, cols})
		}
	}

	for _, shape := range shapes {
		for trial := 0; trial < 25; trial++ {
			cost := randomCost(rng, shape[0], shape[1])

			assignment := LinearSumAssignment(cost)
			checkAssignment(t, cost, assignment)

			assert.InDelta(t, bruteForceMinCost(cost), AssignmentCost(cost, assignment), 1e-9,
				"shape %v cost %v assignment %v", shape, cost, assignment)
		}
	}
}

func TestLinearSumAssignmentFractional(t *testing.T) {

	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 100; trial++ {
		rows := 1 + rng.Intn(4)
		cols := 1 + rng.Intn(4)
		cost := make([][]float64, rows)

		for i := range cost {
			cost[i] = make([]float64, cols)

			for j := range cost[i] {
				cost[i][j] = -rng.Float64()
			}
		}

		assignment := LinearSumAssignment(cost)
		checkAssignment(t, cost, assignment)
		assert.InDelta(t, bruteForceMinCost(cost), AssignmentCost(cost, assignment), 1e-9)
	}
}

func TestLinearSumAssignmentDeterministic(t *testing.T) {

	rng := rand.New(rand.NewSource(3))
	cost := randomCost(rng, 4, 6)

	first := LinearSumAssignment(cost)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, LinearSumAssignment(cost))
	}
}

func TestLinearSumAssignmentEmpty(t *testing.T) {

	assert.Empty(t, LinearSumAssignment(nil))
	assert.Equal(t, []int{-1, -1}, LinearSumAssignment([][]float64{{}, {}}))
}

func TestLinearSumAssignmentUnreachable(t *testing.T) {

	inf := math.Inf(1)

	cost := [][]float64{
		{1, 2},
		{inf, inf},
		{2, 1},
	}

	assignment := LinearSumAssignment(cost)

	assert.Equal(t, []int{0, -1, 1}, assignment)
}
