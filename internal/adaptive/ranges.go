package adaptive

import "github.com/priyam/numsense/internal/screening"

// NumberRange is the inclusive value range questions should draw from at a
// given age and difficulty.
type NumberRange struct {
	Min int
	Max int
}

// Operation tags the arithmetic skills in play at a level.
type Operation string

const (
	OpCount    Operation = "count"
	OpCompare  Operation = "compare"
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
)

type levelSpec struct {
	Numbers    NumberRange
	Operations []Operation
}

// Difficulty boundaries per age group, aligned with the screening
// calibration the question bank was authored against.
var difficultyMap = map[screening.AgeGroup]map[Level]levelSpec{
	screening.Age5to6: {
		VeryEasy:    {NumberRange{1, 5}, []Operation{OpCount}},
		Easy:        {NumberRange{1, 7}, []Operation{OpCount, OpCompare}},
		Normal:      {NumberRange{1, 10}, []Operation{OpCompare, OpAdd}},
		Challenging: {NumberRange{1, 15}, []Operation{OpAdd, OpSubtract}},
		Advanced:    {NumberRange{1, 20}, []Operation{OpAdd, OpSubtract}},
	},
	screening.Age7to8: {
		VeryEasy:    {NumberRange{1, 10}, []Operation{OpCount, OpCompare}},
		Easy:        {NumberRange{1, 15}, []Operation{OpCompare, OpAdd}},
		Normal:      {NumberRange{1, 20}, []Operation{OpAdd, OpSubtract}},
		Challenging: {NumberRange{1, 30}, []Operation{OpAdd, OpSubtract, OpMultiply}},
		Advanced:    {NumberRange{1, 50}, []Operation{OpAdd, OpSubtract, OpMultiply}},
	},
	screening.Age9to10: {
		VeryEasy:    {NumberRange{1, 20}, []Operation{OpCompare, OpAdd}},
		Easy:        {NumberRange{1, 30}, []Operation{OpAdd, OpSubtract}},
		Normal:      {NumberRange{1, 50}, []Operation{OpAdd, OpSubtract, OpMultiply}},
		Challenging: {NumberRange{1, 100}, []Operation{OpAdd, OpSubtract, OpMultiply}},
		Advanced:    {NumberRange{1, 200}, []Operation{OpAdd, OpSubtract, OpMultiply}},
	},
}

// RangeFor returns the number range for the age and level, falling back to
// the age's Normal spec for unknown levels.
func RangeFor(age screening.AgeGroup, level Level) NumberRange {
	return specFor(age, level).Numbers
}

// OperationsFor returns the operations in play for the age and level.
func OperationsFor(age screening.AgeGroup, level Level) []Operation {
	return specFor(age, level).Operations
}

func specFor(age screening.AgeGroup, level Level) levelSpec {
	byLevel, ok := difficultyMap[age]
	if !ok {
		byLevel = difficultyMap[screening.Age7to8]
	}
	spec, ok := byLevel[level]
	if !ok {
		spec = byLevel[Normal]
	}
	return spec
}
