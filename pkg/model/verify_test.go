package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	input := ModelInput{
		Students:     []Student{{Id: 1, Exam: "math"}, {Id: 2, Exam: "math"}, {Id: 3, Exam: "art"}},
		Rooms:        []Room{{Id: "R1", Rows: 3, Cols: 3, SkipRows: true}, {Id: "R2", Rows: 1, Cols: 2}},
		Restrictions: Restrictions{"art": {"R2"}},
	}
	valid := []Assignment{
		{StudentId: 1, RoomId: "R1", Row: 0, Col: 0},
		{StudentId: 2, RoomId: "R1", Row: 2, Col: 0},
		{StudentId: 3, RoomId: "R2", Row: 0, Col: 1},
	}

	t.Run("Valid seating", func(t *testing.T) {
		assert.True(t, verify(valid, input))
	})

	for name, mutate := range map[string]func(assignments []Assignment) []Assignment{
		"Missing student": func(assignments []Assignment) []Assignment { return assignments[:2] },
		"Student twice": func(assignments []Assignment) []Assignment {
			assignments[1].StudentId = 1
			return assignments
		},
		"Shared seat": func(assignments []Assignment) []Assignment {
			assignments[1].Row = 0
			return assignments
		},
		"Aisle seat": func(assignments []Assignment) []Assignment {
			assignments[1].Row = 1
			return assignments
		},
		"Outside the grid": func(assignments []Assignment) []Assignment {
			assignments[1].Col = 3
			return assignments
		},
		"Restricted room": func(assignments []Assignment) []Assignment {
			assignments[2].RoomId = "R1"
			assignments[2].Row, assignments[2].Col = 0, 2
			return assignments
		},
		"Unknown room": func(assignments []Assignment) []Assignment {
			assignments[0].RoomId = "R9"
			return assignments
		},
		"Unknown student": func(assignments []Assignment) []Assignment {
			assignments[0].StudentId = 99
			return assignments
		},
	} {
		t.Run(name, func(t *testing.T) {
			assignments := mutate(append([]Assignment{}, valid...))

			assert.False(t, verify(assignments, input))
		})
	}
}

func TestSeparationViolations(t *testing.T) {
	input := ModelInput{
		Students: []Student{{Id: 1, Exam: "math"}, {Id: 2, Exam: "math"}, {Id: 3, Exam: "art"}},
		Rooms:    []Room{{Id: "R1", Rows: 2, Cols: 2}},
	}

	t.Run("Adjacent same exam", func(t *testing.T) {
		assignments := []Assignment{
			{StudentId: 1, RoomId: "R1", Row: 0, Col: 0},
			{StudentId: 2, RoomId: "R1", Row: 1, Col: 0},
			{StudentId: 3, RoomId: "R1", Row: 0, Col: 1},
		}

		violations := SeparationViolations(assignments, input)

		require.Len(t, violations, 1)
		assert.Equal(t, "math", violations[0].Exam)
		assert.Equal(t, 1, violations[0].First.StudentId)
		assert.Equal(t, 2, violations[0].Second.StudentId)
	})

	t.Run("Diagonal same exam", func(t *testing.T) {
		assignments := []Assignment{
			{StudentId: 1, RoomId: "R1", Row: 0, Col: 0},
			{StudentId: 2, RoomId: "R1", Row: 1, Col: 1},
			{StudentId: 3, RoomId: "R1", Row: 0, Col: 1},
		}

		assert.Empty(t, SeparationViolations(assignments, input))
	})
}
