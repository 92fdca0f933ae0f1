package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputsDirectory = "../../test/inputs/"

func TestInputFromJson(t *testing.T) {
	t.Run("Decoding", func(t *testing.T) {
		//** Act
		input, err := InputFromJson(inputsDirectory + "restricted.json")

		//** Assert
		require.NoError(t, err)
		assert.Len(t, input.Students, 6)
		assert.Equal(t, Student{Id: 20, Exam: "chemistry"}, input.Students[3])
		assert.Equal(t, Room{Id: "Hall", Rows: 3, Cols: 4, SkipCols: true}, input.Rooms[0])
		assert.Equal(t, Restrictions{"chemistry": {"Lab"}, "art": {"Studio", "Hall"}}, input.Restrictions)
		assert.Zero(t, input.TimeoutSeconds)
	})

	t.Run("Timeout", func(t *testing.T) {
		input, err := InputFromJson(inputsDirectory + "three_exams.json")

		require.NoError(t, err)
		assert.Equal(t, 30, input.TimeoutSeconds)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := InputFromJson(inputsDirectory + "missing.json")

		assert.Error(t, err)
	})
}

func TestInputFromReader(t *testing.T) {
	for name, test := range map[string]struct {
		body    string
		message string
	}{
		"Malformed json":    {body: `{"students": [`, message: "malformed json"},
		"Wrong shape":       {body: `{"students": {"student_id": 1}}`, message: "unexpected input shape"},
		"Duplicate student": {body: `{"students": [{"student_id": 1, "exam": "a"}, {"student_id": 1, "exam": "b"}]}`, message: "duplicate student id 1"},
		"Missing exam":      {body: `{"students": [{"student_id": 1}]}`, message: "student 1 has no exam"},
		"Duplicate room":    {body: `{"rooms": [{"room_id": "R", "rows": 1, "cols": 1}, {"room_id": "R", "rows": 2, "cols": 2}]}`, message: "duplicate room id \"R\""},
		"Room without id":   {body: `{"rooms": [{"rows": 1, "cols": 1}]}`, message: "room without id"},
		"Non-positive size": {body: `{"rooms": [{"room_id": "R", "rows": 0, "cols": 3}]}`, message: "positive dimensions"},
		"Negative timeout":  {body: `{"timeout_seconds": -5}`, message: "timeout must be positive"},
		"Fractional id":     {body: `{"students": [{"student_id": 1.7, "exam": "a"}]}`, message: "1.7 is not an integer"},
		"Fractional rows":   {body: `{"rooms": [{"room_id": "R", "rows": 2.9, "cols": 3}]}`, message: "2.9 is not an integer"},
		"Fractional budget": {body: `{"timeout_seconds": 0.5}`, message: "0.5 is not an integer"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := InputFromReader(strings.NewReader(test.body))

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorContains(t, err, test.message)
		})
	}

	t.Run("Integral floats", func(t *testing.T) {
		input, err := InputFromReader(strings.NewReader(`{"students": [{"student_id": 4.0, "exam": "a"}], "rooms": [{"room_id": "R", "rows": 2e0, "cols": 3}]}`))

		require.NoError(t, err)
		assert.Equal(t, 4, input.Students[0].Id)
		assert.Equal(t, 2, input.Rooms[0].Rows)
	})

	t.Run("Empty request", func(t *testing.T) {
		input, err := InputFromReader(strings.NewReader(`{}`))

		require.NoError(t, err)
		assert.Empty(t, input.Students)
		assert.Empty(t, input.Rooms)
	})
}
