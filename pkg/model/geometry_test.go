package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeats(t *testing.T) {
	t.Run("Seat count", func(t *testing.T) {
		for _, room := range []Room{
			{Id: "A", Rows: 5, Cols: 5},
			{Id: "B", Rows: 5, Cols: 5, SkipRows: true},
			{Id: "C", Rows: 5, Cols: 5, SkipRows: true, SkipCols: true},
			{Id: "D", Rows: 4, Cols: 7, SkipRows: true, SkipCols: true},
			{Id: "E", Rows: 1, Cols: 1, SkipRows: true, SkipCols: true},
			{Id: "F", Rows: 6, Cols: 3, SkipCols: true},
		} {
			t.Run(fmt.Sprintf("%v %dx%d", room.Id, room.Rows, room.Cols), func(t *testing.T) {
				rows, cols := room.Rows, room.Cols
				if room.SkipRows {
					rows = (rows + 1) / 2
				}
				if room.SkipCols {
					cols = (cols + 1) / 2
				}

				seats := Seats(room)

				assert.Len(t, seats, rows*cols)
				for _, seat := range seats {
					if room.SkipRows {
						assert.Zero(t, seat.Row%2)
					}
					if room.SkipCols {
						assert.Zero(t, seat.Col%2)
					}
				}
			})
		}
	})

	t.Run("Row-major order", func(t *testing.T) {
		seats := Seats(Room{Id: "A", Rows: 3, Cols: 3, SkipRows: true})

		assert.Equal(t, []Seat{{0, 0}, {0, 1}, {0, 2}, {2, 0}, {2, 1}, {2, 2}}, seats)
	})
}

func TestAdjacentPairs(t *testing.T) {
	t.Run("Right before down", func(t *testing.T) {
		//** Arrange
		seats := Seats(Room{Id: "A", Rows: 2, Cols: 2})

		//** Act
		pairs := AdjacentPairs(seats)

		//** Assert
		// (0,0)-(0,1), (0,0)-(1,0), (0,1)-(1,1), (1,0)-(1,1)
		assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, pairs)
	})

	t.Run("Aisles break adjacency", func(t *testing.T) {
		assert.Empty(t, AdjacentPairs(Seats(Room{Id: "A", Rows: 5, Cols: 5, SkipRows: true, SkipCols: true})))
		assert.Len(t, AdjacentPairs(Seats(Room{Id: "B", Rows: 3, Cols: 4, SkipRows: true})), 6)
	})

	t.Run("Diagonals are not adjacent", func(t *testing.T) {
		seats := []Seat{{0, 0}, {1, 1}}

		assert.Empty(t, AdjacentPairs(seats))
	})
}
