package model

type Seat struct {
	Row int
	Col int
}

// Seats expands a room into its valid seats in row-major order. Extraction relies on this order
func Seats(room Room) []Seat {
	seats := make([]Seat, 0, room.Rows*room.Cols)
	for row := range room.Rows {
		if room.SkipRows && row%2 != 0 {
			continue
		}
		for col := range room.Cols {
			if room.SkipCols && col%2 != 0 {
				continue
			}
			seats = append(seats, Seat{Row: row, Col: col})
		}
	}
	return seats
}

// AdjacentPairs returns the index pairs (i, j), i < j, of seats at Manhattan distance exactly one. Pairs follow the order
// of i, the right neighbour coming before the down neighbour
func AdjacentPairs(seats []Seat) [][2]int {
	positions := make(map[Seat]int, len(seats))
	for i, seat := range seats {
		positions[seat] = i
	}

	pairs := make([][2]int, 0)
	for i, seat := range seats {
		for _, neighbour := range []Seat{{Row: seat.Row, Col: seat.Col + 1}, {Row: seat.Row + 1, Col: seat.Col}} {
			if j, ok := positions[neighbour]; ok {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
