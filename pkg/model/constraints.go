package model

import "github.com/limaJavier/examseating/pkg/sat"

// NoSeparationCap disables the explosion guard on separation constraints
const NoSeparationCap = -1

type constraintState struct {
	input     ModelInput
	seats     [][]Seat
	adjacency [][][2]int // adjacency[r] holds the adjacent seat pairs of room r
	groups    examGroups
	space     variableSpace
}

func newConstraintState(input ModelInput, seats [][]Seat, groups examGroups, space variableSpace) constraintState {
	adjacency := make([][][2]int, len(seats))
	for room, roomSeats := range seats {
		adjacency[room] = AdjacentPairs(roomSeats)
	}
	return constraintState{
		input:     input,
		seats:     seats,
		adjacency: adjacency,
		groups:    groups,
		space:     space,
	}
}

// Every student sits exactly once
func exactlyOneConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0, len(state.space.candidates))
	for _, candidates := range state.space.candidates {
		constraints = append(constraints, sat.Constraint{Terms: sat.Sum(candidates...), Operator: sat.Equal, Bound: 1})
	}
	return constraints
}

// No seat holds two students
func seatConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0)
	state.forEachSeat(func(ref seatRef, occupants []sat.Var) {
		// A single candidate is already bounded by its student's exactly-one constraint
		if len(occupants) >= 2 {
			constraints = append(constraints, sat.Constraint{Terms: sat.Sum(occupants...), Operator: sat.LessOrEqual, Bound: 1})
		}
	})
	return constraints
}

// Occupying a seat opens its room: x <= y(room)
func linkingConstraints(state constraintState) []sat.Constraint {
	constraints := make([]sat.Constraint, 0, state.space.decisionVariables())
	state.forEachSeat(func(ref seatRef, occupants []sat.Var) {
		usage := state.space.usage[ref.room]
		for _, occupant := range occupants {
			constraints = append(constraints, sat.Constraint{
				Terms:    []sat.Term{{Var: occupant, Coefficient: 1}, {Var: usage, Coefficient: -1}},
				Operator: sat.LessOrEqual,
				Bound:    0,
			})
		}
	})
	return constraints
}

// An opened room holds someone: y(room) <= sum(x in room)
func tightLinkingConstraints(state constraintState) []sat.Constraint {
	occupants := make([][]sat.Var, len(state.seats))
	state.forEachSeat(func(ref seatRef, seatOccupants []sat.Var) {
		occupants[ref.room] = append(occupants[ref.room], seatOccupants...)
	})

	constraints := make([]sat.Constraint, 0, len(state.seats))
	for room, usage := range state.space.usage {
		terms := []sat.Term{{Var: usage, Coefficient: 1}}
		for _, occupant := range occupants[room] {
			terms = append(terms, sat.Term{Var: occupant, Coefficient: -1})
		}
		constraints = append(constraints, sat.Constraint{Terms: terms, Operator: sat.LessOrEqual, Bound: 0})
	}
	return constraints
}

// separationConstraints forbids two students of the same exam on adjacent seats, in both seat-to-student orderings.
// Emission stops once limit constraints exist (unless limit is NoSeparationCap); capped reports whether anything was left out
func separationConstraints(state constraintState, limit int) (constraints []sat.Constraint, capped bool) {
	constraints = make([]sat.Constraint, 0)
	emit := func(first, second sat.Var) bool {
		if limit != NoSeparationCap && len(constraints) >= limit {
			capped = true
			return false
		}
		constraints = append(constraints, sat.Constraint{Terms: sat.Sum(first, second), Operator: sat.LessOrEqual, Bound: 1})
		return true
	}

	for _, exam := range state.groups.exams {
		members := state.groups.members[exam]
		if len(members) < 2 {
			continue
		}
		for room, pairs := range state.adjacency {
			for _, pair := range pairs {
				p, q := state.seats[room][pair[0]], state.seats[room][pair[1]]
				for i := range len(members) - 1 {
					for j := i + 1; j < len(members); j++ {
						a, b := state.input.Students[members[i]], state.input.Students[members[j]]

						aAtP, ok1 := state.variable(a, room, p)
						bAtQ, ok2 := state.variable(b, room, q)
						bAtP, ok3 := state.variable(b, room, p)
						aAtQ, ok4 := state.variable(a, room, q)
						// Same exam, same restrictions: either all four variables exist or the room is not eligible
						if !(ok1 && ok2 && ok3 && ok4) {
							continue
						}

						if !emit(aAtP, bAtQ) || !emit(bAtP, aAtQ) {
							return constraints, capped
						}
					}
				}
			}
		}
	}
	return constraints, capped
}

func (state constraintState) variable(student Student, room int, seat Seat) (sat.Var, bool) {
	return state.space.indexer.Index(VariableKey{Student: student.Id, Room: room, Row: seat.Row, Col: seat.Col})
}

// forEachSeat visits every seat with candidates in room-index then seat order
func (state constraintState) forEachSeat(visit func(ref seatRef, occupants []sat.Var)) {
	for room, roomSeats := range state.seats {
		for _, seat := range roomSeats {
			ref := seatRef{room: room, seat: seat}
			if occupants, ok := state.space.occupants[ref]; ok {
				visit(ref, occupants)
			}
		}
	}
}
