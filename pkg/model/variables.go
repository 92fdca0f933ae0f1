package model

import "github.com/limaJavier/examseating/pkg/sat"

// seatRef addresses a seat by room index
type seatRef struct {
	room int
	seat Seat
}

// variableSpace holds every admissible decision variable together with the room-usage variables
type variableSpace struct {
	indexer    indexer
	usage      []sat.Var   // usage[r] is true when room r is opened
	candidates [][]sat.Var // candidates[i] lists the variables of student i in room-index then seat order
	occupants  map[seatRef][]sat.Var
}

// buildVariables creates one usage variable per room and one decision variable per eligible (student, room, seat). A
// student left without any candidate makes the request unassignable
func buildVariables(model *sat.Model, input ModelInput, seats [][]Seat) (variableSpace, error) {
	space := variableSpace{
		indexer:    newIndexer(eligibleCandidates(input, seats)),
		usage:      make([]sat.Var, len(input.Rooms)),
		candidates: make([][]sat.Var, len(input.Students)),
		occupants:  make(map[seatRef][]sat.Var),
	}

	for room := range input.Rooms {
		space.usage[room] = model.NewVar()
	}

	unassignable := make([]Student, 0)
	for i, student := range input.Students {
		for room, roomSeats := range seats {
			if !input.Restrictions.allowed(student.Exam, input.Rooms[room].Id) {
				continue
			}
			for _, seat := range roomSeats {
				variable := model.NewVar()
				space.indexer.Add(VariableKey{Student: student.Id, Room: room, Row: seat.Row, Col: seat.Col}, variable)
				space.candidates[i] = append(space.candidates[i], variable)

				ref := seatRef{room: room, seat: seat}
				space.occupants[ref] = append(space.occupants[ref], variable)
			}
		}
		if len(space.candidates[i]) == 0 {
			unassignable = append(unassignable, student)
		}
	}

	if len(unassignable) > 0 {
		return variableSpace{}, studentUnassignable(unassignable)
	}
	return space, nil
}

func (space variableSpace) decisionVariables() int {
	return space.indexer.Len()
}
