package model

import "github.com/samber/lo"

// Violation is a pair of students of the same exam seated next to each other
type Violation struct {
	First  Assignment
	Second Assignment
	Exam   string
}

// verify checks a seating against the hard rules: every student seated exactly once, on an existing seat of an eligible
// room, and no seat shared
func verify(assignments []Assignment, input ModelInput) bool {
	students := lo.SliceToMap(input.Students, func(student Student) (int, Student) { return student.Id, student })
	rooms := lo.SliceToMap(input.Rooms, func(room Room) (string, Room) { return room.Id, room })
	if len(assignments) != len(students) {
		return false
	}

	seated := make(map[int]bool, len(assignments))
	occupied := make(map[string]map[Seat]bool, len(rooms))
	for _, assignment := range assignments {
		student, ok := students[assignment.StudentId]
		room, roomExists := rooms[assignment.RoomId]
		seat := Seat{Row: assignment.Row, Col: assignment.Col}

		// Check that:
		// - Student and room exist
		// - Student is not seated twice
		// - Seat exists in the room (inside the grid and not an aisle)
		// - Student's exam may take place in the room
		// - Seat is not taken
		if !ok || !roomExists ||
			seated[student.Id] ||
			!validSeat(room, seat) ||
			!input.Restrictions.allowed(student.Exam, room.Id) ||
			occupied[room.Id][seat] {
			return false
		}

		seated[student.Id] = true
		if occupied[room.Id] == nil {
			occupied[room.Id] = make(map[Seat]bool)
		}
		occupied[room.Id][seat] = true
	}
	return true
}

// SeparationViolations lists the same-exam students seated on orthogonally adjacent seats. A seating produced under a
// reached separation cap may have some
func SeparationViolations(assignments []Assignment, input ModelInput) []Violation {
	exams := lo.SliceToMap(input.Students, func(student Student) (int, string) { return student.Id, student.Exam })

	type position struct {
		room string
		seat Seat
	}
	seated := make(map[position]Assignment, len(assignments))
	for _, assignment := range assignments {
		seated[position{room: assignment.RoomId, seat: Seat{Row: assignment.Row, Col: assignment.Col}}] = assignment
	}

	violations := make([]Violation, 0)
	for _, assignment := range assignments {
		for _, neighbour := range []Seat{{Row: assignment.Row, Col: assignment.Col + 1}, {Row: assignment.Row + 1, Col: assignment.Col}} {
			other, ok := seated[position{room: assignment.RoomId, seat: neighbour}]
			if ok && exams[other.StudentId] == exams[assignment.StudentId] {
				violations = append(violations, Violation{First: assignment, Second: other, Exam: exams[assignment.StudentId]})
			}
		}
	}
	return violations
}

func validSeat(room Room, seat Seat) bool {
	return seat.Row >= 0 && seat.Row < room.Rows &&
		seat.Col >= 0 && seat.Col < room.Cols &&
		!(room.SkipRows && seat.Row%2 != 0) &&
		!(room.SkipCols && seat.Col%2 != 0)
}
