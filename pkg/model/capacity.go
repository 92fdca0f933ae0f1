package model

import "github.com/samber/lo"

func totalSeats(seats [][]Seat) int {
	return lo.SumBy(seats, func(roomSeats []Seat) int { return len(roomSeats) })
}

// checkCapacity fails when the rooms cannot hold every student, regardless of restrictions
func checkCapacity(students int, seats [][]Seat) error {
	if total := totalSeats(seats); total < students {
		return insufficientCapacity(students, total)
	}
	return nil
}

// eligibleCandidates counts the (student, seat) pairs the restrictions admit, which is the number of decision
// variables the model will hold
func eligibleCandidates(input ModelInput, seats [][]Seat) int {
	perExam := make(map[string]int)
	total := 0
	for _, student := range input.Students {
		count, ok := perExam[student.Exam]
		if !ok {
			for room, roomSeats := range seats {
				if input.Restrictions.allowed(student.Exam, input.Rooms[room].Id) {
					count += len(roomSeats)
				}
			}
			perExam[student.Exam] = count
		}
		total += count
	}
	return total
}
