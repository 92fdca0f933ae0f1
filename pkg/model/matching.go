package model

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// checkMatching verifies Hall's condition on the eligibility graph: every student must be matched to a distinct seat of
// an eligible room. It catches over-subscribed restrictions (e.g. three students of an exam restricted to a two-seat
// room) before the engine has to prove it
func checkMatching(input ModelInput, seats [][]Seat) error {
	refs := make([]seatRef, 0, totalSeats(seats))
	for room, roomSeats := range seats {
		for _, seat := range roomSeats {
			refs = append(refs, seatRef{room: room, seat: seat})
		}
	}

	neighbours := func(studentAny any, refAny any) (bool, error) {
		student := input.Students[studentAny.(int)]
		ref := refAny.(seatRef)
		return input.Restrictions.allowed(student.Exam, input.Rooms[ref.room].Id), nil
	}

	studentsAny := lo.Map(input.Students, func(_ Student, i int) any { return i })
	refsAny := lo.Map(refs, func(ref seatRef, _ int) any { return ref })

	graph, err := bipartitegraph.NewBipartiteGraph(studentsAny, refsAny, neighbours)
	if err != nil {
		return err
	}

	matching := graph.LargestMatching()
	if len(matching) == len(input.Students) {
		return nil
	}

	matched := make(map[int]bool, len(matching))
	for _, edge := range matching {
		matched[edge.Node1] = true
	}
	unmatched := lo.Filter(input.Students, func(_ Student, i int) bool { return !matched[i] })
	return seatsUnmatchable(unmatched, len(matching), len(input.Students))
}
