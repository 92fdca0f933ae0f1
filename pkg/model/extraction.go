package model

import (
	"fmt"

	"github.com/limaJavier/examseating/pkg/sat"
	"github.com/pkg/errors"
)

type Outcome string

const (
	Optimal            Outcome = "Optimal"
	FeasibleSuboptimal Outcome = "SolverFeasibleSuboptimal"
)

// extract turns an engine solution into one assignment per student, or into the failure its status stands for
func extract(solution sat.Solution, input ModelInput, space variableSpace) ([]Assignment, Outcome, error) {
	var outcome Outcome
	switch solution.Status {
	case sat.Optimal:
		outcome = Optimal
	case sat.Feasible:
		outcome = FeasibleSuboptimal
	case sat.Infeasible:
		return nil, "", &Failure{Reason: ProvenInfeasible, Message: "no seating satisfies every constraint"}
	default:
		return nil, "", &Failure{Reason: TimedOut, Message: "the time budget was exhausted before any seating was found"}
	}

	assignments := make([]Assignment, 0, len(input.Students))
	for i, student := range input.Students {
		assignment, ok := firstTrue(solution, space, space.candidates[i], input)
		if !ok {
			return nil, "", errors.Wrapf(ErrEngineContract, "student %d has no seat in a %v solution", student.Id, solution.Status)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, outcome, nil
}

// firstTrue scans candidates in their room-index then seat order
func firstTrue(solution sat.Solution, space variableSpace, candidates []sat.Var, input ModelInput) (Assignment, bool) {
	for _, candidate := range candidates {
		if !solution.Value(candidate) {
			continue
		}
		key, ok := space.indexer.Attributes(candidate)
		if !ok {
			panic(fmt.Sprintf("candidate %d has no attributes", candidate))
		}
		return Assignment{StudentId: key.Student, RoomId: input.Rooms[key.Room].Id, Row: key.Row, Col: key.Col}, true
	}
	return Assignment{}, false
}

// roomsUsed counts the distinct rooms holding at least one student
func roomsUsed(assignments []Assignment) int {
	rooms := make(map[string]bool)
	for _, assignment := range assignments {
		rooms[assignment.RoomId] = true
	}
	return len(rooms)
}
