package model

import (
	"time"

	"github.com/limaJavier/examseating/pkg/sat"
)

type buildOptions struct {
	separationCap int
	tightLinking  bool
	matchingLimit int // Matching check runs when students*seats does not exceed it; zero disables it
}

// seatingModel is a built engine model together with what is needed to read a solution back
type seatingModel struct {
	model *sat.Model
	space variableSpace
}

// buildModel runs the construction pipeline: geometry, capacity, grouping, variables, constraints and objective. The
// returned summary is filled as far as the pipeline got, even on failure
func buildModel(input ModelInput, options buildOptions) (*seatingModel, BuildSummary, error) {
	start := time.Now()
	summary := BuildSummary{SeatsPerRoom: make(map[string]int, len(input.Rooms)), SeparationCap: options.separationCap}

	//** Expand rooms
	seats := make([][]Seat, len(input.Rooms))
	for i, room := range input.Rooms {
		seats[i] = Seats(room)
		summary.SeatsPerRoom[room.Id] = len(seats[i])
	}
	summary.TotalSeats = totalSeats(seats)

	//** Check capacity
	if err := checkCapacity(len(input.Students), seats); err != nil {
		return nil, finish(summary, start), err
	}

	//** Group students
	groups := groupByExam(input.Students)

	//** Build variables
	model := sat.NewModel()
	space, err := buildVariables(model, input, seats)
	if err != nil {
		return nil, finish(summary, start), err
	}
	summary.Variables = model.Variables
	summary.DecisionVariables = space.decisionVariables()
	summary.UsageVariables = len(space.usage)

	//** Check eligibility matching
	if options.matchingLimit > 0 && len(input.Students)*summary.TotalSeats <= options.matchingLimit {
		summary.MatchingChecked = true
		if err := checkMatching(input, seats); err != nil {
			return nil, finish(summary, start), err
		}
	}

	//** Encode constraints
	state := newConstraintState(input, seats, groups, space)

	exactlyOne := exactlyOneConstraints(state)
	seatLimits := seatConstraints(state)
	linking := linkingConstraints(state)
	var tightLinking []sat.Constraint
	if options.tightLinking {
		tightLinking = tightLinkingConstraints(state)
	}
	separation, capped := separationConstraints(state, options.separationCap)

	for _, family := range [][]sat.Constraint{exactlyOne, seatLimits, linking, tightLinking, separation} {
		model.Constraints = append(model.Constraints, family...)
	}
	summary.ExactlyOneConstraints = len(exactlyOne)
	summary.SeatConstraints = len(seatLimits)
	summary.LinkingConstraints = len(linking)
	summary.TightLinkingConstraints = len(tightLinking)
	summary.SeparationConstraints = len(separation)
	summary.SeparationCapReached = capped

	//** Build objective
	model.Minimize(roomsObjective(space)...)

	summary = finish(summary, start)
	return &seatingModel{model: model, space: space}, summary, nil
}

func finish(summary BuildSummary, start time.Time) BuildSummary {
	summary.BuildTime = time.Since(start)
	return summary
}
