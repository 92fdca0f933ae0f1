package model

import (
	"context"
	"time"

	"github.com/limaJavier/examseating/pkg/sat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultSeparationCap = 50000

type Seater interface {
	// Seat assigns every student a seat, or fails with a *Failure carrying the reason. Engine faults are returned as
	// plain errors
	Seat(ctx context.Context, input ModelInput) (Result, error)

	Verify(assignments []Assignment, input ModelInput) bool
}

type Result struct {
	Assignments []Assignment `json:"assignments"`
	Outcome     Outcome      `json:"outcome"`
	RoomsUsed   int          `json:"rooms_used"`
	Summary     BuildSummary `json:"summary"`
}

type Option func(seater *satSeater)

// WithTimeout sets the engine budget used when the input does not carry one
func WithTimeout(timeout time.Duration) Option {
	return func(seater *satSeater) { seater.params.Timeout = timeout }
}

func WithWorkers(workers int) Option {
	return func(seater *satSeater) { seater.params.Workers = workers }
}

// WithSeparationCap bounds the number of separation constraints; NoSeparationCap lifts the bound
func WithSeparationCap(limit int) Option {
	return func(seater *satSeater) { seater.options.separationCap = limit }
}

// WithTightLinking forces every opened room to hold at least one student
func WithTightLinking(enabled bool) Option {
	return func(seater *satSeater) { seater.options.tightLinking = enabled }
}

// WithMatchingCheck enables the pre-solve eligibility matching for requests where students*seats <= limit
func WithMatchingCheck(limit int) Option {
	return func(seater *satSeater) { seater.options.matchingLimit = limit }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(seater *satSeater) { seater.logger = logger }
}

type satSeater struct {
	solver  sat.Solver
	params  sat.Params
	options buildOptions
	logger  logrus.FieldLogger
}

func NewSeater(solver sat.Solver, opts ...Option) Seater {
	seater := &satSeater{
		solver:  solver,
		params:  sat.Params{Timeout: sat.DefaultTimeout, Workers: sat.DefaultWorkers},
		options: buildOptions{separationCap: DefaultSeparationCap},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(seater)
	}
	return seater
}

func (seater *satSeater) Seat(ctx context.Context, input ModelInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	logger := seater.logger.WithFields(logrus.Fields{"students": len(input.Students), "rooms": len(input.Rooms)})

	if len(input.Students) == 0 {
		return Result{Assignments: []Assignment{}, Outcome: Optimal, Summary: BuildSummary{SeatsPerRoom: map[string]int{}}}, nil
	}

	//** Build model
	built, summary, err := buildModel(input, seater.options)
	if err != nil {
		logger.WithError(err).Info("seating request rejected before solving")
		return Result{Summary: summary}, err
	}
	if summary.SeparationCapReached {
		logger.WithField("cap", summary.SeparationCap).Warn("separation cap reached, adjacent same-exam seating is no longer excluded everywhere")
	}

	//** Solve model
	params := seater.params
	if input.TimeoutSeconds > 0 {
		params.Timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}
	start := time.Now()
	solution, err := seater.solver.Solve(ctx, built.model, params)
	summary.SolveTime = time.Since(start)
	if err != nil {
		return Result{Summary: summary}, errors.Wrap(err, "engine failed")
	}
	summary.EngineStatus = solution.Status.String()
	summary.Objective = solution.Objective
	logger.WithFields(summary.Fields()).Debug("model solved")

	//** Extract assignments
	assignments, outcome, err := extract(solution, input, built.space)
	if err != nil {
		return Result{Summary: summary}, err
	}

	return Result{
		Assignments: assignments,
		Outcome:     outcome,
		RoomsUsed:   roomsUsed(assignments),
		Summary:     summary,
	}, nil
}

func (seater *satSeater) Verify(assignments []Assignment, input ModelInput) bool {
	return verify(assignments, input)
}

// Solve seats students with the default options and the given budget in seconds (zero for the default)
func Solve(ctx context.Context, solver sat.Solver, students []Student, rooms []Room, restrictions Restrictions, timeoutSeconds int) ([]Assignment, error) {
	result, err := NewSeater(solver).Seat(ctx, ModelInput{
		Students:       students,
		Rooms:          rooms,
		Restrictions:   restrictions,
		TimeoutSeconds: timeoutSeconds,
	})
	if err != nil {
		return nil, err
	}
	return result.Assignments, nil
}
