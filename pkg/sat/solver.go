package sat

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultTimeout = 120 * time.Second
	DefaultWorkers = 4
)

type Status int

const (
	Unknown Status = iota // Budget exhausted (or cancelled) before the engine could prove anything
	Optimal
	Feasible
	Infeasible
)

func (status Status) String() string {
	switch status {
	case Unknown:
		return "TIMEOUT_OR_UNKNOWN"
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	}
	return fmt.Sprintf("Status(%d)", int(status))
}

// HasValues reports whether a solution with this status carries a valuation
func (status Status) HasValues() bool {
	return status == Optimal || status == Feasible
}

type Params struct {
	Timeout time.Duration
	Workers int
}

func (params Params) withDefaults() Params {
	if params.Timeout <= 0 {
		params.Timeout = DefaultTimeout
	}
	if params.Workers <= 0 {
		params.Workers = DefaultWorkers
	}
	return params
}

type Solution struct {
	Status    Status
	Values    []bool // Values[i] is the value of variable i+1; only meaningful when Status.HasValues()
	Objective int
}

func (solution Solution) Value(v Var) bool {
	return valueOf(solution.Values, v)
}

type Solver interface {
	// Solve returns the best solution found within params.Timeout. Infeasibility and timeouts are reported through the
	// solution's status (these are valid outputs where error shall be nil); error is reserved for engine faults
	Solve(ctx context.Context, model *Model, params Params) (Solution, error)
}

// budget derives the context bounding a single Solve call
func budget(ctx context.Context, params Params) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, params.withDefaults().Timeout)
}
