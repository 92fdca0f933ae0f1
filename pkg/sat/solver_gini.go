package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

var giniPollInterval = 10 * time.Millisecond

// giniSolver runs the CNF encoding in process and minimizes the objective by assuming ever tighter bounds on the
// objective's sorting network
type giniSolver struct{}

func NewGiniSolver() Solver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, model *Model, params Params) (Solution, error) {
	ctx, cancel := budget(ctx, params)
	defer cancel()

	encoding, err := newCnfEncoding(model)
	if err != nil {
		return Solution{}, err
	}
	g := gini.NewV(encoding.c.Len())
	encoding.toCnf(g)

	var best *Solution
	for {
		switch solver.run(ctx, g) {
		case satisfiable:
			values := encoding.values(func(m z.Lit) bool {
				// Variables that never reached the engine are unconstrained
				return m.Var() <= g.MaxVar() && g.Value(m)
			})
			best = &Solution{Status: Feasible, Values: values, Objective: model.Cost(values)}
			if encoding.cost == nil || best.Objective <= model.LowerBound() {
				best.Status = Optimal
				return *best, nil
			}
			// Solve consumes the assumption, so it is renewed on every round
			g.Assume(encoding.costAtMost(best.Objective - 1))
		case unsatisfiable:
			if best == nil {
				return Solution{Status: Infeasible}, nil
			}
			best.Status = Optimal
			return *best, nil
		default:
			if best == nil {
				return Solution{Status: Unknown}, nil
			}
			return *best, nil
		}
	}
}

// run solves on a background goroutine until a result is ready or ctx is over, in which case the search is stopped
func (solver *giniSolver) run(ctx context.Context, g *gini.Gini) int {
	if ctx.Err() != nil {
		return 0
	}

	solve := g.GoSolve()
	ticker := time.NewTicker(giniPollInterval)
	defer ticker.Stop()
	for {
		if result, ok := solve.Test(); ok {
			return result
		}
		select {
		case <-ctx.Done():
			return solve.Stop()
		case <-ticker.C:
		}
	}
}
