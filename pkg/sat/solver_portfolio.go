package sat

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// portfolioSolver races its members on the same model, at most params.Workers at a time. The first member that proves
// optimality or infeasibility ends the race; otherwise the cheapest feasible solution wins
type portfolioSolver struct {
	members []Solver
}

func NewPortfolioSolver(members ...Solver) Solver {
	return &portfolioSolver{members: members}
}

func (solver *portfolioSolver) Solve(ctx context.Context, model *Model, params Params) (Solution, error) {
	if len(solver.members) == 0 {
		return Solution{}, errors.New("portfolio has no members")
	}

	params = params.withDefaults()
	ctx, cancel := budget(ctx, params)
	defer cancel()

	solutions := make([]Solution, len(solver.members))
	failures := make([]error, len(solver.members))

	var group errgroup.Group
	group.SetLimit(params.Workers)
	for i, member := range solver.members {
		group.Go(func() error {
			solution, err := member.Solve(ctx, model, Params{Timeout: params.Timeout, Workers: 1})
			if err != nil {
				failures[i] = err
				return nil
			}
			solutions[i] = solution
			if solution.Status == Optimal || solution.Status == Infeasible {
				cancel()
			}
			return nil
		})
	}
	_ = group.Wait()

	var best *Solution
	for i := range solutions {
		solution := solutions[i]
		if failures[i] != nil {
			continue
		}
		switch solution.Status {
		case Optimal, Infeasible:
			return solution, nil
		case Feasible:
			if best == nil || solution.Objective < best.Objective {
				best = &solution
			}
		}
	}
	if best != nil {
		return *best, nil
	}

	if allFailed(failures) {
		return Solution{}, errors.Wrap(failures[0], "every portfolio member failed")
	}
	return Solution{Status: Unknown}, nil
}

func allFailed(failures []error) bool {
	for _, err := range failures {
		if err == nil {
			return false
		}
	}
	return true
}
