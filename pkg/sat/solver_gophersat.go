package sat

import (
	"context"
	"runtime"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"
)

// ErrEngineBusy is returned when an engine refuses a search because too many are already running
var ErrEngineBusy = errors.New("engine busy")

// gophersatSearches bounds the gophersat searches alive in the process, abandoned ones included
var gophersatSearches = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))

// gophersatSolver minimizes by bound tightening: every satisfying model of cost c is followed by a fresh search
// under the extra constraint objective <= c-1, until the engine proves no cheaper model exists
type gophersatSolver struct {
	searches *semaphore.Weighted
}

// NewGophersatSolver shares the process-wide search limit
func NewGophersatSolver() Solver {
	return &gophersatSolver{searches: gophersatSearches}
}

// NewLimitedGophersatSolver allows at most searches live searches of its own
func NewLimitedGophersatSolver(searches int64) Solver {
	return &gophersatSolver{searches: semaphore.NewWeighted(searches)}
}

type gophersatStep struct {
	values []bool
	cost   int
	last   bool // No further improvement is possible (either proven optimal or proven infeasible)
}

func (solver *gophersatSolver) Solve(ctx context.Context, model *Model, params Params) (Solution, error) {
	ctx, cancel := budget(ctx, params)
	defer cancel()

	// A running gophersat search cannot be interrupted; once the budget is over the goroutine is abandoned and exits
	// as soon as its current search returns. It keeps its slot until then, so abandoned searches cannot pile up
	if !solver.searches.TryAcquire(1) {
		return Solution{}, ErrEngineBusy
	}

	steps := make(chan gophersatStep)
	go func() {
		defer close(steps)
		defer solver.searches.Release(1)
		bound := []Constraint{}
		for {
			// Parsed clauses keep (and may reorder) the weight slices they were built from, so constraints are rebuilt on every round
			constraints := toPBConstrs(append(lo.Slice(model.Constraints, 0, len(model.Constraints)), bound...))
			instance := gophersat.New(gophersat.ParsePBConstrs(constraints))
			if instance.Solve() != gophersat.Sat {
				select {
				case steps <- gophersatStep{last: true}:
				case <-ctx.Done():
				}
				return
			}

			values := instance.Model()
			cost := model.Cost(values)
			last := !model.HasObjective() || cost <= model.LowerBound()
			select {
			case steps <- gophersatStep{values: values, cost: cost, last: last}:
			case <-ctx.Done():
				return
			}
			if last {
				return
			}

			bound = []Constraint{{Terms: model.Objective, Operator: LessOrEqual, Bound: cost - 1}}
		}
	}()

	// finished waits for the search to hand its slot back
	finished := func() {
		for range steps {
		}
	}

	var best *Solution
	for {
		select {
		case step, ok := <-steps:
			if !ok || step.last && step.values == nil {
				finished()
				if best == nil {
					return Solution{Status: Infeasible}, nil
				}
				best.Status = Optimal
				return *best, nil
			}
			best = &Solution{Status: Feasible, Values: padValues(step.values, model.Variables), Objective: step.cost}
			if step.last {
				finished()
				best.Status = Optimal
				return *best, nil
			}
		case <-ctx.Done():
			if best == nil {
				return Solution{Status: Unknown}, nil
			}
			return *best, nil
		}
	}
}

func toPBConstrs(constraints []Constraint) []gophersat.PBConstr {
	result := make([]gophersat.PBConstr, 0, len(constraints))
	for _, constraint := range constraints {
		// gophersat's constructors take ownership of (and negate) the slices they receive, so every call gets fresh ones
		lits := func() []int {
			return lo.Map(constraint.Terms, func(term Term, _ int) int { return int(term.Var) })
		}
		weights := func() []int {
			return lo.Map(constraint.Terms, func(term Term, _ int) int { return term.Coefficient })
		}

		switch constraint.Operator {
		case LessOrEqual:
			result = append(result, gophersat.LtEq(lits(), weights(), constraint.Bound))
		case GreaterOrEqual:
			result = append(result, gophersat.GtEq(lits(), weights(), constraint.Bound))
		case Equal:
			result = append(result, gophersat.Eq(lits(), weights(), constraint.Bound)...)
		}
	}
	return result
}

// padValues stretches an engine model to cover every variable; variables the engine never saw are false
func padValues(values []bool, variables int) []bool {
	if len(values) >= variables {
		return values[:variables]
	}
	padded := make([]bool, variables)
	copy(padded, values)
	return padded
}
