package sat

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Names of the engines looked up in the file at ConfigPath
const (
	RoundingSat   = "roundingsat"
	Kissat        = "kissat"
	Cadical       = "cadical"
	Cryptominisat = "cryptominisat"
)

var solvers = map[string]func() Solver{
	"gophersat": NewGophersatSolver,
	"gini":      NewGiniSolver,
	"portfolio": func() Solver {
		return NewPortfolioSolver(NewGophersatSolver(), NewGiniSolver())
	},
	"external":    func() Solver { return NewExternalSolver(RoundingSat) },
	Kissat:        func() Solver { return NewDimacsSolver(Kissat, "-q") },
	Cadical:       func() Solver { return NewDimacsSolver(Cadical, "-q") },
	Cryptominisat: func() Solver { return NewDimacsSolver(Cryptominisat, "--verb", "0") },
}

// SolverNames lists every engine NewSolver accepts, sorted
func SolverNames() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

func NewSolver(name string) (Solver, error) {
	constructor, ok := solvers[name]
	if !ok {
		return nil, errors.Errorf("%v is not a valid solver (allowed: %v)", name, SolverNames())
	}
	return constructor(), nil
}
