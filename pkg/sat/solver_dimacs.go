package sat

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// dimacsSolver drives a plain SAT engine (kissat, cadical, cryptominisat...) run as a separate process. The model is
// compiled to DIMACS-CNF once; minimization re-runs the engine with a unit clause bounding the objective
type dimacsSolver struct {
	name string
	args []string
}

// NewDimacsSolver looks name up in the file at ConfigPath. The engine must accept a DIMACS file as its last argument,
// print the model in "v" lines and exit with 10 (satisfiable) or 20 (unsatisfiable)
func NewDimacsSolver(name string, args ...string) Solver {
	return &dimacsSolver{name: name, args: args}
}

func (solver *dimacsSolver) Solve(ctx context.Context, model *Model, params Params) (Solution, error) {
	ctx, cancel := budget(ctx, params)
	defer cancel()

	path, err := getExecutablePath(solver.name)
	if err != nil {
		return Solution{}, err
	}

	encoding, err := newCnfEncoding(model)
	if err != nil {
		return Solution{}, err
	}
	cnf := &dimacs{variables: encoding.c.Len() - 1}
	encoding.toCnf(cnf)

	var best *Solution
	units := []z.Lit{}
	for {
		assignment, status, err := solver.run(ctx, path, cnf.render(units...), cnf.variables)
		if err != nil {
			return Solution{}, err
		}

		switch status {
		case satisfiable:
			values := encoding.values(func(m z.Lit) bool {
				return assignment[m.Var()] == m.IsPos()
			})
			best = &Solution{Status: Feasible, Values: values, Objective: model.Cost(values)}
			if encoding.cost == nil || best.Objective <= model.LowerBound() {
				best.Status = Optimal
				return *best, nil
			}
			units = []z.Lit{encoding.costAtMost(best.Objective - 1)}
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

// run executes the engine once over cnf. The returned assignment is indexed by variable
func (solver *dimacsSolver) run(ctx context.Context, path string, cnf string, variables int) ([]bool, int, error) {
	// Create a temporary file to hold the DIMACS content
	tmpFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(cnf); err != nil {
		tmpFile.Close()
		return nil, 0, errors.Wrap(err, "failed to write DIMACS to temporary file")
	}
	if err := tmpFile.Close(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to close temporary file")
	}

	cmd := exec.CommandContext(ctx, path, append(append([]string{}, solver.args...), tmpFile.Name())...)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, 0, nil
	}
	exitCode := cmd.ProcessState.ExitCode()
	if err != nil && exitCode != exitSatisfiable && exitCode != exitUnsatisfiable {
		return nil, 0, errors.Wrapf(err, "an error occurred during %v execution: %v", solver.name, stderr.String())
	} else if exitCode == exitUnsatisfiable {
		return nil, unsatisfiable, nil
	}

	output, err := parseOutput(stdOut.String(), variables)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "cannot parse %v output", solver.name)
	}
	// Index by variable rather than by variable-1
	return append([]bool{false}, output.values...), satisfiable, nil
}
