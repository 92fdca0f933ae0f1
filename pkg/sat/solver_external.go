package sat

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Exit codes of the pseudo-boolean competition format
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
	exitOptimum       = 30
)

// externalSolver runs a pseudo-boolean engine as a separate process over an OPB file. The engine is looked up by name
// in the file at ConfigPath
type externalSolver struct {
	name string
	args []string
}

func NewExternalSolver(name string, args ...string) Solver {
	return &externalSolver{name: name, args: args}
}

func (solver *externalSolver) Solve(ctx context.Context, model *Model, params Params) (Solution, error) {
	ctx, cancel := budget(ctx, params)
	defer cancel()

	path, err := getExecutablePath(solver.name)
	if err != nil {
		return Solution{}, err
	}

	// Create a temporary file to hold the OPB content
	tmpFile, err := os.CreateTemp("", "seating-*.opb")
	if err != nil {
		return Solution{}, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(model.ToOPB()); err != nil {
		tmpFile.Close()
		return Solution{}, errors.Wrap(err, "failed to write OPB to temporary file")
	}
	if err := tmpFile.Close(); err != nil {
		return Solution{}, errors.Wrap(err, "failed to close temporary file")
	}

	cmd := exec.CommandContext(ctx, path, append(append([]string{}, solver.args...), tmpFile.Name())...)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		// Killed by the budget
		return Solution{Status: Unknown}, nil
	}
	exitCode := cmd.ProcessState.ExitCode()
	if err != nil && exitCode != exitSatisfiable && exitCode != exitUnsatisfiable && exitCode != exitOptimum {
		return Solution{}, errors.Wrapf(err, "an error occurred during %v execution: %v", solver.name, stderr.String())
	}

	output, err := parseOutput(stdOut.String(), model.Variables)
	if err != nil {
		return Solution{}, errors.Wrapf(err, "cannot parse %v output", solver.name)
	}

	switch {
	case exitCode == exitUnsatisfiable || output.status == "UNSATISFIABLE":
		return Solution{Status: Infeasible}, nil
	case exitCode == exitOptimum || output.status == "OPTIMUM FOUND":
		return Solution{Status: Optimal, Values: output.values, Objective: model.Cost(output.values)}, nil
	case exitCode == exitSatisfiable || output.status == "SATISFIABLE":
		status := Feasible
		if !model.HasObjective() {
			status = Optimal
		}
		return Solution{Status: status, Values: output.values, Objective: model.Cost(output.values)}, nil
	}
	return Solution{Status: Unknown}, nil
}
