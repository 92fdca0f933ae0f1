package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/limaJavier/examseating/pkg/sat"
)

type solveOptions struct {
	file          string
	out           string
	solver        string
	timeout       int
	workers       int
	separationCap int
	tightLinking  bool
	matchingLimit int
	layout        bool
}

func newSolveCmd() *cobra.Command {
	o := solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Seats the students of an input file",
		Long: `Seats the students of an input file and prints the assignments as JSON.
Exits with 10 when a seating was found, 20 when none exists or none was found in time, and 15 when the seating fails verification.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			code := o.run(ctx)
			cancel()
			os.Exit(code)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.file, "file", "", "Path to the input file")
	cmd.Flags().StringVar(&o.out, "out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	cmd.Flags().StringVar(&o.solver, "solver", "gophersat", fmt.Sprintf("Engine to use. Allowed values are: %v", strings.Join(sat.SolverNames(), ", ")))
	cmd.Flags().IntVar(&o.timeout, "timeout", int(sat.DefaultTimeout/time.Second), "Engine budget in seconds; the input's timeout_seconds takes precedence")
	cmd.Flags().IntVar(&o.workers, "workers", sat.DefaultWorkers, "Parallel workers available to the engine")
	cmd.Flags().IntVar(&o.separationCap, "separation-cap", model.DefaultSeparationCap, "Maximum number of separation constraints, -1 for no limit")
	cmd.Flags().BoolVar(&o.tightLinking, "tight-linking", false, "Forbid opening rooms that end up empty")
	cmd.Flags().IntVar(&o.matchingLimit, "matching-limit", 0, "Run the eligibility matching check when students*seats does not exceed this value; 0 disables it")
	cmd.Flags().BoolVar(&o.layout, "layout", false, "Render the seating of every room to the Standard Error")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		log.Panic(err.Error())
	}

	return cmd
}

func (o *solveOptions) validate() error {
	o.solver = strings.ToLower(o.solver)
	if !slices.Contains(sat.SolverNames(), o.solver) {
		return fmt.Errorf("%v is not a valid solver", o.solver)
	} else if o.timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %v", o.timeout)
	} else if o.workers <= 0 {
		return fmt.Errorf("workers must be positive: %v", o.workers)
	} else if o.separationCap < model.NoSeparationCap {
		return fmt.Errorf("separation-cap must be %v or greater: %v", model.NoSeparationCap, o.separationCap)
	}
	return nil
}

// run solves the input file and returns the process exit code
func (o *solveOptions) run(ctx context.Context) int {
	// Extract input
	input, err := model.InputFromJson(o.file)
	if err != nil {
		log.Errorf("cannot parse input file: %v", err)
		return 1
	}

	// Initialize engines
	solver, err := sat.NewSolver(o.solver)
	if err != nil {
		log.Error(err)
		return 1
	}
	options := []model.Option{
		model.WithTimeout(time.Duration(o.timeout) * time.Second),
		model.WithWorkers(o.workers),
		model.WithSeparationCap(o.separationCap),
		model.WithTightLinking(o.tightLinking),
	}
	if o.matchingLimit > 0 {
		options = append(options, model.WithMatchingCheck(o.matchingLimit))
	}
	seater := model.NewSeater(solver, options...)

	// Build seating
	result, err := seater.Seat(ctx, input)
	if reason, ok := model.ReasonOf(err); ok {
		log.WithFields(result.Summary.Fields()).WithField("reason", reason).Error(err)
		return exitFailed
	} else if err != nil {
		log.Errorf("an error occurred during seating construction: %v", err)
		return 1
	}
	log.WithFields(result.Summary.Fields()).Infof("%v seating opening %v room(s)", result.Outcome, result.RoomsUsed)

	// Verify seating correctness
	if !seater.Verify(result.Assignments, input) {
		log.Error("seating failed verification")
		return exitVerification
	}
	if violations := model.SeparationViolations(result.Assignments, input); len(violations) > 0 {
		log.Warnf("%v pair(s) of same-exam students sit side by side", len(violations))
	}

	if o.layout {
		if err := model.RenderLayout(os.Stderr, result.Assignments, input); err != nil {
			log.Errorf("cannot render layout: %v", err)
		}
	}

	// Marshal output into json
	resultJson, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Errorf("an error occurred while building output json: %v", err)
		return 1
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if o.out == "" {
		fmt.Println(string(resultJson))
	} else if err := os.WriteFile(o.out, resultJson, 0666); err != nil {
		log.Errorf("an error occurred while writing to the output file: %v", err)
		return 1
	}
	return exitSolved
}
