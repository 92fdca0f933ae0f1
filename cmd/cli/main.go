package main

import (
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/limaJavier/examseating/pkg/sat"
)

// Exit codes of the solve command
const (
	exitSolved       = 10
	exitFailed       = 20
	exitVerification = 15
)

func main() {
	var debug bool
	var solverConfig string

	rootCmd := &cobra.Command{
		Use:          "seating",
		Short:        "Seats students of concurrent exams across rooms",
		Long:         `Builds a boolean model of an exam seating request and solves it with a constraint engine, opening as few rooms as possible.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			setConfigPath(solverConfig)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&solverConfig, "solver-config", "", "JSON file mapping external engine names to executables; defaults to config.json next to the executable")

	rootCmd.AddCommand(newSolveCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setConfigPath points the external engines at the given file or, failing that, at config.json next to the executable
func setConfigPath(file string) {
	if file != "" {
		sat.ConfigPath = file
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		log.Debugf("cannot determine executable path: %v", err)
		return
	}
	candidate := path.Join(path.Dir(execPath), "config.json")
	if _, err := os.Stat(candidate); err != nil {
		log.Debugf("config.json file was not found next to the executable, external engines are unavailable")
		return
	}
	sat.ConfigPath = candidate
}
