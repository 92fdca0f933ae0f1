package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveOptionsValidate(t *testing.T) {
	valid := func() solveOptions {
		return solveOptions{file: "input.json", solver: "GopherSat", timeout: 10, workers: 1, separationCap: 100}
	}

	t.Run("Normalizes the engine name", func(t *testing.T) {
		o := valid()

		require.NoError(t, o.validate())
		assert.Equal(t, "gophersat", o.solver)
	})

	t.Run("Unlimited separation", func(t *testing.T) {
		o := valid()
		o.separationCap = -1

		assert.NoError(t, o.validate())
	})

	for name, mutate := range map[string]func(o *solveOptions){
		"Unknown engine":   func(o *solveOptions) { o.solver = "minisat" },
		"Zero timeout":     func(o *solveOptions) { o.timeout = 0 },
		"Negative workers": func(o *solveOptions) { o.workers = -2 },
		"Cap below -1":     func(o *solveOptions) { o.separationCap = -5 },
	} {
		t.Run(name, func(t *testing.T) {
			o := valid()
			mutate(&o)

			assert.Error(t, o.validate())
		})
	}
}
