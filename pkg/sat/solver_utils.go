package sat

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ConfigPath locates the JSON file mapping external engine names to executable paths
var ConfigPath = "../../config.json"

// engineOutput is what an external pseudo-boolean engine reports on its standard output
type engineOutput struct {
	status string // Text following the "s " line, e.g. "OPTIMUM FOUND"
	values []bool
}

// parseOutput reads the competition output format: an "s <STATUS>" line and any number of "v" lines holding the
// literals of the model, either as x3/-x3 or as plain integers
func parseOutput(output string, variables int) (engineOutput, error) {
	lines := strings.Split(output, "\n")

	statusLine, _ := lo.Find(lines, func(line string) bool {
		return strings.HasPrefix(line, "s ")
	})
	result := engineOutput{status: strings.TrimSpace(strings.TrimPrefix(statusLine, "s "))}

	literals := lo.Reduce(
		lo.Filter(lines, func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(literals []string, line string, _ int) []string {
			return append(literals, strings.Fields(line[1:])...)
		},
		[]string{},
	)

	result.values = make([]bool, variables)
	for _, literal := range literals {
		negated := strings.HasPrefix(literal, "-")
		index, err := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(literal, "-"), "x"))
		if err != nil {
			return engineOutput{}, errors.Errorf("invalid literal %q in engine output", literal)
		}
		if index == 0 {
			continue // DIMACS-style terminator
		}
		if index > variables {
			return engineOutput{}, errors.Errorf("literal %q is out of range (%d variables)", literal, variables)
		}
		result.values[index-1] = !negated
	}
	return result, nil
}

func getExecutablePath(solver string) (string, error) {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read config file %v", ConfigPath)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return "", errors.Wrapf(err, "cannot parse config file %v", ConfigPath)
	}

	var config map[string]string
	if err := mapstructure.Decode(inputJson, &config); err != nil {
		return "", errors.Wrapf(err, "cannot decode config file %v", ConfigPath)
	}

	path, ok := config[solver]
	if !ok {
		return "", errors.Errorf("solver \"%v\" is not present in config", solver)
	}
	return path, nil
}
