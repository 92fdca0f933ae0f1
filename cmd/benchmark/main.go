package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/limaJavier/examseating/pkg/model"
)

const (
	executablePath = "../../bin/seating"
	MB             = 1024.0
)

type ResultType int

const (
	solved ResultType = iota
	infeasible
	timeout
	rejected
)

var resultTypes = map[ResultType]string{
	solved:     "solved",
	infeasible: "infeasible",
	timeout:    "timeout",
	rejected:   "rejected",
}

type TestMetadata struct {
	Name     string
	Shape    InstanceShape
	Seed     uint64
	Students int
	Seats    int
}

type BenchmarkResult struct {
	Solver        string
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
	Outcome       string
}

func main() {
	solversFlag := flag.String("solvers", "gophersat,gini,portfolio", "Comma separated engines to benchmark")
	seeds := flag.Int("seeds", 3, "Random instances drawn per shape")
	timeoutFlag := flag.Int("timeout", 60, "Engine budget in seconds")
	outFlag := flag.String("out", "benchmark_results.csv", "CSV file to write")
	flag.Parse()

	directory, err := os.MkdirTemp("", "seating-benchmark-")
	if err != nil {
		log.Fatalf("cannot create instance directory: %v", err)
	}
	defer os.RemoveAll(directory)

	tests := getTests(directory, *seeds)
	solvers := strings.Split(*solversFlag, ",")
	results := make([]BenchmarkResult, 0, len(tests)*len(solvers))

	for _, test := range tests {
		for _, solver := range solvers {
			log.Infof("Benchmarking test \"%v\" with solver \"%v\"", test.Name, solver)

			results = append(results, measure(solver, *timeoutFlag, test))
		}
	}

	toCsv(*outFlag, results)
}

func getShapes() []InstanceShape {
	return []InstanceShape{
		{Students: 20, Exams: 3, Rooms: 2, Rows: 5, Cols: 6},
		{Students: 60, Exams: 4, Rooms: 4, Rows: 6, Cols: 8, Restricted: 0.5},
		{Students: 60, Exams: 4, Rooms: 4, Rows: 9, Cols: 11, Aisles: true},
		{Students: 150, Exams: 6, Rooms: 6, Rows: 8, Cols: 10, Restricted: 0.3},
		{Students: 300, Exams: 8, Rooms: 10, Rows: 8, Cols: 12, Restricted: 0.25},
	}
}

// getTests writes seeds random instances per shape into directory
func getTests(directory string, seeds int) []TestMetadata {
	tests := make([]TestMetadata, 0)
	for _, shape := range getShapes() {
		for seed := range uint64(seeds) {
			input := generate(shape, seed)
			filename, err := writeInstance(directory, fmt.Sprintf("%v-%d", shape, seed), input)
			if err != nil {
				log.Fatalf("cannot write instance: %v", err)
			}

			tests = append(tests, TestMetadata{
				Name:     filename,
				Shape:    shape,
				Seed:     seed,
				Students: len(input.Students),
				Seats: lo.SumBy(input.Rooms, func(room model.Room) int {
					return len(model.Seats(room))
				}),
			})
		}
	}
	return tests
}

func measure(solver string, timeoutSeconds int, test TestMetadata) BenchmarkResult {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "solve", "--solver", solver, "--timeout", strconv.Itoa(timeoutSeconds), "--file", test.Name, "--out", os.DevNull)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	result := BenchmarkResult{Solver: solver, Test: test}
	output := stdErr.String()
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result.Result = solved
		result.Outcome = lo.Ternary(strings.Contains(output, string(model.FeasibleSuboptimal)), string(model.FeasibleSuboptimal), string(model.Optimal))
	case 20:
		switch {
		case strings.Contains(output, "reason="+string(model.TimedOut)):
			result.Result = timeout
		case strings.Contains(output, "reason="+string(model.ProvenInfeasible)):
			result.Result = infeasible
		default:
			result.Result = rejected
		}
	default:
		log.Fatalf("an error occurred during the execution of \"seating\" at test \"%v\" using solver \"%v\": %v", test.Name, solver, output)
	}

	splits := strings.Split(output, "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	result.Duration = parseDurationLine(getLine("wall clock"))
	result.Memory = parseMemoryLine(getLine("maximum resident set size"))
	result.CpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))
	return result
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Solver", "Shape", "Seed", "Students", "Seats", "Exams", "Rooms", "Aisles", "Restricted", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result", "Outcome"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Solver,
			result.Test.Shape.String(),
			fmt.Sprintf("%d", result.Test.Seed),
			fmt.Sprintf("%d", result.Test.Students),
			fmt.Sprintf("%d", result.Test.Seats),
			fmt.Sprintf("%d", result.Test.Shape.Exams),
			fmt.Sprintf("%d", result.Test.Shape.Rooms),
			fmt.Sprintf("%v", result.Test.Shape.Aisles),
			fmt.Sprintf("%.2f", result.Test.Shape.Restricted),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
			result.Outcome,
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

// parseDurationLine reads the "Elapsed (wall clock) time (h:mm:ss or m:ss): 0:01.52" line of GNU time, in milliseconds
func parseDurationLine(line string) int64 {
	_, durationStr, found := strings.Cut(line, "(h:mm:ss or m:ss):")
	if !found {
		log.Fatalf("unexpected wall clock line: %v", line)
	}
	return parseDuration(strings.TrimSpace(durationStr))
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	seconds, hundredths, _ := strings.Cut(parts[len(parts)-1], ".")

	var total int64
	for _, part := range parts[:len(parts)-1] {
		total = total*60 + int64(lo.Must(strconv.Atoi(part)))
	}
	if len(parts) < 2 || len(parts) > 3 {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	total = total*60 + int64(lo.Must(strconv.Atoi(seconds)))
	return total*1000 + int64(lo.Must(strconv.Atoi(hundredths))*10)
}

// parseMemoryLine reads the maximum resident set size, reported by GNU time in KB
func parseMemoryLine(line string) float32 {
	_, memoryStr, _ := strings.Cut(line, ":")
	return float32(lo.Must(strconv.ParseFloat(strings.TrimSpace(memoryStr), 32)) / MB)
}

func parseCpuPercentageLine(line string) int64 {
	_, percentageStr, _ := strings.Cut(line, ":")
	return int64(lo.Must(strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(percentageStr), "%"))))
}
