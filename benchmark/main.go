// Package main provides a performance benchmarking tool for the sustain CLI.
// It measures how long `sustain score` takes on real repositories, once per
// worker count and history backend, treating the first successful run as cold
// and averaging the rest as warm, and writes the results as CSV.
//
// Prerequisites:
// - sustain binary installed and available in PATH
// - lizard, cloc and radon available in PATH
// - Test repositories cloned to the specified base directory
// - Repositories: csv-parser, fd, flask, cobra
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one repository, worker count and backend.
type BenchmarkResult struct {
	Repository string
	Workers    int
	Backend    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	Timeout   time.Duration
	Runs      int
	Workers   []int
	Backends  []string
	TestRepos []string
	RepoPaths map[string]string // subdirectory to score, empty means the whole repo
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:  os.Args[1],
		Timeout:   10 * time.Minute,
		Runs:      3,
		Workers:   []int{1, 4, 14},
		Backends:  []string{"none", "sqlite"},
		TestRepos: []string{"csv-parser", "fd", "flask", "cobra"},
		RepoPaths: map[string]string{
			"csv-parser": "python",
			"fd":         "src",
			"flask":      "src",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty history so sqlite timings include table creation once.
	fmt.Printf("Clearing history...\n")
	clearCmd := exec.Command("sustain", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binaries and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	for _, bin := range []string{"sustain", "lizard", "cloc", "radon"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s binary not found in PATH", bin)
		}
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, workers %v, %d runs each\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.Runs)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		target := config.RepoPaths[repo]
		if target == "" {
			target = "."
		}

		for _, backend := range config.Backends {
			for _, workers := range config.Workers {
				results = append(results, runBenchmarkSuite(config, repo, repoPath, target, backend, workers))
			}
		}
	}

	return results
}

// runBenchmarkSuite runs one configuration and summarizes its timings
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, target, backend string, workers int) BenchmarkResult {
	fmt.Printf("  score %s (backend %s, %d workers)\n", target, backend, workers)

	coldTime, warmTimes := runBenchmark(config, repoPath, target, backend, workers)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository: repo,
		Workers:    workers,
		Backend:    backend,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes sustain score several times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, repoPath, target, backend string, workers int) (coldTime float64, warmTimes []float64) {
	args := []string{"score", target, "--history-backend", backend, "--workers", strconv.Itoa(workers)}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("sustain", args...)
		cmd.Dir = repoPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/sustain_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "backend", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{result.Repository, result.Backend, strconv.Itoa(result.Workers), result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, backend := range []string{"none", "sqlite"} {
		fmt.Printf("History backend %s:\n", backend)
		for _, result := range results {
			if result.Backend == backend {
				fmt.Printf("  %-12s %2d workers: Cold: %s, Warm: %s\n", result.Repository, result.Workers, result.ColdTime, result.WarmTime)
			}
		}
	}
}
