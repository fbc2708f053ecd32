package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"nflverse/ingestion/internal/models"
)

// RunRequest describes one exporter invocation
type RunRequest struct {
	Seasons         []int                  `json:"seasons"`
	SummaryLevel    models.SummaryLevel    `json:"summary_level"`
	AdvstatsSummary models.AdvstatsSummary `json:"advstats_summary"`
	DBPath          string                 `json:"db_path"`
}

// Args builds the exporter command line for the request
func (r RunRequest) Args() []string {
	args := []string{
		"--summary-level", string(r.SummaryLevel),
		"--advstats-summary", string(r.AdvstatsSummary),
	}
	if r.DBPath != "" {
		args = append(args, "--db-path", r.DBPath)
	}
	for _, season := range r.Seasons {
		args = append(args, "--season", strconv.Itoa(season))
	}
	return args
}

// RunResult captures an exporter run: exit code and raw output, verbatim.
// The dashboard interprets nothing beyond exit code 0 vs non-zero.
type RunResult struct {
	ExitCode   int           `json:"exit_code"`
	Stdout     string        `json:"stdout"`
	Stderr     string        `json:"stderr"`
	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"started_at"`
	StartError string        `json:"start_error,omitempty"`
}

// Succeeded reports whether the run completed with exit code 0
func (r RunResult) Succeeded() bool {
	return r.StartError == "" && r.ExitCode == 0
}

// Runner executes the exporter
type Runner interface {
	Run(ctx context.Context, req RunRequest) RunResult
}

// ExecRunner runs the exporter binary as a subprocess, synchronously,
// capturing stdout, stderr and the exit code.
type ExecRunner struct {
	ExporterPath string
}

// Run implements Runner
func (e *ExecRunner) Run(ctx context.Context, req RunRequest) RunResult {
	result := RunResult{StartedAt: time.Now()}

	cmd := exec.CommandContext(ctx, e.ExporterPath, req.Args()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Duration = time.Since(result.StartedAt)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.StartError = err.Error()
			result.ExitCode = -1
		}
	}

	return result
}

// LocateExporter resolves the exporter binary path. An explicit override
// wins; otherwise the exporter is expected next to the dashboard's own
// executable. The path must exist.
func LocateExporter(override string) (string, error) {
	path := override
	if path == "" {
		self, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate own executable: %w", err)
		}
		path = filepath.Join(filepath.Dir(self), "exporter")
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("exporter not found at %s: %w", path, err)
	}
	return path, nil
}
