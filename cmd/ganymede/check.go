package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/journal"
	"mercator-hq/ganymede/pkg/runner"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

var checkFlags struct {
	output string
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate an output file against the configured suites",
	Long: `Evaluate a JSON output file against every configured invariant suite.

The output file must contain a single JSON object. Every invariant in
every loaded suite is evaluated against it; the command exits non-zero
when any invariant at or above the blocking severity fails.

Examples:
  # Evaluate a response against ./suites.yaml
  ganymede check --output response.json

  # Human-readable report
  ganymede check --output response.json --format text`,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.output, "output", "o", "", "JSON file containing the output to evaluate (required)")
	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "json", "report format: json, text")
	checkCmd.MarkFlagRequired("output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(&cfg.Telemetry.Logging)

	output, err := readOutputFile(checkFlags.output)
	if err != nil {
		return err
	}

	evaluators, err := buildEvaluators(cfg, logger)
	if err != nil {
		return err
	}

	suiteSource, err := buildSuiteSource(&cfg.Suites, logger)
	if err != nil {
		return err
	}
	defer suiteSource.Close()

	runnerCfg := &runner.Config{
		FailMode:         runner.FailMode(cfg.Runner.FailMode),
		BlockingSeverity: invariant.Severity(cfg.Runner.BlockingSeverity),
		InvariantTimeout: cfg.Runner.InvariantTimeout,
		MaxInvariants:    cfg.Runner.MaxInvariants,
		Watch:            cfg.Suites.Watch,
	}

	var opts []runner.Option
	if cfg.Telemetry.Metrics.Enabled {
		opts = append(opts, runner.WithMetrics(
			metrics.NewEvaluationMetrics(&cfg.Telemetry.Metrics, prometheus.NewRegistry())))
	}
	if cfg.Journal.Enabled {
		j, err := journal.NewSQLiteJournal(&journal.SQLiteConfig{
			Path:         cfg.Journal.Path,
			MaxOpenConns: cfg.Journal.MaxOpenConns,
			MaxIdleConns: cfg.Journal.MaxIdleConns,
			WALMode:      true,
			BusyTimeout:  cfg.Journal.BusyTimeout,
		}, logger)
		if err != nil {
			return err
		}
		defer j.Close()
		opts = append(opts, runner.WithJournal(j))
	}

	r, err := runner.New(runnerCfg, suiteSource, evaluators, logger, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	report, err := r.Run(context.Background(), output)
	if err != nil {
		return err
	}

	if err := printReport(report, checkFlags.format); err != nil {
		return err
	}

	if !report.Passed {
		return fmt.Errorf("%d invariant(s) failed", report.FailureCount())
	}
	return nil
}

// readOutputFile reads and decodes the output object under evaluation.
func readOutputFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	var output map[string]any
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("output file is not a JSON object: %w", err)
	}
	return output, nil
}

func printReport(report *runner.Report, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)

	case "text":
		fmt.Printf("Run %s\n", report.RunID)
		for _, res := range report.Results {
			status := "PASS"
			if !res.Passed {
				status = "FAIL"
			}
			fmt.Printf("  [%s] %-8s %s: %s\n", status, res.Severity, res.InvariantName, res.Message)
		}
		verdict := "PASSED"
		if !report.Passed {
			verdict = "FAILED"
		}
		fmt.Printf("%s: %d invariants, %d failures (%s)\n",
			verdict, len(report.Results), report.FailureCount(), report.Duration.Round(time.Millisecond))
		return nil

	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}
