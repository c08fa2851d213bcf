package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/invariant/callable"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and suite files",
	Long: `Validate the configuration file and every configured invariant suite
without evaluating anything.

For custom invariants this checks that the callable path parses, that it
is covered by the allow-list, and that it resolves to a registered
validator. No validator is ever invoked.

Examples:
  # Validate the default configuration
  ganymede validate

  # Validate a specific configuration file
  ganymede validate --config /path/to/config.yaml`,
	RunE:         runValidate,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(&cfg.Telemetry.Logging)

	suiteSource, err := buildSuiteSource(&cfg.Suites, logger)
	if err != nil {
		return err
	}
	defer suiteSource.Close()

	suites, err := suiteSource.LoadSuites(context.Background())
	if err != nil {
		return err
	}

	// Build the same evaluator set check would use; its allow-list and
	// registry drive the custom-invariant dry run below.
	evaluators, err := buildEvaluators(cfg, logger)
	if err != nil {
		return err
	}
	var custom *callable.Evaluator
	for _, ev := range evaluators {
		if c, ok := ev.(*callable.Evaluator); ok {
			custom = c
		}
	}

	problems := 0
	total := 0
	for _, suite := range suites {
		for _, inv := range suite.Invariants {
			total++
			if inv.Kind != invariant.KindCustom {
				continue
			}
			if err := dryRunCustom(custom, inv); err != nil {
				problems++
				fmt.Printf("  %s / %s: %v\n", suite.Name, inv.Name, err)
			}
		}
	}

	fmt.Printf("validated %d suite(s), %d invariant(s)\n", len(suites), total)
	if problems > 0 {
		return fmt.Errorf("%d custom invariant(s) failed validation", problems)
	}
	fmt.Println("configuration and suites are valid")
	return nil
}

// dryRunCustom checks a custom invariant's callable path end to end,
// stopping short of invocation.
func dryRunCustom(custom *callable.Evaluator, inv *invariant.Invariant) error {
	raw, ok := inv.Config[callable.ConfigKeyCallablePath].(string)
	if !ok {
		return fmt.Errorf("config key %q is missing or not a string", callable.ConfigKeyCallablePath)
	}

	path, err := callable.ParsePath(raw)
	if err != nil {
		return err
	}
	if !custom.AllowList().Allows(path) {
		return &callable.NotAllowedError{Path: raw}
	}
	if _, err := custom.Registry().Resolve(path); err != nil {
		return err
	}
	return nil
}
