package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cashflow-sim/cashflow-sim/sim"
	"github.com/cashflow-sim/cashflow-sim/sim/report"
	"github.com/cashflow-sim/cashflow-sim/sim/scenario"
	"github.com/cashflow-sim/cashflow-sim/sim/trace"
)

var (
	// Persistent flags
	logLevel string // Log verbosity level
	envFile  string // Optional .env file with CASHFLOW_* variables

	// run / sweep flags
	scenarioPath string // Scenario YAML; empty means the built-in default
	csvPath      string // Write the ledger as CSV to this file
	reportYear   int    // Restrict the totals block to one year
	noColor      bool   // Disable ANSI colors in the table
	jsonOutput   bool   // Print rows as JSON instead of a table
)

// envBindings maps flag names to the environment variables that fill them
// when the flag is not given on the command line.
var envBindings = map[string]string{
	"log":      "CASHFLOW_LOG",
	"scenario": "CASHFLOW_SCENARIO",
	"addr":     "CASHFLOW_ADDR",
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cashflow-sim",
	Short: "Monthly cash-flow projection for a small business",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := applyEnv(cmd.Flags()); err != nil {
			logrus.Fatalf("%v", err)
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd projects the scenario and prints the ledger
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cash-flow projection",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		plan, err := s.Build()
		if err != nil {
			logrus.Fatalf("invalid scenario: %v", err)
		}
		logrus.Infof("Projecting %d months (%s..%s), initial cash %s",
			len(plan.Periods), first(plan.Periods), last(plan.Periods), report.FormatEUR(plan.Config.InitialCash))

		logrus.Debugf("Revenue over the horizon: %s", report.FormatEUR(plan.Inputs.Revenue.Sum(plan.Periods)))

		res := plan.Run()
		if err := res.Finite(); err != nil {
			logrus.Fatalf("projection out of range: %v", err)
		}
		if err := printResult(cmd.OutOrStdout(), plan, res); err != nil {
			logrus.Fatalf("writing output: %v", err)
		}
		if csvPath != "" {
			if err := writeCSVFile(csvPath, res.Rows); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("CSV written to %s", csvPath)
		}

		if d := trace.Summarize(res.Trace); d.TotalDrops > 0 {
			logrus.Infof("%d amounts fell outside the horizon (receivables %s, payables %s)",
				d.TotalDrops, report.FormatEUR(d.ReceivableDropped), report.FormatEUR(d.PayableDropped))
		}
		logrus.Infof("Projection complete. Final cash: %s", report.FormatEUR(res.FinalCash))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvFile reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is an error only
// when the user named it explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// applyEnv fills flags the user did not set from their environment variables.
func applyEnv(flags *pflag.FlagSet) error {
	for name, env := range envBindings {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("%s=%q: %w", env, v, err)
		}
		logrus.Debugf("--%s set from %s", name, env)
	}
	return nil
}

// loadScenario reads the scenario at path, or returns the built-in default.
func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		logrus.Debug("No scenario file given, using built-in defaults")
		return scenario.Default(), nil
	}
	return scenario.LoadScenario(path)
}

func printResult(w io.Writer, plan *scenario.Plan, res *sim.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Rows)
	}
	return report.WriteTable(w, res.Rows, report.TableOptions{
		Color:       !noColor,
		Year:        reportYear,
		InitialCash: plan.Config.InitialCash,
	})
}

func writeCSVFile(path string, rows []sim.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	if err := report.WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// periodLabel returns p's label, or "-" for the zero Period.
func periodLabel(p sim.Period) string {
	if p.IsZero() {
		return "-"
	}
	return p.Label()
}

func first(ps []sim.Period) string {
	if len(ps) == 0 {
		return "-"
	}
	return ps[0].Label()
}

func last(ps []sim.Period) string {
	if len(ps) == 0 {
		return "-"
	}
	return ps[len(ps)-1].Label()
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File with CASHFLOW_* environment variables, loaded when present")

	addScenarioFlag(runCmd)
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Also write the ledger as CSV to this file")
	runCmd.Flags().IntVar(&reportYear, "year", 0, "Show totals for this year only (0 = every year)")
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print rows as JSON")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

func addScenarioFlag(c *cobra.Command) {
	c.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (default: built-in scenario)")
}
