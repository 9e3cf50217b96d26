package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cashflow-sim/cashflow-sim/sim/report"
	"github.com/cashflow-sim/cashflow-sim/sim/scenario"
)

var (
	sweepParam string  // Parameter to vary
	sweepFrom  float64 // First value
	sweepTo    float64 // Last value (inclusive)
	sweepStep  float64 // Increment
)

// sweepCmd re-runs the projection across a range of one parameter
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Re-run the projection over a range of one parameter",
	Run: func(cmd *cobra.Command, args []string) {
		param, err := scenario.ParseSweepParam(sweepParam)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		values, err := scenario.SweepValues(sweepFrom, sweepTo, sweepStep)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		base, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		bar := progressbar.Default(int64(len(values)), "sweep "+string(param))
		points, err := scenario.Sweep(base, param, values, func(int, scenario.SweepPoint) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(points); err != nil {
				logrus.Fatalf("writing output: %v", err)
			}
			return
		}
		writeSweepTable(cmd.OutOrStdout(), param, points)
		logrus.Infof("Sweep complete: %d runs", len(points))
	},
}

func writeSweepTable(w io.Writer, param scenario.SweepParam, points []scenario.SweepPoint) {
	fmt.Fprintf(w, "%-22s %16s %16s %8s %6s\n", param, "Cassa finale", "Minimo", "Mese", "NEG")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, p := range points {
		fmt.Fprintf(w, "%-22g %16s %16s %8s %6d\n",
			p.Value, report.FormatEUR(p.FinalCash), report.FormatEUR(p.LowestCash), periodLabel(p.LowestPeriod), p.NegativeMonths)
	}
}

func init() {
	sweepCmd.Flags().StringVar(&sweepParam, "param", string(scenario.ParamMargin),
		fmt.Sprintf("Parameter to vary (%v)", scenario.SweepParams))
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 20, "First value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 50, "Last value (inclusive)")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 5, "Increment between values")
	sweepCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	addScenarioFlag(sweepCmd)

	rootCmd.AddCommand(sweepCmd)
}
