package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cashflow-sim/cashflow-sim/sim/scenario"
)

// defaultsCmd prints the built-in scenario, as a starting point for edits
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in scenario as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaults(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func writeDefaults(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scenario.Default()); err != nil {
		return fmt.Errorf("encoding default scenario: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
