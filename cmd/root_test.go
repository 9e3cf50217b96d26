package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflow-sim/cashflow-sim/sim"
	"github.com/cashflow-sim/cashflow-sim/sim/scenario"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.WarnLevel)
	os.Exit(m.Run())
}

func TestLoadScenario_EmptyPathUsesDefault(t *testing.T) {
	s, err := loadScenario("")
	require.NoError(t, err)
	assert.Equal(t, scenario.Default(), s)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing default file is ignored", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(filepath.Join(dir, ".env"), false))
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		assert.Error(t, loadEnvFile(filepath.Join(dir, "custom.env"), true))
	})

	t.Run("present file populates unset variables", func(t *testing.T) {
		path := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(path, []byte("CASHFLOW_TEST_ENV_FILE=loaded\n"), 0o644))
		t.Cleanup(func() { _ = os.Unsetenv("CASHFLOW_TEST_ENV_FILE") })

		require.NoError(t, loadEnvFile(path, true))
		assert.Equal(t, "loaded", os.Getenv("CASHFLOW_TEST_ENV_FILE"))
	})
}

func TestApplyEnv_FillsOnlyUnsetFlags(t *testing.T) {
	// GIVEN a flag set with --log set explicitly and --scenario not set
	var level, path string
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringVar(&level, "log", "info", "")
	flags.StringVar(&path, "scenario", "", "")
	require.NoError(t, flags.Parse([]string{"--log", "debug"}))

	t.Setenv("CASHFLOW_LOG", "error")
	t.Setenv("CASHFLOW_SCENARIO", "plan.yaml")

	// WHEN the environment is applied
	require.NoError(t, applyEnv(flags))

	// THEN the command line wins and the environment fills the gap
	assert.Equal(t, "debug", level)
	assert.Equal(t, "plan.yaml", path)
}

func TestWriteDefaults_DecodesStrictly(t *testing.T) {
	// GIVEN the YAML printed by `defaults`
	var buf bytes.Buffer
	require.NoError(t, writeDefaults(&buf))

	// WHEN it is read back with strict decoding
	s, err := scenario.DecodeScenario(&buf)

	// THEN it is the built-in scenario
	require.NoError(t, err)
	assert.Equal(t, scenario.Default(), s)
}

func TestPrintResult_JSON(t *testing.T) {
	plan, err := scenario.Default().Build()
	require.NoError(t, err)
	res := plan.Run()

	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, plan, res))

	var rows []sim.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, res.Rows, rows)
}

func TestPrintResult_Table(t *testing.T) {
	plan, err := scenario.Default().Build()
	require.NoError(t, err)

	noColor = true
	t.Cleanup(func() { noColor = false })

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, plan, plan.Run()))
	out := buf.String()
	assert.Contains(t, out, "Set-25")
	assert.Contains(t, out, "Dic-26")
	assert.Contains(t, out, "Totale 2026")
}

func TestWriteCSVFile(t *testing.T) {
	plan, err := scenario.Default().Build()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, writeCSVFile(path, plan.Run().Rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 17)
}

func TestWriteSweepTable(t *testing.T) {
	points, err := scenario.Sweep(scenario.Default(), scenario.ParamMargin, []float64{30, 35}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeSweepTable(&buf, scenario.ParamMargin, points)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "margin")
	assert.Contains(t, lines[3], "349.600 €")
	assert.Contains(t, lines[3], "Nov-25")
}

func TestWriteSweepTable_NoLowestPeriod(t *testing.T) {
	var buf bytes.Buffer
	writeSweepTable(&buf, scenario.ParamMargin, []scenario.SweepPoint{{Value: 35}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], " - ")
	assert.NotContains(t, lines[2], sim.Period{}.Key())
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "-", periodLabel(sim.Period{}))
	assert.Equal(t, "Nov-25", periodLabel(sim.Period{Year: 2025, Month: 11}))
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "defaults", "sweep", "serve"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}
