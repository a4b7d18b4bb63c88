package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-performance/internal/types"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type BacktestCmdTestSuite struct {
	suite.Suite
	tempDir   string
	pricePath string
}

func TestBacktestCmdSuite(t *testing.T) {
	suite.Run(t, new(BacktestCmdTestSuite))
}

func (suite *BacktestCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.pricePath = suite.writeFile("prices.csv",
		"time,close\n2024-01-01 00:00:00,100\n2024-01-02 00:00:00,110\n2024-01-03 00:00:00,121\n")
}

func (suite *BacktestCmdTestSuite) writeFile(name string, content string) string {
	path := filepath.Join(suite.tempDir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

func (suite *BacktestCmdTestSuite) run(args ...string) ([]types.PerformanceStats, error) {
	var out bytes.Buffer

	err := newCommand(&out).Run(context.Background(), append([]string{"backtest", "run", "--quiet"}, args...))
	if err != nil {
		return nil, err
	}

	var stats []types.PerformanceStats
	suite.Require().NoError(yaml.Unmarshal(out.Bytes(), &stats))

	return stats, nil
}

func (suite *BacktestCmdTestSuite) TestRunSignalGlob() {
	signalDir := filepath.Join(suite.tempDir, "signals")
	suite.Require().NoError(os.MkdirAll(signalDir, 0o755))
	suite.writeFile("signals/flat.csv", "time,signal\n2024-01-01 00:00:00,0\n")
	suite.writeFile("signals/long.csv",
		"time,signal\n2024-01-01 00:00:00,1\n2024-01-02 00:00:00,1\n2024-01-03 00:00:00,1\n")

	resultsDir := filepath.Join(suite.tempDir, "results")

	stats, err := suite.run(
		"--prices", suite.pricePath,
		"--signals", filepath.Join(signalDir, "*.csv"),
		"--results", resultsDir,
		"--initial-capital", "10000",
		"--cost-bps", "10",
	)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 2)

	// glob results are sorted: flat.csv then long.csv
	suite.Equal(0.0, stats[0].TotalReturn)
	suite.Equal(10000.0, stats[0].FinalEquity)
	suite.InDelta(0.21, stats[1].TotalReturn, 1e-9)
	suite.Equal(0.001, stats[1].CostRate)

	for _, s := range stats {
		suite.FileExists(s.CurveFilePath)
	}
}

func (suite *BacktestCmdTestSuite) TestRunWithoutSignals() {
	stats, err := suite.run("--prices", suite.pricePath)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 1)
	suite.Equal(0.0, stats[0].TotalReturn)
	suite.Equal(100000.0, stats[0].FinalEquity)
}

func (suite *BacktestCmdTestSuite) TestRunVerboseKeepsStdoutClean() {
	r, w, err := os.Pipe()
	suite.Require().NoError(err)

	stdout := os.Stdout
	os.Stdout = w
	stats, runErr := suite.run("--prices", suite.pricePath, "--verbose")
	os.Stdout = stdout

	suite.Require().NoError(w.Close())
	leaked, err := io.ReadAll(r)
	suite.Require().NoError(err)

	suite.Require().NoError(runErr)
	suite.Len(stats, 1)
	suite.Empty(string(leaked))
}

func (suite *BacktestCmdTestSuite) TestRunWithConfigFile() {
	configPath := suite.writeFile("config.yaml", "initial_capital: 2000\ncost_model: zero\n")
	signalPath := suite.writeFile("signal.csv", "time,signal\n2024-01-01 00:00:00,1\n")

	stats, err := suite.run("--prices", suite.pricePath, "--signals", signalPath, "--config", configPath)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 1)
	suite.Equal(2000.0, stats[0].InitialCapital)
	suite.Equal("zero", stats[0].CostModel)
	// only the first bar is long: one period of +10%
	suite.InDelta(2200, stats[0].FinalEquity, 1e-6)
}

func (suite *BacktestCmdTestSuite) TestRunErrors() {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Both cost flags", args: []string{"--cost-rate", "0.001", "--cost-bps", "10"}},
		{name: "No matching signals", args: []string{"--signals", "/nonexistent/*.csv"}},
		{name: "Negative capital", args: []string{"--initial-capital", "-5"}},
		{name: "Missing price file", args: []string{"--prices", "/nonexistent/prices.csv"}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			args := tc.args
			if len(args) == 0 || args[0] != "--prices" {
				args = append([]string{"--prices", suite.pricePath}, args...)
			}

			_, err := suite.run(args...)
			suite.Error(err)
		})
	}
}

func (suite *BacktestCmdTestSuite) TestSchema() {
	var out bytes.Buffer

	err := newCommand(&out).Run(context.Background(), []string{"backtest", "schema"})
	suite.Require().NoError(err)
	suite.Contains(out.String(), "performance-config")
	suite.Contains(out.String(), "cost_rate")
}
