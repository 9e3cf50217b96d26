package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cashflow-sim/cashflow-sim/sim"
	"github.com/cashflow-sim/cashflow-sim/sim/report"
	"github.com/cashflow-sim/cashflow-sim/sim/scenario"
	"github.com/cashflow-sim/cashflow-sim/sim/trace"
)

// SimulateResponse is the body of POST /v1/simulate.
type SimulateResponse struct {
	RunID       string              `json:"run_id"`
	Rows        []sim.Row           `json:"rows"`
	FinalCash   float64             `json:"final_cash"`
	Totals      map[int]sim.Totals  `json:"totals"`
	Diagnostics *trace.TraceSummary `json:"diagnostics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func defaultScenario(c *gin.Context) {
	c.JSON(http.StatusOK, scenario.Default())
}

func simulateJSON(c *gin.Context) {
	res, ok := run(c)
	if !ok {
		return
	}
	totals := make(map[int]sim.Totals)
	for _, y := range sim.Years(res.Rows) {
		totals[y] = sim.Summarize(res.Rows, sim.InYear(y))
	}
	c.JSON(http.StatusOK, SimulateResponse{
		RunID:       c.GetString(runIDKey),
		Rows:        res.Rows,
		FinalCash:   res.FinalCash,
		Totals:      totals,
		Diagnostics: trace.Summarize(res.Trace),
	})
}

func simulateCSV(c *gin.Context) {
	res, ok := run(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, res.Rows); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.CSVFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// run decodes the request scenario, builds it and runs the engine. An empty
// body runs the default scenario. A projection that overflows is rejected
// with 422. On failure the response is already written.
func run(c *gin.Context) (*sim.Result, bool) {
	s, err := decodeScenario(c.Request.Body)
	if err != nil {
		logrus.Debugf("[%s] rejected scenario: %v", c.GetString(runIDKey), err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	plan, err := s.Build()
	if err != nil {
		logrus.Debugf("[%s] rejected scenario: %v", c.GetString(runIDKey), err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	res := plan.Run()
	if err := res.Finite(); err != nil {
		logrus.Warnf("[%s] projection is not representable: %v", c.GetString(runIDKey), err)
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "projection out of range: " + err.Error()})
		return nil, false
	}
	return res, true
}

func decodeScenario(body io.Reader) (*scenario.Scenario, error) {
	if body == nil {
		return scenario.Default(), nil
	}
	var s scenario.Scenario
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return scenario.Default(), nil
		}
		return nil, err
	}
	return &s, nil
}
