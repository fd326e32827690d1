package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/disaster-etl/internal/pipeline"
	"github.com/roach88/disaster-etl/internal/store"
	"github.com/roach88/disaster-etl/internal/testutil"
)

// Source and database file names inside a scenario's working directory.
const (
	messagesFile   = "messages.csv"
	categoriesFile = "categories.csv"
	databaseFile   = "scenario.db"
)

// Harness runs scenarios in an isolated working directory.
type Harness struct {
	dir    string
	runIDs *testutil.FixedRunIDGenerator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Write both CSV sources to a fresh temporary directory
//  2. Run the pipeline with a fixed run id
//  3. Check the failed stage against expect_error
//  4. Read the persisted table back and evaluate assertions
//
// The returned error is reserved for harness failures (temp dir, store
// access). Scenario failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "disaster-etl-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	h := &Harness{
		dir:    dir,
		runIDs: testutil.NewFixedRunIDGenerator(scenario.RunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := pipeline.Config{
		MessagesPath:   filepath.Join(h.dir, messagesFile),
		CategoriesPath: filepath.Join(h.dir, categoriesFile),
		DatabasePath:   filepath.Join(h.dir, databaseFile),
		Table:          scenario.Table,
	}
	if err := os.WriteFile(cfg.MessagesPath, []byte(scenario.Messages), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write messages: %w", err)
	}
	if err := os.WriteFile(cfg.CategoriesPath, []byte(scenario.Categories), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write categories: %w", err)
	}

	var progress bytes.Buffer
	p := &pipeline.Pipeline{Out: &progress, Logger: h.logger, RunIDs: h.runIDs}
	summary, runErr := p.Run(ctx, cfg)

	result := NewResult()
	result.Progress = progress.String()
	result.Err = runErr

	if runErr != nil {
		stage, _ := pipeline.FailedStage(runErr)
		result.FailedStage = stage
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("unexpected failure: %v", runErr))
		case string(stage) != scenario.ExpectError:
			result.AddError(fmt.Sprintf("expected %s stage to fail, got %v", scenario.ExpectError, runErr))
		}
		return result, nil
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected %s stage to fail, run succeeded", scenario.ExpectError))
		return result, nil
	}
	result.Summary = summary

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen database: %w", err)
	}
	defer st.Close()

	table, err := st.ReadTable(ctx, summary.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", summary.Table, err)
	}
	result.Table = table

	tables, err := st.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	result.Tables = tables

	actx := &AssertionContext{Ctx: ctx, Store: st, Table: summary.Table}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}
