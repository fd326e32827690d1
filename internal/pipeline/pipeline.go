package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/disaster-etl/internal/cleaner"
	"github.com/roach88/disaster-etl/internal/ir"
	"github.com/roach88/disaster-etl/internal/loader"
	"github.com/roach88/disaster-etl/internal/store"
)

// DefaultTable is the table the cleaned data is written to.
const DefaultTable = "disaster_msg"

// Config holds the inputs of one run.
type Config struct {
	MessagesPath   string
	CategoriesPath string
	DatabasePath   string

	// Table defaults to DefaultTable.
	Table string

	// Clean defaults to cleaner.DefaultOptions().
	Clean *cleaner.Options
}

// Summary describes a completed run.
type Summary struct {
	RunID             string      `json:"run_id"`
	Database          string      `json:"database"`
	Table             string      `json:"table"`
	MergedRows        int         `json:"merged_rows"`
	Labels            ir.LabelSet `json:"labels"`
	SentinelDropped   int         `json:"sentinel_dropped"`
	DuplicatesDropped int         `json:"duplicates_dropped"`
	RowsWritten       int         `json:"rows_written"`
}

// Pipeline runs the stages. The zero value writes progress nowhere, logs
// with slog.Default(), and uses UUIDv7 run ids.
type Pipeline struct {
	Out    io.Writer
	Logger *slog.Logger
	RunIDs RunIDGenerator
}

// Run executes load, clean, and save in order.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Summary, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	gen := p.RunIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	opts := cleaner.DefaultOptions()
	if cfg.Clean != nil {
		opts = *cfg.Clean
	}

	summary := &Summary{RunID: gen.Generate(), Database: cfg.DatabasePath, Table: table}
	logger = logger.With("run_id", summary.RunID)

	fmt.Fprintf(out, "Loading data...\n    MESSAGES: %s\n    CATEGORIES: %s\n", cfg.MessagesPath, cfg.CategoriesPath)
	logger.Debug("loading sources", "messages", cfg.MessagesPath, "categories", cfg.CategoriesPath)
	merged, err := loader.Load(cfg.MessagesPath, cfg.CategoriesPath)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}
	summary.MergedRows = merged.Len()
	logger.Info("sources merged", "rows", merged.Len(), "columns", len(merged.Columns))

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageClean, Err: err}
	}

	fmt.Fprintln(out, "Cleaning data...")
	cleaned, report, err := cleaner.Clean(merged, opts)
	if err != nil {
		return nil, &StageError{Stage: StageClean, Err: err}
	}
	summary.Labels = report.Labels
	summary.SentinelDropped = report.SentinelDropped
	summary.DuplicatesDropped = report.DuplicatesDropped
	logger.Info("data cleaned",
		"labels", len(report.Labels),
		"sentinel_dropped", report.SentinelDropped,
		"duplicates_dropped", report.DuplicatesDropped,
		"rows", report.OutputRows,
	)

	fmt.Fprintf(out, "Saving data...\n    DATABASE: %s\n", cfg.DatabasePath)
	written, err := save(ctx, logger, cfg.DatabasePath, table, cleaned)
	if err != nil {
		return nil, &StageError{Stage: StageSave, Err: err}
	}
	summary.RowsWritten = written
	logger.Info("table replaced", "database", cfg.DatabasePath, "table", table, "rows", written)

	fmt.Fprintln(out, "Cleaned data saved to database!")
	return summary, nil
}

// save opens the database, replaces the table, and closes the database.
func save(ctx context.Context, logger *slog.Logger, path, table string, t *ir.Table) (n int, err error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	return st.ReplaceTable(ctx, table, t)
}
