package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/disaster-etl/internal/pipeline"
)

func runPipeline(cmd *cobra.Command, opts *RootOptions, messagesPath, categoriesPath, databasePath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := slog.LevelInfo
		if opts.Verbose {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &pipeline.Pipeline{
		Out:    formatter.ProgressWriter(),
		Logger: logger,
		RunIDs: opts.RunIDs,
	}
	summary, err := p.Run(ctx, pipeline.Config{
		MessagesPath:   messagesPath,
		CategoriesPath: categoriesPath,
		DatabasePath:   databasePath,
	})
	if err != nil {
		exitErr := classify(err)
		_ = formatter.Error(errorCode(exitErr.Code), exitErr.Error(), nil)
		return exitErr
	}

	return formatter.Success(summary)
}

// classify maps a pipeline failure to an exit code.
func classify(err error) *ExitError {
	if errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "run cancelled", err)
	}
	stage, ok := pipeline.FailedStage(err)
	if !ok {
		return WrapExitError(ExitFailure, "run failed", err)
	}
	switch stage {
	case pipeline.StageLoad:
		return WrapExitError(ExitLoad, "failed to load data", errors.Unwrap(err))
	case pipeline.StageClean:
		return WrapExitError(ExitClean, "failed to clean data", errors.Unwrap(err))
	case pipeline.StageSave:
		return WrapExitError(ExitStorage, "failed to save data", errors.Unwrap(err))
	default:
		return WrapExitError(ExitFailure, "run failed", err)
	}
}

// errorCode returns the printed error code for an exit code.
func errorCode(exit int) string {
	switch exit {
	case ExitUsage:
		return ErrCodeUsage
	case ExitLoad:
		return ErrCodeLoad
	case ExitClean:
		return ErrCodeClean
	case ExitStorage:
		return ErrCodeStorage
	default:
		return ErrCodeGeneric
	}
}
