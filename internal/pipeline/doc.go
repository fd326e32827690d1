// Package pipeline runs the load, clean, and save stages in order.
//
// Each run threads one table through the stages:
//
//	loader.Load -> cleaner.Clean -> store.ReplaceTable
//
// Human-readable progress lines go to Pipeline.Out; structured logs go to
// Pipeline.Logger with a per-run run_id. A failing stage is reported as a
// *StageError naming the stage. Load and clean failures never open the
// database; save failures roll back.
package pipeline
