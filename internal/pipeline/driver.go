// Package pipeline sequences the bootstrap stages.
//
// The pipeline is a strict linear state machine: each stage runs only after
// the previous one succeeded, and the first stage error halts the run in the
// Failed state. There is no retry and no resume. Stages that work over a
// batch of items (repositories, projects, URLs) absorb per-item failures and
// still report success.
package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is a pipeline state.
type State string

const (
	StateProvisioning      State = "provisioning"
	StateStartingDatastore State = "starting_datastore"
	StateSyncing           State = "syncing"
	StateInstalling        State = "installing"
	StateLaunching         State = "launching"
	StateOpeningBrowser    State = "opening_browser"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Stage is one named unit of the pipeline.
type Stage struct {
	// Name is shown to the user.
	Name string

	// State is the pipeline state while this stage runs.
	State State

	// Run executes the stage. A returned error is fatal to the pipeline.
	Run func(ctx context.Context, rc *RunContext) error
}

// Hooks observe stage progress. Either field may be nil.
type Hooks struct {
	OnBegin func(Stage)
	OnEnd   func(Stage, error)
}

// Result is the outcome of a pipeline run.
type Result struct {
	// State is StateDone or StateFailed.
	State State

	// FailedStage is the state of the stage that halted the run, if any.
	FailedStage State

	// Err is the error that halted the run.
	Err error

	// Completed lists the states of the stages that finished successfully.
	Completed []State
}

// Driver runs stages in order and applies the halt policy.
type Driver struct {
	stages []Stage
	hooks  Hooks
	tracer trace.Tracer
}

// NewDriver creates a Driver over an ordered stage list.
func NewDriver(stages []Stage, hooks Hooks) *Driver {
	return &Driver{
		stages: stages,
		hooks:  hooks,
		tracer: otel.Tracer("github.com/tr2ge/devup/internal/pipeline"),
	}
}

// Run executes every stage in order until one fails.
//
// Parameters:
//   - ctx: Context for cancellation
//   - rc: Shared run context passed to every stage
//
// Returns:
//   - *Result: Final state, the halting error and completed stages
func (d *Driver) Run(ctx context.Context, rc *RunContext) *Result {
	ctx, runSpan := d.tracer.Start(ctx, "devup.pipeline",
		trace.WithAttributes(attribute.String("devup.run_id", rc.RunID)))
	defer runSpan.End()

	result := &Result{}
	for _, stage := range d.stages {
		if d.hooks.OnBegin != nil {
			d.hooks.OnBegin(stage)
		}

		err := d.runStage(ctx, stage, rc)

		if d.hooks.OnEnd != nil {
			d.hooks.OnEnd(stage, err)
		}
		if err != nil {
			result.State = StateFailed
			result.FailedStage = stage.State
			result.Err = err
			runSpan.SetStatus(codes.Error, err.Error())
			return result
		}
		result.Completed = append(result.Completed, stage.State)
	}

	result.State = StateDone
	return result
}

func (d *Driver) runStage(ctx context.Context, stage Stage, rc *RunContext) error {
	ctx, span := d.tracer.Start(ctx, "devup.stage."+string(stage.State))
	defer span.End()

	rc.Logger.Debug("Stage started", "stage", stage.State)
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err := stage.Run(ctx, rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rc.Logger.Debug("Stage failed", "stage", stage.State, "error", err)
		return err
	}

	rc.Logger.Debug("Stage finished", "stage", stage.State)
	return nil
}
