package workflow

import (
	"context"
	"fmt"

	"github.com/hupe1980/careline/chat"
	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/uisync"
)

// TransitionResult reports an applied stage transition. AutoPrompt asks the
// conversation layer to proactively produce the next spoken turn without
// waiting for user input; it is computed at transition time, never inferred
// from leftover state.
type TransitionResult struct {
	From       session.Stage
	To         session.Stage
	AutoPrompt bool
}

// Options configure an Orchestrator.
type Options struct {
	// Logger receives workflow events.
	Logger logging.Logger
	// MaxToolRounds bounds model/tool round-trips within one turn.
	MaxToolRounds int
}

// Orchestrator owns the stage registry, the current stage pointer and the
// transition protocol for exactly one live conversation. Turns are processed
// one at a time; the orchestrator is not safe for concurrent HandleTurn calls.
type Orchestrator struct {
	record    *session.Record
	publisher *uisync.Publisher
	stages    map[session.Stage]*StageDefinition

	history []chat.Content

	logger        logging.Logger
	maxToolRounds int

	// turnTransitioned enforces the one-transition-per-turn policy.
	turnTransitioned bool
}

// New constructs an orchestrator over the given stage registry. The record's
// current stage (welcome for a fresh record) becomes the active stage.
func New(record *session.Record, publisher *uisync.Publisher, stages []*StageDefinition, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		MaxToolRounds: 8,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	byID, err := validateStages(stages)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		record:        record,
		publisher:     publisher,
		stages:        byID,
		logger:        opts.Logger,
		maxToolRounds: opts.MaxToolRounds,
	}, nil
}

// Record returns the session record owned by this orchestrator.
func (o *Orchestrator) Record() *session.Record { return o.record }

// Stage returns the currently active stage.
func (o *Orchestrator) Stage() session.Stage { return o.record.Stage() }

// Completed reports whether the terminal transition has occurred.
func (o *Orchestrator) Completed() bool { return o.record.Stage() == session.StageCompleted }

// StageDefinition returns the definition registered for the given stage.
func (o *Orchestrator) StageDefinition(id session.Stage) (*StageDefinition, bool) {
	def, ok := o.stages[id]
	return def, ok
}

// Start activates the initial stage: records its model label and publishes
// the first UI snapshot. Call once before the first turn.
func (o *Orchestrator) Start(ctx context.Context) error {
	def, ok := o.stages[o.record.Stage()]
	if !ok {
		return fmt.Errorf("workflow: no stage registered for %q", o.record.Stage())
	}
	o.record.SetModelLabel(def.Model.Info().Label())
	o.publisher.Publish(ctx, o.record.Snapshot())
	o.logger.Info("stage.activated", "stage", string(def.ID))
	return nil
}

// Say injects an assistant utterance into the conversation history, e.g. the
// opening greeting spoken before any user turn.
func (o *Orchestrator) Say(text string) {
	o.history = append(o.history, chat.NewAssistantText(text))
}

// History returns a copy of the conversation history.
func (o *Orchestrator) History() []chat.Content {
	return append([]chat.Content(nil), o.history...)
}

// Transition hands control to the target stage. Protocol: record the stage
// being left as previousStage, activate the target, reset the escalation
// indicator, publish the UI snapshot, then decide whether the conversation
// layer should proactively speak. Returns an error only for targets the
// registry does not contain or the active stage may not hand off to.
func (o *Orchestrator) Transition(ctx context.Context, target session.Stage) (TransitionResult, error) {
	from := o.record.Stage()

	current, ok := o.stages[from]
	if !ok {
		return TransitionResult{}, fmt.Errorf("workflow: no active stage to transition from (stage %q)", from)
	}
	def, ok := o.stages[target]
	if !ok {
		return TransitionResult{}, fmt.Errorf("workflow: unknown transition target %q", target)
	}
	if !current.AllowsTransfer(target) {
		return TransitionResult{}, fmt.Errorf("workflow: stage %q may not hand off to %q", from, target)
	}

	o.record.EnterStage(target)
	o.record.SetModelLabel(def.Model.Info().Label())
	o.publisher.Publish(ctx, o.record.Snapshot())

	// previousStage is non-nil from the first transition onward, so every
	// transition after the initial welcome activation auto-prompts.
	autoPrompt := o.record.PreviousStage() != nil

	o.logger.Info("stage.transition", "from", string(from), "to", string(target), "auto_prompt", autoPrompt)

	return TransitionResult{From: from, To: target, AutoPrompt: autoPrompt}, nil
}

// Complete performs the terminal transition: the stage becomes completed and
// the only side effect is the UI resync.
func (o *Orchestrator) Complete(ctx context.Context) TransitionResult {
	from := o.record.Stage()
	o.record.EnterStage(session.StageCompleted)
	o.publisher.Publish(ctx, o.record.Snapshot())
	o.logger.Info("stage.completed", "from", string(from))
	return TransitionResult{From: from, To: session.StageCompleted, AutoPrompt: false}
}
