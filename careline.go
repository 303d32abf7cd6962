// Package careline provides a high-level façade over the workflow engine and
// its collaborators (session record, escalation gateway, UI publisher),
// enabling concise construction of a patient follow-up call. Most applications
// interact with this package by:
//  1. Creating a Call via New() with a data provider, two models and the
//     external escalation clients
//  2. Speaking the opening greeting via Greeting()/Say
//  3. Feeding user utterances through HandleTurn until the call completes
//
// The façade delegates turn processing to workflow.Orchestrator while keeping
// setup ergonomics concise. Defaults are safe for local development; real
// deployments supply live bot/transfer clients and a structured logger.
package careline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/careline/escalate"
	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/stages"
	"github.com/hupe1980/careline/uisync"
	"github.com/hupe1980/careline/workflow"
)

// Options configures a Call.
type Options struct {
	// SessionID identifies the call. A random id is generated when empty.
	SessionID string

	// Provider supplies the initial domain data. Defaults to the bundled demo
	// data set.
	Provider session.DataProvider

	// Sink receives serialized UI state blobs. Publishing is disabled when nil.
	Sink uisync.Sink

	// HoursBot and BenefitsBot field escalated intent questions. Either may be
	// nil; calls then follow the unreachable-service fallback.
	HoursBot    escalate.BotClient
	BenefitsBot escalate.BotClient

	// Transfer performs the warm human hand-off. May be nil.
	Transfer escalate.TransferClient

	// FallbackDestination is dialed when the caller profile has no preferred
	// clinic line.
	FallbackDestination string

	// MaxToolRounds bounds model/tool round-trips within one turn.
	MaxToolRounds int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Call is the high-level façade aggregating the orchestrator and its
// collaborators for exactly one live conversation.
type Call struct {
	orchestrator *workflow.Orchestrator
	record       *session.Record
	publisher    *uisync.Publisher
	gateway      *escalate.Gateway
	logger       logging.Logger
}

// New assembles a call: loads the data set, builds the session record, wires
// the escalation gateway and UI publisher, and constructs the stage registry
// over the two models.
func New(ctx context.Context, primary, reflective model.Model, optFns ...func(o *Options)) (*Call, error) {
	opts := Options{
		SessionID: uuid.NewString(),
		Provider:  session.NewDemoProvider(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	data, err := session.LoadDataSet(ctx, opts.Provider)
	if err != nil {
		return nil, fmt.Errorf("careline: load data set: %w", err)
	}

	record := session.NewRecord(opts.SessionID, data)

	sink := opts.Sink
	if sink == nil {
		sink = uisync.SinkFunc(func(context.Context, []byte) error { return nil })
	}
	publisher := uisync.NewPublisher(sink, func(o *uisync.Options) {
		o.Logger = opts.Logger
	})

	gateway := escalate.NewGateway(record, publisher, opts.HoursBot, opts.BenefitsBot, opts.Transfer, func(o *escalate.Options) {
		o.Logger = opts.Logger
		o.FallbackDestination = opts.FallbackDestination
	})

	defs, err := stages.Build(stages.Config{
		Record:     record,
		Gateway:    gateway,
		Primary:    primary,
		Reflective: reflective,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	orchestrator, err := workflow.New(record, publisher, defs, func(o *workflow.Options) {
		o.Logger = opts.Logger
		if opts.MaxToolRounds > 0 {
			o.MaxToolRounds = opts.MaxToolRounds
		}
	})
	if err != nil {
		return nil, err
	}

	return &Call{
		orchestrator: orchestrator,
		record:       record,
		publisher:    publisher,
		gateway:      gateway,
		logger:       opts.Logger,
	}, nil
}

// Start activates the welcome stage and publishes the initial UI snapshot.
// Call once before the first turn.
func (c *Call) Start(ctx context.Context) error {
	return c.orchestrator.Start(ctx)
}

// Greeting returns the scripted opening line and records it as the first
// assistant utterance. The live conversation then proceeds via HandleTurn.
func (c *Call) Greeting() string {
	greeting := fmt.Sprintf("Hi %s, this is the care team calling to follow up after your recent visit. Is now a good time to talk?", c.record.Profile().Name)
	c.orchestrator.Say(greeting)
	return greeting
}

// HandleTurn processes one user utterance and returns the spoken reply.
func (c *Call) HandleTurn(ctx context.Context, userText string) (workflow.TurnResult, error) {
	return c.orchestrator.HandleTurn(ctx, userText)
}

// Record returns the session record backing the call.
func (c *Call) Record() *session.Record { return c.record }

// Completed reports whether the call reached its terminal state.
func (c *Call) Completed() bool { return c.orchestrator.Completed() }

// Stage returns the currently active stage.
func (c *Call) Stage() session.Stage { return c.orchestrator.Stage() }
