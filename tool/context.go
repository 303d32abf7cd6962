package tool

import (
	"context"

	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/session"
)

// Actions encodes orchestration signals accumulated during a tool call. The
// workflow interprets them after the call returns, so a handler that both
// mutates the record and requests a transition always applies the mutation
// first.
type Actions struct {
	// TransferTo names the destination stage of a requested transition.
	TransferTo *session.Stage
	// EndCall requests the terminal transition.
	EndCall bool
}

// Context provides a constrained surface for capability handlers: the owned
// session record, ambient cancellation, correlation ids and the accumulated
// orchestration actions.
type Context struct {
	ctx            context.Context
	record         *session.Record
	stage          session.Stage
	functionCallID string
	logger         logging.Logger
	actions        Actions
}

// NewContext constructs a tool context bound to one capability invocation.
func NewContext(ctx context.Context, record *session.Record, stage session.Stage, functionCallID string, logger logging.Logger) *Context {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Context{
		ctx:            ctx,
		record:         record,
		stage:          stage,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the ambient context of the invocation.
func (tc *Context) Context() context.Context { return tc.ctx }

// Record returns the session record handle. All mutation goes through the
// record's named operations.
func (tc *Context) Record() *session.Record { return tc.record }

// Stage returns the stage the capability was dispatched in.
func (tc *Context) Stage() session.Stage { return tc.stage }

// FunctionCallID returns the id correlating the model request and execution.
func (tc *Context) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger bound to the invocation.
func (tc *Context) Logger() logging.Logger { return tc.logger }

// RequestTransfer signals the workflow to hand control to another stage.
func (tc *Context) RequestTransfer(target session.Stage) {
	tc.actions.TransferTo = &target
	tc.logger.Info("tool.transfer.request", "from_stage", string(tc.stage), "to_stage", string(target), "function_call_id", tc.functionCallID)
}

// RequestEndCall signals the workflow to perform the terminal transition.
func (tc *Context) RequestEndCall() {
	tc.actions.EndCall = true
	tc.logger.Info("tool.end_call.request", "stage", string(tc.stage), "function_call_id", tc.functionCallID)
}

// Actions returns the orchestration signals accumulated so far.
func (tc *Context) Actions() *Actions { return &tc.actions }
