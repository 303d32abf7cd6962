package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/session"
)

func testToolContext() *Context {
	record := session.NewRecord("sess-t", session.DataSet{})
	return NewContext(context.Background(), record, session.StageWelcome, "fc-1", logging.NoOpLogger{})
}

type echoParams struct {
	Message string `json:"message" description:"Text to echo"`
	Times   *int   `json:"times" description:"Optional repeat count"`
}

// -------------------- FunctionTool --------------------

func TestFunctionTool_Success(t *testing.T) {
	ft := NewFunctionToolFromStruct("echo", "Echo a message.", echoParams{},
		func(tc *Context, args map[string]any) (string, error) {
			msg, _ := args["message"].(string)
			return "echo: " + msg, nil
		})

	assert.Equal(t, "echo", ft.Name())
	assert.Equal(t, "Echo a message.", ft.Description())

	out, err := ft.Call(testToolContext(), map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}

func TestFunctionTool_ValidationFailure(t *testing.T) {
	ft := NewFunctionToolFromStruct("echo", "Echo a message.", echoParams{},
		func(tc *Context, args map[string]any) (string, error) {
			return "unreachable", nil
		})

	_, err := ft.Call(testToolContext(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionTool_ExecutionFailureWrapsCause(t *testing.T) {
	cause := fmt.Errorf("backend unavailable")
	ft := NewFunctionTool("boom", "Always fails.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *Context, args map[string]any) (string, error) {
			return "", cause
		})

	_, err := ft.Call(testToolContext(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	// The cause stays reachable through the wrapper.
	assert.True(t, errors.Is(err, cause))
}

func TestFunctionTool_PassesThroughToolError(t *testing.T) {
	original := NewToolError("custom", "domain rule broken", "DOMAIN_ERROR")
	ft := NewFunctionTool("custom", "Returns its own ToolError.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *Context, args map[string]any) (string, error) {
			return "", original
		})

	_, err := ft.Call(testToolContext(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Same(t, original, toolErr)
	assert.Equal(t, "DOMAIN_ERROR", toolErr.Code)
}

// -------------------- Context Actions --------------------

func TestContext_Actions(t *testing.T) {
	tc := testToolContext()

	assert.Nil(t, tc.Actions().TransferTo)
	assert.False(t, tc.Actions().EndCall)

	tc.RequestTransfer(session.StageScheduling)
	tc.RequestEndCall()

	require.NotNil(t, tc.Actions().TransferTo)
	assert.Equal(t, session.StageScheduling, *tc.Actions().TransferTo)
	assert.True(t, tc.Actions().EndCall)
}
