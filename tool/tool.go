// Package tool implements the capability dispatch contract for workflow
// stages: named operations with schema validated arguments that mutate the
// session record and may signal orchestration actions (stage transfer, call
// end) back to the workflow.
package tool

import (
	"fmt"

	"github.com/hupe1980/careline/internal/util"
)

// Tool defines a single named capability exposed by a workflow stage.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions (snake_case names)
//   - Define proper JSON schema for parameters
//   - Return conversational result text; recoverable domain conditions
//     (entity not found, nothing to do) are ordinary results, not errors
type Tool interface {
	// Name returns the unique identifier for this capability.
	Name() string

	// Description is provided to the model to explain when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the capability. Arguments are parsed from JSON and
	// validated against the tool's schema before invocation.
	Call(toolCtx *Context, args map[string]any) (string, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"` // underlying cause, preserved for errors.As
}

// Error codes used for categorization.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
