package main

import (
	"fmt"
)

// CommandError is what every subcommand returns on failure: the operation,
// the step that failed, the cause and a hint for the user.
type CommandError struct {
	Operation  string
	Context    string
	Cause      error
	Suggestion string
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &CommandError{Operation: operation, Context: context, Cause: cause, Suggestion: suggestion}
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("Failed to %s: %s", e.Operation, e.Context)
	if e.Cause != nil {
		msg += fmt.Sprintf("\n\nError: %v", e.Cause)
	}
	if e.Suggestion != "" {
		msg += "\n\nSuggestion: " + e.Suggestion
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}
