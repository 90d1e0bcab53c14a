package errors

import (
	"fmt"
)

// ParseError represents a theme or config decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures theme document or configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FetchError reports a failed theme document fetch after all attempts.
type FetchError struct {
	Source   string
	Attempts int
	Err      error
}

// NewFetchError constructs a FetchError.
func NewFetchError(source string, attempts int, err error) error {
	return &FetchError{Source: source, Attempts: attempts, Err: err}
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Attempts > 1 {
		return fmt.Sprintf("fetch error [%s] after %d attempts: %v", e.Source, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch error [%s]: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying error.
func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ActionError indicates that a dispatched action could not be carried out.
type ActionError struct {
	Command string
	Message string
	Err     error
}

// NewActionError constructs an ActionError for the given command.
func NewActionError(command string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ActionError{Command: command, Message: message, Err: err}
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command != "" {
		return fmt.Sprintf("action error [%s]: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("action error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ActionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RenderError describes a node implementation failure contained by the renderer.
type RenderError struct {
	NodeID   string
	NodeType string
	Err      error
}

// NewRenderError constructs a RenderError.
func NewRenderError(nodeID, nodeType string, err error) error {
	return &RenderError{NodeID: nodeID, NodeType: nodeType, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	if e.NodeID != "" {
		return fmt.Sprintf("render error on node %s (%s): %v", e.NodeID, e.NodeType, e.Err)
	}
	return fmt.Sprintf("render error (%s): %v", e.NodeType, e.Err)
}

// Unwrap exposes the root error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
