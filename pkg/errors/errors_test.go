package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("default.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "default.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "parse error: default.yaml:12: unexpected token", err.Error())
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("theme.json", 0, stdErrors.New("eof"))
	require.Equal(t, "parse error: theme.json: eof", err.Error())
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("layout.global.children[1].id", "duplicate node id", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "layout.global.children[1].id", validationErr.Field)
	require.Contains(t, err.Error(), "duplicate node id")
}

func TestFetchErrorReportsAttempts(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewFetchError("http://localhost:7420", 3, underlying)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, 3, fetchErr.Attempts)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "after 3 attempts")
}

func TestActionErrorIncludesCommand(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("not supported")
	err := NewActionError("invoke", underlying)

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, "invoke", actionErr.Command)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestRenderErrorIncludesNode(t *testing.T) {
	t.Parallel()

	err := NewRenderError("42", "sidebar", stdErrors.New("boom"))
	require.Equal(t, "render error on node 42 (sidebar): boom", err.Error())
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var fetchErr *FetchError
	var renderErr *RenderError
	require.Empty(t, parseErr.Error())
	require.Nil(t, fetchErr.Unwrap())
	require.Empty(t, renderErr.Error())
}
