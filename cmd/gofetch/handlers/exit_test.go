package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitErrorMessage(t *testing.T) {
	wrapped := errors.New("connection refused")
	exitErr := &ExitError{Code: ExitExhausted, Err: wrapped}
	assert.Equal(t, "connection refused", exitErr.Error())

	bare := &ExitError{Code: ExitHTTPError}
	assert.Equal(t, "exit status 1", bare.Error())
}

func TestExitErrorUnwrap(t *testing.T) {
	wrapped := errors.New("boom")
	exitErr := &ExitError{Code: ExitConfig, Err: wrapped}
	assert.ErrorIs(t, exitErr, wrapped)

	bare := &ExitError{Code: ExitOK}
	assert.Nil(t, errors.Unwrap(bare))
}
