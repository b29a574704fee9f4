package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapsTrailingError(t *testing.T) {
	log := New("TEST")
	cause := errors.New("connection refused")

	err := log.Error("failed to load fields", cause)

	assert.EqualError(t, err, "failed to load fields: connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestErrorFormatsVerbs(t *testing.T) {
	log := New("TEST")

	err := log.Error("list %s has %d fields", "abc", 3)

	assert.EqualError(t, err, "list abc has 3 fields")
}

func TestErrorWithoutArgs(t *testing.T) {
	log := New("TEST")

	assert.EqualError(t, log.Error("boom"), "boom")
}
