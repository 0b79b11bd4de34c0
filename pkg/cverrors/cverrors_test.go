package cverrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jtang613/cvprobe/pkg/cverrors"
)

func TestWrapIsMatchable(t *testing.T) {
	err := cverrors.Wrap(cverrors.NotFound, "find_object: foo")
	assert.True(t, cverrors.Is(err, cverrors.NotFound))
	assert.False(t, cverrors.Is(err, cverrors.NotImplemented))
	assert.ErrorIs(t, err, cverrors.NotFound)
}

func TestWrapPreservesContextInMessage(t *testing.T) {
	err := cverrors.Wrap(cverrors.InvalidState, "RegRel declaration has no offset")
	assert.Contains(t, err.Error(), "RegRel declaration has no offset")
	assert.Contains(t, err.Error(), cverrors.InvalidState.Error())
}

func TestWrapfFormats(t *testing.T) {
	err := cverrors.Wrapf(cverrors.NotFound, "register number %d out of range", 300)
	assert.Contains(t, err.Error(), "register number 300 out of range")
}

func TestDoubleWrapStillUnwrapsToKind(t *testing.T) {
	inner := cverrors.Wrap(cverrors.PartialCopy, "short read")
	outer := fmt.Errorf("ReadMemory: %w", inner)
	assert.True(t, errors.Is(outer, cverrors.PartialCopy))
}
