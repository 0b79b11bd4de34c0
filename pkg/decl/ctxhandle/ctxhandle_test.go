package ctxhandle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jtang613/cvprobe/pkg/decl/ctxhandle"
)

func TestFreshHandleIsLive(t *testing.T) {
	h := ctxhandle.New()
	assert.True(t, h.Live())
}

func TestCloseMakesHandleDead(t *testing.T) {
	h := ctxhandle.New()
	h.Close()
	assert.False(t, h.Live())
}

func TestCloseIsVisibleThroughEveryCopy(t *testing.T) {
	h := ctxhandle.New()
	copyOfH := h
	h.Close()
	assert.False(t, copyOfH.Live(), "Close must be visible through a copy sharing the same handle")
}

func TestZeroValueHandleIsNotLive(t *testing.T) {
	var h ctxhandle.Handle
	assert.False(t, h.Live())
	assert.NotPanics(t, func() { h.Close() })
}
