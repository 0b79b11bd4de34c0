// Package ctxhandle gives a Declaration a weak, non-owning back-reference
// to the Expression Context that created it (spec §3: "the back-reference
// is never used after the context is torn down"). A Handle is shared by
// value (as a pointer to a small flag) between the context and every
// declaration it hands out; it carries no strong reference back to either
// side, so it cannot form a reference cycle and does not need to be an
// arena index.
package ctxhandle

// Handle is created once per Expression Context and copied into every
// Declaration that context produces.
type Handle struct {
	closed *bool
}

// New returns a fresh, live handle.
func New() Handle {
	closed := false
	return Handle{closed: &closed}
}

// Close marks the handle (and every Declaration sharing it) as torn down.
func (h Handle) Close() {
	if h.closed != nil {
		*h.closed = true
	}
}

// Live reports whether the owning context is still alive.
func (h Handle) Live() bool {
	return h.closed != nil && !*h.closed
}
