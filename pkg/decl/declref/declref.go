// Package declref exists only to break the import cycle between typeenv
// (Type.DeclRef points back at the declaration that produced a UDT/enum
// type) and decl (Declaration.Type is a strong *typeenv.Type). Per
// DESIGN.md's "recursive type graph" note, the back-reference is weak in
// semantics even though Go's GC does not require breaking the reference
// cycle itself — decl.Declaration implements Ref without typeenv ever
// importing decl.
package declref

// Ref is the opaque identity a Tstruct/Tenum Type carries back to the
// Declaration that materialized it. No package in this module reads it
// back or type-asserts it to *decl.Declaration; it only records identity.
// The marker method is exported so that a type in another package (decl)
// can implement it.
type Ref interface {
	DeclRefMarker()
}
