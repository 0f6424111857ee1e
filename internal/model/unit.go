// Package model defines the data structures for the isolation harness.
package model

// Path represents a file system path.
type Path string

// Locator identifies where a source unit's body can be found. It is a
// path-like string resolved by a unit source adapter; the ".isl" extension
// may be omitted.
type Locator string

// Alias is the short name a test binds a dependency under in the sandbox.
type Alias string

// SourceUnit is an immutable, read-only unit definition: a locator, the
// resolved path it was fetched from, and the body text. The loader never
// mutates a unit's stored body.
type SourceUnit struct {
	Locator Locator
	Path    Path
	Body    string
}
