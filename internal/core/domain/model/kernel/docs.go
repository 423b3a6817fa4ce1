// Package kernel provides core domain primitives shared across the
// marketplace model: geographic coordinates with great-circle distance, and
// entity identifier generation/validation.
//
// The primitives enforce their own invariants (coordinate ranges, id shape)
// so that domain objects built on top of them are always in a valid state.
package kernel
