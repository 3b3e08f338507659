package fmindex

import "errors"

// Error classification codes.
//
// Build and deserialization surface these; query paths never fail.
// Callers classify with errors.Is.
var (
	// ErrInvalidAlphabet indicates input containing a symbol >= sigma.
	ErrInvalidAlphabet = errors.New("fmindex: symbol outside alphabet")
	// ErrInvalidSentinel indicates a 0 byte inside a user sequence.
	ErrInvalidSentinel = errors.New("fmindex: sentinel inside sequence")
	// ErrInvalidOptions indicates unusable build options.
	ErrInvalidOptions = errors.New("fmindex: invalid options")
	// ErrInconsistentBuild indicates forward and reverse symbol counts
	// disagree, or a derived C table whose total differs from the text
	// length. Correct
	// inputs cannot produce this; it signals a bug in SA or BWT
	// construction.
	ErrInconsistentBuild = errors.New("fmindex: inconsistent build")
	// ErrDeserialize indicates an on-disk format tag or length field
	// inconsistent with this reader.
	ErrDeserialize = errors.New("fmindex: deserialize mismatch")
)
