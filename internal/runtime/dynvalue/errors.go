package dynvalue

import "errors"

// Runtime error classes. These occur when a translated program (or the
// evaluator standing in for one) executes, never at translation time. The
// emitted C++ runtime throws the equivalent std::runtime_error; here they
// are sentinel errors wrapped with context so callers can errors.Is them.
var (
	// ErrUnsupportedOperand: operator applied to an incompatible tag pair,
	// e.g. [1] + "x".
	ErrUnsupportedOperand = errors.New("unsupported operand type")

	// ErrUnsupportedConversion: conversion with no defined rule for the
	// source tag, e.g. int(list).
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrConversion: conversion defined for the tag pair but failed on the
	// value, e.g. int("abc").
	ErrConversion = errors.New("conversion error")

	// ErrDivisionByZero covers /, % and // with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrIndex: list index out of range.
	ErrIndex = errors.New("index out of range")

	// ErrKeyNotFound: dict read of a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrType: collection method invoked on the wrong variant, e.g.
	// append on a dict.
	ErrType = errors.New("type error")

	// ErrValue: value-shaped failures of builtins, e.g. range() with a
	// zero step or min() of an empty sequence.
	ErrValue = errors.New("value error")
)
