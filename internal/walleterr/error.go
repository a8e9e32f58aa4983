// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walleterr defines the flat error taxonomy shared by every
// layer of the wallet transaction engine, so that callers can branch
// on a stable Kind instead of parsing error strings.
package walleterr

import "fmt"

// Kind identifies the category of an Error. Kinds are intentionally
// flat: the engine, gateways, and builders all produce the same set
// rather than each defining their own error type hierarchy.
type Kind int

// The complete set of error kinds produced anywhere in the wallet
// transaction engine.
const (
	InvalidMnemonic Kind = iota
	SeedDecode
	ConfigIO
	ContractRead
	Serialization
	Transport
	RemoteRusk
	InvalidQueryResponse
	Stream
	NotFound
	NotEnoughBalance
	NoteCombinationProblem
	ProverFailed
	Deploy
	Propagate

	numKinds
)

var kindStrings = [numKinds]string{
	InvalidMnemonic:        "InvalidMnemonic",
	SeedDecode:             "SeedDecode",
	ConfigIO:               "ConfigIO",
	ContractRead:           "ContractRead",
	Serialization:          "Serialization",
	Transport:              "Transport",
	RemoteRusk:             "RemoteRusk",
	InvalidQueryResponse:   "InvalidQueryResponse",
	Stream:                 "Stream",
	NotFound:               "NotFound",
	NotEnoughBalance:       "NotEnoughBalance",
	NoteCombinationProblem: "NoteCombinationProblem",
	ProverFailed:           "ProverFailed",
	Deploy:                 "Deploy",
	Propagate:              "Propagate",
}

// String returns the stringer representation of k, or a placeholder
// for an out-of-range value so callers never see a panic from
// stringifying an error kind inside another error's message.
func (k Kind) String() string {
	if k < 0 || int(k) >= int(numKinds) {
		return fmt.Sprintf("Unknown Kind (%d)", int(k))
	}
	return kindStrings[k]
}

// Error is the concrete error type returned by every component of the
// wallet transaction engine. Detail carries kind-specific context
// (the server message for Deploy/RemoteRusk, the timeout description
// for Propagate); Cause, when present, is the underlying error that
// triggered this one and is reachable through errors.Unwrap.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
		}
		return e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the underlying cause, if any, so callers can use
// errors.Is/errors.As across the boundary between this package and
// whatever produced Cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error of the given kind with a detail string and
// no underlying cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap constructs an Error of the given kind around an underlying
// cause, with an optional detail string.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// Is reports whether err is a *Error of the given kind, unwrapping
// through any number of intermediate wrappers.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
