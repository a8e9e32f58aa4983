// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package duskcrypto wraps the cryptographic primitives the wallet
// transaction engine treats as contract-preserving black boxes: note
// and account scalar fields, the JubJub-equivalent embedded curve
// Phoenix notes are blinded over, Schnorr signing, BLS signing, and
// the domain hashes used for nullifiers, contract ids, and payloads.
// It deliberately stays a thin wrapper around gnark-crypto's
// BLS12-381 implementation rather than a circuit reimplementation:
// the proving circuit itself remains external, reached only through
// the prover gateway.
package duskcrypto

import (
	"io"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Scalar is an element of the BLS12-381 scalar field, the field both
// the JubJub-equivalent embedded curve and account keys operate over.
type Scalar struct {
	el fr.Element
}

// ScalarFromReader draws a uniformly random field element from r,
// reducing a wide read modulo the field order. This is the "curve's
// standard random-key procedure" referenced by the key derivation
// algorithm, consuming bytes from a seeded CSPRNG instead of an OS
// entropy source so that derivation stays deterministic.
func ScalarFromReader(r io.Reader) (Scalar, error) {
	// fr.Element.SetBytes interprets its input as a big-endian
	// integer and reduces it modulo the field modulus, so reading a
	// few extra bytes beyond the element size is sufficient to avoid
	// noticeable modulo bias.
	var buf [48]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Scalar{}, err
	}
	var s Scalar
	s.el.SetBytes(buf[:])
	return s, nil
}

// ScalarFromBytes interprets b as a big-endian integer and reduces it
// modulo the field modulus, for decoding a scalar received from the
// wire rather than drawn from a CSPRNG.
func ScalarFromBytes(b [32]byte) Scalar {
	var s Scalar
	s.el.SetBytes(b[:])
	return s
}

// Bytes returns the big-endian canonical encoding of s.
func (s Scalar) Bytes() [32]byte {
	return s.el.Bytes()
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.el.IsZero()
}

// ZeroScalar returns the additive identity of the scalar field, used
// for the change note's zero value blinder (§4.5 step 4b).
func ZeroScalar() Scalar {
	return Scalar{}
}

// Mul returns s*other reduced modulo the field order.
func (s Scalar) Mul(other Scalar) Scalar {
	var out Scalar
	out.el.Mul(&s.el, &other.el)
	return out
}

// Equal reports whether two scalars represent the same field element.
func (s Scalar) Equal(other Scalar) bool {
	return s.el.Equal(&other.el)
}
