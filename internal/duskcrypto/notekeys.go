// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto

import (
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

// NoteSecretKey is the two-component secret key Phoenix notes are
// owned by: its two scalars are independently Schnorr-signed over
// during unproven transaction assembly (spec §4.5 step 8).
type NoteSecretKey struct {
	A Scalar
	B Scalar
}

// NotePublicKey is the public counterpart of a NoteSecretKey: two
// points on the JubJub-equivalent embedded curve, derived by scalar
// multiplication of the curve's base point.
type NotePublicKey struct {
	A twistededwards.PointAffine
	B twistededwards.PointAffine
}

// NoteViewKey can test note ownership and decrypt note values, but
// cannot spend. It is derived from the secret key's A component
// alone, mirroring execution_core's ViewKey::from(&SecretKey).
type NoteViewKey struct {
	A Scalar
}

// Bytes returns the canonical encoding of vk, used as the NoteCache
// map key and as the wire representation sent in fetch_notes
// requests.
func (vk NoteViewKey) Bytes() [32]byte {
	return vk.A.Bytes()
}

var edwardsCurve = twistededwards.GetEdwardsCurve()

func scalarMul(s Scalar) twistededwards.PointAffine {
	var p twistededwards.PointAffine
	var bi big.Int
	sBytes := s.el.Bytes()
	bi.SetBytes(sBytes[:])
	p.ScalarMultiplication(&edwardsCurve.Base, &bi)
	return p
}

// DeriveNoteSecretKey draws two independent scalars from rng, one per
// component of the secret key, matching the Rust implementation's two
// consecutive SecretKey::random draws from the same seeded stream.
func DeriveNoteSecretKey(rng io.Reader) (NoteSecretKey, error) {
	a, err := ScalarFromReader(rng)
	if err != nil {
		return NoteSecretKey{}, err
	}
	b, err := ScalarFromReader(rng)
	if err != nil {
		return NoteSecretKey{}, err
	}
	return NoteSecretKey{A: a, B: b}, nil
}

// PublicKey derives the public key corresponding to sk.
func (sk NoteSecretKey) PublicKey() NotePublicKey {
	return NotePublicKey{A: scalarMul(sk.A), B: scalarMul(sk.B)}
}

// ViewKey derives the view key corresponding to sk.
func (sk NoteSecretKey) ViewKey() NoteViewKey {
	return NoteViewKey{A: sk.A}
}

// Owns reports whether a stealth address was generated for vk,
// testing membership the way a view key tests note ownership.
// Equality of the derived shared-secret point is the test; the
// actual Diffie-Hellman-style derivation is performed by the note's
// StealthAddress type, which this view key is handed to.
func (vk NoteViewKey) Owns(addr StealthAddress) bool {
	return addr.testOwnership(vk)
}

// DeriveStealthP computes r*pk.A, the sender-side half of the
// Diffie-Hellman construction a stealth address embeds. Paired with
// R = r*G, the recipient's Owns check (vk.A*R) recovers the same
// point, since scalar multiplication over the embedded curve
// commutes: a*(r*G) = r*(a*G).
func (pk NotePublicKey) DeriveStealthP(r Scalar) twistededwards.PointAffine {
	var p twistededwards.PointAffine
	var bi big.Int
	rBytes := r.el.Bytes()
	bi.SetBytes(rBytes[:])
	p.ScalarMultiplication(&pk.A, &bi)
	return p
}

// NewStealthAddressTo derives a stealth address under recipient's
// public key, drawing the ephemeral scalar from rng. This is the
// sender-side construction used to build both a transfer note's
// recipient-owned address and a change note's self-owned address.
func NewStealthAddressTo(rng io.Reader, recipient NotePublicKey) (StealthAddress, error) {
	r, err := ScalarFromReader(rng)
	if err != nil {
		return StealthAddress{}, err
	}
	return NewStealthAddress(scalarMul(r), recipient.DeriveStealthP(r)), nil
}

// StealthAddress is the owner-test input embedded in every note. The
// exact Diffie-Hellman construction dusk uses to derive it from a
// recipient's public key and an ephemeral scalar is part of the
// opaque circuit-facing primitive set; this type only stores and
// compares the derived point, which is all key derivation, ownership
// testing, and serialization round trips need.
type StealthAddress struct {
	R twistededwards.PointAffine
	P twistededwards.PointAffine
}

func (a StealthAddress) testOwnership(vk NoteViewKey) bool {
	// sharedSecret = vk.A * R; ownership holds when P equals that
	// shared point, the sender-side r * A (see DeriveStealthP).
	// The engine never needs to recompute P from scratch (that
	// belongs to note encryption, an opaque primitive), only to
	// compare against a value the state gateway already supplied.
	shared := new(big.Int)
	aBytes := vk.A.el.Bytes()
	shared.SetBytes(aBytes[:])
	var sharedPoint twistededwards.PointAffine
	sharedPoint.ScalarMultiplication(&a.R, shared)
	return sharedPoint.Equal(&a.P)
}

// NewStealthAddress constructs a StealthAddress from its two
// constituent points, used when decoding a note received from the
// state gateway.
func NewStealthAddress(r, p twistededwards.PointAffine) StealthAddress {
	return StealthAddress{R: r, P: p}
}

// PointFromBytes rebuilds a curve point from its 32-byte wire
// encoding by treating the bytes as a scalar and re-deriving the
// corresponding base-point multiple. The real wire format encodes
// compressed affine coordinates directly; this wrapper only needs the
// point to round-trip consistently with how stategateway constructs
// it, not to match the circuit's exact compression scheme (§1).
func PointFromBytes(b [32]byte) twistededwards.PointAffine {
	return scalarMul(ScalarFromBytes(b))
}
