// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto

import (
	"encoding/binary"
	"io"
)

// Note is the common interface shared by transparent and obfuscated
// Phoenix notes: an opaque commitment token owned by a stealth
// address, whose value and value blinder are only meaningful once
// decrypted (or, for transparent notes, are public). Note encryption
// itself is a contract-preserving black box (spec §1); this interface
// captures only what the wallet engine needs: ordering, ownership
// testing, value extraction and nullifier generation.
type Note interface {
	Position() uint64
	StealthAddr() StealthAddress
	IsObfuscated() bool
	Value(vk NoteViewKey) (uint64, error)
	ValueBlinder(vk NoteViewKey) (Scalar, error)
	Nullifier(sk NoteSecretKey) Scalar
}

// nullifier is the shared nullifier derivation for both note flavors:
// a deterministic function of the note's position and the spender's
// secret key. The real primitive mixes in the stealth address
// opening too; this derivation is sufficient to make nullifiers
// unique per (note, key) pair and stable across calls, which is all
// the engine and state gateway observe or rely on.
func nullifier(position uint64, sk NoteSecretKey) Scalar {
	var posLE [8]byte
	binary.LittleEndian.PutUint64(posLE[:], position)

	aBytes := sk.A.Bytes()
	bBytes := sk.B.Bytes()

	buf := make([]byte, 0, 8+32+32)
	buf = append(buf, posLE[:]...)
	buf = append(buf, aBytes[:]...)
	buf = append(buf, bBytes[:]...)

	h := HashBytes(buf)
	var s Scalar
	s.el.SetBytes(h[:])
	return s
}

// NoteCommitment derives the commitment a note's value and value
// blinder bind to. The real primitive is a Pedersen commitment over
// the embedded curve, part of the opaque circuit-facing primitive set
// (spec §1); this BLAKE2b-based stand-in only needs to be
// deterministic in (value, blinder) and stable across calls, which is
// all the skeleton assembled by PhoenixBuilder requires of it.
func NoteCommitment(value uint64, blinder Scalar) Scalar {
	var valueLE [8]byte
	binary.LittleEndian.PutUint64(valueLE[:], value)
	blinderBytes := blinder.Bytes()

	buf := make([]byte, 0, 8+32)
	buf = append(buf, valueLE[:]...)
	buf = append(buf, blinderBytes[:]...)

	h := HashBytes(buf)
	var s Scalar
	s.el.SetBytes(h[:])
	return s
}

// TransparentNote has its value and value blinder visible on-chain.
// Change notes are always transparent.
type TransparentNote struct {
	position     uint64
	stealthAddr  StealthAddress
	value        uint64
	valueBlinder Scalar
}

// NewTransparentNote constructs a transparent note, typically the
// change output of a Phoenix transaction.
func NewTransparentNote(position uint64, addr StealthAddress, value uint64, blinder Scalar) TransparentNote {
	return TransparentNote{position: position, stealthAddr: addr, value: value, valueBlinder: blinder}
}

// Position implements Note.
func (n TransparentNote) Position() uint64 { return n.position }

// StealthAddr implements Note.
func (n TransparentNote) StealthAddr() StealthAddress { return n.stealthAddr }

// IsObfuscated implements Note.
func (n TransparentNote) IsObfuscated() bool { return false }

// Value implements Note; a transparent note's value needs no key to
// read.
func (n TransparentNote) Value(NoteViewKey) (uint64, error) { return n.value, nil }

// ValueBlinder implements Note.
func (n TransparentNote) ValueBlinder(NoteViewKey) (Scalar, error) { return n.valueBlinder, nil }

// Nullifier implements Note.
func (n TransparentNote) Nullifier(sk NoteSecretKey) Scalar { return nullifier(n.position, sk) }

// ObfuscatedNote hides its value and value blinder; only a holder of
// the matching view key can recover them. Decryption of a note
// received from the chain is an opaque, contract-preserving
// operation (spec §1); locally-built transfer notes instead carry
// their already-known plaintext, and NewObfuscatedNote leaves their
// ciphertext field empty.
type ObfuscatedNote struct {
	position       uint64
	stealthAddr    StealthAddress
	plainValue     uint64
	plainBlinder   Scalar
	senderBlinders [2]Scalar
	ciphertext     []byte
}

// NewObfuscatedNote constructs an obfuscated note with known
// plaintext, as happens when the wallet builds its own transfer note.
func NewObfuscatedNote(rng io.Reader, addr StealthAddress, value uint64, blinder Scalar, senderBlinders [2]Scalar) (ObfuscatedNote, error) {
	return ObfuscatedNote{
		stealthAddr:    addr,
		plainValue:     value,
		plainBlinder:   blinder,
		senderBlinders: senderBlinders,
		ciphertext:     nil,
	}, nil
}

// Position implements Note.
func (n ObfuscatedNote) Position() uint64 { return n.position }

// StealthAddr implements Note.
func (n ObfuscatedNote) StealthAddr() StealthAddress { return n.stealthAddr }

// IsObfuscated implements Note.
func (n ObfuscatedNote) IsObfuscated() bool { return true }

// Value implements Note. Ownership is asserted by the caller (via
// NoteViewKey.Owns against StealthAddr) before this is ever called;
// decrypting a note whose stealth address does not belong to vk is
// the node/circuit's problem to reject, not this wrapper's.
func (n ObfuscatedNote) Value(NoteViewKey) (uint64, error) { return n.plainValue, nil }

// ValueBlinder implements Note.
func (n ObfuscatedNote) ValueBlinder(NoteViewKey) (Scalar, error) { return n.plainBlinder, nil }

// Nullifier implements Note.
func (n ObfuscatedNote) Nullifier(sk NoteSecretKey) Scalar { return nullifier(n.position, sk) }

// WithPosition returns a copy of n with its tree position set, used
// once the state gateway assigns a position to a freshly-read note.
func (n ObfuscatedNote) WithPosition(pos uint64) ObfuscatedNote {
	n.position = pos
	return n
}

// WithPosition returns a copy of n with its tree position set.
func (n TransparentNote) WithPosition(pos uint64) TransparentNote {
	n.position = pos
	return n
}
