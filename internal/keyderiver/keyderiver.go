// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyderiver implements deterministic derivation of note and
// account secret keys from a 64-byte seed and an index, the way a
// hierarchical deterministic wallet derives child keys from a master
// seed — except here every index is derived directly from the seed
// rather than through a Child() chain, since the upstream system has
// no notion of extended keys or hardened/non-hardened paths.
package keyderiver

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
)

// Domain tags used to separate the note-key and account-key
// derivation spaces. These exact byte strings are a bit-exact
// compatibility invariant (spec §6): changing them would derive a
// different key for the same (seed, index).
const (
	noteKeyTag    = "SSK"
	accountKeyTag = "SK"
)

// Seed is the 64 bytes of entropy every key in a wallet is derived
// from. It is never persisted outside process memory.
type Seed [64]byte

// deriveSeedHash computes SHA-256(seed ‖ LE64(index) ‖ tag), the
// per-derivation seed fed into the ChaCha12 CSPRNG.
func deriveSeedHash(seed Seed, index uint64, tag string) [32]byte {
	h := sha256.New()
	h.Write(seed[:])

	var indexLE [8]byte
	binary.LittleEndian.PutUint64(indexLE[:], index)
	h.Write(indexLE[:])

	h.Write([]byte(tag))

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveNoteSecretKey derives the note secret key at index from seed,
// using domain tag "SSK". Pure and deterministic: identical inputs
// always produce identical key bytes. Callers may memoize; this
// function does not cache.
func DeriveNoteSecretKey(seed Seed, index uint64) (duskcrypto.NoteSecretKey, error) {
	h := deriveSeedHash(seed, index, noteKeyTag)
	rng := duskcrypto.NewDeterministicRNG(h)
	return duskcrypto.DeriveNoteSecretKey(rng)
}

// DeriveAccountSecretKey derives the account secret key at index from
// seed, using domain tag "SK". Pure and deterministic.
func DeriveAccountSecretKey(seed Seed, index uint64) (duskcrypto.AccountSecretKey, error) {
	h := deriveSeedHash(seed, index, accountKeyTag)
	rng := duskcrypto.NewDeterministicRNG(h)
	return duskcrypto.DeriveAccountSecretKey(rng)
}
