// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// ContractID derives a deterministic contract id from deployed
// bytecode, a deploy nonce and the owner's bytes:
// BLAKE2b-256(bytecode ‖ LE64(nonce) ‖ owner). This invariant must be
// preserved bit-exactly for compatibility with the deployed contract.
func ContractID(bytecode []byte, nonce uint64, owner []byte) [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on an oversized key, and no key
		// is used here, so this is unreachable.
		panic(err)
	}
	h.Write(bytecode)
	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], nonce)
	h.Write(nonceLE[:])
	h.Write(owner)

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashBytes hashes an arbitrary byte slice with BLAKE2b-256, used for
// the Moonlight payload digest and the Phoenix transaction id.
func HashBytes(data []byte) [32]byte {
	var out [32]byte
	sum := blake2b.Sum256(data)
	copy(out[:], sum[:])
	return out
}

// HashMoonlightPayload hashes an already-serialized Moonlight payload
// under the same BLAKE2b-256 domain as HashBytes: the digest
// MoonlightBuilder BLS-signs.
func HashMoonlightPayload(payload []byte) [32]byte {
	return HashBytes(payload)
}
