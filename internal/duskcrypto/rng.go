// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto

import "io"

// NewDeterministicRNG returns an io.Reader producing the ChaCha12
// keystream seeded by seed. Key derivation seeds one of these per
// (wallet seed, index, domain tag) triple and draws whatever scalars
// it needs from the stream, so the same triple always yields the
// same keys.
func NewDeterministicRNG(seed [32]byte) io.Reader {
	return newChaCha12Rng(seed)
}
