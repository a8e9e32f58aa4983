// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyderiver

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"

	"github.com/decred/base58"

	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

// pbkdf2Iterations and the "mnemonic" salt prefix are BIP-39's fixed
// parameters for turning a mnemonic phrase and passphrase into a
// 64-byte seed.
const pbkdf2Iterations = 2048
const pbkdf2KeyLen = 64

// SeedFromMnemonic derives the 64-byte authoritative seed from a
// BIP-39 mnemonic phrase and an optional passphrase, via
// PBKDF2-HMAC-SHA512 with the standard "mnemonic"+passphrase salt.
func SeedFromMnemonic(mnemonic, passphrase string) (Seed, error) {
	if mnemonic == "" {
		return Seed{}, walleterr.New(walleterr.InvalidMnemonic, "mnemonic must not be empty")
	}

	key := pbkdf2.Key([]byte(mnemonic), []byte("mnemonic"+passphrase), pbkdf2Iterations, pbkdf2KeyLen, sha512.New)

	var seed Seed
	copy(seed[:], key)
	return seed, nil
}

// SeedFromBase58Key decodes a Base58-encoded 32-byte private-key blob
// (the --moonlight CLI argument) and left-pads it to 64 bytes, as
// spec §3 requires for a Moonlight-mode seed.
func SeedFromBase58Key(encoded string) (Seed, error) {
	decoded := base58.Decode(encoded)
	if len(decoded) == 0 && encoded != "" {
		return Seed{}, walleterr.New(walleterr.SeedDecode, "invalid base58 secret key")
	}
	if len(decoded) != 32 {
		return Seed{}, walleterr.New(walleterr.SeedDecode, "base58 secret key must decode to 32 bytes")
	}

	var seed Seed
	copy(seed[32:], decoded)
	return seed, nil
}
