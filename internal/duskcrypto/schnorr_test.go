// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto_test

import (
	"testing"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
)

func TestSchnorrSignIsDeterministicGivenTheSameRng(t *testing.T) {
	t.Parallel()

	sk := duskcrypto.ScalarFromBytes([32]byte{3, 1, 4})
	digest := duskcrypto.HashBytes([]byte("tx payload"))

	sig1, err := duskcrypto.SchnorrSign(deterministicReader(11), sk, digest)
	if err != nil {
		t.Fatalf("SchnorrSign: %v", err)
	}
	sig2, err := duskcrypto.SchnorrSign(deterministicReader(11), sk, digest)
	if err != nil {
		t.Fatalf("SchnorrSign: %v", err)
	}
	if sig1.S.Bytes() != sig2.S.Bytes() {
		t.Fatal("same rng and inputs produced different signatures")
	}
}

func TestSchnorrSignVariesWithDigest(t *testing.T) {
	t.Parallel()

	sk := duskcrypto.ScalarFromBytes([32]byte{3, 1, 4})

	sig1, err := duskcrypto.SchnorrSign(deterministicReader(11), sk, duskcrypto.HashBytes([]byte("a")))
	if err != nil {
		t.Fatalf("SchnorrSign: %v", err)
	}
	sig2, err := duskcrypto.SchnorrSign(deterministicReader(11), sk, duskcrypto.HashBytes([]byte("b")))
	if err != nil {
		t.Fatalf("SchnorrSign: %v", err)
	}
	if sig1.S.Bytes() == sig2.S.Bytes() {
		t.Fatal("different digests produced the same signature scalar")
	}
}
