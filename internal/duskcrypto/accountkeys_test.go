// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto_test

import (
	"testing"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
)

func TestDeriveAccountSecretKeyIsDeterministic(t *testing.T) {
	t.Parallel()

	sk1, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(5))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}
	sk2, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(5))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}
	if sk1.Bytes() != sk2.Bytes() {
		t.Fatal("same rng stream produced different account secret keys")
	}
}

func TestAccountPublicKeyBytesLen(t *testing.T) {
	t.Parallel()

	sk, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(6))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}
	pk := sk.PublicKey()
	if len(pk.Bytes()) == 0 {
		t.Fatal("expected a non-empty public key encoding")
	}
}

func TestSignProducesNonEmptySignature(t *testing.T) {
	t.Parallel()

	sk, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(7))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}
	digest := duskcrypto.HashBytes([]byte("payload"))
	sig := sk.Sign(digest)
	if len(sig.Bytes()) == 0 {
		t.Fatal("expected a non-empty signature encoding")
	}
}
