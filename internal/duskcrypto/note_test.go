// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto_test

import (
	"testing"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
)

func TestTransparentNoteValueIsPlain(t *testing.T) {
	t.Parallel()

	blinder := duskcrypto.ScalarFromBytes([32]byte{1})
	n := duskcrypto.NewTransparentNote(3, duskcrypto.StealthAddress{}, 42, blinder)

	if n.Position() != 3 {
		t.Fatalf("got position %d, want 3", n.Position())
	}
	if n.IsObfuscated() {
		t.Fatal("transparent note reported itself obfuscated")
	}
	v, err := n.Value(duskcrypto.NoteViewKey{})
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 42 {
		t.Fatalf("got value %d, want 42", v)
	}
}

func TestObfuscatedNoteCarriesKnownPlaintext(t *testing.T) {
	t.Parallel()

	blinder := duskcrypto.ScalarFromBytes([32]byte{2})
	n, err := duskcrypto.NewObfuscatedNote(nil, duskcrypto.StealthAddress{}, 99, blinder, [2]duskcrypto.Scalar{})
	if err != nil {
		t.Fatalf("NewObfuscatedNote: %v", err)
	}
	n = n.WithPosition(5)

	if !n.IsObfuscated() {
		t.Fatal("obfuscated note did not report itself obfuscated")
	}
	v, err := n.Value(duskcrypto.NoteViewKey{})
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 99 {
		t.Fatalf("got value %d, want 99", v)
	}
	if n.Position() != 5 {
		t.Fatalf("got position %d, want 5", n.Position())
	}
}

func TestNullifierDiffersByPosition(t *testing.T) {
	t.Parallel()

	sk, err := duskcrypto.DeriveNoteSecretKey(deterministicReader(20))
	if err != nil {
		t.Fatalf("DeriveNoteSecretKey: %v", err)
	}

	n0 := duskcrypto.NewTransparentNote(0, duskcrypto.StealthAddress{}, 1, duskcrypto.ZeroScalar())
	n1 := duskcrypto.NewTransparentNote(1, duskcrypto.StealthAddress{}, 1, duskcrypto.ZeroScalar())

	if n0.Nullifier(sk).Equal(n1.Nullifier(sk)) {
		t.Fatal("notes at different positions produced the same nullifier")
	}
}

func TestNullifierDiffersByKey(t *testing.T) {
	t.Parallel()

	sk1, err := duskcrypto.DeriveNoteSecretKey(deterministicReader(21))
	if err != nil {
		t.Fatalf("DeriveNoteSecretKey: %v", err)
	}
	sk2, err := duskcrypto.DeriveNoteSecretKey(deterministicReader(22))
	if err != nil {
		t.Fatalf("DeriveNoteSecretKey: %v", err)
	}

	n := duskcrypto.NewTransparentNote(0, duskcrypto.StealthAddress{}, 1, duskcrypto.ZeroScalar())
	if n.Nullifier(sk1).Equal(n.Nullifier(sk2)) {
		t.Fatal("different keys produced the same nullifier for the same note")
	}
}
