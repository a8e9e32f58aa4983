// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package moonlight_test

import (
	"bytes"
	"testing"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/moonlight"
	"github.com/dusk-network/dusk-deploy-cli/internal/txexec"
)

func deterministicReader(seed byte) *bytes.Reader {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
	return bytes.NewReader(buf)
}

func TestBuildCarriesTheSuppliedNonce(t *testing.T) {
	t.Parallel()

	senderSK, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(1))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}
	receiverSK, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(2))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}
	receiverPK := receiverSK.PublicKey()

	// AccountData{nonce: 41} was fetched; the caller must pass 42.
	tx, err := moonlight.Build(moonlight.Params{
		RNG:        deterministicReader(3),
		SenderSK:   senderSK,
		ReceiverPK: &receiverPK,
		Value:      100,
		GasLimit:   1,
		GasPrice:   1,
		Nonce:      42,
		ChainID:    1,
		Exec:       txexec.None(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tx.Payload.Nonce != 42 {
		t.Fatalf("got nonce %d, want 42", tx.Payload.Nonce)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	senderSK, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(4))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}

	build := func() (moonlight.Transaction, error) {
		return moonlight.Build(moonlight.Params{
			RNG:      deterministicReader(5),
			SenderSK: senderSK,
			Value:    10,
			GasLimit: 1,
			GasPrice: 1,
			Nonce:    1,
			ChainID:  2,
			Exec:     txexec.None(),
		})
	}

	tx1, err := build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tx2, err := build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if tx1.Digest != tx2.Digest {
		t.Fatal("identical inputs produced different payload digests")
	}
	if !bytes.Equal(tx1.Signature.Bytes(), tx2.Signature.Bytes()) {
		t.Fatal("identical inputs produced different signatures")
	}
}

func TestBuildDigestChangesWithValue(t *testing.T) {
	t.Parallel()

	senderSK, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(6))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}

	build := func(value uint64) (moonlight.Transaction, error) {
		return moonlight.Build(moonlight.Params{
			RNG:      deterministicReader(7),
			SenderSK: senderSK,
			Value:    value,
			GasLimit: 1,
			GasPrice: 1,
			Nonce:    1,
			ChainID:  1,
			Exec:     txexec.None(),
		})
	}

	tx1, err := build(10)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tx2, err := build(20)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tx1.Digest == tx2.Digest {
		t.Fatal("different transfer values produced the same payload digest")
	}
}

func TestBuildWithNoRecipientOmitsToFlag(t *testing.T) {
	t.Parallel()

	senderSK, err := duskcrypto.DeriveAccountSecretKey(deterministicReader(8))
	if err != nil {
		t.Fatalf("DeriveAccountSecretKey: %v", err)
	}

	tx, err := moonlight.Build(moonlight.Params{
		RNG:      deterministicReader(9),
		SenderSK: senderSK,
		Deposit:  5,
		GasLimit: 1,
		GasPrice: 1,
		Nonce:    1,
		ChainID:  1,
		Exec:     txexec.None(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tx.Payload.To != nil {
		t.Fatal("expected a nil recipient to round-trip as nil")
	}
}
