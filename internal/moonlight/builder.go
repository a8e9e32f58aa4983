// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package moonlight assembles signed Moonlight transactions: the
// transparent, account/nonce-based transfer model. Unlike Phoenix,
// there is no note scanning or input selection — just a payload built
// from caller-supplied account state, hashed, and BLS-signed.
package moonlight

import (
	"encoding/binary"
	"io"

	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/txexec"
)

var log = dlog.MoonLog

// Payload is the Moonlight account-model transaction body: a transfer
// from one account to an optional recipient, with a gas budget, an
// optional deposit, a nonce, and an optional embedded call/deploy.
type Payload struct {
	From     duskcrypto.AccountPublicKey
	To       *duskcrypto.AccountPublicKey
	Value    uint64
	Deposit  uint64
	GasLimit uint64
	GasPrice uint64
	Nonce    uint64
	ChainID  uint8
	Exec     txexec.Spec
}

// Bytes deterministically serializes p, the exact byte sequence its
// signed digest is computed over. Order and encoding are a bit-exact
// invariant: changing them changes every signature this package
// produces.
func (p Payload) Bytes() []byte {
	buf := make([]byte, 0, 128)

	fromBytes := p.From.Bytes()
	buf = append(buf, fromBytes...)

	if p.To != nil {
		toBytes := p.To.Bytes()
		buf = append(buf, 1)
		buf = append(buf, toBytes...)
	} else {
		buf = append(buf, 0)
	}

	buf = appendLE64(buf, p.Value)
	buf = appendLE64(buf, p.Deposit)
	buf = appendLE64(buf, p.GasLimit)
	buf = appendLE64(buf, p.GasPrice)
	buf = appendLE64(buf, p.Nonce)
	buf = append(buf, p.ChainID)
	buf = append(buf, p.Exec.Bytes()...)

	return buf
}

func appendLE64(buf []byte, v uint64) []byte {
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], v)
	return append(buf, le[:]...)
}

// Transaction is a Moonlight payload with its BLS signature attached,
// ready for the prover gateway's preverify/propagate steps (which, on
// the Moonlight path, skip prove_execute entirely).
type Transaction struct {
	Payload   Payload
	Digest    [32]byte
	Signature duskcrypto.BLSSignature
}

// Bytes returns the wire serialization POSTed to preverify and
// propagate_tx.
func (tx Transaction) Bytes() []byte {
	buf := tx.Payload.Bytes()
	sigBytes := tx.Signature.Bytes()
	buf = append(buf, sigBytes...)
	return buf
}

// HashInputBytes returns the byte sequence the tx id is computed over
// (scalar_hash(tx.hash_input_bytes), spec.md §4.7 step 5, reused
// verbatim for the Moonlight path).
func (tx Transaction) HashInputBytes() []byte {
	sigBytes := tx.Signature.Bytes()
	buf := make([]byte, 0, 32+len(sigBytes))
	buf = append(buf, tx.Digest[:]...)
	buf = append(buf, sigBytes...)
	return buf
}

// Params bundles the inputs MoonlightBuilder needs. Nonce policy:
// Nonce MUST be the caller's fetched_account.nonce + 1 — this package
// does not fetch account state itself and performs no retry on nonce
// conflicts; that belongs to the caller (spec.md §4.6).
type Params struct {
	RNG        io.Reader
	SenderSK   duskcrypto.AccountSecretKey
	ReceiverPK *duskcrypto.AccountPublicKey
	Value      uint64
	Deposit    uint64
	GasLimit   uint64
	GasPrice   uint64
	Nonce      uint64
	ChainID    uint8
	Exec       txexec.Spec
}

// Build assembles and BLS-signs a Moonlight transaction per spec.md
// §4.6. A Moonlight transaction has no input notes, so a KindDynamic
// exec resolver is invoked with an empty note slice.
func Build(params Params) (Transaction, error) {
	exec, err := params.Exec.Resolve(params.RNG, nil)
	if err != nil {
		return Transaction{}, err
	}

	payload := Payload{
		From:     params.SenderSK.PublicKey(),
		To:       params.ReceiverPK,
		Value:    params.Value,
		Deposit:  params.Deposit,
		GasLimit: params.GasLimit,
		GasPrice: params.GasPrice,
		Nonce:    params.Nonce,
		ChainID:  params.ChainID,
		Exec:     exec,
	}

	digest := duskcrypto.HashMoonlightPayload(payload.Bytes())
	sig := params.SenderSK.Sign(digest)

	log.Debugf("built moonlight transaction at nonce %d, digest %x", params.Nonce, digest)
	return Transaction{Payload: payload, Digest: digest, Signature: sig}, nil
}
