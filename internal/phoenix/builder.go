// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package phoenix assembles unproven Phoenix transactions: the
// shielded, note-based transfer model. Building one walks the state
// gateway for unspent notes, selects inputs, generates the transfer
// and change outputs, and signs the resulting payload hash twice with
// Schnorr — the last step before handoff to the prover gateway.
package phoenix

import (
	"context"
	"io"

	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
	"github.com/dusk-network/dusk-deploy-cli/internal/selector"
	"github.com/dusk-network/dusk-deploy-cli/internal/stategateway"
	"github.com/dusk-network/dusk-deploy-cli/internal/txexec"
)

var log = dlog.PhnxLog

// nullifierChunkSize is MAX_CALL_SIZE / (8 * sizeof(scalar)): the
// largest batch of nullifiers a single existing_nullifiers round trip
// may carry without exceeding the contract call size bound.
const nullifierChunkSize = 65536 / (8 * 32)

// UnprovenTransactionInput binds one spent note into the transaction,
// committing it to the payload hash the rest of the transaction was
// assembled around.
type UnprovenTransactionInput struct {
	Note        duskcrypto.Note
	Nullifier   duskcrypto.Scalar
	Opening     stategateway.NoteOpening
	PayloadHash [32]byte
}

// Skeleton is the part of the transaction the note tree's current
// state constrains: the anchor it was built against, the nullifiers
// it spends, and the commitments of the two notes it produces.
type Skeleton struct {
	Root              duskcrypto.Scalar
	Nullifiers        []duskcrypto.Scalar
	OutputCommitments [2]duskcrypto.Scalar
	MaxFee            uint64
	Deposit           uint64
}

// Fee carries the gas budget and the refund stealth address the node
// pays unspent gas back to.
type Fee struct {
	GasLimit    uint64
	GasPrice    uint64
	RefundAddr  duskcrypto.StealthAddress
}

// UnprovenTransaction is PhoenixBuilder's output: everything the
// prover gateway needs to request a proof and, once proved,
// propagate the transaction.
type UnprovenTransaction struct {
	Skeleton     Skeleton
	Fee          Fee
	Exec         txexec.Spec
	SenderPK     duskcrypto.NotePublicKey
	Inputs       []UnprovenTransactionInput
	TransferNote duskcrypto.ObfuscatedNote
	ChangeNote   duskcrypto.TransparentNote
	PayloadHash  [32]byte
	SigA         duskcrypto.SchnorrSignature
	SigB         duskcrypto.SchnorrSignature
}

// Params bundles the inputs PhoenixBuilder needs: rng, the sender's
// note secret key, the receiver's note public key, the transfer
// value, the gas budget, an optional deposit, and an optional
// embedded call/deploy payload.
type Params struct {
	RNG        io.Reader
	SenderSK   duskcrypto.NoteSecretKey
	ReceiverPK duskcrypto.NotePublicKey
	Value      uint64
	GasLimit   uint64
	GasPrice   uint64
	Deposit    uint64
	Exec       txexec.Spec
}

// Build runs PhoenixBuilder's nine steps (spec.md §4.5) and returns a
// complete unproven transaction. Given a fixed rng seed and fixed
// chain state (as observed through gw and cache), the result is
// reproducible bit-for-bit: every random draw against params.RNG
// happens in the same fixed order on every call.
func Build(ctx context.Context, gw stategateway.Gateway, cache *notecache.Cache, params Params) (UnprovenTransaction, error) {
	senderVK := params.SenderSK.ViewKey()
	log.Debugf("building phoenix transaction for value %d", params.Value)

	// Step 1: load unspent notes.
	fromHeight := cache.LastHeight(senderVK)
	fresh, err := gw.FetchNotes(ctx, senderVK, fromHeight)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	cache.Merge(senderVK, fresh)
	entry := cache.Snapshot(senderVK)

	nullifiers := make([]duskcrypto.Scalar, len(entry.Notes))
	for i, n := range entry.Notes {
		nullifiers[i] = n.Note.Nullifier(params.SenderSK)
	}

	spent := make(map[duskcrypto.Scalar]struct{})
	for off := 0; off < len(nullifiers); off += nullifierChunkSize {
		end := off + nullifierChunkSize
		if end > len(nullifiers) {
			end = len(nullifiers)
		}
		existing, err := gw.FetchExistingNullifiers(ctx, nullifiers[off:end])
		if err != nil {
			return UnprovenTransaction{}, err
		}
		for _, e := range existing {
			spent[e] = struct{}{}
		}
	}

	candidates := make([]selector.Candidate, 0, len(entry.Notes))
	for i, n := range entry.Notes {
		if _, isSpent := spent[nullifiers[i]]; isSpent {
			continue
		}
		value, err := n.Note.Value(senderVK)
		if err != nil {
			return UnprovenTransaction{}, err
		}
		blinder, err := n.Note.ValueBlinder(senderVK)
		if err != nil {
			return UnprovenTransaction{}, err
		}
		candidates = append(candidates, selector.Candidate{Note: n.Note, Value: value, ValueBlinder: blinder})
	}

	// Steps 2-3: accumulate and select inputs.
	selected, err := selector.Plan(candidates, params.Value, params.GasLimit, params.GasPrice, params.Deposit)
	if err != nil {
		log.Warnf("input selection failed: %v", err)
		return UnprovenTransaction{}, err
	}

	maxFee := params.GasLimit * params.GasPrice
	var selectedTotal uint64
	for _, c := range selected {
		selectedTotal += c.Value
	}

	// Step 4: generate outputs.
	transferBlinder, err := duskcrypto.ScalarFromReader(params.RNG)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	var senderBlinders [2]duskcrypto.Scalar
	senderBlinders[0], err = duskcrypto.ScalarFromReader(params.RNG)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	senderBlinders[1], err = duskcrypto.ScalarFromReader(params.RNG)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	transferAddr, err := duskcrypto.NewStealthAddressTo(params.RNG, params.ReceiverPK)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	transferNote, err := duskcrypto.NewObfuscatedNote(params.RNG, transferAddr, params.Value, transferBlinder, senderBlinders)
	if err != nil {
		return UnprovenTransaction{}, err
	}

	changeValue := selectedTotal - params.Value - maxFee - params.Deposit
	changeAddr, err := duskcrypto.NewStealthAddressTo(params.RNG, params.SenderSK.PublicKey())
	if err != nil {
		return UnprovenTransaction{}, err
	}
	changeNote := duskcrypto.NewTransparentNote(0, changeAddr, changeValue, duskcrypto.ZeroScalar())

	// Step 5: fetch openings, anchor, chain id.
	inputs := make([]UnprovenTransactionInput, len(selected))
	for i, c := range selected {
		opening, err := gw.FetchOpening(ctx, c.Note.Position())
		if err != nil {
			return UnprovenTransaction{}, err
		}
		inputs[i] = UnprovenTransactionInput{
			Note:      c.Note,
			Nullifier: c.Note.Nullifier(params.SenderSK),
			Opening:   opening,
		}
	}
	root, err := gw.FetchAnchor(ctx)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	if _, err := gw.FetchChainID(ctx); err != nil {
		return UnprovenTransaction{}, err
	}

	refundAddr, err := duskcrypto.NewStealthAddressTo(params.RNG, params.SenderSK.PublicKey())
	if err != nil {
		return UnprovenTransaction{}, err
	}

	// Exec resolution happens right before payload-hash computation,
	// once the final input set is settled.
	inputNotes := make([]duskcrypto.Note, len(selected))
	for i, c := range selected {
		inputNotes[i] = c.Note
	}
	exec, err := params.Exec.Resolve(params.RNG, inputNotes)
	if err != nil {
		return UnprovenTransaction{}, err
	}

	inputNullifiers := make([]duskcrypto.Scalar, len(inputs))
	for i, in := range inputs {
		inputNullifiers[i] = in.Nullifier
	}

	skeleton := Skeleton{
		Root:       root,
		Nullifiers: inputNullifiers,
		OutputCommitments: [2]duskcrypto.Scalar{
			duskcrypto.NoteCommitment(params.Value, transferBlinder),
			duskcrypto.NoteCommitment(changeValue, duskcrypto.ZeroScalar()),
		},
		MaxFee:  maxFee,
		Deposit: params.Deposit,
	}
	fee := Fee{GasLimit: params.GasLimit, GasPrice: params.GasPrice, RefundAddr: refundAddr}

	// Step 6: assemble payload, compute payload_hash.
	payloadHash := duskcrypto.HashBytes(payloadBytes(skeleton, fee, exec))

	// Step 7: bind each input to the payload hash.
	for i := range inputs {
		inputs[i].PayloadHash = payloadHash
	}

	// Step 8: sign the payload hash twice.
	sigA, err := duskcrypto.SchnorrSign(params.RNG, params.SenderSK.A, payloadHash)
	if err != nil {
		return UnprovenTransaction{}, err
	}
	sigB, err := duskcrypto.SchnorrSign(params.RNG, params.SenderSK.B, payloadHash)
	if err != nil {
		return UnprovenTransaction{}, err
	}

	log.Debugf("assembled unproven phoenix transaction, payload hash %x", payloadHash)
	return UnprovenTransaction{
		Skeleton:     skeleton,
		Fee:          fee,
		Exec:         exec,
		SenderPK:     params.SenderSK.PublicKey(),
		Inputs:       inputs,
		TransferNote: transferNote,
		ChangeNote:   changeNote,
		PayloadHash:  payloadHash,
		SigA:         sigA,
		SigB:         sigB,
	}, nil
}
