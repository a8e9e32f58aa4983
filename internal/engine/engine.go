// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine orchestrates a single deploy/call operation end to
// end, for either payment model: LoadSeed -> DeriveKeys, then either
// the Phoenix path (ScanNotes -> SelectInputs -> BuildUnproven ->
// Prove -> Preverify -> Propagate -> AwaitOutcome, all folded into
// PhoenixBuilder and ProverGateway) or the Moonlight path
// (FetchAccount -> BuildSigned -> Preverify -> Propagate ->
// AwaitOutcome). Engine owns its KeyDeriver index, NoteCache, and
// gateways for the lifetime of one operation; nothing here is shared
// across concurrent operations except the NoteCache, whose own
// locking makes that safe (spec.md §5).
package engine

import (
	"context"
	"encoding/hex"
	"io"

	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/keyderiver"
	"github.com/dusk-network/dusk-deploy-cli/internal/moonlight"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
	"github.com/dusk-network/dusk-deploy-cli/internal/phoenix"
	"github.com/dusk-network/dusk-deploy-cli/internal/stategateway"
	"github.com/dusk-network/dusk-deploy-cli/internal/txexec"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

var log = dlog.EnginLog

// Submitter is the submission half of ProverGateway that Engine needs:
// prove (Phoenix only)/preverify/propagate/await-outcome, folded into
// two calls. Modeled as an interface so Engine can be exercised
// against a fake submitter without a live prover or node.
type Submitter interface {
	SubmitPhoenix(ctx context.Context, unproven phoenix.UnprovenTransaction) (string, error)
	SubmitMoonlight(ctx context.Context, tx moonlight.Transaction) (string, error)
}

// Engine owns the components one deploy/call operation needs: a seed
// to derive keys from, a read-only chain gateway, a prover/propagation
// gateway, and the shared note cache its Phoenix path merges into.
type Engine struct {
	Seed    keyderiver.Seed
	Gateway stategateway.Gateway
	Prover  Submitter
	Cache   *notecache.Cache
}

// New constructs an Engine over the given components. cache may be
// shared across Engines scanning different view keys; its own locking
// makes concurrent use safe.
func New(seed keyderiver.Seed, gw stategateway.Gateway, pr Submitter, cache *notecache.Cache) *Engine {
	if cache == nil {
		cache = notecache.New()
	}
	return &Engine{Seed: seed, Gateway: gw, Prover: pr, Cache: cache}
}

// Result is the terminal outcome of a submitted operation: a tx id on
// success, or an error from whichever step failed. QueriedValue is set
// only when the request carried a VerifyAgainst: the raw response
// ContractQuery returned for --method, printed by the CLI regardless
// of whether VerifyAgainst.Expected was also checked.
type Result struct {
	TxID         string
	QueriedValue []byte
}

// PhoenixRequest bundles the inputs a Phoenix deploy/call needs beyond
// what the Engine already owns.
type PhoenixRequest struct {
	RNG           io.Reader
	SenderIndex   uint64
	ReceiverPK    duskcrypto.NotePublicKey
	Value         uint64
	GasLimit      uint64
	GasPrice      uint64
	Deposit       uint64
	Exec          txexec.Spec
	VerifyAgainst *Verification
}

// RunPhoenix derives the sender's note key at SenderIndex, builds and
// submits a shielded transaction, and optionally runs the
// post-submission contract-state verification step.
func (e *Engine) RunPhoenix(ctx context.Context, req PhoenixRequest) (Result, error) {
	senderSK, err := keyderiver.DeriveNoteSecretKey(e.Seed, req.SenderIndex)
	if err != nil {
		return Result{}, walleterr.Wrap(walleterr.InvalidMnemonic, "deriving note secret key", err)
	}

	unproven, err := phoenix.Build(ctx, e.Gateway, e.Cache, phoenix.Params{
		RNG:        req.RNG,
		SenderSK:   senderSK,
		ReceiverPK: req.ReceiverPK,
		Value:      req.Value,
		GasLimit:   req.GasLimit,
		GasPrice:   req.GasPrice,
		Deposit:    req.Deposit,
		Exec:       req.Exec,
	})
	if err != nil {
		return Result{}, err
	}

	txID, err := e.Prover.SubmitPhoenix(ctx, unproven)
	result := Result{TxID: txID}
	if err != nil {
		log.Errorf("phoenix submission failed: %v", err)
		return result, err
	}
	log.Infof("phoenix transaction %s submitted", txID)

	if req.VerifyAgainst != nil {
		data, err := e.verify(ctx, *req.VerifyAgainst)
		if err != nil {
			return result, err
		}
		result.QueriedValue = data
	}
	return result, nil
}

// MoonlightRequest bundles the inputs a Moonlight deploy/call needs
// beyond what the Engine already owns. Nonce policy: Nonce MUST be
// the caller's fetched_account.nonce + 1 — this request does not
// fetch account state itself.
type MoonlightRequest struct {
	RNG           io.Reader
	SenderIndex   uint64
	ReceiverPK    *duskcrypto.AccountPublicKey
	Value         uint64
	Deposit       uint64
	GasLimit      uint64
	GasPrice      uint64
	Nonce         uint64
	ChainID       uint8
	Exec          txexec.Spec
	VerifyAgainst *Verification
}

// RunMoonlight derives the sender's account key at SenderIndex,
// builds and submits a transparent transaction, and optionally
// re-fetches account data afterward purely for observability (never
// to retry), plus the optional contract-state verification step.
func (e *Engine) RunMoonlight(ctx context.Context, req MoonlightRequest) (Result, error) {
	senderSK, err := keyderiver.DeriveAccountSecretKey(e.Seed, req.SenderIndex)
	if err != nil {
		return Result{}, walleterr.Wrap(walleterr.InvalidMnemonic, "deriving account secret key", err)
	}

	tx, err := moonlight.Build(moonlight.Params{
		RNG:        req.RNG,
		SenderSK:   senderSK,
		ReceiverPK: req.ReceiverPK,
		Value:      req.Value,
		Deposit:    req.Deposit,
		GasLimit:   req.GasLimit,
		GasPrice:   req.GasPrice,
		Nonce:      req.Nonce,
		ChainID:    req.ChainID,
		Exec:       req.Exec,
	})
	if err != nil {
		return Result{}, err
	}

	txID, err := e.Prover.SubmitMoonlight(ctx, tx)
	result := Result{TxID: txID}
	if err != nil {
		log.Errorf("moonlight submission failed: %v", err)
		return result, err
	}
	log.Infof("moonlight transaction %s submitted at nonce %d", txID, req.Nonce)

	// Re-fetch account data solely for observability; a nonce
	// conflict here is never retried (spec.md §4.6).
	_, _ = e.Gateway.FetchAccount(ctx, senderSK.PublicKey())

	if req.VerifyAgainst != nil {
		data, err := e.verify(ctx, *req.VerifyAgainst)
		if err != nil {
			return result, err
		}
		result.QueriedValue = data
	}
	return result, nil
}

// Verification is the optional post-submission step: derive a
// contract id, issue a read-only query against one of its methods,
// and compare the response to an expected scalar.
type Verification struct {
	Bytecode []byte
	Nonce    uint64
	Owner    []byte
	Method   string
	Args     []byte
	Expected *duskcrypto.Scalar
}

// verify issues the read-only post-submission query and, when the
// caller also set Expected, checks the response against it. The raw
// response is always returned alongside any error so the caller (the
// CLI's --method output) can surface it even when no Expected value
// was given to check it against.
func (e *Engine) verify(ctx context.Context, v Verification) ([]byte, error) {
	contractID := duskcrypto.ContractID(v.Bytecode, v.Nonce, v.Owner)
	data, err := e.Gateway.ContractQuery(ctx, hex.EncodeToString(contractID[:]), v.Method, v.Args)
	if err != nil {
		return nil, err
	}
	if v.Expected == nil {
		return data, nil
	}
	if len(data) != 32 {
		return data, walleterr.New(walleterr.ContractRead, "verification response not 32 bytes")
	}
	var b [32]byte
	copy(b[:], data)
	got := duskcrypto.ScalarFromBytes(b)
	if !got.Equal(*v.Expected) {
		return data, walleterr.New(walleterr.ContractRead, "contract state does not match the expected value")
	}
	return data, nil
}
