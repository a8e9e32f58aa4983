// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package prover submits built transactions to a prover and a rusk
// node and polls for their outcome. Proving, preverification, and
// propagation have no retry: a transport or server error at any of
// those steps is immediately fatal for the submission. Only the
// post-propagation outcome poll retries, since a freshly propagated
// transaction is not immediately visible to the node's query surface.
package prover

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/moonlight"
	"github.com/dusk-network/dusk-deploy-cli/internal/phoenix"
	"github.com/dusk-network/dusk-deploy-cli/internal/stategateway"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

var log = dlog.PrvrLog

const (
	proverTarget     = "rusk"
	transactorTarget = "Transactor"

	proveExecuteMethod = "prove_execute"
	preverifyMethod    = "preverify"
	propagateMethod    = "propagate_tx"
)

// outcomePollAttempts and outcomePollInterval are the poll's fixed
// cadence: up to 20 attempts, 3 seconds apart (spec.md §4.7 step 6).
const (
	outcomePollAttempts = 20
	outcomePollInterval = 3 * time.Second
)

// Gateway submits Phoenix and Moonlight transactions and polls for
// their on-chain outcome.
type Gateway struct {
	prover *stategateway.Client
	rusk   *stategateway.Client

	attempts int
	interval time.Duration
	// newTicker is overridden in tests to avoid real sleeps while
	// still exercising the same attempt-count/interval contract.
	newTicker func(time.Duration) *time.Ticker
}

// NewGateway wires prover (the proving service) and rusk (the node)
// as the two HTTP transports a submission needs.
func NewGateway(prover, rusk *stategateway.Client) *Gateway {
	return &Gateway{
		prover:    prover,
		rusk:      rusk,
		attempts:  outcomePollAttempts,
		interval:  outcomePollInterval,
		newTicker: time.NewTicker,
	}
}

// SubmitPhoenix runs the Phoenix path: prove_execute, attach the
// returned proof, preverify, propagate, then poll for the outcome.
// Returns the tx id hex string even on a poll failure, since
// propagation itself already succeeded by that point.
func (g *Gateway) SubmitPhoenix(ctx context.Context, unproven phoenix.UnprovenTransaction) (string, error) {
	log.Debugf("requesting proof for payload hash %x", unproven.PayloadHash)
	proof, err := g.prover.Call(ctx, 1, proverTarget, stategateway.RuskRequest{
		Name: proveExecuteMethod,
		Data: unproven.PayloadHash[:],
	})
	if err != nil {
		log.Errorf("prove_execute failed: %v", err)
		return "", err
	}

	tx := phoenix.Transaction{Unproven: unproven, Proof: proof}
	if err := g.preverifyAndPropagate(ctx, tx.Bytes()); err != nil {
		return "", err
	}

	txID := computeTxID(tx.HashInputBytes())
	log.Infof("propagated phoenix transaction %s", txID)
	return txID, g.awaitOutcome(ctx, txID)
}

// SubmitMoonlight runs the Moonlight path: preverify, propagate, then
// poll for the outcome. There is no prove_execute step.
func (g *Gateway) SubmitMoonlight(ctx context.Context, tx moonlight.Transaction) (string, error) {
	if err := g.preverifyAndPropagate(ctx, tx.Bytes()); err != nil {
		return "", err
	}

	txID := computeTxID(tx.HashInputBytes())
	log.Infof("propagated moonlight transaction %s", txID)
	return txID, g.awaitOutcome(ctx, txID)
}

func (g *Gateway) preverifyAndPropagate(ctx context.Context, txBytes []byte) error {
	if _, err := g.rusk.Call(ctx, 2, transactorTarget, stategateway.RuskRequest{Name: preverifyMethod, Data: txBytes}); err != nil {
		log.Errorf("preverify failed: %v", err)
		return err
	}
	if _, err := g.rusk.Call(ctx, 2, transactorTarget, stategateway.RuskRequest{Name: propagateMethod, Data: txBytes}); err != nil {
		log.Errorf("propagate_tx failed: %v", err)
		return err
	}
	return nil
}

// computeTxID derives the hex-encoded transaction id as
// scalar_hash(hashInputBytes): a BLAKE2b-256 digest reduced onto the
// scalar field, matching the field the rest of the payload lives on.
func computeTxID(hashInputBytes []byte) string {
	digest := duskcrypto.HashBytes(hashInputBytes)
	scalar := duskcrypto.ScalarFromBytes(digest)
	b := scalar.Bytes()
	return hex.EncodeToString(b[:])
}

// SetPollTickerForTesting overrides the ticker constructor the
// outcome poll uses to wait between attempts. Production callers
// never need this; tests use it to avoid waiting out the real
// interval while still exercising the attempt-count/interval
// contract.
func (g *Gateway) SetPollTickerForTesting(newTicker func(time.Duration) *time.Ticker) {
	g.newTicker = newTicker
}

// awaitOutcome polls the node's GraphQL surface for txIDHex up to
// g.attempts times, g.interval apart, honoring ctx cancellation.
func (g *Gateway) awaitOutcome(ctx context.Context, txIDHex string) error {
	query := fmt.Sprintf(`{ tx(hash: "%s") { id err } }`, txIDHex)

	for attempt := 0; attempt < g.attempts; attempt++ {
		data, err := g.rusk.GQLQuery(ctx, query)
		if err != nil {
			return err
		}
		found, serverErr, err := stategateway.ParseTxOutcome(data)
		if err != nil {
			return err
		}
		if found {
			if serverErr != "" {
				return walleterr.New(walleterr.Deploy, serverErr)
			}
			return nil
		}

		if attempt == g.attempts-1 {
			break
		}

		log.Debugf("transaction %s not yet visible, retrying (attempt %d/%d)", txIDHex, attempt+1, g.attempts)
		ticker := g.newTicker(g.interval)
		select {
		case <-ctx.Done():
			ticker.Stop()
			return walleterr.Wrap(walleterr.Propagate, "outcome poll cancelled", ctx.Err())
		case <-ticker.C:
		}
		ticker.Stop()
	}

	return walleterr.New(walleterr.Propagate, "Transaction timed out")
}
