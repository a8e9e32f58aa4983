// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"context"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
)

// transferContractID addresses the transfer contract, the one
// contract every wallet operation queries or calls against.
const transferContractID = "0100000000000000000000000000000000000000000000000000000000000000"

// maxCallSize bounds a single contract call's argument/return payload,
// the bit-exact invariant named in spec §6.
const maxCallSize = 65536

// AccountData is a Moonlight account's on-chain state: its current
// nonce and spendable balance.
type AccountData struct {
	Nonce   uint64
	Balance uint64
}

// NoteOpening is the Merkle opening proving a note's membership in
// the note tree at a given anchor. Its internal structure belongs to
// the proving circuit (a contract-preserving black box per §1); the
// wallet only carries it from FetchOpening through to payload
// assembly.
type NoteOpening struct {
	raw []byte
}

// OpeningFromBytes wraps an opaque opening payload as received from
// the node.
func OpeningFromBytes(b []byte) NoteOpening {
	return NoteOpening{raw: append([]byte(nil), b...)}
}

// Bytes returns the opening's wire encoding.
func (o NoteOpening) Bytes() []byte {
	return o.raw
}

// Gateway is every read the wallet engine performs against chain
// state. It is defined as an interface so the engine and its
// components can be exercised against a fake in tests without a
// live node.
type Gateway interface {
	// FetchNotes streams every transfer-contract leaf produced at or
	// after fromHeight and returns the ones vk owns.
	FetchNotes(ctx context.Context, vk duskcrypto.NoteViewKey, fromHeight uint64) ([]notecache.EnrichedNote, error)

	// FetchExistingNullifiers reports which of nullifiers are already
	// spent on chain. An empty input returns (nil, nil) without a
	// round trip.
	FetchExistingNullifiers(ctx context.Context, nullifiers []duskcrypto.Scalar) ([]duskcrypto.Scalar, error)

	// FetchOpening returns the Merkle opening for the note at
	// position.
	FetchOpening(ctx context.Context, position uint64) (NoteOpening, error)

	// FetchAnchor returns the current note-tree root.
	FetchAnchor(ctx context.Context) (duskcrypto.Scalar, error)

	// FetchAccount returns the Moonlight account state for pk.
	FetchAccount(ctx context.Context, pk duskcrypto.AccountPublicKey) (AccountData, error)

	// FetchChainID returns the network's chain id, mixed into signed
	// payloads to prevent cross-network replay.
	FetchChainID(ctx context.Context) (uint8, error)

	// FetchBlockHeight returns the current tip height, used to
	// resolve --relative-height into an absolute block height.
	FetchBlockHeight(ctx context.Context) (uint64, error)

	// GQLQuery issues a raw GraphQL query against the "Chain" target,
	// shared with the prover gateway's outcome poll.
	GQLQuery(ctx context.Context, query string) ([]byte, error)

	// ContractQuery issues a read-only call against an arbitrary
	// contract (identified by its hex id) and method, used by the
	// optional post-submission verification step.
	ContractQuery(ctx context.Context, contractIDHex, method string, args []byte) ([]byte, error)
}
