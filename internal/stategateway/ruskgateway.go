// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"context"
	"encoding/binary"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

// RuskGateway is the live Gateway implementation, talking to a rusk
// node's transfer contract over the shared Client transport.
type RuskGateway struct {
	client *Client
}

var _ Gateway = (*RuskGateway)(nil)

// NewRuskGateway wraps client as a Gateway.
func NewRuskGateway(client *Client) *RuskGateway {
	return &RuskGateway{client: client}
}

// FetchNotes implements Gateway.
func (g *RuskGateway) FetchNotes(ctx context.Context, vk duskcrypto.NoteViewKey, fromHeight uint64) ([]notecache.EnrichedNote, error) {
	var arg [8]byte
	binary.LittleEndian.PutUint64(arg[:], fromHeight)

	stream, err := g.client.ContractQueryStream(ctx, transferContractID, "leaves_from_height", arg[:])
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	return collectOwnedLeaves(stream, vk)
}

// FetchExistingNullifiers implements Gateway.
func (g *RuskGateway) FetchExistingNullifiers(ctx context.Context, nullifiers []duskcrypto.Scalar) ([]duskcrypto.Scalar, error) {
	if len(nullifiers) == 0 {
		return nil, nil
	}

	args := make([]byte, 0, len(nullifiers)*32)
	for _, n := range nullifiers {
		b := n.Bytes()
		args = append(args, b[:]...)
	}

	data, err := g.client.ContractQuery(ctx, transferContractID, "existing_nullifiers", args)
	if err != nil {
		return nil, err
	}
	if len(data)%32 != 0 {
		return nil, walleterr.New(walleterr.InvalidQueryResponse, "existing_nullifiers response not a multiple of 32 bytes")
	}

	out := make([]duskcrypto.Scalar, 0, len(data)/32)
	for off := 0; off < len(data); off += 32 {
		var b [32]byte
		copy(b[:], data[off:off+32])
		out = append(out, duskcrypto.ScalarFromBytes(b))
	}
	return out, nil
}

// FetchOpening implements Gateway.
func (g *RuskGateway) FetchOpening(ctx context.Context, position uint64) (NoteOpening, error) {
	var arg [8]byte
	binary.LittleEndian.PutUint64(arg[:], position)

	data, err := g.client.ContractQuery(ctx, transferContractID, "opening", arg[:])
	if err != nil {
		return NoteOpening{}, err
	}
	return OpeningFromBytes(data), nil
}

// FetchAnchor implements Gateway.
func (g *RuskGateway) FetchAnchor(ctx context.Context) (duskcrypto.Scalar, error) {
	data, err := g.client.ContractQuery(ctx, transferContractID, "root", nil)
	if err != nil {
		return duskcrypto.Scalar{}, err
	}
	if len(data) != 32 {
		return duskcrypto.Scalar{}, walleterr.New(walleterr.InvalidQueryResponse, "anchor response not 32 bytes")
	}
	var b [32]byte
	copy(b[:], data)
	return duskcrypto.ScalarFromBytes(b), nil
}

// FetchAccount implements Gateway.
func (g *RuskGateway) FetchAccount(ctx context.Context, pk duskcrypto.AccountPublicKey) (AccountData, error) {
	data, err := g.client.ContractQuery(ctx, transferContractID, "account", pk.Bytes())
	if err != nil {
		return AccountData{}, err
	}
	if len(data) != 16 {
		return AccountData{}, walleterr.New(walleterr.InvalidQueryResponse, "account response not 16 bytes")
	}
	return AccountData{
		Nonce:   binary.LittleEndian.Uint64(data[0:8]),
		Balance: binary.LittleEndian.Uint64(data[8:16]),
	}, nil
}

// FetchChainID implements Gateway.
func (g *RuskGateway) FetchChainID(ctx context.Context) (uint8, error) {
	data, err := g.client.ContractQuery(ctx, transferContractID, "chain_id", nil)
	if err != nil {
		return 0, err
	}
	if len(data) != 1 {
		return 0, walleterr.New(walleterr.InvalidQueryResponse, "chain_id response not 1 byte")
	}
	return data[0], nil
}

// FetchBlockHeight implements Gateway.
func (g *RuskGateway) FetchBlockHeight(ctx context.Context) (uint64, error) {
	data, err := g.client.GQLQuery(ctx, `query { block(height: -1) {header { height}} }`)
	if err != nil {
		return 0, err
	}
	return parseBlockHeight(data)
}

// GQLQuery implements Gateway.
func (g *RuskGateway) GQLQuery(ctx context.Context, query string) ([]byte, error) {
	return g.client.GQLQuery(ctx, query)
}

// ContractQuery implements Gateway.
func (g *RuskGateway) ContractQuery(ctx context.Context, contractIDHex, method string, args []byte) ([]byte, error) {
	return g.client.ContractQuery(ctx, contractIDHex, method, args)
}
