// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"encoding/json"

	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

// blockQueryResult mirrors the "Chain" target's block-height query
// response shape.
type blockQueryResult struct {
	Block struct {
		Header struct {
			Height uint64 `json:"height"`
		} `json:"header"`
	} `json:"block"`
}

// spentTxResponse mirrors the tx(hash) outcome query response shape,
// shared with the prover gateway's outcome poll.
type spentTxResponse struct {
	Tx *struct {
		ID  string  `json:"id"`
		Err *string `json:"err"`
	} `json:"tx"`
}

func parseBlockHeight(data []byte) (uint64, error) {
	var result blockQueryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, walleterr.Wrap(walleterr.InvalidQueryResponse, "decoding block height response", err)
	}
	return result.Block.Header.Height, nil
}

// ParseTxOutcome decodes a tx(hash) GraphQL response. It returns
// (found=false) when the node has not yet seen the transaction,
// (found=true, serverErr="") on success, and (found=true,
// serverErr=<message>) when the node executed the transaction but it
// reverted.
func ParseTxOutcome(data []byte) (found bool, serverErr string, err error) {
	var result spentTxResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return false, "", walleterr.Wrap(walleterr.InvalidQueryResponse, "decoding tx outcome response", err)
	}
	if result.Tx == nil {
		return false, "", nil
	}
	if result.Tx.Err != nil {
		return true, *result.Tx.Err, nil
	}
	return true, "", nil
}
