// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phoenix

import (
	"encoding/binary"

	"github.com/dusk-network/dusk-deploy-cli/internal/txexec"
)

// payloadBytes deterministically serializes the skeleton, fee, and
// optional exec payload into the byte sequence payload_hash is
// computed over (spec.md §4.5 step 6). Order and encoding are a
// bit-exact invariant of this implementation: any change here changes
// every payload hash, and therefore every downstream signature and
// tx id.
func payloadBytes(skeleton Skeleton, fee Fee, exec txexec.Spec) []byte {
	buf := make([]byte, 0, 256)

	root := skeleton.Root.Bytes()
	buf = append(buf, root[:]...)

	var nullifierCount [8]byte
	binary.LittleEndian.PutUint64(nullifierCount[:], uint64(len(skeleton.Nullifiers)))
	buf = append(buf, nullifierCount[:]...)
	for _, n := range skeleton.Nullifiers {
		b := n.Bytes()
		buf = append(buf, b[:]...)
	}

	for _, c := range skeleton.OutputCommitments {
		b := c.Bytes()
		buf = append(buf, b[:]...)
	}

	buf = appendLE64(buf, skeleton.MaxFee)
	buf = appendLE64(buf, skeleton.Deposit)

	buf = appendLE64(buf, fee.GasLimit)
	buf = appendLE64(buf, fee.GasPrice)
	refundR := fee.RefundAddr.R.Bytes()
	refundP := fee.RefundAddr.P.Bytes()
	buf = append(buf, refundR[:]...)
	buf = append(buf, refundP[:]...)

	buf = append(buf, exec.Bytes()...)

	return buf
}

func appendLE64(buf []byte, v uint64) []byte {
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], v)
	return append(buf, le[:]...)
}
