// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phoenix

import "encoding/binary"

// Transaction is an UnprovenTransaction with its proof attached,
// produced once ProverGateway's prove_execute step returns (spec.md
// §4.7 step 2). It is what gets serialized for preverify/propagate
// and what the tx id is derived from.
type Transaction struct {
	Unproven UnprovenTransaction
	Proof    []byte
}

// HashInputBytes returns the byte sequence the tx id is computed
// over: scalar_hash(tx.hash_input_bytes) per spec.md §4.7 step 5. The
// payload hash already commits to the skeleton, fee, and exec; the
// proof and both Schnorr signatures are the remaining fields that
// distinguish one proved transaction from another built over the same
// payload.
func (tx Transaction) HashInputBytes() []byte {
	buf := make([]byte, 0, 32+len(tx.Proof)+64+64)
	buf = append(buf, tx.Unproven.PayloadHash[:]...)
	buf = append(buf, tx.Proof...)

	sigABytes := tx.Unproven.SigA.S.Bytes()
	sigBBytes := tx.Unproven.SigB.S.Bytes()
	buf = append(buf, sigABytes[:]...)
	buf = append(buf, sigBBytes[:]...)
	return buf
}

// Bytes returns the full wire serialization POSTed to preverify and
// propagate_tx: the unproven transaction's fields, its proof, and its
// two signatures.
func (tx Transaction) Bytes() []byte {
	buf := payloadBytes(tx.Unproven.Skeleton, tx.Unproven.Fee, tx.Unproven.Exec)

	var proofLen [8]byte
	binary.LittleEndian.PutUint64(proofLen[:], uint64(len(tx.Proof)))
	buf = append(buf, proofLen[:]...)
	buf = append(buf, tx.Proof...)

	sigABytes := tx.Unproven.SigA.S.Bytes()
	sigBBytes := tx.Unproven.SigB.S.Bytes()
	buf = append(buf, sigABytes[:]...)
	buf = append(buf, sigBBytes[:]...)

	senderA := tx.Unproven.SenderPK.A.Bytes()
	senderB := tx.Unproven.SenderPK.B.Bytes()
	buf = append(buf, senderA[:]...)
	buf = append(buf, senderB[:]...)

	return buf
}
