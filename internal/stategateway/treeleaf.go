// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"encoding/binary"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

var errShortRecord = walleterr.New(walleterr.Stream, "tree leaf record truncated")

// treeLeafLen is the fixed record size the "leaves_from_height" feeder
// emits, the unit FetchNotes reassembles the byte stream into.
// Note encoding itself is an opaque, contract-preserving format (§1);
// this layout is a deterministic stand-in wide enough to carry either
// note flavor, padded to a constant width so the stream can be cut on
// fixed boundaries without a length prefix.
const treeLeafLen = 8 + 8 + 32 + 32 + 1 + 8 + 32 + 64

// treeLeaf is one record of the leaf stream: a note and the height it
// was produced at. The stealth address components are carried as
// their raw 32-byte wire seeds rather than curve points, so encoding
// and decoding round-trip exactly; note() derives the actual points
// from those seeds the same way PointFromBytes always does.
type treeLeaf struct {
	blockHeight uint64
	position    uint64
	stealthR    [32]byte
	stealthP    [32]byte
	obfuscated  bool
	value       uint64
	blinder     duskcrypto.Scalar
	ciphertext  [64]byte
}

// decodeTreeLeaf parses exactly treeLeafLen bytes into a treeLeaf.
func decodeTreeLeaf(b []byte) (treeLeaf, error) {
	if len(b) != treeLeafLen {
		return treeLeaf{}, errShortRecord
	}

	var leaf treeLeaf
	off := 0

	leaf.blockHeight = binary.LittleEndian.Uint64(b[off:])
	off += 8
	leaf.position = binary.LittleEndian.Uint64(b[off:])
	off += 8

	copy(leaf.stealthR[:], b[off:off+32])
	off += 32
	copy(leaf.stealthP[:], b[off:off+32])
	off += 32

	leaf.obfuscated = b[off] != 0
	off++

	leaf.value = binary.LittleEndian.Uint64(b[off:])
	off += 8

	var blinderBytes [32]byte
	copy(blinderBytes[:], b[off:off+32])
	off += 32
	leaf.blinder = duskcrypto.ScalarFromBytes(blinderBytes)

	copy(leaf.ciphertext[:], b[off:off+64])

	return leaf, nil
}

// encodeTreeLeaf is decodeTreeLeaf's inverse, used by tests to build
// a synthetic feeder stream without a live node.
func encodeTreeLeaf(l treeLeaf) []byte {
	b := make([]byte, treeLeafLen)
	off := 0

	binary.LittleEndian.PutUint64(b[off:], l.blockHeight)
	off += 8
	binary.LittleEndian.PutUint64(b[off:], l.position)
	off += 8

	copy(b[off:off+32], l.stealthR[:])
	off += 32
	copy(b[off:off+32], l.stealthP[:])
	off += 32

	if l.obfuscated {
		b[off] = 1
	}
	off++

	binary.LittleEndian.PutUint64(b[off:], l.value)
	off += 8

	blinderBytes := l.blinder.Bytes()
	copy(b[off:off+32], blinderBytes[:])
	off += 32

	copy(b[off:off+64], l.ciphertext[:])

	return b
}

// note reconstructs the Note this leaf carries, transparent or
// obfuscated depending on the obfuscated flag.
func (l treeLeaf) note() duskcrypto.Note {
	addr := duskcrypto.NewStealthAddress(duskcrypto.PointFromBytes(l.stealthR), duskcrypto.PointFromBytes(l.stealthP))
	if !l.obfuscated {
		return duskcrypto.NewTransparentNote(l.position, addr, l.value, l.blinder)
	}
	n, _ := duskcrypto.NewObfuscatedNote(nil, addr, l.value, l.blinder, [2]duskcrypto.Scalar{})
	return n.WithPosition(l.position)
}

func (l treeLeaf) enriched() notecache.EnrichedNote {
	return notecache.EnrichedNote{Note: l.note(), BlockHeight: l.blockHeight}
}
