// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"io"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
)

// collectOwnedLeaves reads r to completion, cutting it into
// treeLeafLen-byte records as they become available and keeping
// whatever fractional record remains at a chunk boundary for the next
// read. Any record that fails to decode aborts the scan with a Stream
// error; the caller's cache retains whatever it held prior to the
// call (spec §7's propagation policy for scan errors).
func collectOwnedLeaves(r io.Reader, vk duskcrypto.NoteViewKey) ([]notecache.EnrichedNote, error) {
	var owned []notecache.EnrichedNote
	var remainder []byte
	chunk := make([]byte, 32*1024)

	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			remainder = append(remainder, chunk[:n]...)

			full := (len(remainder) / treeLeafLen) * treeLeafLen
			for off := 0; off < full; off += treeLeafLen {
				leaf, err := decodeTreeLeaf(remainder[off : off+treeLeafLen])
				if err != nil {
					return nil, err
				}
				if vk.Owns(leaf.note().StealthAddr()) {
					owned = append(owned, leaf.enriched())
				}
			}
			remainder = remainder[full:]
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}

	if len(remainder) != 0 {
		return nil, errShortRecord
	}

	return owned, nil
}
