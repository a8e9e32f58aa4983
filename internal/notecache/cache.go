// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notecache holds the per-view-key set of notes a wallet has
// observed on chain, along with the block height each view key has
// been scanned up to. The set of positions held for a view key only
// ever grows; callers snapshot it for reading and merge freshly
// fetched notes back in after a scan.
package notecache

import (
	"sort"
	"sync"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
)

// EnrichedNote pairs a note with the height of the block it was
// found in, the unit the state gateway streams and the cache stores.
type EnrichedNote struct {
	Note        duskcrypto.Note
	BlockHeight uint64
}

// NoteCacheEntry is the per-view-key cache contents returned by
// Snapshot: the notes observed so far, ordered by Note.Position(),
// and the height scanned up to.
type NoteCacheEntry struct {
	Notes      []EnrichedNote
	LastHeight uint64
}

type viewKeyID [32]byte

// Cache is safe for concurrent use by multiple goroutines. Readers
// take a snapshot under a read lock and release it before doing any
// further work; writers commit a merged entry under a write lock.
// Neither lock is ever held across network I/O.
type Cache struct {
	mtx     sync.RWMutex
	entries map[viewKeyID]NoteCacheEntry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[viewKeyID]NoteCacheEntry)}
}

// Snapshot returns a clone of the entry held for vk. An absent view
// key yields a zero-value entry (no notes, LastHeight 0).
func (c *Cache) Snapshot(vk duskcrypto.NoteViewKey) NoteCacheEntry {
	c.mtx.RLock()
	entry, ok := c.entries[viewKeyID(vk.Bytes())]
	c.mtx.RUnlock()

	if !ok {
		return NoteCacheEntry{}
	}

	cloned := NoteCacheEntry{
		Notes:      make([]EnrichedNote, len(entry.Notes)),
		LastHeight: entry.LastHeight,
	}
	copy(cloned.Notes, entry.Notes)
	return cloned
}

// LastHeight returns the scan watermark for vk, or 0 if vk has never
// been merged into the cache. Used as the scan's from_height lower
// bound.
func (c *Cache) LastHeight(vk duskcrypto.NoteViewKey) uint64 {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.entries[viewKeyID(vk.Bytes())].LastHeight
}

// SeedHeight sets vk's scan watermark to height if no higher watermark
// is already recorded, letting a caller start a fresh cache's first
// scan from an absolute or tip-relative height (spec.md §6
// --block-height/--relative-height) instead of from the beginning of
// the chain.
func (c *Cache) SeedHeight(vk duskcrypto.NoteViewKey, height uint64) {
	key := viewKeyID(vk.Bytes())

	c.mtx.Lock()
	defer c.mtx.Unlock()

	entry := c.entries[key]
	if height > entry.LastHeight {
		entry.LastHeight = height
		c.entries[key] = entry
	}
}

// Merge folds newNotes into vk's entry: a note whose position is
// already present is skipped (merges are idempotent), and
// LastHeight advances to the maximum block height seen, never
// backward. The set of positions held is a monotone function of
// the sequence of Merge calls — it never shrinks. The stored Notes
// are kept ordered by Note.Position() after every merge.
//
// Concurrent merges for the same view key are safe; LastHeight in
// that case is last-write-wins under the lock, which is acceptable
// since it is only ever used as a scan lower bound and gets
// re-synchronized on the next scan.
func (c *Cache) Merge(vk duskcrypto.NoteViewKey, newNotes []EnrichedNote) {
	if len(newNotes) == 0 {
		return
	}

	key := viewKeyID(vk.Bytes())

	c.mtx.Lock()
	defer c.mtx.Unlock()

	entry := c.entries[key]

	known := make(map[uint64]struct{}, len(entry.Notes))
	for _, n := range entry.Notes {
		known[n.Note.Position()] = struct{}{}
	}

	for _, n := range newNotes {
		if _, seen := known[n.Note.Position()]; seen {
			continue
		}
		known[n.Note.Position()] = struct{}{}
		entry.Notes = append(entry.Notes, n)
		if n.BlockHeight > entry.LastHeight {
			entry.LastHeight = n.BlockHeight
		}
	}

	sort.Slice(entry.Notes, func(i, j int) bool {
		return entry.Notes[i].Note.Position() < entry.Notes[j].Note.Position()
	})

	c.entries[key] = entry
}
