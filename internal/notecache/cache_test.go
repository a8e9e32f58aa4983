// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notecache_test

import (
	"sync"
	"testing"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/keyderiver"
	"github.com/dusk-network/dusk-deploy-cli/internal/notecache"
)

func testViewKey(t *testing.T, index uint64) duskcrypto.NoteViewKey {
	t.Helper()
	seed, err := keyderiver.SeedFromMnemonic("spice property autumn primary undo innocent pole legend stereo mom eternal topic", "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	sk, err := keyderiver.DeriveNoteSecretKey(seed, index)
	if err != nil {
		t.Fatalf("DeriveNoteSecretKey: %v", err)
	}
	return sk.ViewKey()
}

func noteAt(position uint64, height uint64) notecache.EnrichedNote {
	n := duskcrypto.NewTransparentNote(position, duskcrypto.StealthAddress{}, 0, duskcrypto.ZeroScalar())
	return notecache.EnrichedNote{Note: n, BlockHeight: height}
}

func TestSnapshotOfUnknownViewKeyIsEmpty(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)

	snap := c.Snapshot(vk)
	if len(snap.Notes) != 0 || snap.LastHeight != 0 {
		t.Fatalf("expected empty entry, got %+v", snap)
	}
}

func TestMergeIsMonotone(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)

	c.Merge(vk, []notecache.EnrichedNote{noteAt(0, 10), noteAt(1, 11)})
	snap := c.Snapshot(vk)
	if len(snap.Notes) != 2 || snap.LastHeight != 11 {
		t.Fatalf("after first merge: got %+v", snap)
	}

	// Re-merging the same positions at a lower height must not shrink
	// the set or move LastHeight backward.
	c.Merge(vk, []notecache.EnrichedNote{noteAt(0, 5), noteAt(1, 5)})
	snap = c.Snapshot(vk)
	if len(snap.Notes) != 2 || snap.LastHeight != 11 {
		t.Fatalf("after idempotent re-merge: got %+v", snap)
	}

	c.Merge(vk, []notecache.EnrichedNote{noteAt(2, 20)})
	snap = c.Snapshot(vk)
	if len(snap.Notes) != 3 || snap.LastHeight != 20 {
		t.Fatalf("after growing merge: got %+v", snap)
	}
}

func TestMergeKeepsNotesOrderedByPosition(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)

	// Arrive out of position order and across two merges; the stored
	// entry must come back sorted by position regardless.
	c.Merge(vk, []notecache.EnrichedNote{noteAt(5, 10), noteAt(1, 10), noteAt(3, 10)})
	c.Merge(vk, []notecache.EnrichedNote{noteAt(0, 11), noteAt(4, 11)})

	snap := c.Snapshot(vk)
	var positions []uint64
	for _, n := range snap.Notes {
		positions = append(positions, n.Note.Position())
	}
	want := []uint64{0, 1, 3, 4, 5}
	if len(positions) != len(want) {
		t.Fatalf("got positions %v, want %v", positions, want)
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("got positions %v, want %v", positions, want)
		}
	}
}

func TestSnapshotIsAClone(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)
	c.Merge(vk, []notecache.EnrichedNote{noteAt(0, 1)})

	snap := c.Snapshot(vk)
	snap.Notes[0] = noteAt(99, 99)

	fresh := c.Snapshot(vk)
	if fresh.Notes[0].Note.Position() != 0 {
		t.Fatal("mutating a snapshot's slice leaked into the cache")
	}
}

func TestLastHeightOfUnknownViewKeyIsZero(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	if h := c.LastHeight(testViewKey(t, 1)); h != 0 {
		t.Fatalf("expected 0, got %d", h)
	}
}

func TestConcurrentMergesAreSafe(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(pos uint64) {
			defer wg.Done()
			c.Merge(vk, []notecache.EnrichedNote{noteAt(pos, pos + 1)})
		}(uint64(i))
	}
	wg.Wait()

	snap := c.Snapshot(vk)
	if len(snap.Notes) != 50 {
		t.Fatalf("expected 50 distinct positions, got %d", len(snap.Notes))
	}
}

func TestSeedHeightSetsWatermarkOnFreshCache(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)

	c.SeedHeight(vk, 100)
	if got := c.LastHeight(vk); got != 100 {
		t.Fatalf("got last height %d, want 100", got)
	}
}

func TestSeedHeightNeverMovesWatermarkBackward(t *testing.T) {
	t.Parallel()

	c := notecache.New()
	vk := testViewKey(t, 0)

	c.Merge(vk, []notecache.EnrichedNote{noteAt(0, 200)})
	c.SeedHeight(vk, 100)
	if got := c.LastHeight(vk); got != 200 {
		t.Fatalf("got last height %d, want 200 (SeedHeight must not regress it)", got)
	}
}
