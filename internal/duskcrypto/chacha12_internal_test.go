// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto

import (
	"bytes"
	"testing"
)

func TestChaCha12RngIsDeterministicGivenTheSameSeed(t *testing.T) {
	t.Parallel()

	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	r1 := newChaCha12Rng(seed)
	r2 := newChaCha12Rng(seed)

	buf1 := make([]byte, 130) // spans two 64-byte blocks plus change
	buf2 := make([]byte, 130)
	if _, err := r1.Read(buf1); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := r2.Read(buf2); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(buf1, buf2) {
		t.Fatal("same seed produced different keystreams")
	}
}

func TestChaCha12RngDiffersByOneSeedByte(t *testing.T) {
	t.Parallel()

	var seedA, seedB [32]byte
	for i := range seedA {
		seedA[i] = byte(i)
		seedB[i] = byte(i)
	}
	seedB[31] ^= 0x01

	bufA := make([]byte, 64)
	bufB := make([]byte, 64)
	newChaCha12Rng(seedA).Read(bufA)
	newChaCha12Rng(seedB).Read(bufB)

	if bytes.Equal(bufA, bufB) {
		t.Fatal("seeds differing by one bit produced the same keystream block")
	}
}

func TestChaCha12RngBlocksDoNotRepeat(t *testing.T) {
	t.Parallel()

	var seed [32]byte
	r := newChaCha12Rng(seed)

	block1 := make([]byte, 64)
	block2 := make([]byte, 64)
	r.Read(block1)
	r.Read(block2)

	if bytes.Equal(block1, block2) {
		t.Fatal("consecutive keystream blocks were identical")
	}
}

func TestChaCha12RngReadIsGapless(t *testing.T) {
	t.Parallel()

	var seed [32]byte
	for i := range seed {
		seed[i] = byte(2 * i)
	}

	whole := make([]byte, 200)
	newChaCha12Rng(seed).Read(whole)

	split := make([]byte, 200)
	r := newChaCha12Rng(seed)
	r.Read(split[:37])
	r.Read(split[37:101])
	r.Read(split[101:])

	if !bytes.Equal(whole, split) {
		t.Fatal("reading in different chunk sizes produced different keystream bytes")
	}
}
