// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selector picks which notes a Phoenix transaction spends.
// The proving circuit bounds the number of inputs a transaction may
// carry, so once more than that many candidate notes exist, selection
// fixes the subset size at exactly that bound rather than searching
// every smaller subset too — a deliberate, auditable policy, not an
// oversight.
package selector

import (
	"sort"

	"github.com/jrick/bitset"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

// MaxInputs is the hard cap on the number of notes a single
// transaction may spend, fixed by the proving circuit.
const MaxInputs = 4

// Candidate is a spendable note together with its decrypted value and
// value blinder, the unit Select chooses among.
type Candidate struct {
	Note         duskcrypto.Note
	Value        uint64
	ValueBlinder duskcrypto.Scalar
}

// Select returns a subset of candidates summing to at least target.
// With MaxInputs or fewer candidates, all of them are returned if
// their sum reaches target, and nil is returned otherwise. Above
// that, candidates are sorted ascending by value and the
// lexicographically first exactly-MaxInputs-sized index tuple whose
// sum reaches target is returned; no smaller or larger subset is ever
// considered once the candidate count exceeds MaxInputs.
//
// Select does not itself check the overall balance; callers run that
// check first (see Plan) so NotEnoughBalance and NoteCombinationProblem
// stay distinguishable.
func Select(candidates []Candidate, target uint64) []Candidate {
	if len(candidates) <= MaxInputs {
		var total uint64
		for _, c := range candidates {
			total += c.Value
		}
		if total < target {
			return nil
		}
		return candidates
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	n := len(sorted)
	active := bitset.NewBytes(n)

	indices := make([]int, MaxInputs)
	for i := range indices {
		indices[i] = i
	}

	for {
		for i := 0; i < n; i++ {
			active.Unset(i)
		}
		for _, idx := range indices {
			active.Set(idx)
		}

		var sum uint64
		out := make([]Candidate, 0, MaxInputs)
		for i := 0; i < n; i++ {
			if active.Get(i) {
				sum += sorted[i].Value
				out = append(out, sorted[i])
			}
		}
		if sum >= target {
			return out
		}

		if !advance(indices, n) {
			return nil
		}
	}
}

// advance steps indices to the next lexicographic N-combination of
// [0, n), returning false once combinations are exhausted.
func advance(indices []int, n int) bool {
	k := len(indices)
	i := k - 1
	for i >= 0 && indices[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	indices[i]++
	for j := i + 1; j < k; j++ {
		indices[j] = indices[j-1] + 1
	}
	return true
}

// Plan selects the notes to spend for a transaction of the given
// value, gas budget, and optional deposit, per the contract in
// spec.md §4.4.
func Plan(candidates []Candidate, value, gasLimit, gasPrice, deposit uint64) ([]Candidate, error) {
	maxFee := gasLimit * gasPrice
	target := value + maxFee + deposit

	var total uint64
	for _, c := range candidates {
		total += c.Value
	}
	if total < value+maxFee {
		return nil, walleterr.New(walleterr.NotEnoughBalance, "insufficient note balance to cover value and max fee")
	}

	selected := Select(candidates, target)
	if len(selected) == 0 {
		return nil, walleterr.New(walleterr.NoteCombinationProblem, "no subset of at most the maximum input count reaches the required target")
	}
	return selected, nil
}
