// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txexec models the embedded call/deploy payload a Phoenix or
// Moonlight transaction may optionally carry, as a Go sum type: the
// same three variants (or none) apply to both builders, mirroring the
// Rust implementation's shared MaybePhoenixExec/MaybeMoonlightExec
// trait family rather than giving each builder its own copy.
package txexec

import (
	"encoding/binary"
	"io"

	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
)

// Kind discriminates which variant a Spec holds.
type Kind int

const (
	// KindNone carries no embedded call or deploy.
	KindNone Kind = iota
	// KindCall invokes an already-deployed contract method.
	KindCall
	// KindDeploy deploys new bytecode.
	KindDeploy
	// KindDynamic is resolved at assembly time from the set of
	// inputs the transaction ended up selecting, right before
	// payload-hash computation.
	KindDynamic
)

// CallPayload invokes fn_name on an existing contract with
// already-serialized arguments.
type CallPayload struct {
	Contract [32]byte
	FnName   string
	FnArgs   []byte
}

// Bytes returns a deterministic serialization of p, the encoding
// payload-hash computation mixes in.
func (p CallPayload) Bytes() []byte {
	buf := make([]byte, 0, 32+2+len(p.FnName)+len(p.FnArgs))
	buf = append(buf, p.Contract[:]...)
	var nameLen [2]byte
	binary.LittleEndian.PutUint16(nameLen[:], uint16(len(p.FnName)))
	buf = append(buf, nameLen[:]...)
	buf = append(buf, p.FnName...)
	buf = append(buf, p.FnArgs...)
	return buf
}

// DeployPayload deploys bytecode under a contract id derived as
// BLAKE2b-256(bytecode ‖ LE64(nonce) ‖ owner).
type DeployPayload struct {
	Bytecode     []byte
	BytecodeHash [32]byte
	Owner        []byte
	InitArgs     []byte
	Nonce        uint64
}

// ContractID returns the deterministic contract id this deploy will
// produce once accepted.
func (p DeployPayload) ContractID() [32]byte {
	return duskcrypto.ContractID(p.Bytecode, p.Nonce, p.Owner)
}

// Bytes returns a deterministic serialization of p.
func (p DeployPayload) Bytes() []byte {
	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], p.Nonce)

	buf := make([]byte, 0, len(p.Bytecode)+32+len(p.Owner)+len(p.InitArgs)+8)
	buf = append(buf, p.Bytecode...)
	buf = append(buf, p.BytecodeHash[:]...)
	buf = append(buf, p.Owner...)
	buf = append(buf, p.InitArgs...)
	buf = append(buf, nonceLE[:]...)
	return buf
}

// Resolver produces a Spec once the transaction's final set of inputs
// is known, for the KindDynamic variant. It is invoked exactly once,
// immediately before payload-hash computation.
type Resolver func(rng io.Reader, inputs []duskcrypto.Note) (Spec, error)

// Spec is the optional embedded call/deploy payload a transaction may
// carry. Exactly one of Call, Deploy, or Dynamic is set, matching
// Kind; None has none set.
type Spec struct {
	Kind    Kind
	Call    *CallPayload
	Deploy  *DeployPayload
	Dynamic Resolver
}

// None is the zero Spec: no embedded call or deploy.
func None() Spec { return Spec{Kind: KindNone} }

// NewCall wraps a CallPayload as a Spec.
func NewCall(p CallPayload) Spec { return Spec{Kind: KindCall, Call: &p} }

// NewDeploy wraps a DeployPayload as a Spec.
func NewDeploy(p DeployPayload) Spec { return Spec{Kind: KindDeploy, Deploy: &p} }

// NewDynamic wraps a Resolver as a Spec.
func NewDynamic(r Resolver) Spec { return Spec{Kind: KindDynamic, Dynamic: r} }

// Resolve returns s unchanged unless s is KindDynamic, in which case
// it invokes the resolver against the transaction's final inputs and
// returns the concrete Spec it produces. inputs must be the exact set
// of notes selected for spending (or, for Moonlight, empty), since the
// resolver is specified to run "once the transaction's final set of
// inputs is known".
func (s Spec) Resolve(rng io.Reader, inputs []duskcrypto.Note) (Spec, error) {
	if s.Kind != KindDynamic {
		return s, nil
	}
	return s.Dynamic(rng, inputs)
}

// Bytes returns a deterministic serialization of s for mixing into a
// payload hash. KindNone, and a KindDynamic spec that has not been
// resolved, encode as the single KindNone tag byte.
func (s Spec) Bytes() []byte {
	switch s.Kind {
	case KindCall:
		return append([]byte{byte(KindCall)}, s.Call.Bytes()...)
	case KindDeploy:
		return append([]byte{byte(KindDeploy)}, s.Deploy.Bytes()...)
	default:
		return []byte{byte(KindNone)}
	}
}
