// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package duskcrypto

import (
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

// SchnorrSignature is a signature produced over a payload hash by one
// component (A or B) of a note secret key. PhoenixBuilder produces
// two of these per transaction, one per component, per spec §4.5
// step 8.
type SchnorrSignature struct {
	R twistededwards.PointAffine
	S Scalar
}

// SchnorrSign signs digest with the scalar sk, drawing its nonce from
// rng. The standard Schnorr construction is used: R = k*G,
// e = H(R ‖ pk ‖ digest), s = k + e*sk.
func SchnorrSign(rng io.Reader, sk Scalar, digest [32]byte) (SchnorrSignature, error) {
	k, err := ScalarFromReader(rng)
	if err != nil {
		return SchnorrSignature{}, err
	}
	r := scalarMul(k)

	pk := scalarMul(sk)
	e := schnorrChallenge(r, pk, digest)

	var eBI, skBI, kBI big.Int
	eBytes := e.el.Bytes()
	eBI.SetBytes(eBytes[:])
	skBytes := sk.el.Bytes()
	skBI.SetBytes(skBytes[:])
	kBytes := k.el.Bytes()
	kBI.SetBytes(kBytes[:])

	// s = k + e*sk, reduced modulo the curve's group order (not the
	// scalar field order) so that s*G = R + e*pk holds.
	var sBI big.Int
	sBI.Mul(&eBI, &skBI)
	sBI.Add(&sBI, &kBI)
	sBI.Mod(&sBI, &edwardsCurve.Order)
	var s Scalar
	s.el.SetBigInt(&sBI)

	return SchnorrSignature{R: r, S: s}, nil
}

func schnorrChallenge(r, pk twistededwards.PointAffine, digest [32]byte) Scalar {
	rBytes := r.Bytes()
	pkBytes := pk.Bytes()
	buf := make([]byte, 0, len(rBytes)+len(pkBytes)+len(digest))
	buf = append(buf, rBytes[:]...)
	buf = append(buf, pkBytes[:]...)
	buf = append(buf, digest[:]...)
	h := HashBytes(buf)

	var e Scalar
	e.el.SetBytes(h[:])
	return e
}
