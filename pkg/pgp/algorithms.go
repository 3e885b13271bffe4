package pgp

import (
	"errors"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

var errUnsupportedAlgorithm = errors.New("not supported by the verification primitive")

// Algorithms implements check.AlgorithmRegistry for the signature algorithms
// the Verifier can actually evaluate.
type Algorithms struct{}

func (Algorithms) SupportsPubKey(algo keyblock.PublicKeyAlgorithm) error {
	switch packet.PublicKeyAlgorithm(algo) {
	case packet.PubKeyAlgoRSA, packet.PubKeyAlgoRSASignOnly,
		packet.PubKeyAlgoDSA, packet.PubKeyAlgoECDSA,
		packet.PubKeyAlgoEdDSA, packet.PubKeyAlgoEd25519, packet.PubKeyAlgoEd448:
		return nil
	default:
		return errUnsupportedAlgorithm
	}
}

func (Algorithms) SupportsDigest(algo keyblock.DigestAlgorithm) error {
	h, ok := openpgp.HashIdToHash(byte(algo))
	if !ok || !h.Available() {
		return errUnsupportedAlgorithm
	}
	return nil
}
