package check

import (
	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// IssuerKey is an opaque public-key handle. The checker never inspects one;
// it only carries it from the KeySource (or, for self-signatures, the
// keyblock's own primary KeyPacket) through to the Verifier.
type IssuerKey any

// KeySource resolves the public key of a signature issuer. Lookup must be
// deterministic for a given key id within one check invocation.
type KeySource interface {
	Lookup(id keyblock.KeyID) (IssuerKey, error)
}

// Verifier is the low-level signature verification primitive: it reports
// whether sig, made by issuer, verifies over the candidate target component
// of kb. Implementations must not mutate the signature's stored
// Checked/Valid flags; those belong to a separate certification step.
type Verifier interface {
	Verify(issuer IssuerKey, sig *keyblock.SignaturePacket, kb *keyblock.Keyblock, target *keyblock.Node) error
}

// AlgorithmRegistry reports which algorithms the verification primitive
// supports. A nil return means supported; the returned error explains the
// capability gap otherwise.
type AlgorithmRegistry interface {
	SupportsPubKey(algo keyblock.PublicKeyAlgorithm) error
	SupportsDigest(algo keyblock.DigestAlgorithm) error
}
