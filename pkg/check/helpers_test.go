package check

import (
	"errors"
	"math/big"

	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

const (
	primaryID = keyblock.KeyID(0xA1A1A1A1A1A1A1A1)
	subkeyID  = keyblock.KeyID(0xB2B2B2B2B2B2B2B2)
	foreignID = keyblock.KeyID(0xC3C3C3C3C3C3C3C3)
)

// stubKeys resolves issuers out of a fixed map and records every lookup.
type stubKeys struct {
	keys    map[keyblock.KeyID]IssuerKey
	lookups []keyblock.KeyID
}

func (s *stubKeys) Lookup(id keyblock.KeyID) (IssuerKey, error) {
	s.lookups = append(s.lookups, id)
	if k, ok := s.keys[id]; ok {
		return k, nil
	}
	return nil, errors.New("public key not found")
}

func knownIssuers(ids ...keyblock.KeyID) *stubKeys {
	s := &stubKeys{keys: map[keyblock.KeyID]IssuerKey{}}
	for _, id := range ids {
		s.keys[id] = id
	}
	return s
}

// stubVerifier accepts a signature only against the one node it was bound to
// with bind. Unbound signatures verify against nothing.
type stubVerifier struct {
	targets map[*keyblock.SignaturePacket]*keyblock.Node
	calls   int
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{targets: map[*keyblock.SignaturePacket]*keyblock.Node{}}
}

func (v *stubVerifier) bind(n *keyblock.Node, target *keyblock.Node) *keyblock.Node {
	v.targets[n.Signature] = target
	return n
}

func (v *stubVerifier) Verify(_ IssuerKey, sig *keyblock.SignaturePacket, _ *keyblock.Keyblock, target *keyblock.Node) error {
	v.calls++
	if v.targets[sig] == target {
		return nil
	}
	return errors.New("bad signature")
}

// stubAlgos supports everything unless an id is blacklisted.
type stubAlgos struct {
	badPub    map[keyblock.PublicKeyAlgorithm]bool
	badDigest map[keyblock.DigestAlgorithm]bool
}

func (a stubAlgos) SupportsPubKey(algo keyblock.PublicKeyAlgorithm) error {
	if a.badPub[algo] {
		return errors.New("unsupported algorithm")
	}
	return nil
}

func (a stubAlgos) SupportsDigest(algo keyblock.DigestAlgorithm) error {
	if a.badDigest[algo] {
		return errors.New("unsupported algorithm")
	}
	return nil
}

func primaryNode() *keyblock.Node {
	return keyblock.NewKeyNode(keyblock.KindPrimaryKey, &keyblock.KeyPacket{KeyID: primaryID})
}

func subkeyNode() *keyblock.Node {
	return keyblock.NewKeyNode(keyblock.KindSubkey, &keyblock.KeyPacket{KeyID: subkeyID})
}

func uidNode(id string) *keyblock.Node {
	return keyblock.NewUserIDNode(&keyblock.UserIDPacket{ID: id})
}

var payloadSeq int64

// sigNode builds a signature node with a unique payload, so two builder calls
// never collide in the duplicate pass unless the payload is forced.
func sigNode(issuer keyblock.KeyID, class keyblock.SignatureClass) *keyblock.Node {
	payloadSeq++
	return keyblock.NewSignatureNode(&keyblock.SignaturePacket{
		IssuerKeyID: issuer,
		Class:       class,
		PubKeyAlgo:  1,
		DigestAlgo:  8,
		Payload:     []*big.Int{big.NewInt(payloadSeq)},
	})
}

func withPayload(n *keyblock.Node, vals ...int64) *keyblock.Node {
	payload := make([]*big.Int, len(vals))
	for i, v := range vals {
		payload[i] = big.NewInt(v)
	}
	n.Signature.Payload = payload
	return n
}

func nodesOf(kb *keyblock.Keyblock) []*keyblock.Node {
	var nodes []*keyblock.Node
	for n := kb.Head(); n != nil; n = n.Next() {
		nodes = append(nodes, n)
	}
	return nodes
}
