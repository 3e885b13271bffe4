// Package pgp binds the keyblock checker to the OpenPGP wire format using
// ProtonMail/go-crypto. It parses keyrings into keyblocks, resolves issuer
// keys, provides the signature verification primitive and re-encodes repaired
// keyrings.
package pgp

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/tomekjarosik/keycheck/pkg/check"
	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

var (
	// ErrNoPublicKey means the input does not start with a public key packet.
	ErrNoPublicKey = errors.New("keyring does not start with a public key packet")
	// ErrKeyNotFound means an issuer key id is not present in the keyring.
	ErrKeyNotFound = errors.New("public key not found in keyring")
)

// Keyring holds the keyblocks parsed from one keyring together with the
// packet-level material needed to verify signatures and to re-encode the
// keyring after repair. The checker only sees the keyblock model; the maps
// below associate each model record with its parsed packet.
type Keyring struct {
	Blocks []*keyblock.Keyblock

	keys map[keyblock.KeyID]*packet.PublicKey
	pubs map[*keyblock.KeyPacket]*packet.PublicKey
	uids map[*keyblock.UserIDPacket]*packet.UserId
	sigs map[*keyblock.SignaturePacket]*packet.Signature
	raw  map[*keyblock.Node]*packet.OpaquePacket
}

// ParseKeyring reads a binary or armored keyring and splits it into
// keyblocks, one per primary key. Packets this package does not handle are
// kept as opaque nodes so the keyring round-trips byte-exact.
func ParseKeyring(r io.Reader) (*Keyring, error) {
	body, err := dearmor(r)
	if err != nil {
		return nil, err
	}

	kr := &Keyring{
		keys: make(map[keyblock.KeyID]*packet.PublicKey),
		pubs: make(map[*keyblock.KeyPacket]*packet.PublicKey),
		uids: make(map[*keyblock.UserIDPacket]*packet.UserId),
		sigs: make(map[*keyblock.SignaturePacket]*packet.Signature),
		raw:  make(map[*keyblock.Node]*packet.OpaquePacket),
	}

	var nodes []*keyblock.Node
	flush := func() {
		if len(nodes) > 0 {
			kr.Blocks = append(kr.Blocks, keyblock.New(nodes...))
			nodes = nil
		}
	}

	or := packet.NewOpaqueReader(body)
	for {
		op, err := or.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading packet: %w", err)
		}

		n := kr.addPacket(op)
		if n.Kind == keyblock.KindPrimaryKey {
			flush()
		} else if len(nodes) == 0 && len(kr.Blocks) == 0 {
			return nil, ErrNoPublicKey
		}
		nodes = append(nodes, n)
	}
	flush()

	if len(kr.Blocks) == 0 {
		return nil, ErrNoPublicKey
	}
	return kr, nil
}

func dearmor(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("reading keyring: %w", err)
	}
	// Binary packets never start with '-': the first octet of a packet
	// header always has the high bit set.
	if head[0] != '-' {
		return br, nil
	}
	block, err := armor.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decoding armor: %w", err)
	}
	if block.Type != openpgp.PublicKeyType {
		return nil, fmt.Errorf("unexpected armor block %q", block.Type)
	}
	return block.Body, nil
}

func (kr *Keyring) addPacket(op *packet.OpaquePacket) *keyblock.Node {
	var n *keyblock.Node

	p, err := op.Parse()
	if err != nil {
		p = nil
	}
	switch pkt := p.(type) {
	case *packet.PublicKey:
		kp := &keyblock.KeyPacket{
			KeyID:        keyblock.KeyID(pkt.KeyId),
			Fingerprint:  pkt.Fingerprint,
			Algo:         keyblock.PublicKeyAlgorithm(pkt.PubKeyAlgo),
			CreationTime: pkt.CreationTime,
		}
		kind := keyblock.KindPrimaryKey
		if pkt.IsSubkey {
			kind = keyblock.KindSubkey
		}
		n = keyblock.NewKeyNode(kind, kp)
		kr.keys[kp.KeyID] = pkt
		kr.pubs[kp] = pkt
	case *packet.UserId:
		up := &keyblock.UserIDPacket{ID: pkt.Id}
		n = keyblock.NewUserIDNode(up)
		kr.uids[up] = pkt
	case *packet.Signature:
		sp := signatureRecord(pkt)
		n = keyblock.NewSignatureNode(sp)
		kr.sigs[sp] = pkt
	default:
		// User attributes, trust packets, unknown and unparseable packets
		// are carried along unhandled.
		n = keyblock.NewOtherNode()
	}

	kr.raw[n] = op
	return n
}

func signatureRecord(pkt *packet.Signature) *keyblock.SignaturePacket {
	sp := &keyblock.SignaturePacket{
		Class:        keyblock.SignatureClass(pkt.SigType),
		PubKeyAlgo:   keyblock.PublicKeyAlgorithm(pkt.PubKeyAlgo),
		CreationTime: pkt.CreationTime,
		DigestPrefix: pkt.HashTag,
		Payload:      signaturePayload(pkt),
	}
	if pkt.IssuerKeyId != nil {
		sp.IssuerKeyID = keyblock.KeyID(*pkt.IssuerKeyId)
	}
	if id, ok := openpgp.HashToHashId(pkt.Hash); ok {
		sp.DigestAlgo = keyblock.DigestAlgorithm(id)
	}
	return sp
}

// Lookup implements check.KeySource against the keys of this keyring.
func (kr *Keyring) Lookup(id keyblock.KeyID) (check.IssuerKey, error) {
	pk, ok := kr.keys[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	return pk, nil
}

// CertifySignatures runs the certification step that precedes a check: every
// signature issued by its keyblock's own primary key is verified against the
// component it currently sits under, and its Checked/Valid flags are set
// accordingly. The checker itself never touches those flags.
func (kr *Keyring) CertifySignatures() {
	v := kr.Verifier()
	for _, kb := range kr.Blocks {
		pk := kb.PrimaryKey()
		if pk == nil {
			continue
		}
		var current *keyblock.Node
		for n := kb.Head(); n != nil; n = n.Next() {
			if n.Deleted {
				continue
			}
			switch {
			case n.Kind.IsComponent():
				current = n
			case n.Kind == keyblock.KindSignature && current != nil &&
				n.Signature.IssuerKeyID == pk.KeyID:
				err := v.Verify(pk, n.Signature, kb, current)
				n.Signature.Checked = true
				n.Signature.Valid = err == nil
			}
		}
	}
}
