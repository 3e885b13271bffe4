package keyblock

import (
	"fmt"
	"math/big"
	"time"
)

// KeyID is the 64-bit OpenPGP key id of a public key.
type KeyID uint64

func (id KeyID) String() string {
	return fmt.Sprintf("%016X", uint64(id))
}

// PublicKeyAlgorithm and DigestAlgorithm are the OpenPGP algorithm id spaces
// (RFC 9580 section 9). The keyblock model carries them opaquely; whether an
// id is usable is decided by an AlgorithmRegistry.
type PublicKeyAlgorithm uint8

type DigestAlgorithm uint8

// SignatureClass is the OpenPGP signature type code.
type SignatureClass uint8

const (
	ClassGenericCert     SignatureClass = 0x10
	ClassPersonaCert     SignatureClass = 0x11
	ClassCasualCert      SignatureClass = 0x12
	ClassPositiveCert    SignatureClass = 0x13
	ClassSubkeyBinding   SignatureClass = 0x18
	ClassPrimaryBinding  SignatureClass = 0x19
	ClassDirectKey       SignatureClass = 0x1f
	ClassKeyRevocation   SignatureClass = 0x20
	ClassSubkeyRevocation SignatureClass = 0x28
	ClassCertRevocation  SignatureClass = 0x30
)

// IsCertification reports whether c is one of the four user id certification
// classes (0x10..0x13).
func (c SignatureClass) IsCertification() bool {
	return c >= ClassGenericCert && c <= ClassPositiveCert
}

// PacketKind tags the payload carried by a Node.
type PacketKind int

const (
	KindPrimaryKey PacketKind = iota
	KindSubkey
	KindUserID
	KindSignature
	KindOther
)

func (k PacketKind) String() string {
	switch k {
	case KindPrimaryKey:
		return "primary key"
	case KindSubkey:
		return "subkey"
	case KindUserID:
		return "user id"
	case KindSignature:
		return "signature"
	default:
		return "other"
	}
}

// IsComponent reports whether k is a component kind, i.e. something a
// signature can certify.
func (k PacketKind) IsComponent() bool {
	return k == KindPrimaryKey || k == KindSubkey || k == KindUserID
}

// KeyPacket is a primary key or subkey component.
type KeyPacket struct {
	KeyID        KeyID
	Fingerprint  []byte
	Algo         PublicKeyAlgorithm
	CreationTime time.Time
}

// UserIDPacket is a user id component. IsAttribute marks user attribute
// packets (photo ids), which carry no textual name.
type UserIDPacket struct {
	ID          string
	IsAttribute bool
}

// SignaturePacket is one signature record. Payload holds the algorithm
// specific numeric values of the signature; its length is a function of the
// public-key algorithm. Checked and Valid are set by an external
// certification step, never by this package or by the checker.
type SignaturePacket struct {
	IssuerKeyID  KeyID
	Class        SignatureClass
	PubKeyAlgo   PublicKeyAlgorithm
	DigestAlgo   DigestAlgorithm
	CreationTime time.Time
	DigestPrefix [2]byte
	Payload      []*big.Int

	Checked bool
	Valid   bool
}

// Node wraps exactly one packet in a keyblock. Exactly one of Key, UserID and
// Signature is non-nil, according to Kind; KindOther nodes carry none of them.
type Node struct {
	Kind      PacketKind
	Key       *KeyPacket
	UserID    *UserIDPacket
	Signature *SignaturePacket

	// Deleted marks a node as logically removed without unlinking it.
	Deleted bool
	// SelectedKey and SelectedUserID are set by the caller before a check
	// restricted to selected components.
	SelectedKey    bool
	SelectedUserID bool

	next *Node
}

// Next returns the node following n, or nil at the end of the keyblock.
func (n *Node) Next() *Node { return n.next }

// Selected reports whether the component node n is marked selected.
func (n *Node) Selected() bool {
	if n.Kind == KindUserID {
		return n.SelectedUserID
	}
	return n.SelectedKey
}

func NewKeyNode(kind PacketKind, key *KeyPacket) *Node {
	return &Node{Kind: kind, Key: key}
}

func NewUserIDNode(uid *UserIDPacket) *Node {
	return &Node{Kind: KindUserID, UserID: uid}
}

func NewSignatureNode(sig *SignaturePacket) *Node {
	return &Node{Kind: KindSignature, Signature: sig}
}

func NewOtherNode() *Node {
	return &Node{Kind: KindOther}
}

// SelfSigClass reports whether a signature of class c, issued by the
// keyblock's own primary key, is a self-signature appropriate for a component
// of kind k: direct-key or key-revocation over the primary key, binding or
// revocation over a subkey, certification or certification-revocation over a
// user id.
func SelfSigClass(k PacketKind, c SignatureClass) bool {
	switch k {
	case KindPrimaryKey:
		return c == ClassDirectKey || c == ClassKeyRevocation
	case KindSubkey:
		return c == ClassSubkeyBinding || c == ClassSubkeyRevocation
	case KindUserID:
		return c.IsCertification() || c == ClassCertRevocation
	default:
		return false
	}
}
