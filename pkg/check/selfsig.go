package check

import (
	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// auditSelfSignatures is an independent pass over the final keyblock that
// counts components left without a valid self-signature. Only signatures
// whose Checked and Valid flags were set by the external certification step,
// whose issuer is the primary key and whose class matches the component kind
// qualify. The counter is diagnostic only; it never makes the keyblock
// "modified".
func (c *Checker) auditSelfSignatures(kb *keyblock.Keyblock, rep *Report) {
	pk := kb.PrimaryKey()

	var current *keyblock.Node
	hasSelfSig := false
	leaveComponent := func() {
		if current != nil && !hasSelfSig {
			rep.MissingSelfSigs++
		}
	}

	for n := kb.Head(); n != nil; n = n.Next() {
		if n.Deleted {
			continue
		}

		switch n.Kind {
		case keyblock.KindPrimaryKey, keyblock.KindSubkey, keyblock.KindUserID:
			leaveComponent()
			current = n
			hasSelfSig = false
		case keyblock.KindSignature:
			if current == nil || hasSelfSig {
				continue
			}
			sig := n.Signature
			if !sig.Checked || !sig.Valid {
				continue
			}
			if sig.IssuerKeyID != pk.KeyID {
				// Different issuer, cannot be a self-signature.
				continue
			}
			if keyblock.SelfSigClass(current.Kind, sig.Class) {
				hasSelfSig = true
			}
		default:
			// An unhandled packet ends the current component.
			leaveComponent()
			current = nil
		}
	}
	// The end of the keyblock closes the last component too.
	leaveComponent()
}
