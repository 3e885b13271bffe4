package check

import (
	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// resolvePlacement walks the deduplicated keyblock once, left to right,
// verifying every reachable signature against the component it sits under
// and relocating it when it actually certifies a different component.
func (c *Checker) resolvePlacement(kb *keyblock.Keyblock, policy Policy, rep *Report) {
	d := newDiagPrinter(c.options.diag)
	var current *keyblock.Node

	var next *keyblock.Node
	for n := kb.Head(); n != nil; n = next {
		// A misplaced signature is spliced elsewhere while this loop is in
		// progress, so the cursor is the original successor, captured before
		// anything can move.
		next = n.Next()

		if n.Deleted {
			continue
		}

		switch n.Kind {
		case keyblock.KindPrimaryKey, keyblock.KindSubkey, keyblock.KindUserID:
			if policy.OnlySelected && !n.Selected() {
				// Signatures under an unselected component are not checked
				// at all.
				current = nil
				continue
			}
			current = n
		case keyblock.KindSignature:
			if current == nil {
				continue
			}
			c.resolveSignature(kb, policy, n, current, rep, d)
		case keyblock.KindOther:
			// Unhandled packets are left alone and do not end the current
			// component here; only the self-signature audit cares.
		}
	}
}

func (c *Checker) resolveSignature(kb *keyblock.Keyblock, policy Policy, n, current *keyblock.Node, rep *Report, d *diagPrinter) {
	pk := kb.PrimaryKey()
	sig := n.Signature

	var issuer IssuerKey
	selfIssued := sig.IssuerKeyID == pk.KeyID
	if selfIssued {
		// The issuer is this keyblock's primary key; no retrieval needed.
		issuer = pk
	} else {
		if policy.OnlySelfSigs {
			return
		}
		key, err := c.keys.Lookup(sig.IssuerKeyID)
		if err != nil {
			rep.MissingIssuer++
			return
		}
		issuer = key
	}

	if err := c.algos.SupportsPubKey(sig.PubKeyAlgo); err != nil {
		d.warnf("cannot check signature with unsupported public-key algorithm (%d): %v",
			sig.PubKeyAlgo, err)
		return
	}
	if err := c.algos.SupportsDigest(sig.DigestAlgo); err != nil {
		d.warnf("cannot check signature with unsupported message-digest algorithm (%d): %v",
			sig.DigestAlgo, err)
		return
	}

	target := c.findTarget(kb, issuer, sig, current)

	var status string
	switch {
	case target == current:
		status = "good"
	case target != nil:
		// Splice the signature in directly after the component it certifies.
		kb.MoveAfter(n, target)
		rep.Reordered++
		status = "reordered"
	default:
		// Verifies against nothing. Counted, but left in place for the
		// caller to judge.
		rep.BadSignatures++
		status = "bad"
	}

	selfsig := target != nil && selfIssued && keyblock.SelfSigClass(target.Kind, sig.Class)
	d.componentHeader(target, current, rep.Modified())
	d.signatureLine(sig, status, selfsig, rep.Modified())
}

// findTarget searches for the component sig actually certifies. The current
// component is the most likely match and is tried first; on failure every
// other non-deleted component is tried in keyblock order.
func (c *Checker) findTarget(kb *keyblock.Keyblock, issuer IssuerKey, sig *keyblock.SignaturePacket, current *keyblock.Node) *keyblock.Node {
	if err := c.verifier.Verify(issuer, sig, kb, current); err == nil {
		return current
	}
	for n2 := kb.Head(); n2 != nil; n2 = n2.Next() {
		if n2.Deleted || n2 == current || !n2.Kind.IsComponent() {
			continue
		}
		if err := c.verifier.Verify(issuer, sig, kb, n2); err == nil {
			return n2
		}
	}
	return nil
}
