// Package keyblock models the ordered packet sequence of one OpenPGP
// certificate: a primary key followed by user ids, subkeys and the signatures
// over them. Order is semantically significant: a signature belongs to the
// nearest preceding component.
package keyblock

// Keyblock is an ordered singly-linked sequence of nodes. The first node is
// expected to be the primary-key component; a keyblock has exactly one.
type Keyblock struct {
	head *Node
}

// New builds a keyblock from nodes in the given order.
func New(nodes ...*Node) *Keyblock {
	kb := &Keyblock{}
	for i := len(nodes) - 1; i >= 0; i-- {
		nodes[i].next = kb.head
		kb.head = nodes[i]
	}
	return kb
}

// Head returns the first node, or nil for an empty keyblock.
func (kb *Keyblock) Head() *Node { return kb.head }

// PrimaryKey returns the primary key packet, or nil if the keyblock does not
// start with a primary-key node.
func (kb *Keyblock) PrimaryKey() *KeyPacket {
	if kb.head == nil || kb.head.Kind != KindPrimaryKey {
		return nil
	}
	return kb.head.Key
}

// Len counts all nodes, including deleted ones.
func (kb *Keyblock) Len() int {
	count := 0
	for n := kb.head; n != nil; n = n.next {
		count++
	}
	return count
}

// Signatures returns the non-deleted signature nodes in keyblock order.
func (kb *Keyblock) Signatures() []*Node {
	var sigs []*Node
	for n := kb.head; n != nil; n = n.next {
		if !n.Deleted && n.Kind == KindSignature {
			sigs = append(sigs, n)
		}
	}
	return sigs
}

// Append links n at the end of the keyblock.
func (kb *Keyblock) Append(n *Node) {
	n.next = nil
	if kb.head == nil {
		kb.head = n
		return
	}
	last := kb.head
	for last.next != nil {
		last = last.next
	}
	last.next = n
}

// InsertAfter splices n in directly after at.
func (kb *Keyblock) InsertAfter(at, n *Node) {
	n.next = at.next
	at.next = n
}

// Remove unlinks n from the keyblock and reports whether it was found.
func (kb *Keyblock) Remove(n *Node) bool {
	for prevp := &kb.head; *prevp != nil; prevp = &(*prevp).next {
		if *prevp == n {
			*prevp = n.next
			n.next = nil
			return true
		}
	}
	return false
}

// MoveAfter relocates n to the position directly after at. Callers iterating
// the keyblock must capture n's successor before calling; n's position
// changes but no other node is disturbed.
func (kb *Keyblock) MoveAfter(n, at *Node) {
	if n == at || at.next == n {
		return
	}
	kb.Remove(n)
	kb.InsertAfter(at, n)
}
