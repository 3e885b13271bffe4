package pgp

import (
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Encode writes the keyring's current packet sequence to w, skipping deleted
// nodes. Every packet is written from the opaque material captured at parse
// time, so repair only reorders bytes, it never rewrites them.
func (kr *Keyring) Encode(w io.Writer, armored bool) error {
	out := w
	var aw io.WriteCloser
	if armored {
		var err error
		aw, err = armor.Encode(w, openpgp.PublicKeyType, nil)
		if err != nil {
			return fmt.Errorf("writing armor: %w", err)
		}
		out = aw
	}

	for _, kb := range kr.Blocks {
		for n := kb.Head(); n != nil; n = n.Next() {
			if n.Deleted {
				continue
			}
			op := kr.raw[n]
			if op == nil {
				return fmt.Errorf("node has no packet material")
			}
			if err := op.Serialize(out); err != nil {
				return fmt.Errorf("writing packet: %w", err)
			}
		}
	}

	if aw != nil {
		return aw.Close()
	}
	return nil
}
