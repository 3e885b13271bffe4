package pgp

import (
	"errors"
	"fmt"

	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/tomekjarosik/keycheck/pkg/check"
	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// Verifier implements check.Verifier on top of go-crypto's packet-level
// verification entry points. It never writes to the signature records it is
// handed; certification flags are set elsewhere.
type Verifier struct {
	kr *Keyring
}

// Verifier returns the verification primitive bound to this keyring.
func (kr *Keyring) Verifier() *Verifier {
	return &Verifier{kr: kr}
}

// Verify reports whether sig, made by issuer, verifies over the candidate
// target component of kb. A nil return means the signature is good for that
// component.
func (v *Verifier) Verify(issuer check.IssuerKey, sig *keyblock.SignaturePacket, kb *keyblock.Keyblock, target *keyblock.Node) error {
	pkt := v.kr.sigs[sig]
	if pkt == nil {
		return errors.New("signature record unknown to this keyring")
	}
	issuerPk, err := v.issuerKey(issuer)
	if err != nil {
		return err
	}
	primary := v.kr.pubs[kb.PrimaryKey()]
	if primary == nil {
		return errors.New("keyblock unknown to this keyring")
	}

	switch target.Kind {
	case keyblock.KindUserID:
		uid := v.kr.uids[target.UserID]
		if uid == nil {
			return errors.New("user id unknown to this keyring")
		}
		return issuerPk.VerifyUserIdSignature(uid.Id, primary, pkt)
	case keyblock.KindSubkey:
		sub := v.kr.pubs[target.Key]
		if sub == nil {
			return errors.New("subkey unknown to this keyring")
		}
		// Binding and subkey revocation signatures hash the primary key
		// followed by the subkey (RFC 9580 section 5.2.4).
		h, err := pkt.PrepareVerify()
		if err != nil {
			return err
		}
		if err := primary.SerializeForHash(h); err != nil {
			return err
		}
		if err := sub.SerializeForHash(h); err != nil {
			return err
		}
		return issuerPk.VerifySignature(h, pkt)
	case keyblock.KindPrimaryKey:
		// Direct-key and key revocation signatures hash the primary key
		// alone.
		h, err := pkt.PrepareVerify()
		if err != nil {
			return err
		}
		if err := primary.SerializeForHash(h); err != nil {
			return err
		}
		return issuerPk.VerifySignature(h, pkt)
	default:
		return fmt.Errorf("cannot verify a signature over a %s packet", target.Kind)
	}
}

func (v *Verifier) issuerKey(issuer check.IssuerKey) (*packet.PublicKey, error) {
	switch k := issuer.(type) {
	case *packet.PublicKey:
		return k, nil
	case *keyblock.KeyPacket:
		if pk := v.kr.pubs[k]; pk != nil {
			return pk, nil
		}
	}
	return nil, errors.New("issuer key unknown to this keyring")
}
