package pgp

import (
	"math/big"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// mpiBytes matches the exported signature payload fields without naming
// go-crypto's internal encoding type.
type mpiBytes interface{ Bytes() []byte }

// signaturePayload extracts the algorithm-specific numeric values of a parsed
// signature, in wire order. Unknown algorithms yield no values; such
// signatures compare by digest algorithm alone, as in the original checker.
func signaturePayload(pkt *packet.Signature) []*big.Int {
	switch pkt.PubKeyAlgo {
	case packet.PubKeyAlgoRSA, packet.PubKeyAlgoRSASignOnly:
		return mpis(pkt.RSASignature)
	case packet.PubKeyAlgoDSA:
		return mpis(pkt.DSASigR, pkt.DSASigS)
	case packet.PubKeyAlgoECDSA:
		return mpis(pkt.ECDSASigR, pkt.ECDSASigS)
	case packet.PubKeyAlgoEdDSA:
		return mpis(pkt.EdDSASigR, pkt.EdDSASigS)
	case packet.PubKeyAlgoEd25519, packet.PubKeyAlgoEd448:
		if len(pkt.EdSig) == 0 {
			return nil
		}
		return []*big.Int{new(big.Int).SetBytes(pkt.EdSig)}
	default:
		return nil
	}
}

func mpis(fields ...mpiBytes) []*big.Int {
	vals := make([]*big.Int, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		vals = append(vals, new(big.Int).SetBytes(f.Bytes()))
	}
	return vals
}
