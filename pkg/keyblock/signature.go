package keyblock

// Compare orders two signature records so that identical ones sort together.
// The actual order carries no meaning; the relation exists to cluster
// duplicates. It compares the digest algorithm, then the number of payload
// values, then the payload values pairwise as unsigned big numbers. Issuer,
// signature class and timestamp are deliberately ignored: only the
// cryptographic payload determines duplication.
func (s *SignaturePacket) Compare(o *SignaturePacket) int {
	if s.DigestAlgo < o.DigestAlgo {
		return -1
	}
	if s.DigestAlgo > o.DigestAlgo {
		return 1
	}

	if len(s.Payload) != len(o.Payload) {
		if len(s.Payload) < len(o.Payload) {
			return -1
		}
		return 1
	}

	for i := range s.Payload {
		if c := s.Payload[i].CmpAbs(o.Payload[i]); c != 0 {
			return c
		}
	}
	return 0
}
