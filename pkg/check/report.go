package check

// Report accumulates the counters threaded through the check passes.
type Report struct {
	// Duplicates is the number of duplicate signatures removed.
	Duplicates int
	// MissingIssuer is the number of signatures not checked because the
	// issuer's public key could not be retrieved.
	MissingIssuer int
	// BadSignatures is the number of signatures that verify against no
	// component. They are counted and left in place, never removed.
	BadSignatures int
	// Reordered is the number of signatures relocated to the component they
	// actually certify.
	Reordered int
	// MissingSelfSigs is the number of components left without a valid
	// self-signature after all passes. It is diagnostic only and does not
	// contribute to Modified.
	MissingSelfSigs int
}

// Modified reports whether the keyblock was structurally changed: duplicates
// removed or signatures reordered. Missing issuers and bad signatures are
// findings, not modifications.
func (r *Report) Modified() bool {
	return r.Duplicates > 0 || r.Reordered > 0
}

// HasFindings reports whether anything worth telling the caller about was
// found, matching the summary gate of the report printer.
func (r *Report) HasFindings() bool {
	return r.Duplicates > 0 || r.MissingIssuer > 0 || r.BadSignatures > 0 || r.Reordered > 0
}
