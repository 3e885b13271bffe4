// Package check detects and repairs structural problems in a keyblock:
// duplicate signatures are removed, signatures filed under the wrong
// component are relocated, signatures that verify against nothing are
// flagged, and components lacking a valid self-signature are reported.
//
// The checker never fetches or trusts new components, never adds signatures
// and never judges policy. It only reorders, deduplicates and reports.
package check

import (
	"errors"
	"fmt"

	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// ErrNoPrimaryKey is returned when the keyblock does not start with a
// primary-key node.
var ErrNoPrimaryKey = errors.New("keyblock does not start with a primary key")

// Policy restricts what a single check run looks at.
type Policy struct {
	// OnlySelected skips signatures under components the caller did not mark
	// selected.
	OnlySelected bool
	// OnlySelfSigs restricts checking and repair to signatures issued by the
	// keyblock's own primary key. Duplicates are still removed globally.
	OnlySelfSigs bool
}

// Checker runs the check passes against the collaborators it was built with.
type Checker struct {
	keys     KeySource
	verifier Verifier
	algos    AlgorithmRegistry
	options  *options
}

// New creates a Checker. The collaborators implement issuer key retrieval,
// the signature verification primitive and the supported-algorithm registry.
func New(keys KeySource, verifier Verifier, algos AlgorithmRegistry, opts ...Option) *Checker {
	return &Checker{
		keys:     keys,
		verifier: verifier,
		algos:    algos,
		options:  makeOptions(opts...),
	}
}

// Check runs the three passes over kb: duplicate removal, placement
// resolution and the self-signature audit. It returns the accumulated
// counters; Report.Modified tells the caller whether the keyblock needs to be
// persisted again. The keyblock is exclusively owned by the caller for the
// duration of the check.
func (c *Checker) Check(kb *keyblock.Keyblock, policy Policy) (*Report, error) {
	if kb == nil || kb.PrimaryKey() == nil {
		return nil, ErrNoPrimaryKey
	}

	rep := &Report{}

	// Duplicates are a structural defect independent of which signatures the
	// caller cares about, so this pass ignores the policy.
	sigs := kb.Signatures()
	if len(sigs) == 0 {
		return rep, nil
	}
	c.removeDuplicateSignatures(kb, sigs, rep)

	c.resolvePlacement(kb, policy, rep)
	c.auditSelfSignatures(kb, rep)

	if policy.OnlySelfSigs && (rep.BadSignatures > 0 || rep.Reordered > 0) {
		fmt.Fprintf(c.options.diag, "warning: errors found and only checked self-signatures, run a full check\n")
	}

	return rep, nil
}
