package ui

import (
	"fmt"
	"io"

	"github.com/tomekjarosik/keycheck/pkg/check"
)

// PrintCheckReport prints the per-keyblock summary of a check. Keyblocks
// without findings stay quiet.
func PrintCheckReport(w io.Writer, keyID string, rep *check.Report, onlySelfSigs bool) {
	if !rep.HasFindings() {
		return
	}

	fmt.Fprintf(w, "%skey %s:%s\n", ColorCyan, keyID, ColorReset)
	if rep.Duplicates > 0 {
		fmt.Fprintf(w, "  %d duplicate %s removed\n",
			rep.Duplicates, Pluralize(rep.Duplicates, "signature", "signatures"))
	}
	if rep.MissingIssuer > 0 {
		fmt.Fprintf(w, "  %d %s not checked due to %s\n",
			rep.MissingIssuer,
			Pluralize(rep.MissingIssuer, "signature", "signatures"),
			Pluralize(rep.MissingIssuer, "a missing key", "missing keys"))
	}
	if rep.BadSignatures > 0 {
		fmt.Fprintf(w, "  %d bad %s\n",
			rep.BadSignatures, Pluralize(rep.BadSignatures, "signature", "signatures"))
	}
	if rep.Reordered > 0 {
		fmt.Fprintf(w, "  %d %s reordered\n",
			rep.Reordered, Pluralize(rep.Reordered, "signature", "signatures"))
	}
	if rep.MissingSelfSigs > 0 {
		fmt.Fprintf(w, "  %d %s without a valid self-signature\n",
			rep.MissingSelfSigs, Pluralize(rep.MissingSelfSigs, "component", "components"))
	}

	if onlySelfSigs && (rep.BadSignatures > 0 || rep.Reordered > 0) {
		PrintWarning(w, "errors found and only checked self-signatures, run a full check")
	}
}
