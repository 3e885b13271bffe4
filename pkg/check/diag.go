package check

import (
	"fmt"
	"io"
	"time"

	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

func describeSignature(sig *keyblock.SignaturePacket) string {
	return fmt.Sprintf("sig: class 0x%02x, issuer %s, timestamp %s, digest %02x %02x",
		byte(sig.Class), sig.IssuerKeyID,
		sig.CreationTime.UTC().Format(time.RFC3339),
		sig.DigestPrefix[0], sig.DigestPrefix[1])
}

// diagPrinter renders the per-component / per-signature diagnostic stream of
// the placement pass. Component headers and signature lines only appear once
// the keyblock has been modified; a clean prefix of the keyblock stays quiet.
// Capability warnings are always printed.
type diagPrinter struct {
	w    io.Writer
	last *keyblock.Node
}

func newDiagPrinter(w io.Writer) *diagPrinter {
	return &diagPrinter{w: w}
}

func (d *diagPrinter) warnf(format string, args ...any) {
	fmt.Fprintf(d.w, "warning: "+format+"\n", args...)
}

// componentHeader prints a pub/sub/uid header the first time a component is
// touched. target is the component the signature verified against (nil for a
// bad signature); current is the component the signature sits under.
func (d *diagPrinter) componentHeader(target, current *keyblock.Node, modified bool) {
	shown := target
	if shown == nil {
		shown = current
	}
	if shown == d.last {
		return
	}
	d.last = shown
	if !modified {
		return
	}

	switch shown.Kind {
	case keyblock.KindUserID:
		fmt.Fprintf(d.w, "uid  %s", shown.UserID.ID)
	case keyblock.KindPrimaryKey:
		fmt.Fprintf(d.w, "pub  %s", shown.Key.KeyID)
	default:
		fmt.Fprintf(d.w, "sub  %s", shown.Key.KeyID)
	}
	if target != nil && target != current {
		fmt.Fprintf(d.w, " (reordered signatures follow)")
	}
	fmt.Fprintln(d.w)
}

func (d *diagPrinter) signatureLine(sig *keyblock.SignaturePacket, status string, selfsig bool, modified bool) {
	if !modified {
		return
	}
	suffix := ""
	if selfsig {
		suffix = " (self-signature)"
	}
	fmt.Fprintf(d.w, "  %s: %s%s\n", describeSignature(sig), status, suffix)
}
