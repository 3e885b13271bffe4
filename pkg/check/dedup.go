package check

import (
	"sort"

	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// removeDuplicateSignatures clusters the given signature nodes under the
// canonical duplicate ordering and unlinks one member of every identical
// pair. The stable sort keeps equal signatures in keyblock order, so the
// earlier-positioned occurrence is the one removed; scanning resumes from the
// later one.
func (c *Checker) removeDuplicateSignatures(kb *keyblock.Keyblock, sigs []*keyblock.Node, rep *Report) {
	sorted := make([]*keyblock.Node, len(sigs))
	copy(sorted, sigs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Signature.Compare(sorted[j].Signature) < 0
	})

	last := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[last].Signature.Compare(sorted[i].Signature) == 0 {
			kb.Remove(sorted[last])
			rep.Duplicates++
		}
		last = i
	}
}
