package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tomekjarosik/keycheck/pkg/check"
	"github.com/tomekjarosik/keycheck/pkg/keyblock"
	"github.com/tomekjarosik/keycheck/pkg/pgp"
	"github.com/tomekjarosik/keycheck/pkg/ui"
)

type blockResult struct {
	keyID string
	rep   *check.Report
	diag  bytes.Buffer
}

func NewCheckCommand() *cobra.Command {
	var (
		onlySelfSigs bool
		selectedKeys []string
		selectedUIDs []string
		outputPath   string
		armored      bool
		workers      int
	)

	checkCmd := cobra.Command{
		Use:   "check <keyring>",
		Short: "Check keyblocks for duplicate, misplaced and bad signatures",
		Long: `Check every keyblock of the given keyring (binary or armored) for duplicate
signatures, signatures filed under the wrong component, and signatures that do
not verify. Duplicates are removed and misplaced signatures are moved directly
after the component they certify; bad signatures are only reported, never
removed.

With --output, a repaired keyring is written when anything was modified.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			kr, err := pgp.ParseKeyring(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			policy := check.Policy{
				OnlySelfSigs: onlySelfSigs,
				OnlySelected: len(selectedKeys)+len(selectedUIDs) > 0,
			}
			if policy.OnlySelected {
				markSelected(kr, selectedKeys, selectedUIDs)
			}
			kr.CertifySignatures()

			// Keyblocks are independent; check them concurrently.
			results := make([]blockResult, len(kr.Blocks))
			var g errgroup.Group
			g.SetLimit(workers)
			for i, kb := range kr.Blocks {
				i, kb := i, kb
				g.Go(func() error {
					res := &results[i]
					res.keyID = kb.PrimaryKey().KeyID.String()
					checker := check.New(kr, kr.Verifier(), pgp.Algorithms{},
						check.WithDiagnostics(&res.diag))
					rep, err := checker.Check(kb, policy)
					if err != nil {
						return fmt.Errorf("checking key %s: %w", res.keyID, err)
					}
					res.rep = rep
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			modified := false
			for i := range results {
				res := &results[i]
				if _, err := io.Copy(out, &res.diag); err != nil {
					return err
				}
				ui.PrintCheckReport(out, res.keyID, res.rep, onlySelfSigs)
				modified = modified || res.rep.Modified()
			}

			if !modified {
				ui.PrintSuccess(out, "no structural problems found in %d %s",
					len(kr.Blocks), ui.Pluralize(len(kr.Blocks), "keyblock", "keyblocks"))
				return nil
			}
			if outputPath == "" {
				ui.PrintWarning(out, "keyring was repaired in memory only, use --output to save it")
				return nil
			}
			return writeRepaired(out, kr, outputPath, armored)
		},
	}

	checkCmd.Flags().BoolVar(&onlySelfSigs, "only-self-sigs", false,
		"only check and reorder self-signatures (duplicates are still removed)")
	checkCmd.Flags().StringArrayVar(&selectedKeys, "key", nil,
		"restrict the check to keys matching this key id suffix (repeatable)")
	checkCmd.Flags().StringArrayVar(&selectedUIDs, "uid", nil,
		"restrict the check to user ids containing this substring (repeatable)")
	checkCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"write the repaired keyring to this file when anything was modified")
	checkCmd.Flags().BoolVar(&armored, "armor", false,
		"armor the repaired keyring output")
	checkCmd.Flags().IntVar(&workers, "workers", max(2, runtime.NumCPU()-2),
		"number of keyblocks checked in parallel")
	return &checkCmd
}

// markSelected sets the selection flags the checker consults in
// only-selected mode. Key ids match on a hex suffix, user ids on a
// case-insensitive substring.
func markSelected(kr *pgp.Keyring, keys, uids []string) {
	for _, kb := range kr.Blocks {
		for n := kb.Head(); n != nil; n = n.Next() {
			switch n.Kind {
			case keyblock.KindPrimaryKey, keyblock.KindSubkey:
				for _, s := range keys {
					suffix := strings.ToUpper(strings.TrimPrefix(s, "0x"))
					if strings.HasSuffix(n.Key.KeyID.String(), suffix) {
						n.SelectedKey = true
					}
				}
			case keyblock.KindUserID:
				for _, s := range uids {
					if strings.Contains(strings.ToLower(n.UserID.ID), strings.ToLower(s)) {
						n.SelectedUserID = true
					}
				}
			}
		}
	}
}

func writeRepaired(out io.Writer, kr *pgp.Keyring, path string, armored bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	hash := sha256.New()
	if err := kr.Encode(io.MultiWriter(f, hash), armored); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "repaired keyring written to %s (sha256: %s)\n",
		path, hex.EncodeToString(hash.Sum(nil)))
	return nil
}
