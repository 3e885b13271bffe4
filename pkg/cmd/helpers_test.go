package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// ExecuteCommandWithCapture executes a cobra command and captures its output
func ExecuteCommandWithCapture(t testing.TB, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

// CreateKeyringFile writes a freshly generated public keyring to tempDir and
// returns its path together with the raw keyring bytes.
func CreateKeyringFile(t *testing.T, tempDir string) (string, []byte) {
	t.Helper()
	cfg := &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}
	entity, err := openpgp.NewEntity("Alice Example", "", "alice@example.com", cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, entity.Serialize(&buf))

	path := filepath.Join(tempDir, "keyring.pgp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path, buf.Bytes()
}

// CorruptKeyringWithDuplicate rewrites a keyring with its third packet (the
// uid certification) appended once more at the end of the keyblock.
func CorruptKeyringWithDuplicate(t *testing.T, tempDir string, keyring []byte) string {
	t.Helper()

	or := packet.NewOpaqueReader(bytes.NewReader(keyring))
	var out bytes.Buffer
	var third *packet.OpaquePacket
	for i := 0; ; i++ {
		op, err := or.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.NoError(t, op.Serialize(&out))
		if i == 2 {
			third = op
		}
	}
	require.NotNil(t, third)
	require.NoError(t, third.Serialize(&out))

	path := filepath.Join(tempDir, "corrupted.pgp")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0644))
	return path
}
