package pgp

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomekjarosik/keycheck/pkg/keyblock"
)

// generateKeyringBytes builds a fresh public keyring with the canonical
// packet sequence: primary key, user id, certification, subkey, binding
// signature.
func generateKeyringBytes(t *testing.T) []byte {
	t.Helper()
	cfg := &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}
	entity, err := openpgp.NewEntity("Alice Example", "", "alice@example.com", cfg)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, entity.Serialize(&buf))
	return buf.Bytes()
}

func parseTestKeyring(t *testing.T) (*Keyring, []byte) {
	t.Helper()
	data := generateKeyringBytes(t)
	kr, err := ParseKeyring(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, kr.Blocks, 1)
	return kr, data
}

func opaquePackets(t *testing.T, data []byte) []*packet.OpaquePacket {
	t.Helper()
	or := packet.NewOpaqueReader(bytes.NewReader(data))
	var ops []*packet.OpaquePacket
	for {
		op, err := or.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		ops = append(ops, op)
	}
	return ops
}

func kindsOf(kb *keyblock.Keyblock) []keyblock.PacketKind {
	var kinds []keyblock.PacketKind
	for n := kb.Head(); n != nil; n = n.Next() {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

var canonicalKinds = []keyblock.PacketKind{
	keyblock.KindPrimaryKey,
	keyblock.KindUserID,
	keyblock.KindSignature,
	keyblock.KindSubkey,
	keyblock.KindSignature,
}

func TestParseKeyringStructure(t *testing.T) {
	kr, _ := parseTestKeyring(t)
	kb := kr.Blocks[0]

	assert.Equal(t, canonicalKinds, kindsOf(kb))

	pk := kb.PrimaryKey()
	require.NotNil(t, pk)
	assert.NotZero(t, pk.KeyID)
	assert.NotEmpty(t, pk.Fingerprint)

	nodes := nodesOfBlock(kb)
	assert.Equal(t, "Alice Example <alice@example.com>", nodes[1].UserID.ID)

	cert := nodes[2].Signature
	assert.Equal(t, keyblock.ClassPositiveCert, cert.Class)
	assert.Equal(t, pk.KeyID, cert.IssuerKeyID)
	assert.NotZero(t, cert.DigestAlgo)
	assert.NotEmpty(t, cert.Payload)

	bind := nodes[4].Signature
	assert.Equal(t, keyblock.ClassSubkeyBinding, bind.Class)
	assert.Equal(t, pk.KeyID, bind.IssuerKeyID)
}

func nodesOfBlock(kb *keyblock.Keyblock) []*keyblock.Node {
	var nodes []*keyblock.Node
	for n := kb.Head(); n != nil; n = n.Next() {
		nodes = append(nodes, n)
	}
	return nodes
}

func TestParseKeyringRejectsBadInput(t *testing.T) {
	_, err := ParseKeyring(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseKeyring(strings.NewReader("not a keyring"))
	assert.Error(t, err)

	// A packet stream that starts with something other than a primary key.
	ops := opaquePackets(t, generateKeyringBytes(t))
	var headless bytes.Buffer
	for _, op := range ops[1:] {
		require.NoError(t, op.Serialize(&headless))
	}
	_, err = ParseKeyring(&headless)
	assert.ErrorIs(t, err, ErrNoPublicKey)
}

func TestEncodeRoundTripsByteExact(t *testing.T) {
	kr, data := parseTestKeyring(t)

	var out bytes.Buffer
	require.NoError(t, kr.Encode(&out, false))
	assert.True(t, bytes.Equal(data, out.Bytes()),
		"an untouched keyring must re-encode byte-exact")
}

func TestEncodeArmoredRoundTrip(t *testing.T) {
	kr, _ := parseTestKeyring(t)

	var out bytes.Buffer
	require.NoError(t, kr.Encode(&out, true))
	assert.True(t, strings.HasPrefix(out.String(), "-----BEGIN PGP PUBLIC KEY BLOCK-----"))

	again, err := ParseKeyring(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Len(t, again.Blocks, 1)
	assert.Equal(t, canonicalKinds, kindsOf(again.Blocks[0]))
	assert.Equal(t, kr.Blocks[0].PrimaryKey().KeyID, again.Blocks[0].PrimaryKey().KeyID)
}

func TestParseKeyringSplitsBlocks(t *testing.T) {
	first := generateKeyringBytes(t)
	second := generateKeyringBytes(t)
	kr, err := ParseKeyring(bytes.NewReader(append(first, second...)))
	require.NoError(t, err)

	require.Len(t, kr.Blocks, 2)
	assert.Equal(t, canonicalKinds, kindsOf(kr.Blocks[0]))
	assert.Equal(t, canonicalKinds, kindsOf(kr.Blocks[1]))
	assert.NotEqual(t, kr.Blocks[0].PrimaryKey().KeyID, kr.Blocks[1].PrimaryKey().KeyID)
}

func TestLookup(t *testing.T) {
	kr, _ := parseTestKeyring(t)

	key, err := kr.Lookup(kr.Blocks[0].PrimaryKey().KeyID)
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = kr.Lookup(keyblock.KeyID(0xDEADBEEF))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCertifySignatures(t *testing.T) {
	kr, _ := parseTestKeyring(t)
	kr.CertifySignatures()

	for _, n := range kr.Blocks[0].Signatures() {
		assert.True(t, n.Signature.Checked)
		assert.True(t, n.Signature.Valid)
	}
}
