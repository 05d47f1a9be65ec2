package identitystore_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/name"
	"github.com/ndnxgo/ndnx/pkg/security/identitystore"
)

func mustName(t *testing.T, uri string) name.Name {
	t.Helper()
	n, err := name.FromURI(uri)
	require.NoError(t, err)
	return n
}

// runStoreContract exercises the Store interface identically against
// every implementation, so MemoryStore and SqliteStore are held to the
// same contract.
func runStoreContract(t *testing.T, s identitystore.Store) {
	t.Helper()

	alice := mustName(t, "/ndn/edu/alice")
	aliceKey1 := mustName(t, "/ndn/edu/alice/KEY/1")
	aliceKey2 := mustName(t, "/ndn/edu/alice/KEY/2")
	cert1 := mustName(t, "/ndn/edu/alice/KEY/1/self/1")

	require.NoError(t, s.AddIdentity(alice))
	require.NoError(t, s.AddKey(alice, aliceKey1))
	require.NoError(t, s.AddKey(alice, aliceKey2))
	require.NoError(t, s.AddCertificate(aliceKey1, cert1))

	gotIdentity, ok := s.DefaultIdentity()
	require.True(t, ok)
	require.True(t, alice.Equal(gotIdentity))

	gotKey, ok := s.DefaultKeyForIdentity(alice)
	require.True(t, ok)
	require.True(t, aliceKey1.Equal(gotKey))

	gotCert, ok := s.DefaultCertificateForKey(aliceKey1)
	require.True(t, ok)
	require.True(t, cert1.Equal(gotCert))

	require.NoError(t, s.SetDefaultKey(alice, aliceKey2))
	gotKey, ok = s.DefaultKeyForIdentity(alice)
	require.True(t, ok)
	require.True(t, aliceKey2.Equal(gotKey))

	keys := s.KeysForIdentity(alice)
	require.Len(t, keys, 2)

	_, ok = s.DefaultCertificateForKey(aliceKey2)
	require.False(t, ok)

	err := s.SetDefaultKey(alice, mustName(t, "/ndn/edu/alice/KEY/missing"))
	require.Error(t, err)
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, identitystore.NewMemoryStore())
}

func TestSqliteStoreContract(t *testing.T) {
	dir, err := os.MkdirTemp("", "identitystore-sqlite-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := identitystore.OpenSqliteStore(dir + "/pib.sqlite3")
	require.NoError(t, err)
	defer s.Close()

	runStoreContract(t, s)
}
