package name_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/name"
)

func TestURIRoundTrip(t *testing.T) {
	n := name.New().AppendStr("ndn").AppendStr("edu").AppendNumber(7).AppendStr("a b/c")
	uri := n.ToURI()
	back, err := name.FromURI(uri)
	require.NoError(t, err)
	require.True(t, n.Equal(back))
}

func TestEmptyNameURI(t *testing.T) {
	n := name.New()
	require.Equal(t, "/", n.ToURI())
	back, err := name.FromURI("/")
	require.NoError(t, err)
	require.True(t, n.Equal(back))
}

func TestGetNegativeIndexConvention(t *testing.T) {
	n := name.New().AppendStr("a").AppendStr("b").AppendStr("c")
	last, err := n.Get(-1)
	require.NoError(t, err)
	require.Equal(t, "c", last.String())

	first, err := n.Get(-3)
	require.NoError(t, err)
	require.Equal(t, "a", first.String())

	_, err = n.Get(-4)
	require.Error(t, err)
	require.IsType(t, name.NameError{}, err)
}

func TestGetOutOfRange(t *testing.T) {
	n := name.New().AppendStr("a")
	_, err := n.Get(5)
	require.Error(t, err)
}

func TestGetSubName(t *testing.T) {
	n := name.New().AppendStr("a").AppendStr("b").AppendStr("c").AppendStr("d")
	sub, err := n.GetSubName(1, 2)
	require.NoError(t, err)
	require.Equal(t, "/b/c", sub.ToURI())

	rest, err := n.GetSubName(2, name.Npos)
	require.NoError(t, err)
	require.Equal(t, "/c/d", rest.ToURI())
}

func TestPrefix(t *testing.T) {
	n := name.New().AppendStr("a").AppendStr("b").AppendStr("c")
	require.Equal(t, "/a/b", n.Prefix(2).ToURI())
	require.Equal(t, "/a/b", n.Prefix(-1).ToURI())
	require.Equal(t, "/a/b/c", n.Prefix(10).ToURI())
	require.Equal(t, "/", n.Prefix(0).ToURI())
}

func TestIsPrefix(t *testing.T) {
	n := name.New().AppendStr("a").AppendStr("b").AppendStr("c")
	p := name.New().AppendStr("a").AppendStr("b")
	require.True(t, p.IsPrefix(n))
	require.False(t, n.IsPrefix(p))
}

func TestAppendVersionDeterministic(t *testing.T) {
	old := name.Clock
	defer func() { name.Clock = old }()
	name.Clock = func() time.Time { return time.Unix(1000, 500_000).UTC() }

	n := name.New().AppendStr("x").AppendVersion()
	last, err := n.Get(-1)
	require.NoError(t, err)
	require.True(t, last.IsVersion())

	v, err := name.AsNumberWithMarker(last, name.VersionMarker)
	require.NoError(t, err)
	require.EqualValues(t, (uint64(1000)<<12)|((500/244)&0xFFF), v)
}

func TestAppendVersionExplicit(t *testing.T) {
	n := name.New().AppendStr("x").AppendVersion(42)
	last, err := n.Get(-1)
	require.NoError(t, err)
	v, err := name.AsNumberWithMarker(last, name.VersionMarker)
	require.NoError(t, err)
	require.EqualValues(t, 42, v)
}

func TestCompareTotalOrder(t *testing.T) {
	a := name.New().AppendStr("a")
	b := name.New().AppendStr("b")
	require.Negative(t, a.Compare(b))
	require.Zero(t, a.Compare(a.Clone()))
}

func TestHashStableAndDistinguishesSplit(t *testing.T) {
	n1 := name.New().AppendStr("ab").AppendStr("c")
	n2 := name.New().AppendStr("a").AppendStr("bc")
	require.Equal(t, n1.Hash(), n1.Clone().Hash())
	require.NotEqual(t, n1.Hash(), n2.Hash())
}
