package name_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndnxgo/ndnx/pkg/name"
)

func TestNumberComponentRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 255, 256, 65535, 1 << 40}
	for _, n := range cases {
		c := name.NewNumberComponent(n)
		require.Equal(t, n, name.AsNumber(c))
	}
}

func TestNumberComponentZeroIsEmpty(t *testing.T) {
	c := name.NewNumberComponent(0)
	require.Empty(t, c.Bytes())
}

func TestNumberComponentWithMarkerRoundTrip(t *testing.T) {
	c := name.NewNumberComponentWithMarker(12345, name.VersionMarker)
	require.True(t, c.IsVersion())
	v, err := name.AsNumberWithMarker(c, name.VersionMarker)
	require.NoError(t, err)
	require.EqualValues(t, 12345, v)
}

func TestAsNumberWithMarkerRejectsWrongMarker(t *testing.T) {
	c := name.NewNumberComponentWithMarker(1, 0xAA)
	_, err := name.AsNumberWithMarker(c, name.VersionMarker)
	require.Error(t, err)
	require.IsType(t, name.NameError{}, err)
}

func TestComponentURIEscaping(t *testing.T) {
	c := name.NewComponent([]byte{'a', 0x00, 0x2f, 'b'})
	require.Equal(t, "a%00%2fb", c.String())
}

func TestComponentURIPrintablePassthrough(t *testing.T) {
	c := name.NewStringComponent("hello-world_1.0~")
	require.Equal(t, "hello-world_1.0~", c.String())
}

func TestComponentEqualAndCompare(t *testing.T) {
	a := name.NewStringComponent("a")
	b := name.NewStringComponent("b")
	require.True(t, a.Equal(a.Clone()))
	require.False(t, a.Equal(b))
	require.Negative(t, a.Compare(b))
	require.Positive(t, b.Compare(a))
}
