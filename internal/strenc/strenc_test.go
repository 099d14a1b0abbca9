package strenc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/pkg/types"
)

func TestBytesFromStringRoundTrip(t *testing.T) {
	cxt := types.NewContext()
	s := cxt.ConstString([]byte("hello"))

	b := BytesFromString(*s)
	require.Equal(t, []byte("hello"), b)

	back, err := StringFromBytes(cxt, b, diag.Location{})
	require.NoError(t, err)
	require.Equal(t, s.Bytes, back.Bytes)
}

func TestStringFromBytesRejectsInvalidUTF8(t *testing.T) {
	cxt := types.NewContext()

	_, err := StringFromBytes(cxt, []byte{0xff, 0xfe, 0x00}, diag.Location{File: "t.sc", Line: 1, Col: 1})
	require.Error(t, err)

	var dErr *diag.Error
	require.ErrorAs(t, err, &dErr)
	require.Equal(t, diag.KindShape, dErr.Kind)
}

func TestStringFromBytesAcceptsUnicode(t *testing.T) {
	cxt := types.NewContext()

	s, err := StringFromBytes(cxt, []byte("café"), diag.Location{})
	require.NoError(t, err)
	require.Equal(t, "café", s.Bytes)
}
