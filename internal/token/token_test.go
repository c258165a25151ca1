package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupCommand(t *testing.T) {
	for ch, typ := range commands {
		got, ok := LookupCommand(ch)
		require.True(t, ok)
		require.Equal(t, typ, got)
		require.Equal(t, string(ch), string(got))
	}
}

func TestLookupNonCommand(t *testing.T) {
	for _, ch := range []byte("abc \n\t#!0{}()") {
		got, ok := LookupCommand(ch)
		require.False(t, ok, "byte %q", ch)
		require.Equal(t, NONE, got)
	}
}

func TestPosition(t *testing.T) {
	require.Equal(t, "1:0", StartPosition.String())
	require.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}
