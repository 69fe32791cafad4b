package dts

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeToken_AppendsNewlineBeforeEncoding(t *testing.T) {
	got := encodeToken("my-dev-token")

	decoded, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Equal(t, "my-dev-token\n", string(decoded))
}

func TestEncodeToken_TrimsWhitespace(t *testing.T) {
	got := encodeToken("  my-dev-token \n")

	decoded, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Equal(t, "my-dev-token\n", string(decoded))
}
