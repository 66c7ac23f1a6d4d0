package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", h)

	assert.True(t, Verify("correct horse battery staple", h))
	assert.False(t, Verify("wrong password", h))
	assert.False(t, Verify("anything", "not-a-bcrypt-hash"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := Hash("same input")
	require.NoError(t, err)
	h2, err := Hash("same input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
