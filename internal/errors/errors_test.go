package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := ParseFailed("token_swap.json", fmt.Errorf("unexpected end of JSON input"))

	assert.True(t, Is(err, ErrParseFailed))
	assert.False(t, Is(err, ErrMissingMetadata))
	assert.Contains(t, err.Error(), "PARSE_FAILED")
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestWrappedErrorKeepsCode(t *testing.T) {
	err := Wrap(InvalidAddress(42.0), "pool.json")

	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidAddress))
	assert.Contains(t, err.Error(), "float64")

	var genErr *Error
	require.True(t, As(err, &genErr))
	assert.Equal(t, ErrCodeInvalidAddress, genErr.Code)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := WriteFailed("/out/pool.go", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, Is(err, cause))
}

func TestJoin(t *testing.T) {
	err := Join(ErrMissingAddress, DiscoveryFailed("/idl", fmt.Errorf("no such directory")))

	assert.True(t, Is(err, ErrMissingAddress))
	assert.True(t, Is(err, ErrDiscoveryFailed))
}
