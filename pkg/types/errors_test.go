package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &RangeError{Key: "P", Value: 5, Min: 10, Max: 100})

	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.EqualError(t, err, "lookup: P = 5 is outside 10 to 100")

	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, Range{Min: 10, Max: 100}, re.Range())
}

func TestRangeErrorDetail(t *testing.T) {
	err := &RangeError{Key: "T", Value: 900, Min: 10, Max: 20, Detail: "At T = 900, valid pressure range is 10 to 20."}
	assert.Equal(t, "At T = 900, valid pressure range is 10 to 20.", err.Error())
}

func TestNotBracketedError(t *testing.T) {
	err := &NotBracketedError{Min: 0, Max: 10, Closest: 1}
	assert.True(t, errors.Is(err, ErrNotBracketed))
	assert.Contains(t, err.Error(), "[0, 10]")
}
