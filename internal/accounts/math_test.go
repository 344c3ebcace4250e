package accounts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChecked(t *testing.T) {
	sum, err := AddChecked(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = AddChecked(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrBalanceOverflow)
}

func TestSubChecked(t *testing.T) {
	diff, err := SubChecked(10, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), diff)

	_, err = SubChecked(10, 11)
	assert.ErrorIs(t, err, ErrBalanceOverflow)
}
