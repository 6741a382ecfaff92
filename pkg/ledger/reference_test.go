package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomReference_SixDigits(t *testing.T) {
	for i := 0; i < 1000; i++ {
		ref, err := RandomReference()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ref, 100_000)
		assert.LessOrEqual(t, ref, 999_999)
	}
}
