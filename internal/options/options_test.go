package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type limits struct {
	blockSize int
	strict    bool
	applied   []string
}

var errBlockSize = errors.New("block size must be positive")

func withBlockSize(n int) Option[*limits] {
	return New(func(l *limits) error {
		if n <= 0 {
			return errBlockSize
		}
		l.blockSize = n
		l.applied = append(l.applied, "blockSize")

		return nil
	})
}

func withStrict(strict bool) Option[*limits] {
	return NoError(func(l *limits) {
		l.strict = strict
		l.applied = append(l.applied, "strict")
	})
}

func TestApply_InOrder(t *testing.T) {
	l := &limits{}
	require.NoError(t, Apply(l, withStrict(true), withBlockSize(4096), withStrict(false)))
	require.Equal(t, 4096, l.blockSize)
	require.False(t, l.strict)
	require.Equal(t, []string{"strict", "blockSize", "strict"}, l.applied)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	l := &limits{}
	err := Apply(l, withBlockSize(64), withBlockSize(0), withStrict(true))
	require.ErrorIs(t, err, errBlockSize)
	require.Equal(t, 64, l.blockSize)
	require.False(t, l.strict)
	require.Equal(t, []string{"blockSize"}, l.applied)
}

func TestApply_Empty(t *testing.T) {
	l := &limits{blockSize: 7}
	require.NoError(t, Apply[*limits](l))
	require.Equal(t, 7, l.blockSize)
}
