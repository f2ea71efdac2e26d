package collision

import (
	"testing"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
}

func TestTracker_Intern(t *testing.T) {
	tracker := NewTracker()

	index, added, err := tracker.Intern("\tBidPx", 0x1234567890abcdef)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 0, index)

	index, added, err = tracker.Intern("\tAskPx", 0xfedcba0987654321)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 1, index)

	// Re-interning returns the existing index
	index, added, err = tracker.Intern("\tBidPx", 0x1234567890abcdef)
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, 0, index)

	require.Equal(t, 2, tracker.Count())
	require.Equal(t, []string{"\tBidPx", "\tAskPx"}, tracker.Names())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Intern_EmptyKey(t *testing.T) {
	tracker := NewTracker()

	_, _, err := tracker.Intern("", 0x1234567890abcdef)

	require.ErrorIs(t, err, errs.ErrEmptyKey)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Intern_Collision(t *testing.T) {
	tracker := NewTracker()
	const shared = uint64(0x1234567890abcdef)

	first, _, err := tracker.Intern("a", shared)
	require.NoError(t, err)
	require.False(t, tracker.HasCollision())

	second, added, err := tracker.Intern("b", shared)
	require.NoError(t, err)
	require.True(t, added)
	require.True(t, tracker.HasCollision())
	require.NotEqual(t, first, second)

	index, ok := tracker.Lookup("a", shared)
	require.True(t, ok)
	require.Equal(t, first, index)

	index, ok = tracker.Lookup("b", shared)
	require.True(t, ok)
	require.Equal(t, second, index)

	again, added, err := tracker.Intern("b", shared)
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, second, again)
}

func TestTracker_Lookup_Missing(t *testing.T) {
	tracker := NewTracker()
	_, _, err := tracker.Intern("a", 1)
	require.NoError(t, err)

	_, ok := tracker.Lookup("b", 2)
	require.False(t, ok)

	_, ok = tracker.Lookup("b", 1)
	require.False(t, ok)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	_, _, _ = tracker.Intern("a", 7)
	_, _, _ = tracker.Intern("b", 7)
	require.True(t, tracker.HasCollision())

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	_, ok := tracker.Lookup("a", 7)
	require.False(t, ok)

	index, added, err := tracker.Intern("b", 7)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 0, index)
}
