package gobatch3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSplitAndMergeBack(t *testing.T) {
	g, err := NewGame(DefaultConfig())
	require.NoError(t, err)
	batch := g.world.Batches()[0]
	full := batch.VertexCount()

	require.NoError(t, g.splitLast())
	require.Len(t, g.parked, 1)
	assert.Equal(t, "ball", g.parked[0].name)
	assert.Equal(t, 2, batch.PartCount())
	assert.Less(t, batch.VertexCount(), full)

	require.NoError(t, g.mergeParked())
	assert.Empty(t, g.parked)
	assert.Equal(t, 3, batch.PartCount())
	assert.Equal(t, full, batch.VertexCount())

	// nothing parked
	require.NoError(t, g.mergeParked())
	assert.Equal(t, 3, batch.PartCount())
}

func TestGameSpinKeepsPartCount(t *testing.T) {
	g, err := NewGame(DefaultConfig())
	require.NoError(t, err)
	batch := g.world.Batches()[0]
	gen := batch.Generation()

	for range 3 {
		require.NoError(t, g.spinFirst())
	}
	assert.Equal(t, 3, batch.PartCount())
	assert.Greater(t, batch.Generation(), gen)

	w, h := g.Layout(1, 1)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestGameSplitAtEmptySky(t *testing.T) {
	g, err := NewGame(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, g.splitAt(0, 0))
	assert.Empty(t, g.parked)
	assert.Equal(t, 3, g.world.Batches()[0].PartCount())
}
