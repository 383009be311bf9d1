package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectColumnsPrefersSpecificFrontURL(t *testing.T) {
	t.Parallel()
	cols, err := DetectColumns([]string{"name", "url", "Front URL", "back_url"})
	require.NoError(t, err)
	require.Equal(t, 2, cols.Front)
	require.Equal(t, 3, cols.Back)
	require.Equal(t, 0, cols.ID)
	require.True(t, cols.Resolved())
}

func TestDetectColumnsFallsBackToBareURLs(t *testing.T) {
	t.Parallel()
	cols, err := DetectColumns([]string{"card_id", "image_url", "alt_url"})
	require.NoError(t, err)
	require.Equal(t, 1, cols.Front)
	require.Equal(t, 2, cols.Back)
	require.Equal(t, 0, cols.ID)
}

func TestDetectColumnsFrontWithoutURLWord(t *testing.T) {
	t.Parallel()
	cols, err := DetectColumns([]string{"FRONT", "Back"})
	require.NoError(t, err)
	require.Equal(t, 0, cols.Front)
	require.Equal(t, 1, cols.Back)
	require.Equal(t, -1, cols.ID)
}

func TestDetectColumnsSingleURLLeavesBackUnresolved(t *testing.T) {
	t.Parallel()
	cols, err := DetectColumns([]string{"id", "url"})
	require.NoError(t, err)
	require.Equal(t, 1, cols.Front)
	require.Equal(t, -1, cols.Back)
	require.False(t, cols.Resolved())
}

func TestDetectColumnsIDPriority(t *testing.T) {
	t.Parallel()
	cols, err := DetectColumns([]string{"name", "Id", "front_url", "back_url"})
	require.NoError(t, err)
	require.Equal(t, 1, cols.ID, "id outranks name")
}

func TestDetectColumnsMissingHeadersSuggestsClosest(t *testing.T) {
	t.Parallel()
	_, err := DetectColumns([]string{"title", "frnt_ur", "price"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `closest: "frnt_ur"`)
}

func TestDetectColumnsEmptyHeader(t *testing.T) {
	t.Parallel()
	_, err := DetectColumns(nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrEmptyCatalog))
}
