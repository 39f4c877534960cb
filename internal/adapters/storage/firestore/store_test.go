package firestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCategoryFallsBackToDocID(t *testing.T) {
	got, err := toCategory("3d", categoryDoc{})
	require.NoError(t, err)

	assert.Equal(t, "3d", got.Name)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestToCategoryKeepsItems(t *testing.T) {
	doc := categoryDoc{
		Name:     "Video",
		Position: 2,
		Items:    []itemDoc{{ID: "7", Title: "Reel", VideoURL: "https://example.com/reel"}},
	}

	got, err := toCategory("ignored", doc)
	require.NoError(t, err)

	assert.Equal(t, "Video", got.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "7", got.Items[0].ID)
	assert.Equal(t, "video", got.Items[0].Kind())
}

func TestToCategoryNormalizesNumericIDs(t *testing.T) {
	doc := categoryDoc{
		Name: "3D",
		Items: []itemDoc{
			{ID: int64(12), Title: "Chair"},
			{ID: float64(3), Title: "Lamp"},
			{ID: 2.5, Title: "Desk"},
			{Title: "Soon", Placeholder: true},
		},
	}

	got, err := toCategory("3d", doc)
	require.NoError(t, err)

	require.Len(t, got.Items, 4)
	assert.Equal(t, "12", got.Items[0].ID)
	assert.Equal(t, "3", got.Items[1].ID)
	assert.Equal(t, "2.5", got.Items[2].ID)
	assert.Equal(t, "", got.Items[3].ID)
}

func TestToCategoryRejectsOddIDs(t *testing.T) {
	_, err := toCategory("3d", categoryDoc{Items: []itemDoc{{ID: true}}})
	assert.Error(t, err)
}

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := NewStore(t.Context(), "")
	assert.Error(t, err)
}
