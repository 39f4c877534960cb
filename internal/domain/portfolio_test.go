package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

func TestCatalogKeepsCategoryOrder(t *testing.T) {
	raw := []byte(`{
		"影片": [{"id": 1, "title": "Reel", "videoUrl": "https://example.com/embed/1"}],
		"3D": [{"id": "a", "title": "Chair", "imageUrl": "chair.jpg"}],
		"AI & 程式": [{"id": 3, "title": "Soon", "placeholder": true}]
	}`)

	var cat domain.Catalog
	require.NoError(t, json.Unmarshal(raw, &cat))

	require.Len(t, cat, 3)
	assert.Equal(t, "影片", cat[0].Name)
	assert.Equal(t, "3D", cat[1].Name)
	assert.Equal(t, "AI & 程式", cat[2].Name)

	assert.Equal(t, "1", cat[0].Items[0].ID)
	assert.Equal(t, "video", cat[0].Items[0].Kind())
	assert.Equal(t, "a", cat[1].Items[0].ID)
	assert.Equal(t, "image", cat[1].Items[0].Kind())
	assert.Equal(t, "placeholder", cat[2].Items[0].Kind())
}

func TestCatalogMarshalPreservesOrder(t *testing.T) {
	cat := domain.Catalog{
		{Name: "z", Items: []domain.PortfolioItem{{ID: "1", Title: "last"}}},
		{Name: "a"},
	}

	out, err := json.Marshal(cat)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":[{"id":"1","title":"last"}],"a":[]}`, string(out))
	assert.Less(t, strings.Index(string(out), `"z"`), strings.Index(string(out), `"a"`))

	var back domain.Catalog
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "z", back[0].Name)
}

func TestCatalogRejectsNonObject(t *testing.T) {
	var cat domain.Catalog
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &cat))
}
