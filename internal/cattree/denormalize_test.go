package cattree

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenormalize(t *testing.T) {
	forest := BuildTree([]domain.Category{
		{ID: "1", Name: "Building", Slug: "building"},
		{ID: "2", Name: "Roofing", Slug: "roofing", ParentID: ptr("1")},
		{ID: "3", Name: "Sheets", Slug: "sheets", ParentID: ptr("2")},
		{ID: "4", Name: "Cement", Slug: "cement", ParentID: ptr("1"), Order: 1},
	})

	flat := Denormalize(forest)
	require.Len(t, flat, 4)

	byID := map[string]domain.Category{}
	for _, c := range flat {
		byID[c.ID] = c
	}

	assert.Equal(t, 0, byID["1"].Level)
	assert.Equal(t, "building", byID["1"].Path)
	assert.Empty(t, byID["1"].Ancestors)

	assert.Equal(t, 2, byID["3"].Level)
	assert.Equal(t, "building/roofing/sheets", byID["3"].Path)
	assert.Equal(t, []domain.Ancestor{
		{ID: "1", Name: "Building"},
		{ID: "2", Name: "Roofing"},
	}, byID["3"].Ancestors)

	assert.Equal(t, "building/cement", byID["4"].Path)
	assert.Equal(t, []domain.Ancestor{{ID: "1", Name: "Building"}}, byID["4"].Ancestors)
}
