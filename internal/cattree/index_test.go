package cattree

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFindPathToRoot(t *testing.T) {
	records := []domain.Category{
		cat("1", "Building", "", 0),
		cat("2", "Roofing", "1", 0),
		cat("3", "Metal Sheets", "2", 0),
		cat("4", "Orphan", "gone", 0),
		{ID: "5", ParentID: ptr("1")},
	}

	tests := []struct {
		name string
		id   string
		want []domain.Ancestor
	}{
		{"root", "1", []domain.Ancestor{{ID: "1", Name: "Building"}}},
		{"leaf", "3", []domain.Ancestor{
			{ID: "1", Name: "Building"},
			{ID: "2", Name: "Roofing"},
			{ID: "3", Name: "Metal Sheets"},
		}},
		{"missing parent stops the walk", "4", []domain.Ancestor{{ID: "4", Name: "Orphan"}}},
		{"nameless record gets empty label", "5", []domain.Ancestor{
			{ID: "1", Name: "Building"},
			{ID: "5", Name: ""},
		}},
		{"unknown id", "nope", []domain.Ancestor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindPathToRoot(tt.id, records))
		})
	}
}

func TestFindPathToRoot_CycleTerminates(t *testing.T) {
	records := []domain.Category{cat("1", "A", "2", 0), cat("2", "B", "1", 0)}

	assert.Equal(t, []domain.Ancestor{{ID: "2", Name: "B"}, {ID: "1", Name: "A"}}, FindPathToRoot("1", records))
	assert.Equal(t, []domain.Ancestor{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}, FindPathToRoot("2", records))

	self := []domain.Category{cat("x", "X", "x", 0)}
	assert.Equal(t, []domain.Ancestor{{ID: "x", Name: "X"}}, FindPathToRoot("x", self))
}

func TestHoverPath(t *testing.T) {
	records := []domain.Category{
		cat("1", "Building", "", 0),
		cat("2", "Roofing", "1", 0),
		cat("3", "Metal Sheets", "2", 0),
	}

	assert.Equal(t, []string{"1", "2", "3"}, HoverPath("3", records))
	assert.Equal(t, []string{}, HoverPath("missing", records))
}

func TestIndex_Queries(t *testing.T) {
	idx := NewIndex([]domain.Category{
		cat("1", "A", "", 0),
		cat("2", "B", "1", 0),
		cat("3", "C", "2", 0),
		cat("4", "D", "", 0),
	})

	assert.Equal(t, 4, idx.Len())
	assert.True(t, idx.HasChildren("1"))
	assert.False(t, idx.HasChildren("3"))

	assert.True(t, idx.IsWithin("3", "1"))
	assert.True(t, idx.IsWithin("1", "1"))
	assert.False(t, idx.IsWithin("1", "3"))
	assert.False(t, idx.IsWithin("4", "1"))

	c, ok := idx.Get("2")
	assert.True(t, ok)
	assert.Equal(t, "B", c.Name)
}
