package cattree

import (
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Category
		want    []shape
	}{
		{
			name:    "empty input",
			records: nil,
			want:    []shape{},
		},
		{
			name:    "single root",
			records: []domain.Category{cat("1", "A", "", 0)},
			want:    []shape{{ID: "1", Children: []shape{}}},
		},
		{
			name: "parent with two ordered children",
			records: []domain.Category{
				cat("1", "A", "", 0),
				cat("2", "B", "1", 0),
				cat("3", "C", "1", 1),
			},
			want: []shape{{ID: "1", Children: []shape{
				{ID: "2", Children: []shape{}},
				{ID: "3", Children: []shape{}},
			}}},
		},
		{
			name:    "orphan promoted to root",
			records: []domain.Category{cat("x", "X", "nonexistent", 0)},
			want:    []shape{{ID: "x", Children: []shape{}}},
		},
		{
			name:    "roots sorted by order",
			records: []domain.Category{cat("1", "A", "", 1), cat("2", "B", "", 0)},
			want: []shape{
				{ID: "2", Children: []shape{}},
				{ID: "1", Children: []shape{}},
			},
		},
		{
			name: "child listed before parent",
			records: []domain.Category{
				cat("3", "C", "2", 0),
				cat("2", "B", "1", 0),
				cat("1", "A", "", 0),
			},
			want: []shape{{ID: "1", Children: []shape{
				{ID: "2", Children: []shape{{ID: "3", Children: []shape{}}}},
			}}},
		},
		{
			name: "empty parent id is a root",
			records: []domain.Category{
				{ID: "1", Name: "A", ParentID: ptr("")},
			},
			want: []shape{{ID: "1", Children: []shape{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTree(tt.records)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, shapeOf(got)); diff != "" {
				t.Errorf("BuildTree() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildTree_TiesKeepInputOrder(t *testing.T) {
	records := []domain.Category{
		cat("root", "Root", "", 0),
		cat("c", "C", "root", 5),
		cat("a", "A", "root", 1),
		cat("b", "B", "root", 5),
		cat("d", "D", "root", 1),
	}

	roots := BuildTree(records)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"a", "d", "c", "b"}, ids(roots[0].Children))
}

func TestBuildTree_Idempotent(t *testing.T) {
	records := []domain.Category{
		cat("1", "Cement", "", 2),
		cat("2", "Portland", "1", 0),
		cat("3", "Roofing", "", 1),
		cat("4", "Tiles", "3", 0),
		cat("5", "Sheets", "3", 0),
		cat("6", "Orphan", "missing", 0),
	}

	first := BuildTree(records)
	second := BuildTree(records)

	assert.True(t, cmp.Equal(first, second), cmp.Diff(first, second))
}

func TestBuildTree_CompletenessAndDuplicates(t *testing.T) {
	records := []domain.Category{
		cat("1", "A", "", 0),
		cat("2", "B", "1", 0),
		cat("3", "C", "2", 0),
		cat("2", "B-updated", "", 3),
		cat("4", "D", "9", 0),
	}

	roots := BuildTree(records)

	seen := map[string]int{}
	for _, n := range Flatten(roots) {
		seen[n.ID]++
	}
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1, "4": 1}, seen)
	assert.Equal(t, 4, Count(roots))

	two := Find(roots, "2")
	require.NotNil(t, two)
	assert.Equal(t, "B-updated", two.Name)
	assert.Equal(t, []string{"3"}, ids(two.Children))
	assert.Equal(t, []string{"1", "4", "2"}, ids(roots))
}

func TestBuildTree_CyclesDoNotLoseNodes(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Category
		want    []shape
	}{
		{
			name:    "self reference",
			records: []domain.Category{cat("1", "A", "1", 0)},
			want:    []shape{{ID: "1", Children: []shape{}}},
		},
		{
			name:    "two node cycle",
			records: []domain.Category{cat("1", "A", "2", 0), cat("2", "B", "1", 0)},
			want: []shape{{ID: "1", Children: []shape{
				{ID: "2", Children: []shape{}},
			}}},
		},
		{
			name: "tail hanging off a cycle",
			records: []domain.Category{
				cat("1", "A", "2", 0),
				cat("2", "B", "3", 0),
				cat("3", "C", "2", 1),
			},
			want: []shape{{ID: "2", Children: []shape{
				{ID: "1", Children: []shape{}},
				{ID: "3", Children: []shape{}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTree(tt.records)
			if diff := cmp.Diff(tt.want, shapeOf(got)); diff != "" {
				t.Errorf("BuildTree() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// chain строит цепочку n категорий, где каждая следующая — ребёнок предыдущей.
// При loop корень ссылается на последнюю категорию, замыкая цепочку в цикл.
func chain(n int, loop bool) []domain.Category {
	records := make([]domain.Category, n)
	for i := range records {
		parent := ""
		if i > 0 {
			parent = strconv.Itoa(i - 1)
		} else if loop {
			parent = strconv.Itoa(n - 1)
		}
		records[i] = cat(strconv.Itoa(i), "C"+strconv.Itoa(i), parent, 0)
	}
	return records
}

func TestBuildTree_DeepChain(t *testing.T) {
	const depth = 50_000

	tests := []struct {
		name     string
		records  []domain.Category
		wantRoot string
	}{
		{
			name:     "parents first",
			records:  chain(depth, false),
			wantRoot: "0",
		},
		{
			name: "children first",
			records: func() []domain.Category {
				r := chain(depth, false)
				slices.Reverse(r)
				return r
			}(),
			wantRoot: "0",
		},
		{
			name: "whole chain is one cycle",
			records: func() []domain.Category {
				r := chain(depth, true)
				// первым во входных данных идёт середина цикла
				return append(r[depth/2:], r[:depth/2]...)
			}(),
			wantRoot: strconv.Itoa(depth / 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := time.Now()
			roots := BuildTree(tt.records)
			elapsed := time.Since(started)

			assert.Less(t, elapsed, time.Second)
			require.Len(t, roots, 1)
			assert.Equal(t, tt.wantRoot, roots[0].ID)
			assert.Equal(t, depth, Count(roots))

			levels := 1
			for n := roots[0]; len(n.Children) > 0; n = n.Children[0] {
				require.Len(t, n.Children, 1)
				levels++
			}
			assert.Equal(t, depth, levels)
		})
	}
}

func TestBuildTree_CycleCutPicksEarliestRecord(t *testing.T) {
	// цикл 1 -> 2 -> 3 -> 1, обход начинается с хвоста 4, входящего в цикл через 2
	records := []domain.Category{
		cat("4", "D", "2", 0),
		cat("3", "C", "1", 0),
		cat("1", "A", "2", 0),
		cat("2", "B", "3", 1),
	}

	want := []shape{{ID: "3", Children: []shape{
		{ID: "2", Children: []shape{
			{ID: "4", Children: []shape{}},
			{ID: "1", Children: []shape{}},
		}},
	}}}

	got := BuildTree(records)
	if diff := cmp.Diff(want, shapeOf(got)); diff != "" {
		t.Errorf("BuildTree() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTree_DoesNotMutateInput(t *testing.T) {
	image := "https://cdn.example/1.png"
	records := []domain.Category{
		{ID: "1", Name: "A", Image: &image, Ancestors: []domain.Ancestor{}},
		{ID: "2", Name: "B", ParentID: ptr("1"), Ancestors: []domain.Ancestor{{ID: "1", Name: "A"}}},
	}
	before := make([]domain.Category, len(records))
	for i := range records {
		before[i] = records[i].Clone()
	}

	roots := BuildTree(records)
	roots[0].Name = "changed"
	*roots[0].Image = "changed"
	roots[0].Children[0].Ancestors[0].Name = "changed"

	assert.Equal(t, before, records)
}
