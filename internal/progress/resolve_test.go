package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/state"
)

func TestResolveRoot(t *testing.T) {
	sections := []state.Section{
		{ID: 1, ParentID: 0, Number: 0},
		{ID: 2, ParentID: 0, Number: 1},
		{ID: 3, ParentID: 2, Number: 2},
		{ID: 4, ParentID: 3, Number: 3},
	}

	tests := []struct {
		name string
		id   int64
		want int64
	}{
		{"root resolves to itself", 1, 1},
		{"other root", 2, 2},
		{"child", 3, 2},
		{"grandchild", 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRoot(sections, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRoot_UnknownSection(t *testing.T) {
	_, err := ResolveRoot([]state.Section{{ID: 1}}, 42)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestResolveRoot_MissingParent(t *testing.T) {
	_, err := ResolveRoot([]state.Section{{ID: 5, ParentID: 9}}, 5)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestResolveRoot_Cycle(t *testing.T) {
	sections := []state.Section{
		{ID: 1, ParentID: 2},
		{ID: 2, ParentID: 3},
		{ID: 3, ParentID: 1},
	}
	_, err := ResolveRoot(sections, 1)
	assert.ErrorIs(t, err, ErrCyclicSection)

	_, err = ResolveRoot([]state.Section{{ID: 7, ParentID: 7}}, 7)
	assert.ErrorIs(t, err, ErrCyclicSection)
}

func TestTree_RootAlwaysHasNoParent(t *testing.T) {
	// A comb: each root has a chain of descendants of varying depth.
	var sections []state.Section
	next := int64(1)
	for root := 0; root < 5; root++ {
		rootID := next
		sections = append(sections, state.Section{ID: rootID})
		next++
		parent := rootID
		for depth := 0; depth < root; depth++ {
			sections = append(sections, state.Section{ID: next, ParentID: parent})
			parent = next
			next++
		}
	}

	tree := NewTree(sections)
	byID := map[int64]state.Section{}
	for _, s := range sections {
		byID[s.ID] = s
	}
	for _, s := range sections {
		root, err := tree.Root(s.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), byID[root].ParentID, "root of %d", s.ID)
	}
}
