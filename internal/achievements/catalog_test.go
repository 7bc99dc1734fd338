package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog([]Definition{
		{ID: "first_lesson", Name: "First Steps", Description: "Complete your first lesson", Bonus: 10},
		{ID: "explorer", Name: "Explorer", Description: "Visit every section", Bonus: 30},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	d, ok := c.Lookup("explorer")
	require.True(t, ok)
	assert.Equal(t, 30, d.Bonus)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, "first_lesson", c.All()[0].ID)
}

func TestNewCatalog_Invalid(t *testing.T) {
	_, err := NewCatalog([]Definition{
		{ID: "a", Bonus: 1},
		{ID: "a", Bonus: 2},
		{ID: "", Bonus: 3},
		{ID: "neg", Bonus: -1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: duplicate id")
	assert.Contains(t, err.Error(), "entry 2: empty id")
	assert.Contains(t, err.Error(), "neg: negative bonus -1")
}

func TestCatalog_AllIsCopy(t *testing.T) {
	c, err := NewCatalog([]Definition{{ID: "a", Name: "A"}})
	require.NoError(t, err)

	all := c.All()
	all[0].Name = "changed"
	d, _ := c.Lookup("a")
	assert.Equal(t, "A", d.Name)
}
