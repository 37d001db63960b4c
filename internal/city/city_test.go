// File: internal/city/city_test.go
package city

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := make(map[string]bool)
	for _, c := range all {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
		assert.False(t, seen[c.ID], "duplicate city id %q", c.ID)
		seen[c.ID] = true
	}

	// All returns a copy; mutating it leaves the table intact.
	all[0].Name = "Mutated"
	assert.NotEqual(t, "Mutated", All()[0].Name)
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, "seattle", d.ID)
	assert.Equal(t, "Seattle", d.Name)
	assert.Equal(t, d, All()[0])
}

func TestByID(t *testing.T) {
	c, ok := ByID("tacoma")
	require.True(t, ok)
	assert.Equal(t, "Tacoma", c.Name)
	assert.Equal(t, "WA", c.State)

	_, ok = ByID("nowhere")
	assert.False(t, ok)
}
