package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredMigrations(t *testing.T) {
	require.NotEmpty(t, migrations)

	seen := map[int]bool{}
	last := 0
	for _, m := range migrations {
		assert.False(t, seen[m.Version], "duplicate migration version %d", m.Version)
		seen[m.Version] = true
		assert.Greater(t, m.Version, last, "migrations must be sorted by version")
		last = m.Version

		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpScript)
	}
}
