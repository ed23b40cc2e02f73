package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_rebind(t *testing.T) {
	pg := &Store{postgres: true}
	lite := &Store{}

	query := "SELECT id FROM transactions WHERE type = ? AND date >= ? ORDER BY id"

	assert.Equal(t, "SELECT id FROM transactions WHERE type = $1 AND date >= $2 ORDER BY id", pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
}
